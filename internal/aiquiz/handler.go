package aiquiz

import (
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Draft(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var req DraftRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Draft(r.Context(), actor, req)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}
