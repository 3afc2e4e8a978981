package enrollment

import (
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service EnrollmentService
}

func NewHandler(s EnrollmentService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto EnrollDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Enroll(r.Context(), actor, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.ListForLearner(r.Context(), actor)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UintParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto UpdateEnrollmentDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Update(r.Context(), actor, id, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	courseID, err := util.UintParam(r, "courseId")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	if err := h.service.Unenroll(r.Context(), actor, courseID); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "unenrolled successfully",
	})
}

func (h *Handler) ListForCourse(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	courseID, err := util.UintParam(r, "courseId")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.ListForCourse(r.Context(), actor, courseID)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
