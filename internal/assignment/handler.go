package assignment

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service AssignmentService
}

func NewHandler(s AssignmentService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.List(r.Context(), actor)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) ListByCourse(w http.ResponseWriter, r *http.Request) {
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

	resp, err := h.service.ListByCourse(r.Context(), actor, courseID)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto CreateAssignmentDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Create(r.Context(), actor, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Get(r.Context(), actor, id)
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
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto UpdateAssignmentDTO
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

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "assignment deleted successfully",
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	file, err := storage.FormUpload(r, "file")
	if err != nil && !errors.Is(err, storage.ErrNoFile) {
		log.WithError(err).Warn("Invalid multipart body")
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Submit(r.Context(), actor, id, file)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.ListSubmissions(r.Context(), actor, id)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.GetSubmission(r.Context(), actor, id)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto GradeDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Grade(r.Context(), actor, id, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	id, err := util.UUIDParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto RejectDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Reject(r.Context(), actor, id, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
