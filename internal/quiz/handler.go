package quiz

import (
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service QuizService
}

func NewHandler(s QuizService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto CreateQuizDTO
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

func (h *Handler) ListForLearner(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateQuizDTO
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
		"message": "quiz deleted successfully",
	})
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var dto SubmitQuizDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Submit(r.Context(), actor, id, dto)
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
