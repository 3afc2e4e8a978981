package course

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service CourseService
}

func NewHandler(s CourseService) *Handler {
	return &Handler{service: s}
}

// optionalUpload reads a multipart file, returning nil when the request has none.
func optionalUpload(r *http.Request, field string) (*storage.Upload, error) {
	up, err := storage.FormUpload(r, field)
	if errors.Is(err, storage.ErrNoFile) {
		return nil, nil
	}
	return up, err
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, courses)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	courses, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, courses)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := util.UintParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

// Create accepts a multipart form with an optional "image" file, or JSON.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto CreateCourseDTO
	var image *storage.Upload
	if util.IsMultipart(r) {
		if image, err = optionalUpload(r, "image"); err != nil {
			log.WithError(err).Warn("Invalid multipart body")
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}
		dto.Title = r.FormValue("title")
		dto.Description = r.FormValue("description")
		dto.Brief = util.FormString(r, "brief")
		dto.Code = util.FormString(r, "code")
	} else if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	c, err := h.service.Create(r.Context(), actor, dto, image)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, c)
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

	var dto UpdateCourseDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	c, err := h.service.Update(r.Context(), actor, id, dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, c)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, map[string]string{
		"message": "course deleted successfully",
	})
}

func (h *Handler) AddModule(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

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

	file, err := optionalUpload(r, "file")
	if err != nil {
		log.WithError(err).Warn("Invalid multipart body")
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	dto := CreateModuleDTO{
		Title:       r.FormValue("title"),
		Description: util.FormString(r, "description"),
	}

	m, err := h.service.AddModule(r.Context(), actor, id, dto, file)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, m)
}

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
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

	modules, err := h.service.ListModules(r.Context(), actor, id)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, modules)
}
