package user

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type Handler struct {
	service      UserService
	cookieDomain string
}

func NewHandler(s UserService, cookieDomain string) *Handler {
	return &Handler{service: s, cookieDomain: cookieDomain}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Register(r.Context(), dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.Login(r.Context(), dto)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "jwt",
		Value:    resp.Token,
		Path:     "/",
		Domain:   h.cookieDomain,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.GetProfile(r.Context(), actor)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

// UpdateProfile accepts either a JSON body or a multipart form with an
// optional "image" file.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := config.WithContext(r.Context())

	actor, err := auth.ActorFromContext(r.Context())
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	var dto UpdateProfileDTO
	var image *storage.Upload
	if util.IsMultipart(r) {
		image, err = storage.FormUpload(r, "image")
		if err != nil && !errors.Is(err, storage.ErrNoFile) {
			log.WithError(err).Warn("Invalid multipart body")
			http.Error(w, "invalid multipart body", http.StatusBadRequest)
			return
		}
		dto.Name = util.FormString(r, "name")
		dto.Email = util.FormString(r, "email")
		dto.Phone = util.FormString(r, "phone")
		dto.Password = util.FormString(r, "password")
	} else if err := util.DecodeJSON(r, &dto); err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), actor, dto, image)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}

func (h *Handler) GetInstructor(w http.ResponseWriter, r *http.Request) {
	id, err := util.UintParam(r, "id")
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}

	resp, err := h.service.GetInstructor(r.Context(), id)
	if err != nil {
		config.WriteError(r.Context(), w, err)
		return
	}
	config.JSON(w, http.StatusOK, resp)
}
