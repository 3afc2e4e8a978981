package assignment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/course/{courseId}", h.ListByCourse)
	r.Get("/submission/{id}", h.GetSubmission)
	r.Patch("/submission/{id}/grade", h.Grade)
	r.Patch("/submission/{id}/reject", h.Reject)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/submit", h.Submit)
	r.Get("/{id}/submissions", h.ListSubmissions)
	return r
}
