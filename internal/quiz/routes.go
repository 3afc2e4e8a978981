package quiz

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/student", h.ListForLearner)
	r.Get("/course/{courseId}", h.ListByCourse)
	r.Get("/submission/{id}", h.GetSubmission)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/submit", h.Submit)
	r.Get("/{id}/submissions", h.ListSubmissions)
	return r
}
