package enrollment

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Enroll)
	r.Get("/me", h.ListMine)
	r.Patch("/{id}", h.Update)
	r.Delete("/course/{courseId}", h.Unenroll)
	r.Get("/course/{courseId}", h.ListForCourse)
	return r
}
