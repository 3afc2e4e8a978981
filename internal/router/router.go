package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saulo-duarte/classroom-lms/internal/aiquiz"
	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/auth"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/middlewares"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type RouterConfig struct {
	UserHandler       *user.Handler
	AuthHandler       *auth.Handler
	CourseHandler     *course.Handler
	EnrollmentHandler *enrollment.Handler
	AssignmentHandler *assignment.Handler
	QuizHandler       *quiz.Handler
	AIQuizHandler     *aiquiz.Handler
	UploadDir         string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.UploadDir != "" {
		files := http.StripPrefix(storage.URLPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get(storage.URLPrefix+"/*", files.ServeHTTP)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Mount("/", user.AuthRoutes(cfg.UserHandler))
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/courses", course.Routes(cfg.CourseHandler))
		r.Mount("/enrollments", enrollment.Routes(cfg.EnrollmentHandler))
		r.Mount("/assignments", assignment.Routes(cfg.AssignmentHandler))

		r.Route("/quizzes", func(r chi.Router) {
			r.Mount("/drafts", aiquiz.Routes(cfg.AIQuizHandler))
			r.Mount("/", quiz.Routes(cfg.QuizHandler))
		})
	})
	return r
}
