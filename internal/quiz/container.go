package quiz

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
)

type QuizContainer struct {
	Service QuizService
	Handler *Handler
}

func NewQuizContainer(db *gorm.DB, courses CourseLookup, enrollments EnrollmentReader, policy *access.Policy, opts ...ServiceOption) *QuizContainer {
	repo := NewQuizRepository(db)
	service := NewQuizService(repo, courses, enrollments, policy, opts...)
	handler := NewHandler(service)

	return &QuizContainer{
		Service: service,
		Handler: handler,
	}
}
