package assignment

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
)

type AssignmentContainer struct {
	Service AssignmentService
	Handler *Handler
}

func NewAssignmentContainer(db *gorm.DB, courses CourseLookup, enrollments EnrollmentReader, policy *access.Policy, store storage.Store) *AssignmentContainer {
	repo := NewAssignmentRepository(db)
	service := NewAssignmentService(repo, courses, enrollments, policy, store)
	handler := NewHandler(service)

	return &AssignmentContainer{
		Service: service,
		Handler: handler,
	}
}
