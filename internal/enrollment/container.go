package enrollment

import "gorm.io/gorm"

type EnrollmentContainer struct {
	Repo    EnrollmentRepository
	Service EnrollmentService
	Handler *Handler
}

func NewEnrollmentContainer(db *gorm.DB, courses CourseLookup) *EnrollmentContainer {
	repo := NewEnrollmentRepository(db)
	service := NewEnrollmentService(repo, courses)
	handler := NewHandler(service)

	return &EnrollmentContainer{
		Repo:    repo,
		Service: service,
		Handler: handler,
	}
}
