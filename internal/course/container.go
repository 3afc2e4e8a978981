package course

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/storage"
)

type CourseContainer struct {
	Service CourseService
	Handler *Handler
}

func NewCourseContainer(db *gorm.DB, store storage.Store, policy *access.Policy) *CourseContainer {
	repo := NewCourseRepository(db)
	service := NewCourseService(repo, store, policy)
	handler := NewHandler(service)

	return &CourseContainer{
		Service: service,
		Handler: handler,
	}
}
