package schema

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

// Models lists every persisted entity, parents before children.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&course.Course{},
		&course.Module{},
		&enrollment.Enrollment{},
		&assignment.Assignment{},
		&assignment.Submission{},
		&quiz.Quiz{},
		&quiz.Question{},
		&quiz.Submission{},
		&quiz.Answer{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
