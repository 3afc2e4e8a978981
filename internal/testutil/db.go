package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/schema"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

// DB returns a migrated in-memory sqlite database private to the test.
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)

	db, err := config.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, schema.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role access.Role) *user.User {
	t.Helper()
	u := &user.User{
		Name:         name,
		Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateCourse(t *testing.T, db *gorm.DB, instructor *user.User, title string) *course.Course {
	t.Helper()
	c := &course.Course{
		Title:        title,
		Description:  title + " description",
		InstructorID: instructor.ID,
	}
	require.NoError(t, db.Omit("Instructor").Create(c).Error)
	return c
}

func Enroll(t *testing.T, db *gorm.DB, learner *user.User, c *course.Course) *enrollment.Enrollment {
	t.Helper()
	e := &enrollment.Enrollment{
		LearnerID: learner.ID,
		CourseID:  c.ID,
		Status:    enrollment.DefaultStatus,
	}
	require.NoError(t, db.Omit("Learner", "Course").Create(e).Error)
	return e
}

// Actor builds the access actor for u.
func Actor(u *user.User) access.Actor {
	return access.Actor{ID: u.ID, Role: u.Role}
}
