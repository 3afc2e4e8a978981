package main

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/assignment"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/enrollment"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/schema"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

const seedPassword = "password123"

func main() {
	config.Init()
	ctx := context.Background()

	if err := config.Connect(ctx, config.Settings().DatabaseDSN); err != nil {
		config.Logger.WithError(err).Fatal("failed to connect to DB")
	}
	db := config.DB.WithContext(ctx)

	if err := schema.Migrate(db); err != nil {
		config.Logger.WithError(err).Fatal("failed to migrate DB")
	}
	if err := seed(db); err != nil {
		config.Logger.WithError(err).Fatal("seed failed")
	}
	config.Logger.Infof("Seed complete, every user has password %q", seedPassword)
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		models := schema.Models()
		for i := len(models) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
				return err
			}
		}

		hash, err := user.HashPassword(seedPassword)
		if err != nil {
			return err
		}
		instructor := &user.User{Name: "Ada Instructor", Email: "instructor@example.com", PasswordHash: hash, Role: access.Instructor}
		learner := &user.User{Name: "Linus Learner", Email: "learner@example.com", PasswordHash: hash, Role: access.Learner}
		if err := tx.Create([]*user.User{instructor, learner}).Error; err != nil {
			return err
		}

		code := "CS101"
		c := &course.Course{
			Title:        "Introduction to Programming",
			Description:  "Variables, control flow and functions.",
			Code:         &code,
			InstructorID: instructor.ID,
		}
		if err := tx.Omit("Instructor").Create(c).Error; err != nil {
			return err
		}

		semester := "2026.2"
		if err := tx.Omit("Learner", "Course").Create(&enrollment.Enrollment{
			LearnerID: learner.ID,
			CourseID:  c.ID,
			Semester:  &semester,
			Status:    enrollment.DefaultStatus,
		}).Error; err != nil {
			return err
		}

		due := time.Now().UTC().AddDate(0, 0, 14)
		if err := tx.Omit("Course").Create(&assignment.Assignment{
			CourseID:    c.ID,
			Title:       "Hello, world",
			Description: "Submit a PDF with your first program and its output.",
			DueDate:     &due,
		}).Error; err != nil {
			return err
		}

		q := &quiz.Quiz{
			CourseID: c.ID,
			Title:    "Basics check",
			DueDate:  &due,
			Questions: []quiz.Question{
				question(1, "Which keyword declares a variable in Go?", "B", "let", "var", "dim", "def"),
				question(2, "What does len(\"abc\") return?", "C", "1", "2", "3", "4"),
			},
		}
		return tx.Omit("Course").Create(q).Error
	})
}

func question(order int, text, answer string, opts ...string) quiz.Question {
	return quiz.Question{
		Question:      text,
		OptionA:       opts[0],
		OptionB:       opts[1],
		OptionC:       opts[2],
		OptionD:       opts[3],
		CorrectAnswer: quiz.Option(strings.ToUpper(answer)),
		Order:         order,
	}
}
