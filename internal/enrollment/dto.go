package enrollment

import (
	"time"

	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type EnrollDTO struct {
	CourseID uint    `json:"courseId" validate:"required"`
	Semester *string `json:"semester"`
}

type UpdateEnrollmentDTO struct {
	Semester *string `json:"semester"`
	Status   *string `json:"status" validate:"omitempty,min=1"`
}

type CourseSummary struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Code       *string       `json:"code"`
	ImageURL   *string       `json:"imageUrl"`
	Instructor *user.Summary `json:"instructor,omitempty"`
}

type EnrollmentResponse struct {
	ID        uint           `json:"id"`
	LearnerID uint           `json:"learnerId"`
	CourseID  uint           `json:"courseId"`
	Semester  *string        `json:"semester"`
	Status    string         `json:"status"`
	Course    *CourseSummary `json:"course,omitempty"`
	Learner   *user.Summary  `json:"learner,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toCourseSummary(c *course.Course) *CourseSummary {
	if c == nil || c.ID == 0 {
		return nil
	}
	return &CourseSummary{
		ID:         c.ID,
		Title:      c.Title,
		Code:       c.Code,
		ImageURL:   c.ImageURL,
		Instructor: user.ToSummary(&c.Instructor),
	}
}

func toResponse(e *Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:        e.ID,
		LearnerID: e.LearnerID,
		CourseID:  e.CourseID,
		Semester:  e.Semester,
		Status:    e.Status,
		Course:    toCourseSummary(&e.Course),
		Learner:   user.ToSummary(&e.Learner),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
