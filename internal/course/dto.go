package course

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type CreateCourseDTO struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Brief       *string `json:"brief"`
	Code        *string `json:"code"`
}

type UpdateCourseDTO struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description" validate:"omitempty,min=1"`
	Brief       *string `json:"brief"`
	Code        *string `json:"code"`
}

type CreateModuleDTO struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
}

type AssignmentSummary struct {
	ID       uuid.UUID  `json:"id"`
	CourseID uint       `json:"-"`
	Title    string     `json:"title"`
	Code     *string    `json:"code"`
	Brief    *string    `json:"brief"`
	DueDate  *time.Time `json:"dueDate"`
}

type QuizSummary struct {
	ID          uuid.UUID `json:"id"`
	CourseID    uint      `json:"-"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Duration    *int      `json:"duration"`
}

type Counts struct {
	Enrollments int64 `json:"enrollments"`
	Assignments int64 `json:"assignments"`
	Quizzes     int64 `json:"quizzes"`
}

type CourseResponse struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Brief        *string             `json:"brief"`
	Code         *string             `json:"code"`
	ImageURL     *string             `json:"imageUrl"`
	InstructorID uint                `json:"instructorId"`
	Instructor   *user.Summary       `json:"instructor,omitempty"`
	Counts       *Counts             `json:"counts,omitempty"`
	Assignments  []AssignmentSummary `json:"assignments,omitempty"`
	Quizzes      []QuizSummary       `json:"quizzes,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func ToResponse(c *Course) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Brief:        c.Brief,
		Code:         c.Code,
		ImageURL:     c.ImageURL,
		InstructorID: c.InstructorID,
		Instructor:   user.ToSummary(&c.Instructor),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
