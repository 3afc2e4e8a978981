package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lms/internal/user"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type CreateAssignmentDTO struct {
	CourseID    uint                `json:"courseId" validate:"required"`
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description" validate:"required"`
	Code        *string             `json:"code"`
	Brief       *string             `json:"brief"`
	DueDate     *util.LocalDateTime `json:"dueDate"`
}

type UpdateAssignmentDTO struct {
	Title       *string             `json:"title" validate:"omitempty,min=1"`
	Description *string             `json:"description" validate:"omitempty,min=1"`
	Code        *string             `json:"code"`
	Brief       *string             `json:"brief"`
	DueDate     *util.LocalDateTime `json:"dueDate"`
}

type GradeDTO struct {
	Grade    *float64 `json:"grade" validate:"required,gte=0,lte=100"`
	Feedback *string  `json:"feedback"`
}

type RejectDTO struct {
	Feedback string `json:"feedback" validate:"required"`
}

type CourseRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type SubmissionResponse struct {
	ID           uuid.UUID        `json:"id"`
	AssignmentID uuid.UUID        `json:"assignmentId"`
	LearnerID    uint             `json:"learnerId"`
	Learner      *user.Summary    `json:"learner,omitempty"`
	FileURL      string           `json:"fileUrl"`
	Status       SubmissionStatus `json:"status"`
	Grade        *float64         `json:"grade"`
	Feedback     *string          `json:"feedback"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	GradedAt     *time.Time       `json:"gradedAt"`
}

type AssignmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uint       `json:"courseId"`
	Course      *CourseRef `json:"course,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Code        *string    `json:"code"`
	Brief       *string    `json:"brief"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Learner view.
	IsSubmitted *bool               `json:"isSubmitted,omitempty"`
	Submission  *SubmissionResponse `json:"submission,omitempty"`

	// Instructor view.
	TotalSubmissions *int64               `json:"totalSubmissions,omitempty"`
	Submissions      []SubmissionResponse `json:"submissions,omitempty"`
}

type SubmissionsResponse struct {
	Assignment       AssignmentResponse   `json:"assignment"`
	TotalSubmissions int                  `json:"totalSubmissions"`
	Submissions      []SubmissionResponse `json:"submissions"`
}

func toSubmissionResponse(s *Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		LearnerID:    s.LearnerID,
		Learner:      user.ToSummary(&s.Learner),
		FileURL:      s.FileURL,
		Status:       s.Status,
		Grade:        s.Grade,
		Feedback:     s.Feedback,
		SubmittedAt:  s.SubmittedAt,
		GradedAt:     s.GradedAt,
	}
}

func toResponse(a *Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:          a.ID,
		CourseID:    a.CourseID,
		Title:       a.Title,
		Description: a.Description,
		Code:        a.Code,
		Brief:       a.Brief,
		DueDate:     a.DueDate,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Course.ID != 0 {
		resp.Course = &CourseRef{ID: a.Course.ID, Title: a.Course.Title}
	}
	return resp
}

// withLearnerSubmission annotates resp with the learner's own submission, if any.
func withLearnerSubmission(resp AssignmentResponse, s *Submission) AssignmentResponse {
	submitted := s != nil
	resp.IsSubmitted = &submitted
	if s != nil {
		sr := toSubmissionResponse(s)
		resp.Submission = &sr
	}
	return resp
}
