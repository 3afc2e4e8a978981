package assignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type Assignment struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uint          `gorm:"not null;index" json:"courseId"`
	Course      course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Code        *string       `gorm:"type:varchar(50)" json:"code"`
	Brief       *string       `gorm:"type:text" json:"brief"`
	DueDate     *time.Time    `json:"dueDate"`
	Submissions []Submission  `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type Submission struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_assignment_learner" json:"assignmentId"`
	LearnerID    uint             `gorm:"not null;uniqueIndex:idx_submission_assignment_learner;index" json:"learnerId"`
	Learner      user.User        `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	FileURL      string           `gorm:"column:file_url;not null" json:"fileUrl"`
	Status       SubmissionStatus `gorm:"type:varchar(20);not null;default:'SUBMITTED'" json:"status"`
	Grade        *float64         `json:"grade"`
	Feedback     *string          `gorm:"type:text" json:"feedback"`
	SubmittedAt  time.Time        `gorm:"not null" json:"submittedAt"`
	GradedAt     *time.Time       `json:"gradedAt"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
