package quiz

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/classroom-lms/internal/course"
	"github.com/saulo-duarte/classroom-lms/internal/user"
)

type Quiz struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uint          `gorm:"not null;index" json:"courseId"`
	Course      course.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string        `gorm:"type:varchar(255);not null" json:"title"`
	Description *string       `gorm:"type:text" json:"description"`
	Duration    *int          `json:"duration"`
	DueDate     *time.Time    `json:"dueDate"`
	Questions   []Question    `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	Submissions []Submission  `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (Quiz) TableName() string { return "quizzes" }

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// PastDue reports whether now is after the quiz deadline.
func (q *Quiz) PastDue(now time.Time) bool {
	return q.DueDate != nil && now.After(*q.DueDate)
}

type Question struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_question_quiz_order" json:"quizId"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	OptionA       string    `gorm:"type:text;not null" json:"optionA"`
	OptionB       string    `gorm:"type:text;not null" json:"optionB"`
	OptionC       string    `gorm:"type:text;not null" json:"optionC"`
	OptionD       string    `gorm:"type:text;not null" json:"optionD"`
	CorrectAnswer Option    `gorm:"type:varchar(1);not null" json:"correctAnswer"`
	Order         int       `gorm:"column:position;not null;uniqueIndex:idx_question_quiz_order" json:"order"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Submission is a learner's single graded attempt at a quiz.
type Submission struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_submission_quiz_learner" json:"quizId"`
	LearnerID      uint      `gorm:"not null;uniqueIndex:idx_quiz_submission_quiz_learner;index" json:"learnerId"`
	Learner        user.User `gorm:"foreignKey:LearnerID;constraint:OnDelete:CASCADE" json:"-"`
	Score          float64   `gorm:"not null" json:"score"`
	CorrectCount   int       `gorm:"not null" json:"correctCount"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	SubmittedAt    time.Time `gorm:"not null" json:"submittedAt"`
	Answers        []Answer  `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Submission) TableName() string { return "quiz_submissions" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Answer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID   uuid.UUID `gorm:"type:uuid;not null;index" json:"submissionId"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"questionId"`
	Question       Question  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	SelectedAnswer Option    `gorm:"type:varchar(1);not null" json:"selectedAnswer"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`
}

func (Answer) TableName() string { return "quiz_answers" }

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
