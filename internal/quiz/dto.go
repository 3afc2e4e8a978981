package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/user"
	util "github.com/saulo-duarte/classroom-lms/internal/utils"
)

type CreateQuestionDTO struct {
	Question      string `json:"question" validate:"required"`
	OptionA       string `json:"optionA" validate:"required"`
	OptionB       string `json:"optionB" validate:"required"`
	OptionC       string `json:"optionC" validate:"required"`
	OptionD       string `json:"optionD" validate:"required"`
	CorrectAnswer Option `json:"correctAnswer" validate:"required,option"`
	Order         int    `json:"order" validate:"required,gte=1"`
}

type CreateQuizDTO struct {
	CourseID    uint                `json:"courseId" validate:"required"`
	Title       string              `json:"title" validate:"required"`
	Description *string             `json:"description"`
	Duration    *int                `json:"duration" validate:"omitempty,gte=1"`
	DueDate     *util.LocalDateTime `json:"dueDate"`
	Questions   []CreateQuestionDTO `json:"questions" validate:"required,min=1,dive"`
}

// UpdateQuizDTO is a partial update. Omitted fields keep their value; the
// Clear flags reset the optional fields to null.
type UpdateQuizDTO struct {
	Title            *string             `json:"title" validate:"omitempty,min=1"`
	Description      *string             `json:"description"`
	Duration         *int                `json:"duration" validate:"omitempty,gte=1"`
	DueDate          *util.LocalDateTime `json:"dueDate"`
	ClearDescription bool                `json:"clearDescription"`
	ClearDuration    bool                `json:"clearDuration"`
	ClearDueDate     bool                `json:"clearDueDate"`
}

// conflicts lists fields that are both set and cleared.
func (d UpdateQuizDTO) conflicts() []apperror.FieldError {
	var out []apperror.FieldError
	check := func(field string, set, clear bool) {
		if set && clear {
			out = append(out, apperror.FieldError{Field: field, Error: "cannot be set and cleared together"})
		}
	}
	check("description", d.Description != nil, d.ClearDescription)
	check("duration", d.Duration != nil, d.ClearDuration)
	check("dueDate", d.DueDate != nil, d.ClearDueDate)
	return out
}

type AnswerDTO struct {
	QuestionID     uuid.UUID `json:"questionId" validate:"required"`
	SelectedAnswer Option    `json:"selectedAnswer" validate:"required,option"`
}

// SubmitQuizDTO carries one answer per question. Completeness is checked by
// Score, not here.
type SubmitQuizDTO struct {
	Answers []AnswerDTO `json:"answers" validate:"dive"`
}

type CourseRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type QuizRef struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
}

// QuestionView is a question as a learner sees it while taking a quiz.
type QuestionView struct {
	ID       uuid.UUID `json:"id"`
	Order    int       `json:"order"`
	Question string    `json:"question"`
	OptionA  string    `json:"optionA"`
	OptionB  string    `json:"optionB"`
	OptionC  string    `json:"optionC"`
	OptionD  string    `json:"optionD"`
}

// QuestionResponse is a question with its answer key. CorrectAnswer is only
// set for the owning instructor.
type QuestionResponse struct {
	QuestionView
	CorrectAnswer *Option `json:"correctAnswer,omitempty"`
}

type SubmissionSummary struct {
	ID          uuid.UUID `json:"id"`
	Score       float64   `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type QuizResponse struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    uint       `json:"courseId"`
	Course      *CourseRef `json:"course,omitempty"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Duration    *int       `json:"duration"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	TotalQuestions *int64 `json:"totalQuestions,omitempty"`

	// Learner view.
	IsCompleted *bool              `json:"isCompleted,omitempty"`
	Submission  *SubmissionSummary `json:"submission,omitempty"`

	// Instructor view.
	TotalSubmissions *int64 `json:"totalSubmissions,omitempty"`
}

type QuizDetail struct {
	QuizResponse
	Questions []QuestionResponse `json:"questions"`
}

// DashboardItem is one row of the learner's quiz overview.
type DashboardItem struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	CourseID      uint       `json:"courseId"`
	CourseName    string     `json:"courseName"`
	QuestionCount int64      `json:"questionCount"`
	IsCompleted   bool       `json:"isCompleted"`
	Score         *float64   `json:"score"`
	Deadline      *time.Time `json:"deadline"`
}

// AnswerReview shows a graded answer next to its question and answer key.
type AnswerReview struct {
	QuestionID     uuid.UUID `json:"questionId"`
	Question       string    `json:"question"`
	OptionA        string    `json:"optionA"`
	OptionB        string    `json:"optionB"`
	OptionC        string    `json:"optionC"`
	OptionD        string    `json:"optionD"`
	SelectedAnswer Option    `json:"selectedAnswer"`
	CorrectAnswer  Option    `json:"correctAnswer"`
	IsCorrect      bool      `json:"isCorrect"`
}

type SubmissionResponse struct {
	ID             uuid.UUID      `json:"id"`
	Quiz           QuizRef        `json:"quiz"`
	LearnerID      uint           `json:"learnerId"`
	Learner        *user.Summary  `json:"learner,omitempty"`
	Score          float64        `json:"score"`
	CorrectCount   int            `json:"correctCount"`
	TotalQuestions int            `json:"totalQuestions"`
	SubmittedAt    time.Time      `json:"submittedAt"`
	Answers        []AnswerReview `json:"answers,omitempty"`
}

type SubmissionsResponse struct {
	Quiz             QuizRef              `json:"quiz"`
	TotalSubmissions int                  `json:"totalSubmissions"`
	Submissions      []SubmissionResponse `json:"submissions"`
}

func toResponse(q *Quiz) QuizResponse {
	resp := QuizResponse{
		ID:          q.ID,
		CourseID:    q.CourseID,
		Title:       q.Title,
		Description: q.Description,
		Duration:    q.Duration,
		DueDate:     q.DueDate,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	if q.Course.ID != 0 {
		resp.Course = &CourseRef{ID: q.Course.ID, Title: q.Course.Title}
	}
	return resp
}

func toRef(q *Quiz) QuizRef {
	return QuizRef{ID: q.ID, Title: q.Title, Description: q.Description}
}

func toView(q *Question) QuestionView {
	return QuestionView{
		ID:       q.ID,
		Order:    q.Order,
		Question: q.Question,
		OptionA:  q.OptionA,
		OptionB:  q.OptionB,
		OptionC:  q.OptionC,
		OptionD:  q.OptionD,
	}
}

// toDetail renders the quiz with its questions. The answer key is included
// only when withKey is set.
func toDetail(q *Quiz, withKey bool) *QuizDetail {
	d := &QuizDetail{
		QuizResponse: toResponse(q),
		Questions:    make([]QuestionResponse, 0, len(q.Questions)),
	}
	n := int64(len(q.Questions))
	d.TotalQuestions = &n
	for i := range q.Questions {
		qr := QuestionResponse{QuestionView: toView(&q.Questions[i])}
		if withKey {
			key := q.Questions[i].CorrectAnswer
			qr.CorrectAnswer = &key
		}
		d.Questions = append(d.Questions, qr)
	}
	return d
}

func toSummary(s *Submission) *SubmissionSummary {
	if s == nil {
		return nil
	}
	return &SubmissionSummary{ID: s.ID, Score: s.Score, SubmittedAt: s.SubmittedAt}
}

func review(a *Answer) AnswerReview {
	return AnswerReview{
		QuestionID:     a.QuestionID,
		Question:       a.Question.Question,
		OptionA:        a.Question.OptionA,
		OptionB:        a.Question.OptionB,
		OptionC:        a.Question.OptionC,
		OptionD:        a.Question.OptionD,
		SelectedAnswer: a.SelectedAnswer,
		CorrectAnswer:  a.Question.CorrectAnswer,
		IsCorrect:      a.IsCorrect,
	}
}

// toSubmissionResponse renders a submission. Answers must have their
// Question loaded to be included.
func toSubmissionResponse(s *Submission, q *Quiz) SubmissionResponse {
	resp := SubmissionResponse{
		ID:             s.ID,
		Quiz:           toRef(q),
		LearnerID:      s.LearnerID,
		Learner:        user.ToSummary(&s.Learner),
		Score:          s.Score,
		CorrectCount:   s.CorrectCount,
		TotalQuestions: s.TotalQuestions,
		SubmittedAt:    s.SubmittedAt,
	}
	for i := range s.Answers {
		resp.Answers = append(resp.Answers, review(&s.Answers[i]))
	}
	return resp
}
