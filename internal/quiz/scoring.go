package quiz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/saulo-duarte/classroom-lms/internal/apperror"
)

// GradedAnswer is a submitted answer checked against its question.
type GradedAnswer struct {
	Question  Question
	Selected  Option
	IsCorrect bool
}

type Result struct {
	Score          float64
	CorrectCount   int
	TotalQuestions int
	Answers        []GradedAnswer
}

// Score grades a full answer set. Every question must be answered exactly
// once and no answer may reference a question outside the quiz. Graded
// answers follow the order of questions.
func Score(questions []Question, answers []AnswerDTO) (Result, error) {
	if len(questions) == 0 {
		return Result{}, apperror.Validation("quiz has no questions")
	}

	index := make(map[uuid.UUID]int, len(questions))
	for i := range questions {
		index[questions[i].ID] = i
	}

	selected := make(map[uuid.UUID]Option, len(answers))
	for i, a := range answers {
		field := fmt.Sprintf("answers[%d].questionId", i)
		if _, ok := index[a.QuestionID]; !ok {
			return Result{}, apperror.Validation(
				"answer references a question outside this quiz",
				apperror.FieldError{Field: field, Error: "unknown question"},
			)
		}
		if _, dup := selected[a.QuestionID]; dup {
			return Result{}, apperror.Validation(
				"each question must be answered exactly once",
				apperror.FieldError{Field: field, Error: "duplicate answer"},
			)
		}
		selected[a.QuestionID] = a.SelectedAnswer
	}

	if len(selected) != len(questions) {
		return Result{}, apperror.Validation("all questions must be answered")
	}

	res := Result{
		TotalQuestions: len(questions),
		Answers:        make([]GradedAnswer, 0, len(questions)),
	}
	for _, q := range questions {
		opt := selected[q.ID]
		ok := opt == q.CorrectAnswer
		if ok {
			res.CorrectCount++
		}
		res.Answers = append(res.Answers, GradedAnswer{Question: q, Selected: opt, IsCorrect: ok})
	}
	res.Score = float64(res.CorrectCount) / float64(res.TotalQuestions) * 100
	return res, nil
}
