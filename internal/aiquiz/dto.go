package aiquiz

import "github.com/saulo-duarte/classroom-lms/internal/quiz"

const (
	defaultCount = 3
	maxCount     = 10
)

type DraftRequest struct {
	Topic      string `json:"topic" validate:"required"`
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count      int    `json:"count"`
}

// count returns the number of drafts to ask for, between 1 and maxCount.
func (r DraftRequest) count() int {
	switch {
	case r.Count <= 0:
		return defaultCount
	case r.Count > maxCount:
		return maxCount
	}
	return r.Count
}

// Draft is a generated question as the model returns it.
type Draft struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

type DraftResponse struct {
	Topic     string                   `json:"topic"`
	Questions []quiz.CreateQuestionDTO `json:"questions"`
}
