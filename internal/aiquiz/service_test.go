package aiquiz_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/aiquiz"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
)

type fakeProvider struct {
	drafts []aiquiz.Draft
	err    error
	prompt string
}

func (p *fakeProvider) SendPrompt(_ context.Context, _, user string) ([]aiquiz.Draft, error) {
	p.prompt = user
	return p.drafts, p.err
}

var instructor = access.Actor{ID: 1, Role: access.Instructor}

func valid(n int) aiquiz.Draft {
	return aiquiz.Draft{
		Question:      fmt.Sprintf("Question %d?", n),
		Options:       []string{"A) one", "B) two", "C) three", "D) four"},
		CorrectAnswer: "B",
	}
}

func drafts(n int) []aiquiz.Draft {
	out := make([]aiquiz.Draft, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, valid(i))
	}
	return out
}

func TestDraft(t *testing.T) {
	ctx := context.Background()

	t.Run("MapsDraftsToQuestions", func(t *testing.T) {
		p := &fakeProvider{drafts: drafts(2)}
		got, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Sorting", Count: 2})
		require.NoError(t, err)

		assert.Equal(t, "Sorting", got.Topic)
		require.Len(t, got.Questions, 2)
		q := got.Questions[0]
		assert.Equal(t, "Question 1?", q.Question)
		assert.Equal(t, "one", q.OptionA)
		assert.Equal(t, "four", q.OptionD)
		assert.Equal(t, quiz.OptionB, q.CorrectAnswer)
		assert.Equal(t, 1, q.Order)
		assert.Equal(t, 2, got.Questions[1].Order)
	})

	t.Run("DefaultCount", func(t *testing.T) {
		p := &fakeProvider{drafts: drafts(6)}
		got, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Graphs"})
		require.NoError(t, err)
		assert.Len(t, got.Questions, 3)
		assert.Contains(t, p.prompt, "Write 3 ")
	})

	t.Run("CountCapped", func(t *testing.T) {
		p := &fakeProvider{drafts: drafts(15)}
		got, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Graphs", Count: 50})
		require.NoError(t, err)
		assert.Len(t, got.Questions, 10)
		assert.Contains(t, p.prompt, "Write 10 ")
	})

	t.Run("ExtraDraftsTruncated", func(t *testing.T) {
		p := &fakeProvider{drafts: drafts(5)}
		got, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Trees", Count: 2})
		require.NoError(t, err)
		require.Len(t, got.Questions, 2)
		assert.Equal(t, "Question 2?", got.Questions[1].Question)
	})

	t.Run("InvalidDraftsDropped", func(t *testing.T) {
		badKey := valid(1)
		badKey.CorrectAnswer = "E"
		threeOptions := valid(2)
		threeOptions.Options = threeOptions.Options[:3]
		noQuestion := valid(3)
		noQuestion.Question = "  "
		lowercase := valid(4)
		lowercase.CorrectAnswer = " b "

		p := &fakeProvider{drafts: []aiquiz.Draft{badKey, threeOptions, noQuestion, lowercase}}
		got, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Heaps", Count: 4})
		require.NoError(t, err)
		require.Len(t, got.Questions, 1)
		assert.Equal(t, "Question 4?", got.Questions[0].Question)
		assert.Equal(t, quiz.OptionB, got.Questions[0].CorrectAnswer)
		assert.Equal(t, 1, got.Questions[0].Order)
	})

	t.Run("LearnerRejected", func(t *testing.T) {
		p := &fakeProvider{drafts: drafts(1)}
		_, err := aiquiz.NewService(p).Draft(ctx, access.Actor{ID: 2, Role: access.Learner}, aiquiz.DraftRequest{Topic: "Heaps"})
		assert.True(t, errors.Is(err, apperror.ErrUnauthorized))
		assert.Empty(t, p.prompt)
	})

	t.Run("InvalidRequest", func(t *testing.T) {
		svc := aiquiz.NewService(&fakeProvider{})
		_, err := svc.Draft(ctx, instructor, aiquiz.DraftRequest{})
		assert.True(t, errors.Is(err, apperror.ErrValidation))

		_, err = svc.Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Heaps", Difficulty: "impossible"})
		assert.True(t, errors.Is(err, apperror.ErrValidation))
	})

	t.Run("NoProvider", func(t *testing.T) {
		_, err := aiquiz.NewService(nil).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Heaps"})
		assert.True(t, errors.Is(err, apperror.ErrUnavailable))
	})

	t.Run("ProviderFailure", func(t *testing.T) {
		p := &fakeProvider{err: errors.New("quota exceeded")}
		_, err := aiquiz.NewService(p).Draft(ctx, instructor, aiquiz.DraftRequest{Topic: "Heaps"})
		assert.True(t, errors.Is(err, apperror.ErrUnavailable))
	})
}
