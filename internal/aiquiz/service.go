package aiquiz

import (
	"context"
	"strings"

	"github.com/saulo-duarte/classroom-lms/internal/access"
	"github.com/saulo-duarte/classroom-lms/internal/apperror"
	"github.com/saulo-duarte/classroom-lms/internal/config"
	"github.com/saulo-duarte/classroom-lms/internal/quiz"
	"github.com/saulo-duarte/classroom-lms/internal/validation"
)

type Service interface {
	Draft(ctx context.Context, actor access.Actor, req DraftRequest) (*DraftResponse, error)
}

type service struct {
	provider Provider
}

// NewService accepts a nil provider; drafting then reports Unavailable.
func NewService(provider Provider) Service {
	return &service{provider: provider}
}

func (s *service) Draft(ctx context.Context, actor access.Actor, req DraftRequest) (*DraftResponse, error) {
	log := config.WithContext(ctx)

	if err := access.RequireRole(actor, access.Instructor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, apperror.Unavailable("question generator is not configured")
	}

	drafts, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(req))
	if err != nil {
		log.WithError(err).Error("Failed to generate question drafts")
		return nil, apperror.Unavailable("question generator is unavailable")
	}

	out := &DraftResponse{Topic: req.Topic, Questions: make([]quiz.CreateQuestionDTO, 0, len(drafts))}
	for _, d := range drafts {
		if len(out.Questions) == req.count() {
			break
		}
		q, ok := toQuestion(d, len(out.Questions)+1)
		if !ok {
			log.Warnf("[AIQUIZ] Dropped invalid draft %q", d.Question)
			continue
		}
		out.Questions = append(out.Questions, q)
	}

	log.Infof("[AIQUIZ] Generated %d of %d requested drafts", len(out.Questions), req.count())
	return out, nil
}

// toQuestion maps a draft onto the quiz question payload. Drafts that do not
// pass quiz validation are rejected.
func toQuestion(d Draft, order int) (quiz.CreateQuestionDTO, bool) {
	if len(d.Options) != 4 {
		return quiz.CreateQuestionDTO{}, false
	}
	q := quiz.CreateQuestionDTO{
		Question:      strings.TrimSpace(d.Question),
		OptionA:       stripLabel(d.Options[0]),
		OptionB:       stripLabel(d.Options[1]),
		OptionC:       stripLabel(d.Options[2]),
		OptionD:       stripLabel(d.Options[3]),
		CorrectAnswer: quiz.Option(strings.ToUpper(strings.TrimSpace(d.CorrectAnswer))),
		Order:         order,
	}
	if err := validation.Struct(q); err != nil {
		return quiz.CreateQuestionDTO{}, false
	}
	return q, true
}

// stripLabel removes a leading "A) " or "b. " label. The space is required so
// that options such as "a.m. shift" keep their text.
func stripLabel(opt string) string {
	opt = strings.TrimSpace(opt)
	if len(opt) > 3 && strings.ContainsRune("ABCDabcd", rune(opt[0])) &&
		(opt[1] == ')' || opt[1] == '.') && opt[2] == ' ' {
		opt = strings.TrimSpace(opt[3:])
	}
	return opt
}
