package aiquiz

import (
	"context"

	"github.com/saulo-duarte/classroom-lms/internal/config"
)

type AIQuizContainer struct {
	Handler *Handler
}

// NewAIQuizContainer wires the Gemini provider. When the client cannot be
// created the drafting endpoint answers 503.
func NewAIQuizContainer(ctx context.Context, model string) *AIQuizContainer {
	provider, err := NewGeminiProvider(ctx, model)
	if err != nil {
		config.Logger.WithError(err).Warn("Question drafting disabled")
	}
	service := NewService(provider)
	handler := NewHandler(service)

	return &AIQuizContainer{
		Handler: handler,
	}
}
