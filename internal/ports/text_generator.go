package ports

import (
	"context"

	"github.com/bnema/novelpia-prompt-maker/internal/domain"
)

type GenerateRequest struct {
	System string
	Turns  []domain.ChatTurn
	// JSON asks the model for a JSON object reply.
	JSON bool
}

type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
