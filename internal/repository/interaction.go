package repository

import (
	"context"

	"study-buddy/internal/domain"
)

// InteractionRepository defines persistence operations for interaction history.
// Records are append-only; ListByUsername returns them in chronological order.
type InteractionRepository interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, interaction *domain.Interaction) error
	ListByUsername(ctx context.Context, username string) ([]domain.Interaction, error)
}
