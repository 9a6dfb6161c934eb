package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository"
)

// HistoryService records study-tool interactions and lists them per user.
type HistoryService interface {
	Record(ctx context.Context, interaction *domain.Interaction) error
	ListForUser(ctx context.Context, username string) ([]domain.Interaction, error)
}

type historyService struct {
	interactions repository.InteractionRepository
}

func NewHistoryService(interactions repository.InteractionRepository) HistoryService {
	return &historyService{interactions: interactions}
}

func (s *historyService) Record(ctx context.Context, interaction *domain.Interaction) error {
	if interaction.Username == "" {
		return errors.New("username is required")
	}
	if interaction.ID == "" {
		interaction.ID = uuid.NewString()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = time.Now().UTC()
	}
	return s.interactions.Append(ctx, interaction)
}

func (s *historyService) ListForUser(ctx context.Context, username string) ([]domain.Interaction, error) {
	interactions, err := s.interactions.ListByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if interactions == nil {
		interactions = []domain.Interaction{}
	}
	return interactions, nil
}
