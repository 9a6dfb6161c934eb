package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository"
)

const createInteractionsTable = `
CREATE TABLE IF NOT EXISTS interactions (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL,
	tool TEXT NOT NULL,
	input TEXT NOT NULL DEFAULT '',
	output TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_username ON interactions(username, created_at);
`

type InteractionRepository struct {
	db *sql.DB
}

func NewInteractionRepository(db *sql.DB) repository.InteractionRepository {
	return &InteractionRepository{db: db}
}

func (r *InteractionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createInteractionsTable); err != nil {
		return fmt.Errorf("%w: create interactions table: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *InteractionRepository) Append(ctx context.Context, interaction *domain.Interaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO interactions (id, username, tool, input, output, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		interaction.ID,
		interaction.Username,
		string(interaction.Tool),
		interaction.Input,
		interaction.Output,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: insert interaction: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *InteractionRepository) ListByUsername(ctx context.Context, username string) ([]domain.Interaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, username, tool, input, output, created_at
FROM interactions
WHERE username = ?
ORDER BY created_at ASC, id ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query interactions: %v", repository.ErrStorage, err)
	}
	defer rows.Close()

	var interactions []domain.Interaction
	for rows.Next() {
		var (
			interaction domain.Interaction
			tool        string
		)
		if err := rows.Scan(
			&interaction.ID,
			&interaction.Username,
			&tool,
			&interaction.Input,
			&interaction.Output,
			&interaction.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan interaction: %v", repository.ErrStorage, err)
		}
		interaction.Tool = domain.Tool(tool)
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate interactions: %v", repository.ErrStorage, err)
	}
	return interactions, nil
}
