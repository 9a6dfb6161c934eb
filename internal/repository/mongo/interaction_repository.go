package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository"
)

type interactionDoc struct {
	ID        string    `bson:"_id"`
	Username  string    `bson:"username"`
	Tool      string    `bson:"tool"`
	Input     string    `bson:"input"`
	Output    string    `bson:"output"`
	CreatedAt time.Time `bson:"created_at"`
}

type InteractionRepository struct {
	col *mongo.Collection
}

func NewInteractionRepository(col *mongo.Collection) repository.InteractionRepository {
	return &InteractionRepository{col: col}
}

// Init indexes the history lookup path (username, created_at).
func (r *InteractionRepository) Init(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("%w: create history index: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *InteractionRepository) Append(ctx context.Context, interaction *domain.Interaction) error {
	_, err := r.col.InsertOne(ctx, interactionDoc{
		ID:        interaction.ID,
		Username:  interaction.Username,
		Tool:      string(interaction.Tool),
		Input:     interaction.Input,
		Output:    interaction.Output,
		CreatedAt: interaction.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("%w: insert interaction: %v", repository.ErrStorage, err)
	}
	return nil
}

func (r *InteractionRepository) ListByUsername(ctx context.Context, username string) ([]domain.Interaction, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"username": username},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: find interactions: %v", repository.ErrStorage, err)
	}
	defer cur.Close(ctx)

	var docs []interactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode interactions: %v", repository.ErrStorage, err)
	}

	interactions := make([]domain.Interaction, 0, len(docs))
	for _, doc := range docs {
		interactions = append(interactions, domain.Interaction{
			ID:        doc.ID,
			Username:  doc.Username,
			Tool:      domain.Tool(doc.Tool),
			Input:     doc.Input,
			Output:    doc.Output,
			CreatedAt: doc.CreatedAt,
		})
	}
	return interactions, nil
}
