package contract

import (
	"context"

	"ai-lifeos-be/internal/entity"
)

// ScoredActivityEmbedding pairs an indexed document with its cosine
// distance to the query vector. Lower means closer.
type ScoredActivityEmbedding struct {
	Embedding *entity.ActivityEmbedding
	Distance  float64
}

type ActivityEmbeddingRepository interface {
	// Upsert inserts or replaces the index entry for the activity.
	Upsert(ctx context.Context, embedding *entity.ActivityEmbedding) error

	// SearchSimilar returns up to limit entries ordered by ascending
	// cosine distance to the query vector.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*ScoredActivityEmbedding, error)

	Count(ctx context.Context) (int64, error)
}
