package implementation

import (
	"context"

	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/mapper"
	"ai-lifeos-be/internal/model"
	"ai-lifeos-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityEmbeddingMapper
}

func NewActivityEmbeddingRepository(db *gorm.DB) contract.ActivityEmbeddingRepository {
	return &ActivityEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityEmbeddingMapper(),
	}
}

func (r *ActivityEmbeddingRepositoryImpl) Upsert(ctx context.Context, embedding *entity.ActivityEmbedding) error {
	m := r.mapper.ToModel(embedding)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredActivityEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance via pgvector: embedding_value <=> query_vector.
	// Distance is kept as-is so callers can apply their own thresholds.
	type result struct {
		model.ActivityEmbedding
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(vector)

	err := r.db.WithContext(ctx).
		Table("activity_embeddings").
		Select("activity_embeddings.*, embedding_value <=> ? AS distance", queryVector).
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredActivityEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredActivityEmbedding{
			Embedding: r.mapper.ToEntity(&res.ActivityEmbedding),
			Distance:  res.Distance,
		}
	}
	return scored, nil
}

func (r *ActivityEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ActivityEmbedding{}).Count(&count).Error
	return count, err
}
