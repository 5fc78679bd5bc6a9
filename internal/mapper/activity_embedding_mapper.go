package mapper

import (
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ActivityEmbeddingMapper struct{}

func NewActivityEmbeddingMapper() *ActivityEmbeddingMapper {
	return &ActivityEmbeddingMapper{}
}

func (m *ActivityEmbeddingMapper) ToEntity(e *model.ActivityEmbedding) *entity.ActivityEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ActivityEmbedding{
		ActivityId: e.ActivityId,
		Document:   e.Document,
		Embedding:  e.EmbeddingValue.Slice(),
		AppName:    e.AppName,
		Tags:       e.Tags,
		Priority:   e.Priority,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ActivityEmbeddingMapper) ToModel(e *entity.ActivityEmbedding) *model.ActivityEmbedding {
	if e == nil {
		return nil
	}
	return &model.ActivityEmbedding{
		ActivityId:     e.ActivityId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.Embedding),
		AppName:        e.AppName,
		Tags:           e.Tags,
		Priority:       e.Priority,
		CreatedAt:      e.CreatedAt,
	}
}
