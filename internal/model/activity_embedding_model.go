package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type ActivityEmbedding struct {
	ActivityId     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions

	AppName  string `gorm:"type:varchar(255);index"`
	Tags     string `gorm:"type:text"`
	Priority string `gorm:"type:varchar(10)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ActivityEmbedding) TableName() string {
	return "activity_embeddings"
}
