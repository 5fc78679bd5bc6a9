package entity

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEmbedding is one entry in the vector index. Its id is the id of
// the activity it indexes; the metadata columns are flattened so the index
// can filter without joining.
type ActivityEmbedding struct {
	ActivityId uuid.UUID `gorm:"type:uuid;primaryKey"`
	Document   string
	Embedding  []float32

	AppName  string
	Tags     string // comma-joined, flat for filtering
	Priority string

	CreatedAt time.Time
}
