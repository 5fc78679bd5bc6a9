package embedding

import "context"

// Dimension is fixed per deployment; every stored vector and every query
// vector must have this length.
const Dimension = 768

// Task types hint the provider whether the text is an indexed document or
// a search query.
const (
	TaskDocument = "RETRIEVAL_DOCUMENT"
	TaskQuery    = "RETRIEVAL_QUERY"
)

// Provider generates fixed-length text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
