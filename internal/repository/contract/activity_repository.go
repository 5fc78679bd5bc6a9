package contract

import (
	"context"
	"time"

	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/repository/specification"
)

// ActivityStats holds the aggregate counters surfaced by the stats
// operation.
type ActivityStats struct {
	ActivityCount    int64
	EarliestActivity *time.Time
	LatestActivity   *time.Time
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *entity.Activity) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activity, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// FindRecent returns the newest records, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.Activity, error)

	// Stats returns the aggregate view over all activities.
	Stats(ctx context.Context) (*ActivityStats, error)

	// NullStalePayloads clears screenshot/audio path references on records
	// older than the cutoff. Analysis content is never touched.
	NullStalePayloads(ctx context.Context, cutoff time.Time) (int64, error)
}
