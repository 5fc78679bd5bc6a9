package implementation

import (
	"context"
	"errors"
	"time"

	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/mapper"
	"ai-lifeos-be/internal/model"
	"ai-lifeos-be/internal/repository/contract"
	"ai-lifeos-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ActivityRepositoryImpl) Create(ctx context.Context, activity *entity.Activity) error {
	m := r.mapper.ToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activity, error) {
	var m model.Activity
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ActivityRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	var models []*model.Activity
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ActivityRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Activity{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ActivityRepositoryImpl) FindRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	var models []*model.Activity
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ActivityRepositoryImpl) Stats(ctx context.Context) (*contract.ActivityStats, error) {
	stats := &contract.ActivityStats{}

	if err := r.db.WithContext(ctx).Model(&model.Activity{}).Count(&stats.ActivityCount).Error; err != nil {
		return nil, err
	}
	if stats.ActivityCount == 0 {
		return stats, nil
	}

	type bounds struct {
		Earliest time.Time
		Latest   time.Time
	}
	var b bounds
	err := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Select("MIN(timestamp) AS earliest, MAX(timestamp) AS latest").
		Scan(&b).Error
	if err != nil {
		return nil, err
	}
	stats.EarliestActivity = &b.Earliest
	stats.LatestActivity = &b.Latest
	return stats, nil
}

func (r *ActivityRepositoryImpl) NullStalePayloads(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Activity{}).
		Where("timestamp < ?", cutoff).
		Where("screenshot_path IS NOT NULL OR audio_path IS NOT NULL").
		Updates(map[string]interface{}{
			"screenshot_path": nil,
			"audio_path":      nil,
		})
	return res.RowsAffected, res.Error
}
