package service

import (
	"context"

	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/repository/specification"
	"ai-lifeos-be/internal/repository/unitofwork"
)

type IActivityService interface {
	ListRecent(ctx context.Context, limit int) ([]dto.ActivityResponse, error)
	ListAlerts(ctx context.Context, limit int) ([]dto.AlertResponse, error)
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

type activityService struct {
	uowFactory unitofwork.RepositoryFactory
	pipeline   IAnalysisService
	rules      IProactiveService
}

func NewActivityService(uowFactory unitofwork.RepositoryFactory, pipeline IAnalysisService, rules IProactiveService) IActivityService {
	return &activityService{
		uowFactory: uowFactory,
		pipeline:   pipeline,
		rules:      rules,
	}
}

func (s *activityService) ListRecent(ctx context.Context, limit int) ([]dto.ActivityResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToActivityResponses(activities), nil
}

func (s *activityService) ListAlerts(ctx context.Context, limit int) ([]dto.AlertResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	alerts, err := uow.AuditEventRepository().FindAll(ctx,
		specification.FilterBy{Field: "event_type", Value: entity.EventTypeProactiveAlert},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = toAlertResponse(a)
	}
	return out, nil
}

func (s *activityService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.ActivityRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}
	embeddingCount, err := uow.ActivityEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	alertCount, err := uow.AuditEventRepository().Count(ctx,
		specification.FilterBy{Field: "event_type", Value: entity.EventTypeProactiveAlert},
	)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		ActivityCount:    stats.ActivityCount,
		EmbeddingCount:   embeddingCount,
		AlertCount:       alertCount,
		EarliestActivity: stats.EarliestActivity,
		LatestActivity:   stats.LatestActivity,
		QueueDepth:       s.pipeline.QueueDepth(),
		Processed:        s.pipeline.Processed(),
		ActiveCooldowns:  s.rules.ActiveCooldowns(),
	}, nil
}
