package service

import (
	"context"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/repository/unitofwork"
)

// IRetentionService nulls payload references (screenshots, audio
// chunks) on records past their retention window. Analysis text and
// index entries are kept forever.
type IRetentionService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context) (int64, error)
}

type retentionService struct {
	cfg        *config.Config
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewRetentionService(cfg *config.Config, uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IRetentionService {
	return &retentionService{
		cfg:        cfg,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *retentionService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.cfg.Retention.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					s.logger.Error("RetentionService", "Retention sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
	s.logger.Info("RetentionService", "Retention sweeper started", map[string]interface{}{"interval": s.cfg.Retention.Interval.String()})
}

func (s *retentionService) RunOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.cfg.Retention.PayloadTTL)
	uow := s.uowFactory.NewUnitOfWork(ctx)
	cleared, err := uow.ActivityRepository().NullStalePayloads(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if cleared > 0 {
		s.logger.Info("RetentionService", "Cleared stale payload references", map[string]interface{}{"records": cleared, "cutoff": cutoff})
	}
	return cleared, nil
}
