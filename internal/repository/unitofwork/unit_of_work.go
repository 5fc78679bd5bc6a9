package unitofwork

import (
	"context"

	"ai-lifeos-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ActivityRepository() contract.ActivityRepository
	ActivityEmbeddingRepository() contract.ActivityEmbeddingRepository
	AuditEventRepository() contract.AuditEventRepository
}
