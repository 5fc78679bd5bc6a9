package entity

import (
	"time"

	"github.com/google/uuid"
)

// Audit event types.
const (
	EventTypeProactiveAlert = "proactive_alert"
	EventTypeQuery          = "query"
)

// AuditEvent is the durable record of a fired alert or a handled query.
type AuditEvent struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp         time.Time
	EventType         string
	AlertType         string
	Content           string
	Priority          string
	RelatedActivityId *uuid.UUID
	CreatedAt         time.Time
}
