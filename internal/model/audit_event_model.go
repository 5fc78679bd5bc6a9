package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditEvent struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Timestamp         time.Time  `gorm:"not null;index"`
	EventType         string     `gorm:"type:varchar(50);not null;index"`
	AlertType         string     `gorm:"type:varchar(50)"`
	Content           string     `gorm:"type:text"`
	Priority          string     `gorm:"type:varchar(10)"`
	RelatedActivityId *uuid.UUID `gorm:"type:uuid"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
