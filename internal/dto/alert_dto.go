package dto

import (
	"time"

	"github.com/google/uuid"
)

type AlertResponse struct {
	Id                uuid.UUID  `json:"id"`
	Timestamp         time.Time  `json:"timestamp"`
	AlertType         string     `json:"alert_type"`
	Message           string     `json:"message"`
	Priority          string     `json:"priority"`
	RelatedActivityId *uuid.UUID `json:"related_activity_id,omitempty"`
}
