package dto

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisResponse struct {
	Activity         string   `json:"activity"`
	Intent           string   `json:"intent"`
	Issues           []string `json:"issues"`
	ShouldInterrupt  bool     `json:"should_interrupt"`
	InterruptMessage string   `json:"interrupt_message"`
	Tags             []string `json:"tags"`
	Priority         string   `json:"priority"`
}

type ActivityResponse struct {
	Id          uuid.UUID        `json:"id"`
	Timestamp   time.Time        `json:"timestamp"`
	Modality    string           `json:"modality"`
	AppName     string           `json:"app_name"`
	WindowTitle string           `json:"window_title"`
	Description string           `json:"description"`
	Tags        []string         `json:"tags"`
	Priority    string           `json:"priority"`
	Analysis    AnalysisResponse `json:"analysis"`
}

type StatsResponse struct {
	ActivityCount    int64      `json:"activity_count"`
	EmbeddingCount   int64      `json:"embedding_count"`
	AlertCount       int64      `json:"alert_count"`
	EarliestActivity *time.Time `json:"earliest_activity"`
	LatestActivity   *time.Time `json:"latest_activity"`
	QueueDepth       int        `json:"queue_depth"`
	Processed        int64      `json:"processed"`
	ActiveCooldowns  int        `json:"active_cooldowns"`
}
