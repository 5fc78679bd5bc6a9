package dto

import "time"

type ConnectionsResponse struct {
	Topic        string             `json:"topic"`
	Insight      string             `json:"insight"`
	RelatedCount int                `json:"related_count"`
	Related      []ActivityResponse `json:"related"`
	Days         int                `json:"days"`
	GeneratedAt  time.Time          `json:"generated_at"`
}

type DailyInsightsResponse struct {
	Summary       string `json:"summary"`
	ActivityCount int    `json:"activity_count"`
}

type AppCount struct {
	AppName string `json:"app_name"`
	Count   int    `json:"count"`
}

type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

type PatternsResponse struct {
	ActivityCount int         `json:"activity_count"`
	TopApps       []AppCount  `json:"top_apps"`
	PeakHours     []HourCount `json:"peak_hours"`
	Suggestions   []string    `json:"suggestions"`
	Days          int         `json:"days"`
	Detected      bool        `json:"detected"`
}

type RelatedWorkRequest struct {
	Text  string `json:"text" validate:"required"`
	Limit int    `json:"limit"`
}

type RelatedWorkResponse struct {
	Results []ActivityResponse `json:"results"`
	Count   int                `json:"count"`
}
