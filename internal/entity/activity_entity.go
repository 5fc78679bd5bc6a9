package entity

import (
	"time"

	"ai-lifeos-be/pkg/inference"

	"github.com/google/uuid"
)

// Activity is the persisted, denormalized merge of one capture event and
// its analysis result. Records are append-only: after creation only the
// retention maintenance path may null the payload references.
type Activity struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Timestamp   time.Time
	Modality    string
	AppName     string
	WindowTitle string

	ScreenshotPath *string
	AudioPath      *string
	Transcription  string

	Analysis *inference.AnalysisResult
	Tags     []string
	Priority string

	CreatedAt time.Time
}

// Description returns the activity text to use in prompts and search
// documents, tolerating records stored without analysis.
func (a *Activity) Description() string {
	if a.Analysis != nil && a.Analysis.Activity != "" {
		return a.Analysis.Activity
	}
	return "Unknown"
}

// ExtractedText returns the redacted on-screen text, or the audio
// transcription for audio records.
func (a *Activity) ExtractedText() string {
	if a.Analysis != nil && a.Analysis.ExtractedText != "" {
		return a.Analysis.ExtractedText
	}
	return a.Transcription
}
