package dto

import (
	"time"

	"github.com/google/uuid"
)

type CaptureScreenRequest struct {
	ImageData   string     `json:"image_data" validate:"required"` // base64 encoded
	MimeType    string     `json:"mime_type"`
	AppName     string     `json:"app_name" validate:"required"`
	WindowTitle string     `json:"window_title"`
	OcrText     string     `json:"ocr_text"`
	PayloadPath string     `json:"payload_path"`
	Timestamp   *time.Time `json:"timestamp"`
}

type CaptureAudioRequest struct {
	AudioData   string     `json:"audio_data" validate:"required"` // base64 encoded
	MimeType    string     `json:"mime_type"`
	AppName     string     `json:"app_name"`
	PayloadPath string     `json:"payload_path"`
	Timestamp   *time.Time `json:"timestamp"`
}

type CaptureResponse struct {
	Queued     bool `json:"queued"`
	QueueDepth int  `json:"queue_depth"`
}

// AnalyzeNowResponse carries the result of a synchronous analysis
// request that skips the queue.
type AnalyzeNowResponse struct {
	ActivityId uuid.UUID        `json:"activity_id"`
	Analysis   AnalysisResponse `json:"analysis"`
}
