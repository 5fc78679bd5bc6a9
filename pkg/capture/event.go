package capture

import "time"

// Modality identifies which producer emitted a capture event.
type Modality string

const (
	ModalityScreen Modality = "screen"
	ModalityAudio  Modality = "audio"
)

// Event is one screen or audio sample handed to the pipeline.
// It is produced once, consumed once, and discarded after analysis.
type Event struct {
	Modality    Modality  `json:"modality"`
	Timestamp   time.Time `json:"timestamp"`
	AppName     string    `json:"app_name"`
	WindowTitle string    `json:"window_title"`

	// PayloadPath points at the stored screenshot or audio chunk.
	PayloadPath string `json:"payload_path"`

	// RawText carries OCR text for screen events and the base64
	// audio payload for audio events.
	RawText string `json:"raw_text,omitempty"`

	// ImageData is the base64 encoded screenshot for screen events.
	ImageData string `json:"image_data,omitempty"`
	MimeType  string `json:"mime_type,omitempty"`
}
