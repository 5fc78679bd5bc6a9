package inference

import "context"

// ScreenRequest carries one screenshot and its window context to the
// vision model.
type ScreenRequest struct {
	ImageData   []byte
	MimeType    string
	AppName     string
	WindowTitle string
	OcrText     string

	// RecentContext lines describing the last few stored activities,
	// newest last.
	RecentContext []string
}

// Provider is the multimodal inference collaborator. Every call is
// fallible; callers own the fallback behavior.
type Provider interface {
	// AnalyzeScreen interprets a screenshot. The returned result is
	// normalized; an error means the caller must degrade to a default.
	AnalyzeScreen(ctx context.Context, req ScreenRequest) (*AnalysisResult, error)

	// TranscribeAudio transcribes one audio chunk.
	TranscribeAudio(ctx context.Context, audioData []byte, mimeType string) (string, error)

	// Chat produces a free-form completion for the given prompt.
	Chat(ctx context.Context, prompt string) (string, error)
}
