package inference

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const geminiGenerateEndpoint = "https://generativelanguage.googleapis.com/v1/models/gemini-2.0-flash:generateContent"

type GeminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type GeminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *GeminiInlineData `json:"inline_data,omitempty"`
}

type GeminiContent struct {
	Parts []*GeminiPart `json:"parts"`
	Role  string        `json:"role,omitempty"`
}

type GeminiRequest struct {
	Contents []*GeminiContent `json:"contents"`
}

type GeminiCandidate struct {
	Content *GeminiContent `json:"content"`
}

type GeminiResponse struct {
	Candidates []*GeminiCandidate `json:"candidates"`
}

// GeminiProvider talks to the Gemini generateContent API directly over
// HTTP, covering vision analysis, audio transcription and chat.
type GeminiProvider struct {
	apiKey string
	client *http.Client
}

func NewGeminiProvider(apiKey string) *GeminiProvider {
	return &GeminiProvider{
		apiKey: apiKey,
		client: &http.Client{},
	}
}

func (p *GeminiProvider) generate(ctx context.Context, parts []*GeminiPart) (string, error) {
	payload := GeminiRequest{
		Contents: []*GeminiContent{{Parts: parts, Role: "user"}},
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", geminiGenerateEndpoint, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"status error, got status %d. with response body %s",
			res.StatusCode,
			string(resBody),
		)
	}

	var geminiRes GeminiResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}
	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidate in gemini response")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

func buildScreenPrompt(req ScreenRequest) string {
	contextText := "No recent activity recorded."
	if len(req.RecentContext) > 0 {
		contextText = strings.Join(req.RecentContext, "\n")
	}
	ocrText := "No text extracted by OCR."
	if req.OcrText != "" {
		ocrText = req.OcrText
	}

	return fmt.Sprintf(`You are an AI assistant that watches the user's computer activity to help them be more productive.

Current Context:
- Active Application: %s
- Window Title: %s
- Time: %s

Recent Activity:
%s

OCR Extracted Text (Fallback):
%s

Analyze this screenshot and identify:

1. What is the user doing right now?
2. What are they trying to accomplish?
3. Are there any potential issues or mistakes about to happen?
   - Email without attachment mentioned
   - Wrong recipient
   - About to delete important files
   - Pasting sensitive info in public places
4. Should we interrupt the user with a proactive alert?
5. Relevant tags for this activity

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "activity": "brief description of what user is doing",
  "intent": "what user is trying to accomplish",
  "issues": ["list any potential issues or empty array"],
  "should_interrupt": false,
  "interrupt_message": "message to show if interrupting, or empty string",
  "tags": ["relevant", "tags"],
  "priority": "low",
  "extracted_text": "any important text visible on screen"
}`,
		req.AppName,
		req.WindowTitle,
		time.Now().Format("2006-01-02 15:04:05"),
		contextText,
		ocrText,
	)
}

func (p *GeminiProvider) AnalyzeScreen(ctx context.Context, req ScreenRequest) (*AnalysisResult, error) {
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []*GeminiPart{
		{Text: buildScreenPrompt(req)},
		{InlineData: &GeminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(req.ImageData),
		}},
	}

	responseText, err := p.generate(ctx, parts)
	if err != nil {
		return nil, err
	}

	result := ParseAnalysis(responseText)
	if result == nil {
		return nil, fmt.Errorf("unparsable analysis response: %q", responseText)
	}
	return result, nil
}

func (p *GeminiProvider) TranscribeAudio(ctx context.Context, audioData []byte, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	parts := []*GeminiPart{
		{Text: "Transcribe the following audio accurately. If there is speech, write it down. If there is no significant speech, say [No Speech Detected]."},
		{InlineData: &GeminiInlineData{
			MimeType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(audioData),
		}},
	}

	text, err := p.generate(ctx, parts)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *GeminiProvider) Chat(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, []*GeminiPart{{Text: prompt}})
}
