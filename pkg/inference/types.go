package inference

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

// Priority of an analysis result or alert.
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

var validPriorities = map[string]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

// TagAnalysisError marks results that were defaulted after an inference
// failure.
const TagAnalysisError = "analysis_error"

// AnalysisResult is the structured interpretation of one capture event.
// The model returns this shape as JSON; Normalize must run before the
// result propagates anywhere.
type AnalysisResult struct {
	Activity         string   `json:"activity"`
	Intent           string   `json:"intent"`
	Issues           []string `json:"issues"`
	ShouldInterrupt  bool     `json:"should_interrupt"`
	InterruptMessage string   `json:"interrupt_message"`
	Tags             []string `json:"tags"`
	Priority         string   `json:"priority"`
	ExtractedText    string   `json:"extracted_text"`
}

// Normalize repairs a parsed result in place: missing or malformed fields
// fall back to safe defaults so a well-formed result always leaves the
// client boundary.
func (r *AnalysisResult) Normalize() {
	if r.Activity == "" {
		r.Activity = "Unknown activity"
	}
	if r.Intent == "" {
		r.Intent = "Unknown"
	}
	if r.Issues == nil {
		r.Issues = []string{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if !validPriorities[r.Priority] {
		r.Priority = PriorityLow
	}
	if !r.ShouldInterrupt {
		r.InterruptMessage = ""
	}
}

// DefaultAnalysis is the degraded result used when the inference call
// fails or returns an unparsable shape. It is always well formed.
func DefaultAnalysis(appName string) *AnalysisResult {
	tags := []string{TagAnalysisError}
	activity := "Unknown activity"
	if appName != "" {
		activity = "Using " + appName
		tags = append(tags, strings.ToLower(appName))
	}
	return &AnalysisResult{
		Activity: activity,
		Intent:   "Unknown",
		Issues:   []string{},
		Tags:     tags,
		Priority: PriorityLow,
	}
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// ParseAnalysis extracts the first JSON object from a model response and
// normalizes it. Returns nil when no parsable object is present.
func ParseAnalysis(responseText string) *AnalysisResult {
	raw := []byte(responseText)
	raw = bytes.TrimSpace(raw)
	raw = bytes.TrimPrefix(raw, []byte("```json"))
	raw = bytes.TrimPrefix(raw, []byte("```"))
	raw = bytes.TrimSuffix(raw, []byte("```"))

	match := jsonBlockRe.Find(raw)
	if match == nil {
		return nil
	}

	var result AnalysisResult
	if err := json.Unmarshal(match, &result); err != nil {
		return nil
	}

	result.Normalize()
	return &result
}
