package capture

import "regexp"

// Patterns for sensitive data that must never reach storage in the clear.
// Matches are replaced with [REDACTED] before the analysis result is
// persisted.
var redactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{16}\b`),                 // credit cards
	regexp.MustCompile(`\b\d{15}\b`),                 // amex
	regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),      // SSN
	regexp.MustCompile(`\b\d{9}\b`),                  // SSN without dashes
	regexp.MustCompile(`(?i)password[:\s]+\S+`),
	regexp.MustCompile(`(?i)api[_-]?key[:\s]+\S+`),
	regexp.MustCompile(`(?i)secret[:\s]+\S+`),
	regexp.MustCompile(`(?i)token[:\s]+\S+`),
	regexp.MustCompile(`(?i)bearer\s+\S+`),
}

const redactedMarker = "[REDACTED]"

// RedactSensitive strips credential-like and PII-like fragments from
// extracted text.
func RedactSensitive(text string) string {
	for _, p := range redactPatterns {
		text = p.ReplaceAllString(text, redactedMarker)
	}
	return text
}
