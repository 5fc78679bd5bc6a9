package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantKind Kind
		wantType string
		wantVal  string
		wantName string
	}{
		{
			name:     "yesterday",
			query:    "what did I do yesterday",
			wantKind: KindTemporal,
			wantType: TimeYesterday,
		},
		{
			name:     "today",
			query:    "show me today",
			wantKind: KindTemporal,
			wantType: TimeToday,
		},
		{
			name:     "last n hours captures the count",
			query:    "what happened in the last 3 hours",
			wantKind: KindTemporal,
			wantType: TimeLastNHours,
			wantVal:  "3",
		},
		{
			name:     "minutes ago",
			query:    "what was on screen 15 minutes ago",
			wantKind: KindTemporal,
			wantType: TimeMinutesAgo,
			wantVal:  "15",
		},
		{
			name:     "entity gated on person words",
			query:    "who did I talk with alice",
			wantKind: KindEntity,
			wantName: "alice",
		},
		{
			name:     "about without person words stays semantic",
			query:    "tell me about kubernetes",
			wantKind: KindSemantic,
		},
		{
			name:     "stats phrase",
			query:    "how many memories do I have",
			wantKind: KindStats,
		},
		{
			name:     "counting things is not stats",
			query:    "how many emails did I write",
			wantKind: KindSemantic,
		},
		{
			name:     "plain question",
			query:    "what was that article on vector databases",
			wantKind: KindSemantic,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, params := Classify(tt.query)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantType, params.TimeType)
			assert.Equal(t, tt.wantVal, params.Value)
			assert.Equal(t, tt.wantName, params.Name)
		})
	}
}

func TestResolveTimeRangeYesterday(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	start, end := ResolveTimeRange(Params{TimeType: TimeYesterday}, now)

	assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 6, 14, 23, 59, 59, 0, time.UTC), end)
}

func TestResolveTimeRangeThisWeekStartsMonday(t *testing.T) {
	// A Sunday: the week started six days earlier.
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	start, _ := ResolveTimeRange(Params{TimeType: TimeThisWeek}, now)

	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Monday, start.Weekday())
}

func TestResolveTimeRangeUnknownDefaultsToToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

	start, end := ResolveTimeRange(Params{}, now)

	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)
}

func TestKeywords(t *testing.T) {
	got := Keywords("the api server design doc", 3)
	assert.Equal(t, []string{"server", "design"}, got)
}
