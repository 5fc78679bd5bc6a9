package mapper

import (
	"testing"
	"time"

	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/pkg/inference"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMapperRoundTrip(t *testing.T) {
	m := NewActivityMapper()
	now := time.Now()
	screenshot := "/data/shots/one.png"

	tests := []struct {
		name     string
		activity *entity.Activity
	}{
		{
			name: "full screen record",
			activity: &entity.Activity{
				Id:             uuid.New(),
				Timestamp:      now,
				Modality:       "screen",
				AppName:        "Code",
				WindowTitle:    "billing.go",
				ScreenshotPath: &screenshot,
				Analysis: &inference.AnalysisResult{
					Activity:         "Refactoring the billing job",
					Intent:           "coding",
					Issues:           []string{"flaky test"},
					ShouldInterrupt:  true,
					InterruptMessage: "The build is broken.",
					Tags:             []string{"coding", "billing"},
					Priority:         inference.PriorityHigh,
					ExtractedText:    "func reconcile() {",
				},
				Tags:      []string{"coding", "billing"},
				Priority:  inference.PriorityHigh,
				CreatedAt: now,
			},
		},
		{
			name: "audio record without analysis",
			activity: &entity.Activity{
				Id:            uuid.New(),
				Timestamp:     now,
				Modality:      "audio",
				AppName:       "system",
				Transcription: "Let's ship it on Friday.",
				Priority:      inference.PriorityLow,
				CreatedAt:     now,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := m.ToEntity(m.ToModel(tc.activity))
			require.NotNil(t, got)

			assert.Equal(t, tc.activity.Id, got.Id)
			assert.True(t, tc.activity.Timestamp.Equal(got.Timestamp))
			assert.Equal(t, tc.activity.Modality, got.Modality)
			assert.Equal(t, tc.activity.AppName, got.AppName)
			assert.Equal(t, tc.activity.WindowTitle, got.WindowTitle)
			assert.Equal(t, tc.activity.ScreenshotPath, got.ScreenshotPath)
			assert.Equal(t, tc.activity.AudioPath, got.AudioPath)
			assert.Equal(t, tc.activity.Transcription, got.Transcription)
			assert.Equal(t, tc.activity.Tags, got.Tags)
			assert.Equal(t, tc.activity.Priority, got.Priority)
			assert.Equal(t, tc.activity.Analysis, got.Analysis)
		})
	}
}

func TestActivityMapperTagJoinSplit(t *testing.T) {
	m := NewActivityMapper()

	tagged := &entity.Activity{Id: uuid.New(), Tags: []string{"a", "b", "c"}}
	assert.Equal(t, "a,b,c", m.ToModel(tagged).Tags)
	assert.Equal(t, []string{"a", "b", "c"}, m.ToEntity(m.ToModel(tagged)).Tags)

	// No tags stay no tags, never a single empty tag.
	bare := &entity.Activity{Id: uuid.New()}
	assert.Equal(t, "", m.ToModel(bare).Tags)
	assert.Nil(t, m.ToEntity(m.ToModel(bare)).Tags)
}

func TestActivityMapperDefaultsMissingPriority(t *testing.T) {
	m := NewActivityMapper()

	stored := m.ToModel(&entity.Activity{Id: uuid.New()})
	assert.Equal(t, inference.PriorityLow, stored.Priority)
}

func TestActivityMapperNilSafe(t *testing.T) {
	m := NewActivityMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
}

func TestActivityEmbeddingMapperRoundTrip(t *testing.T) {
	m := NewActivityEmbeddingMapper()
	now := time.Now()

	orig := &entity.ActivityEmbedding{
		ActivityId: uuid.New(),
		Document:   "Refactoring the billing job\nfunc reconcile() {",
		Embedding:  []float32{0.1, 0.2, 0.3, 0.4},
		AppName:    "Code",
		Tags:       "coding,billing",
		Priority:   inference.PriorityHigh,
		CreatedAt:  now,
	}

	got := m.ToEntity(m.ToModel(orig))
	require.NotNil(t, got)

	assert.Equal(t, orig.ActivityId, got.ActivityId)
	assert.Equal(t, orig.Document, got.Document)
	require.Len(t, got.Embedding, len(orig.Embedding))
	assert.Equal(t, orig.Embedding, got.Embedding)
	assert.Equal(t, orig.AppName, got.AppName)
	assert.Equal(t, orig.Tags, got.Tags)
	assert.Equal(t, orig.Priority, got.Priority)
}

func TestAuditEventMapperRoundTrip(t *testing.T) {
	m := NewAuditEventMapper()
	now := time.Now()
	related := uuid.New()

	orig := &entity.AuditEvent{
		Id:                uuid.New(),
		Timestamp:         now,
		EventType:         entity.EventTypeProactiveAlert,
		AlertType:         "deadline_approaching",
		Content:           "A deadline was mentioned on screen.",
		Priority:          inference.PriorityMedium,
		RelatedActivityId: &related,
		CreatedAt:         now,
	}

	got := m.ToEntity(m.ToModel(orig))
	require.NotNil(t, got)
	assert.Equal(t, orig, got)
}
