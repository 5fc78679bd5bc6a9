package service

import (
	"context"
	"encoding/base64"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/pkg/inference"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenRequest(app, title, ocr string) *dto.CaptureScreenRequest {
	return &dto.CaptureScreenRequest{
		ImageData:   base64.StdEncoding.EncodeToString([]byte("png-bytes")),
		MimeType:    "image/png",
		AppName:     app,
		WindowTitle: title,
		OcrText:     ocr,
	}
}

func goodAnalysis(activity string) *inference.AnalysisResult {
	return &inference.AnalysisResult{
		Activity: activity,
		Intent:   "working",
		Issues:   []string{},
		Tags:     []string{"work"},
		Priority: inference.PriorityLow,
	}
}

func newAnalysisFixture(t *testing.T, provider *fakeInference, embedder *fakeEmbedding) (IAnalysisService, *memStore) {
	t.Helper()
	if provider == nil {
		provider = &fakeInference{}
	}
	if embedder == nil {
		embedder = &fakeEmbedding{}
	}
	store := newMemStore()
	svc := NewAnalysisService(testConfig(), newMemFactory(store), provider, embedder, nopLogger{})
	return svc, store
}

func TestAnalyzeNowStoresAnalyzedActivity(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Editing a Go file"), nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	res, err := svc.AnalyzeNow(context.Background(), screenRequest("Code", "main.go", "func main"))
	require.NoError(t, err)

	assert.Equal(t, "Editing a Go file", res.Analysis.Activity)
	require.Len(t, store.activities, 1)
	assert.Equal(t, res.ActivityId, store.activities[0].Id)
	assert.Equal(t, "screen", store.activities[0].Modality)
	assert.Len(t, store.embeddings, 1)
}

func TestAnalyzeNowDegradesWhenInferenceFails(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return nil, errors.New("model unavailable")
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	res, err := svc.AnalyzeNow(context.Background(), screenRequest("Chrome", "Inbox", "hello"))
	require.NoError(t, err)

	assert.Contains(t, res.Analysis.Tags, "analysis_error")
	assert.Equal(t, inference.PriorityLow, res.Analysis.Priority)
	require.Len(t, store.activities, 1)
	assert.Contains(t, store.activities[0].Description(), "Chrome")
}

func TestAnalyzeNowRedactsExtractedText(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			a := goodAnalysis("Reading a terminal")
			a.ExtractedText = "export API_KEY: sk-live-1234"
			return a, nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	_, err := svc.AnalyzeNow(context.Background(), screenRequest("Terminal", "zsh", ""))
	require.NoError(t, err)

	stored := store.activities[0].ExtractedText()
	assert.Contains(t, stored, "[REDACTED]")
	assert.NotContains(t, stored, "sk-live-1234")
}

func TestAnalyzeNowFallsBackToOcrText(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Browsing documentation"), nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	_, err := svc.AnalyzeNow(context.Background(), screenRequest("Chrome", "Docs", "password: hunter2 and notes"))
	require.NoError(t, err)

	stored := store.activities[0].ExtractedText()
	assert.Contains(t, stored, "[REDACTED]")
	assert.Contains(t, stored, "and notes")
	assert.NotContains(t, stored, "hunter2")
}

func TestAnalyzeNowKeepsRecordWhenEmbeddingFails(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Writing an email"), nil
		},
	}
	embedder := &fakeEmbedding{err: errors.New("embedding service down")}
	svc, store := newAnalysisFixture(t, provider, embedder)

	_, err := svc.AnalyzeNow(context.Background(), screenRequest("Mail", "Compose", ""))
	require.NoError(t, err)

	assert.Len(t, store.activities, 1)
	assert.Empty(t, store.embeddings)
}

func TestAnalyzeNowKeepsRecordWhenIndexWriteFails(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Writing an email"), nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)
	store.upsertErr = errors.New("index unavailable")

	_, err := svc.AnalyzeNow(context.Background(), screenRequest("Mail", "Compose", ""))
	require.NoError(t, err)
	assert.Len(t, store.activities, 1)
}

func TestAnalyzeNowCallbackPanicIsIsolated(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Working"), nil
		},
	}
	svc, _ := newAnalysisFixture(t, provider, nil)

	var mu sync.Mutex
	var seen []*entity.Activity
	svc.OnAnalyzed(func(ctx context.Context, a *entity.Activity) { panic("boom") })
	svc.OnAnalyzed(func(ctx context.Context, a *entity.Activity) {
		mu.Lock()
		seen = append(seen, a)
		mu.Unlock()
	})

	assert.NotPanics(t, func() {
		_, err := svc.AnalyzeNow(context.Background(), screenRequest("Code", "main.go", ""))
		require.NoError(t, err)
	})
	assert.Len(t, seen, 1)
}

func TestEnqueueScreenSkipsExcludedApps(t *testing.T) {
	svc, store := newAnalysisFixture(t, nil, nil)

	res, err := svc.EnqueueScreen(context.Background(), screenRequest("1Password 8", "Vault", ""))
	require.NoError(t, err)

	assert.False(t, res.Queued)
	assert.Equal(t, 0, svc.QueueDepth())
	assert.Empty(t, store.activities)
}

func TestWorkersDrainQueuesInOrder(t *testing.T) {
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			return goodAnalysis("Using " + req.AppName), nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	for _, app := range []string{"Code", "Chrome", "Slack"} {
		res, err := svc.EnqueueScreen(context.Background(), screenRequest(app, app, ""))
		require.NoError(t, err)
		assert.True(t, res.Queued)
	}

	svc.Start()
	deadline := time.After(2 * time.Second)
	for svc.Processed() < 3 {
		select {
		case <-deadline:
			t.Fatal("pipeline did not drain the queue in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	svc.Stop()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.activities, 3)
	assert.Equal(t, "Code", store.activities[0].AppName)
	assert.Equal(t, "Chrome", store.activities[1].AppName)
	assert.Equal(t, "Slack", store.activities[2].AppName)
}

func TestAudioPipelineTranscribesAndAnalyzes(t *testing.T) {
	provider := &fakeInference{
		transcribeFn: func() (string, error) {
			return "let's move the launch to Friday", nil
		},
		chatFn: func(prompt string) (string, error) {
			return `{"activity":"Discussing the launch date","intent":"scheduling","issues":[],"should_interrupt":false,"interrupt_message":"","tags":["meeting"],"priority":"medium"}`, nil
		},
	}
	svc, store := newAnalysisFixture(t, provider, nil)

	path := "/tmp/chunk-001.wav"
	_, err := svc.EnqueueAudio(context.Background(), &dto.CaptureAudioRequest{
		AudioData:   base64.StdEncoding.EncodeToString([]byte("wav-bytes")),
		MimeType:    "audio/wav",
		AppName:     "Zoom",
		PayloadPath: path,
	})
	require.NoError(t, err)

	svc.Start()
	deadline := time.After(2 * time.Second)
	for svc.Processed() < 1 {
		select {
		case <-deadline:
			t.Fatal("audio event was not processed in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	svc.Stop()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.activities, 1)
	activity := store.activities[0]
	assert.Equal(t, "audio", activity.Modality)
	assert.Equal(t, "let's move the launch to Friday", activity.Transcription)
	assert.Equal(t, "Discussing the launch date", activity.Description())
	assert.Equal(t, inference.PriorityMedium, activity.Priority)
	require.NotNil(t, activity.AudioPath)
	assert.Equal(t, path, *activity.AudioPath)
	assert.Nil(t, activity.ScreenshotPath)
}

func TestRecentContextFeedsLaterAnalyses(t *testing.T) {
	var mu sync.Mutex
	var contexts [][]string
	provider := &fakeInference{
		analyzeFn: func(req inference.ScreenRequest) (*inference.AnalysisResult, error) {
			mu.Lock()
			snapshot := make([]string, len(req.RecentContext))
			copy(snapshot, req.RecentContext)
			contexts = append(contexts, snapshot)
			mu.Unlock()
			return goodAnalysis("Using " + req.AppName), nil
		},
	}
	svc, _ := newAnalysisFixture(t, provider, nil)

	_, err := svc.AnalyzeNow(context.Background(), screenRequest("Code", "main.go", ""))
	require.NoError(t, err)
	_, err = svc.AnalyzeNow(context.Background(), screenRequest("Chrome", "Docs", ""))
	require.NoError(t, err)

	require.Len(t, contexts, 2)
	assert.Empty(t, contexts[0])
	require.Len(t, contexts[1], 1)
	assert.Contains(t, contexts[1][0], "Code")
}
