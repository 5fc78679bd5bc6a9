package service

import (
	"context"
	"testing"
	"time"

	"ai-lifeos-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAudit(store *memStore, eventType, alertType string, ts time.Time) {
	store.mu.Lock()
	store.auditEvents = append(store.auditEvents, &entity.AuditEvent{
		Id:        uuid.New(),
		Timestamp: ts,
		EventType: eventType,
		AlertType: alertType,
		Content:   "test content",
		Priority:  "medium",
	})
	store.mu.Unlock()
}

func newActivityService(store *memStore, pipeline IAnalysisService) IActivityService {
	rules := NewProactiveService(testConfig(), newMemFactory(store), &fakeEmbedding{}, nil, &fakeEmailService{}, nopLogger{})
	return NewActivityService(newMemFactory(store), pipeline, rules)
}

func TestListRecentReturnsNewestFirst(t *testing.T) {
	store := newMemStore()
	pipeline, _ := newAnalysisFixture(t, nil, nil)
	svc := newActivityService(store, pipeline)

	now := time.Now()
	addActivity(store, "Code", "Oldest", "editor", now.Add(-3*time.Hour))
	addActivity(store, "Chrome", "Middle", "tabs", now.Add(-2*time.Hour))
	addActivity(store, "Slack", "Newest", "channel", now.Add(-time.Hour))

	res, err := svc.ListRecent(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, "Newest", res[0].Description)
	assert.Equal(t, "Middle", res[1].Description)
}

func TestListAlertsFiltersQueryEvents(t *testing.T) {
	store := newMemStore()
	pipeline, _ := newAnalysisFixture(t, nil, nil)
	svc := newActivityService(store, pipeline)

	now := time.Now()
	seedAudit(store, entity.EventTypeProactiveAlert, AlertDeadlineApproaching, now.Add(-time.Hour))
	seedAudit(store, entity.EventTypeQuery, "", now.Add(-30*time.Minute))
	seedAudit(store, entity.EventTypeProactiveAlert, AlertAiInterrupt, now)

	res, err := svc.ListAlerts(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, res, 2)
	assert.Equal(t, AlertAiInterrupt, res[0].AlertType)
	assert.Equal(t, AlertDeadlineApproaching, res[1].AlertType)
}

func TestStatsMergesStoreAndPipeline(t *testing.T) {
	store := newMemStore()
	pipeline, _ := newAnalysisFixture(t, nil, nil)
	svc := newActivityService(store, pipeline)

	now := time.Now()
	a := addActivity(store, "Code", "Working", "editor", now.Add(-time.Hour))
	indexActivity(store, a, []float32{1, 0, 0})
	addActivity(store, "Chrome", "Reading", "tabs", now)
	seedAudit(store, entity.EventTypeProactiveAlert, AlertDeadlineApproaching, now)

	res, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), res.ActivityCount)
	assert.Equal(t, int64(1), res.EmbeddingCount)
	assert.Equal(t, int64(1), res.AlertCount)
	assert.Equal(t, 0, res.QueueDepth)
	assert.Equal(t, int64(0), res.Processed)
	assert.Equal(t, 0, res.ActiveCooldowns)
	require.NotNil(t, res.LatestActivity)
	assert.True(t, res.LatestActivity.After(*res.EarliestActivity))
}

func TestRetentionClearsOnlyStalePayloads(t *testing.T) {
	store := newMemStore()
	cfg := testConfig()
	svc := NewRetentionService(cfg, newMemFactory(store), nopLogger{})

	now := time.Now()
	stalePath := "/data/shots/old.png"
	stale := addActivity(store, "Code", "Old work", "editor", now.Add(-8*24*time.Hour))
	stale.ScreenshotPath = &stalePath

	freshPath := "/data/shots/new.png"
	fresh := addActivity(store, "Code", "New work", "editor", now.Add(-time.Hour))
	fresh.ScreenshotPath = &freshPath

	cleared, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), cleared)
	assert.Nil(t, stale.ScreenshotPath)
	require.NotNil(t, fresh.ScreenshotPath)
	assert.Equal(t, freshPath, *fresh.ScreenshotPath)

	// A second sweep has nothing left to clear.
	cleared, err = svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), cleared)
}
