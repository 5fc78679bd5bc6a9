package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ai-lifeos-be/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSynthesisFixture(provider *fakeInference, embedder *fakeEmbedding) (ISynthesisService, *memStore) {
	if provider == nil {
		provider = &fakeInference{chatFn: func(prompt string) (string, error) { return "You keep circling back to this.", nil }}
	}
	if embedder == nil {
		embedder = &fakeEmbedding{}
	}
	store := newMemStore()
	svc := NewSynthesisService(newMemFactory(store), provider, embedder, nopLogger{})
	return svc, store
}

func TestFindConnectionsEmptyStoreSkipsInference(t *testing.T) {
	provider := &fakeInference{}
	embedder := &fakeEmbedding{}
	svc, _ := newSynthesisFixture(provider, embedder)

	res, err := svc.FindConnections(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, "No activity recorded yet.", res.Insight)
	assert.Empty(t, res.Related)
	assert.Equal(t, 0, provider.chatCount())
	assert.Equal(t, 0, embedder.calls)
}

func TestFindConnectionsExcludesSelf(t *testing.T) {
	embedder := &fakeEmbedding{vectors: map[string][]float32{
		"Writing the migration plan": {1, 0, 0},
	}}
	svc, store := newSynthesisFixture(nil, embedder)

	now := time.Now()
	earlier := addActivity(store, "Docs", "Drafting the rollout checklist", "rollout", now.Add(-3*time.Hour))
	indexActivity(store, earlier, []float32{1, 0.01, 0})

	current := addActivity(store, "Docs", "Writing the migration plan", "migration", now)
	indexActivity(store, current, []float32{1, 0, 0})

	res, err := svc.FindConnections(context.Background(), "", 0)
	require.NoError(t, err)

	require.Equal(t, 1, res.RelatedCount)
	assert.Equal(t, earlier.Id, res.Related[0].Id)
}

func TestFindConnectionsNoNeighbors(t *testing.T) {
	svc, store := newSynthesisFixture(nil, nil)

	current := addActivity(store, "Code", "Starting a new project", "editor", time.Now())
	indexActivity(store, current, []float32{1, 0, 0})

	res, err := svc.FindConnections(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, "Nothing in your history connects to this yet.", res.Insight)
	assert.Empty(t, res.Related)
}

func TestFindConnectionsFallbackWhenChatFails(t *testing.T) {
	provider := &fakeInference{chatFn: func(prompt string) (string, error) { return "", errors.New("model offline") }}
	embedder := &fakeEmbedding{vectors: map[string][]float32{
		"Reviewing the billing code": {1, 0, 0},
	}}
	svc, store := newSynthesisFixture(provider, embedder)

	now := time.Now()
	earlier := addActivity(store, "Code", "Fixing billing rounding", "billing.go", now.Add(-2*time.Hour))
	indexActivity(store, earlier, []float32{1, 0.01, 0})
	addActivity(store, "Code", "Reviewing the billing code", "billing.go", now)

	res, err := svc.FindConnections(context.Background(), "", 0)
	require.NoError(t, err)

	assert.Contains(t, res.Insight, "Reviewing the billing code")
	assert.Contains(t, res.Insight, "Fixing billing rounding")
}

func TestFindConnectionsHonorsLookbackWindow(t *testing.T) {
	provider := &fakeInference{}
	embedder := &fakeEmbedding{vectors: map[string][]float32{
		"billing work": {1, 0, 0},
	}}
	svc, store := newSynthesisFixture(provider, embedder)

	old := addActivity(store, "Code", "Ancient billing fix", "billing.go", time.Now().AddDate(0, 0, -30))
	indexActivity(store, old, []float32{1, 0.01, 0})

	res, err := svc.FindConnections(context.Background(), "billing work", 7)
	require.NoError(t, err)

	assert.Equal(t, "billing work", res.Topic)
	assert.Equal(t, 7, res.Days)
	assert.Empty(t, res.Related)
	assert.Equal(t, 0, provider.chatCount())
}

func TestDailyInsightsCountsOnlyToday(t *testing.T) {
	svc, store := newSynthesisFixture(nil, nil)

	now := time.Now()
	addActivity(store, "Code", "Morning standup notes", "notes", now)
	addActivity(store, "Chrome", "Late night reading", "tabs", now.AddDate(0, 0, -1))

	res, err := svc.DailyInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.ActivityCount)
	assert.NotEmpty(t, res.Summary)
}

func TestDailyInsightsEmptyDay(t *testing.T) {
	provider := &fakeInference{}
	svc, _ := newSynthesisFixture(provider, nil)

	res, err := svc.DailyInsights(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Nothing recorded today yet.", res.Summary)
	assert.Equal(t, 0, res.ActivityCount)
	assert.Equal(t, 0, provider.chatCount())
}

func TestDetectPatternsNeedsMinimumSample(t *testing.T) {
	svc, store := newSynthesisFixture(nil, nil)

	now := time.Now()
	for i := 0; i < 4; i++ {
		addActivity(store, "Code", fmt.Sprintf("Task %d", i), "editor", now.Add(-time.Duration(i)*time.Hour))
	}

	res, err := svc.DetectPatterns(context.Background(), 0)
	require.NoError(t, err)

	assert.False(t, res.Detected)
	assert.Equal(t, 4, res.ActivityCount)
	assert.Empty(t, res.TopApps)
}

func TestDetectPatternsRanksAppsAndHours(t *testing.T) {
	svc, store := newSynthesisFixture(nil, nil)

	now := time.Now()
	base := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	for i := 0; i < 4; i++ {
		addActivity(store, "Code", fmt.Sprintf("Coding %d", i), "editor", base.Add(time.Duration(i)*time.Minute))
	}
	addActivity(store, "Chrome", "Research", "tabs", base.Add(5*time.Hour))
	addActivity(store, "Chrome", "More research", "tabs", base.Add(5*time.Hour+10*time.Minute))
	addActivity(store, "Slack", "Standup", "channel", base.Add(time.Hour))

	res, err := svc.DetectPatterns(context.Background(), 0)
	require.NoError(t, err)

	assert.True(t, res.Detected)
	assert.Equal(t, 7, res.ActivityCount)
	require.NotEmpty(t, res.TopApps)
	assert.Equal(t, dto.AppCount{AppName: "Code", Count: 4}, res.TopApps[0])
	require.NotEmpty(t, res.PeakHours)
	assert.Equal(t, dto.HourCount{Hour: 9, Count: 4}, res.PeakHours[0])
	require.NotEmpty(t, res.Suggestions)
	assert.Contains(t, res.Suggestions[0], "Code")
}

func TestFindRelatedWorkSortsNewestFirst(t *testing.T) {
	embedder := &fakeEmbedding{vectors: map[string][]float32{
		"payment gateway integration": {1, 0, 0},
	}}
	svc, store := newSynthesisFixture(nil, embedder)

	now := time.Now()
	old := addActivity(store, "Code", "Stripe webhook handler", "stripe.go", now.Add(-5*time.Hour))
	indexActivity(store, old, []float32{1, 0.02, 0})
	recent := addActivity(store, "Code", "Payment retries", "retry.go", now.Add(-time.Hour))
	indexActivity(store, recent, []float32{1, 0.01, 0})

	res, err := svc.FindRelatedWork(context.Background(), &dto.RelatedWorkRequest{Text: "payment gateway integration"})
	require.NoError(t, err)

	require.Equal(t, 2, res.Count)
	assert.Equal(t, recent.Id, res.Results[0].Id)
	assert.Equal(t, old.Id, res.Results[1].Id)
}

func TestFindRelatedWorkEmptyIndex(t *testing.T) {
	svc, store := newSynthesisFixture(nil, nil)
	addActivity(store, "Code", "Unindexed work", "editor", time.Now())

	res, err := svc.FindRelatedWork(context.Background(), &dto.RelatedWorkRequest{Text: "anything at all"})
	require.NoError(t, err)

	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Results)
}
