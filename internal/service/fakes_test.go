package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/repository/contract"
	"ai-lifeos-be/internal/repository/specification"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/inference"

	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		Capture: config.CaptureConfig{
			QueuePollTimeout: 10 * time.Millisecond,
			RecentContext:    5,
		},
		Proactive: config.ProactiveConfig{
			AlertCooldown:      time.Minute,
			DuplicateThreshold: 0.1,
		},
		Retention: config.RetentionConfig{
			PayloadTTL: 7 * 24 * time.Hour,
			Interval:   time.Hour,
		},
	}
}

// In-memory store shared by the fake repositories.

type memStore struct {
	mu          sync.Mutex
	activities  []*entity.Activity
	embeddings  map[uuid.UUID]*entity.ActivityEmbedding
	auditEvents []*entity.AuditEvent

	createActivityErr   error
	upsertErr           error
	searchErr           error
	failNextAuditCreate bool
}

func newMemStore() *memStore {
	return &memStore{embeddings: map[uuid.UUID]*entity.ActivityEmbedding{}}
}

type memFactory struct{ store *memStore }

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUow{store: f.store}
}

func newMemFactory(store *memStore) unitofwork.RepositoryFactory {
	return &memFactory{store: store}
}

type memUow struct{ store *memStore }

func (u *memUow) Begin(ctx context.Context) error { return nil }
func (u *memUow) Commit() error                   { return nil }
func (u *memUow) Rollback() error                 { return nil }

func (u *memUow) ActivityRepository() contract.ActivityRepository {
	return &memActivityRepo{store: u.store}
}

func (u *memUow) ActivityEmbeddingRepository() contract.ActivityEmbeddingRepository {
	return &memEmbeddingRepo{store: u.store}
}

func (u *memUow) AuditEventRepository() contract.AuditEventRepository {
	return &memAuditRepo{store: u.store}
}

// Activity repository

type memActivityRepo struct{ store *memStore }

func (r *memActivityRepo) Create(ctx context.Context, activity *entity.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.createActivityErr != nil {
		return r.store.createActivityErr
	}
	r.store.activities = append(r.store.activities, activity)
	return nil
}

func (r *memActivityRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Activity, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *memActivityRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Activity, error) {
	r.store.mu.Lock()
	out := make([]*entity.Activity, len(r.store.activities))
	copy(out, r.store.activities)
	r.store.mu.Unlock()

	for _, spec := range specs {
		out = applyActivitySpec(out, spec)
	}
	return out, nil
}

func applyActivitySpec(in []*entity.Activity, spec specification.Specification) []*entity.Activity {
	switch s := spec.(type) {
	case specification.ByID:
		return filterActivities(in, func(a *entity.Activity) bool { return a.Id == s.ID })
	case specification.ByIDs:
		ids := map[uuid.UUID]bool{}
		for _, id := range s.IDs {
			ids[id] = true
		}
		return filterActivities(in, func(a *entity.Activity) bool { return ids[a.Id] })
	case specification.TimeRange:
		return filterActivities(in, func(a *entity.Activity) bool {
			if !s.Start.IsZero() && a.Timestamp.Before(s.Start) {
				return false
			}
			if !s.End.IsZero() && a.Timestamp.After(s.End) {
				return false
			}
			return true
		})
	case specification.TextSearch:
		q := strings.ToLower(s.Query)
		return filterActivities(in, func(a *entity.Activity) bool {
			hay := strings.ToLower(a.WindowTitle + " " + a.Description() + " " + a.ExtractedText() + " " + a.Transcription)
			return strings.Contains(hay, q)
		})
	case specification.OrderBy:
		sorted := make([]*entity.Activity, len(in))
		copy(sorted, in)
		sort.SliceStable(sorted, func(i, j int) bool {
			if s.Desc {
				return sorted[i].Timestamp.After(sorted[j].Timestamp)
			}
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})
		return sorted
	case specification.Limit:
		if len(in) > s.Limit {
			return in[:s.Limit]
		}
		return in
	default:
		return in
	}
}

func filterActivities(in []*entity.Activity, keep func(*entity.Activity) bool) []*entity.Activity {
	var out []*entity.Activity
	for _, a := range in {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r *memActivityRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func (r *memActivityRepo) FindRecent(ctx context.Context, limit int) ([]*entity.Activity, error) {
	all, err := r.FindAll(ctx, specification.OrderBy{Field: "timestamp", Desc: true})
	if err != nil {
		return nil, err
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memActivityRepo) Stats(ctx context.Context) (*contract.ActivityStats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stats := &contract.ActivityStats{ActivityCount: int64(len(r.store.activities))}
	for _, a := range r.store.activities {
		ts := a.Timestamp
		if stats.EarliestActivity == nil || ts.Before(*stats.EarliestActivity) {
			t := ts
			stats.EarliestActivity = &t
		}
		if stats.LatestActivity == nil || ts.After(*stats.LatestActivity) {
			t := ts
			stats.LatestActivity = &t
		}
	}
	return stats, nil
}

func (r *memActivityRepo) NullStalePayloads(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var cleared int64
	for _, a := range r.store.activities {
		if a.Timestamp.Before(cutoff) && (a.ScreenshotPath != nil || a.AudioPath != nil) {
			a.ScreenshotPath = nil
			a.AudioPath = nil
			cleared++
		}
	}
	return cleared, nil
}

// Embedding repository

type memEmbeddingRepo struct{ store *memStore }

func (r *memEmbeddingRepo) Upsert(ctx context.Context, embedding *entity.ActivityEmbedding) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.upsertErr != nil {
		return r.store.upsertErr
	}
	r.store.embeddings[embedding.ActivityId] = embedding
	return nil
}

func (r *memEmbeddingRepo) SearchSimilar(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredActivityEmbedding, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.searchErr != nil {
		return nil, r.store.searchErr
	}

	var scored []*contract.ScoredActivityEmbedding
	for _, e := range r.store.embeddings {
		scored = append(scored, &contract.ScoredActivityEmbedding{
			Embedding: e,
			Distance:  cosineDistance(vector, e.Embedding),
		})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Distance < scored[j].Distance })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *memEmbeddingRepo) Count(ctx context.Context) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return int64(len(r.store.embeddings)), nil
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// Audit repository

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Create(ctx context.Context, event *entity.AuditEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failNextAuditCreate {
		r.store.failNextAuditCreate = false
		return errors.New("write failed")
	}
	r.store.auditEvents = append(r.store.auditEvents, event)
	return nil
}

func (r *memAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEvent, error) {
	r.store.mu.Lock()
	out := make([]*entity.AuditEvent, len(r.store.auditEvents))
	copy(out, r.store.auditEvents)
	r.store.mu.Unlock()

	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.FilterBy:
			var filtered []*entity.AuditEvent
			for _, e := range out {
				if s.Field == "event_type" && e.EventType == s.Value {
					filtered = append(filtered, e)
				}
			}
			out = filtered
		case specification.OrderBy:
			sort.SliceStable(out, func(i, j int) bool {
				if s.Desc {
					return out[i].Timestamp.After(out[j].Timestamp)
				}
				return out[i].Timestamp.Before(out[j].Timestamp)
			})
		case specification.Limit:
			if len(out) > s.Limit {
				out = out[:s.Limit]
			}
		}
	}
	return out, nil
}

func (r *memAuditRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

// Providers

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type fakeInference struct {
	mu             sync.Mutex
	analyzeFn      func(req inference.ScreenRequest) (*inference.AnalysisResult, error)
	chatFn         func(prompt string) (string, error)
	transcribeFn   func() (string, error)
	analyzeCalls   int
	chatCalls      int
	transcribeCnt  int
	lastChatPrompt string
}

func (f *fakeInference) AnalyzeScreen(ctx context.Context, req inference.ScreenRequest) (*inference.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls++
	fn := f.analyzeFn
	f.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return nil, errors.New("no analyze function configured")
}

func (f *fakeInference) TranscribeAudio(ctx context.Context, audioData []byte, mimeType string) (string, error) {
	f.mu.Lock()
	f.transcribeCnt++
	fn := f.transcribeFn
	f.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return "", errors.New("no transcribe function configured")
}

func (f *fakeInference) Chat(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.chatCalls++
	f.lastChatPrompt = prompt
	fn := f.chatFn
	f.mu.Unlock()
	if fn != nil {
		return fn(prompt)
	}
	return "", errors.New("no chat function configured")
}

func (f *fakeInference) chatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls
}

type fakeEmbedding struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbedding) Generate(ctx context.Context, text, taskType string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	// Deterministic fallback so unconfigured texts still embed.
	v := make([]float32, 8)
	for i, c := range text {
		v[i%8] += float32(c)
	}
	return v, nil
}
