package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/repository/specification"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/inference"

	"github.com/google/uuid"
)

const (
	neighborTopK     = 5
	patternMinSample = 5
	patternTopApps   = 5
	patternTopHours  = 3
	relatedWorkLimit = 5
	defaultLookback  = 7 // days
)

type ISynthesisService interface {
	// FindConnections relates a topic to stored activity within a
	// lookback window and narrates the link. An empty topic means
	// "what I am doing right now": the most recent activity is used.
	FindConnections(ctx context.Context, topic string, days int) (*dto.ConnectionsResponse, error)

	// DailyInsights summarizes today's recorded activity.
	DailyInsights(ctx context.Context) (*dto.DailyInsightsResponse, error)

	// DetectPatterns computes usage patterns over the lookback window
	// locally. No inference call is made.
	DetectPatterns(ctx context.Context, days int) (*dto.PatternsResponse, error)

	// FindRelatedWork retrieves past activity semantically close to
	// arbitrary text, e.g. the document the user is writing.
	FindRelatedWork(ctx context.Context, req *dto.RelatedWorkRequest) (*dto.RelatedWorkResponse, error)
}

type synthesisService struct {
	uowFactory        unitofwork.RepositoryFactory
	provider          inference.Provider
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewSynthesisService(
	uowFactory unitofwork.RepositoryFactory,
	provider inference.Provider,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) ISynthesisService {
	return &synthesisService{
		uowFactory:        uowFactory,
		provider:          provider,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (s *synthesisService) FindConnections(ctx context.Context, topic string, days int) (*dto.ConnectionsResponse, error) {
	if days <= 0 {
		days = defaultLookback
	}
	now := time.Now()
	since := now.AddDate(0, 0, -days)

	empty := func(insight string) *dto.ConnectionsResponse {
		return &dto.ConnectionsResponse{
			Topic:       topic,
			Insight:     insight,
			Related:     []dto.ActivityResponse{},
			Days:        days,
			GeneratedAt: now,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var currentId uuid.UUID
	if topic == "" {
		recent, err := uow.ActivityRepository().FindRecent(ctx, 1)
		if err != nil {
			return nil, err
		}
		// Nothing recorded yet: short-circuit without touching inference.
		if len(recent) == 0 {
			return empty("No activity recorded yet."), nil
		}
		topic = recent[0].Description()
		currentId = recent[0].Id
	}

	vector, err := s.embeddingProvider.Generate(ctx, topic, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}
	scored, err := uow.ActivityEmbeddingRepository().SearchSimilar(ctx, vector, neighborTopK)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(scored))
	for _, hit := range scored {
		if hit.Embedding.ActivityId == currentId {
			continue
		}
		ids = append(ids, hit.Embedding.ActivityId)
	}
	if len(ids) == 0 {
		return empty("Nothing in your history connects to this yet."), nil
	}

	related, err := uow.ActivityRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.TimeRange{Start: since},
		specification.OrderBy{Field: "timestamp", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(related) == 0 {
		return empty("Nothing in your history connects to this yet."), nil
	}

	insight := s.narrateConnections(ctx, topic, related)
	return &dto.ConnectionsResponse{
		Topic:        topic,
		Insight:      insight,
		RelatedCount: len(related),
		Related:      ToActivityResponses(related),
		Days:         days,
		GeneratedAt:  now,
	}, nil
}

func (s *synthesisService) narrateConnections(ctx context.Context, topic string, related []*entity.Activity) string {
	var b strings.Builder
	for _, a := range related {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", a.Timestamp.Format("Jan 2 15:04"), a.AppName, a.Description())
	}

	prompt := fmt.Sprintf(`The user wants to know how this topic connects to their recorded work: %s

These recorded activities look related:
%s
In one or two sentences, point out the connections, recurring themes, or gaps. Be specific, no preamble.`,
		topic, b.String())

	insight, err := s.provider.Chat(ctx, prompt)
	if err != nil || strings.TrimSpace(insight) == "" {
		s.logger.Warn("SynthesisService", "Connection narration failed, using fallback", map[string]interface{}{"error": fmt.Sprint(err)})
		return fmt.Sprintf("Found %d past activities related to %q, most recently %q.",
			len(related), topic, related[0].Description())
	}
	return strings.TrimSpace(insight)
}

func (s *synthesisService) DailyInsights(ctx context.Context) (*dto.DailyInsightsResponse, error) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.TimeRange{Start: start, End: now},
		specification.OrderBy{Field: "timestamp", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return &dto.DailyInsightsResponse{Summary: "Nothing recorded today yet."}, nil
	}

	var b strings.Builder
	for _, a := range activities {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", a.Timestamp.Format("15:04"), a.AppName, a.Description())
	}

	prompt := fmt.Sprintf(`Summarize the user's day from these recorded activities. Mention main focus areas, notable switches, and anything left unfinished. Three sentences maximum.

%s`, b.String())

	summary, err := s.provider.Chat(ctx, prompt)
	if err != nil || strings.TrimSpace(summary) == "" {
		s.logger.Warn("SynthesisService", "Daily summary failed, using fallback", map[string]interface{}{"error": fmt.Sprint(err)})
		summary = fmt.Sprintf("Recorded %d activities today, starting with %q.", len(activities), activities[len(activities)-1].Description())
	}

	return &dto.DailyInsightsResponse{
		Summary:       strings.TrimSpace(summary),
		ActivityCount: len(activities),
	}, nil
}

func (s *synthesisService) DetectPatterns(ctx context.Context, days int) (*dto.PatternsResponse, error) {
	if days <= 0 {
		days = defaultLookback
	}
	since := time.Now().AddDate(0, 0, -days)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindAll(ctx, specification.TimeRange{Start: since})
	if err != nil {
		return nil, err
	}

	res := &dto.PatternsResponse{
		ActivityCount: len(activities),
		TopApps:       []dto.AppCount{},
		PeakHours:     []dto.HourCount{},
		Suggestions:   []string{},
		Days:          days,
	}
	// Too small a sample produces noise, not patterns.
	if len(activities) < patternMinSample {
		return res, nil
	}

	appCounts := map[string]int{}
	hourCounts := map[int]int{}
	for _, a := range activities {
		appCounts[a.AppName]++
		hourCounts[a.Timestamp.Hour()]++
	}

	for app, count := range appCounts {
		res.TopApps = append(res.TopApps, dto.AppCount{AppName: app, Count: count})
	}
	sort.Slice(res.TopApps, func(i, j int) bool { return res.TopApps[i].Count > res.TopApps[j].Count })
	if len(res.TopApps) > patternTopApps {
		res.TopApps = res.TopApps[:patternTopApps]
	}

	for hour, count := range hourCounts {
		res.PeakHours = append(res.PeakHours, dto.HourCount{Hour: hour, Count: count})
	}
	sort.Slice(res.PeakHours, func(i, j int) bool { return res.PeakHours[i].Count > res.PeakHours[j].Count })
	if len(res.PeakHours) > patternTopHours {
		res.PeakHours = res.PeakHours[:patternTopHours]
	}

	res.Suggestions = patternSuggestions(res.TopApps, res.PeakHours)
	res.Detected = true
	return res, nil
}

func patternSuggestions(topApps []dto.AppCount, peakHours []dto.HourCount) []string {
	var out []string
	if len(topApps) > 0 {
		out = append(out, fmt.Sprintf("Most of your recorded time goes to %s (%d activities).", topApps[0].AppName, topApps[0].Count))
	}
	if len(peakHours) > 0 {
		out = append(out, fmt.Sprintf("You are most active around %02d:00. That may be a good slot for demanding work.", peakHours[0].Hour))
	}
	return out
}

func (s *synthesisService) FindRelatedWork(ctx context.Context, req *dto.RelatedWorkRequest) (*dto.RelatedWorkResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = relatedWorkLimit
	}

	vector, err := s.embeddingProvider.Generate(ctx, req.Text, embedding.TaskQuery)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ActivityEmbeddingRepository().SearchSimilar(ctx, vector, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(scored))
	for _, hit := range scored {
		ids = append(ids, hit.Embedding.ActivityId)
	}
	if len(ids) == 0 {
		return &dto.RelatedWorkResponse{Results: []dto.ActivityResponse{}}, nil
	}

	activities, err := uow.ActivityRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	return &dto.RelatedWorkResponse{
		Results: ToActivityResponses(activities),
		Count:   len(activities),
	}, nil
}
