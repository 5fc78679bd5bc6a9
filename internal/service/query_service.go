package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/repository/specification"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/inference"
	"ai-lifeos-be/pkg/query"

	"github.com/google/uuid"
)

const (
	vectorTopK       = 20
	hydrateLimit     = 10
	keywordStageMin  = 5
	keywordMinLen    = 3
	recencyFallback  = 10
	answerContextTop = 15
)

type IQueryService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
}

type queryService struct {
	cfg               *config.Config
	uowFactory        unitofwork.RepositoryFactory
	provider          inference.Provider
	embeddingProvider embedding.Provider
	logger            logger.ILogger
}

func NewQueryService(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	provider inference.Provider,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IQueryService {
	return &queryService{
		cfg:               cfg,
		uowFactory:        uowFactory,
		provider:          provider,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (s *queryService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	kind, params := query.Classify(req.Query)
	s.logger.Info("QueryService", "Query classified", map[string]interface{}{"kind": string(kind), "query": req.Query})

	var (
		res *dto.AskResponse
		err error
	)
	switch kind {
	case query.KindTemporal:
		res, err = s.askTemporal(ctx, req.Query, params)
	case query.KindEntity:
		res, err = s.askEntity(ctx, req.Query, params)
	case query.KindStats:
		res, err = s.askStats(ctx)
	default:
		res, err = s.askSemantic(ctx, req.Query)
	}
	if err != nil {
		return nil, err
	}
	res.QueryType = string(kind)

	s.audit(ctx, req.Query, res)
	return res, nil
}

func (s *queryService) askTemporal(ctx context.Context, raw string, params query.Params) (*dto.AskResponse, error) {
	from, to := query.ResolveTimeRange(params, time.Now())

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.TimeRange{Start: from, End: to},
		specification.OrderBy{Field: "timestamp", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	answer := s.synthesizeAnswer(ctx, raw, activities)
	return &dto.AskResponse{
		Answer:  answer,
		Results: ToActivityResponses(activities),
		Count:   len(activities),
	}, nil
}

func (s *queryService) askEntity(ctx context.Context, raw string, params query.Params) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	activities, err := uow.ActivityRepository().FindAll(ctx,
		specification.TextSearch{Query: params.Name},
		specification.OrderBy{Field: "timestamp", Desc: true},
		specification.Limit{Limit: answerContextTop},
	)
	if err != nil {
		return nil, err
	}

	answer := s.synthesizeAnswer(ctx, raw, activities)
	return &dto.AskResponse{
		Answer:  answer,
		Results: ToActivityResponses(activities),
		Count:   len(activities),
	}, nil
}

// askStats answers from the database alone. No inference call is made.
func (s *queryService) askStats(ctx context.Context) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stats, err := uow.ActivityRepository().Stats(ctx)
	if err != nil {
		return nil, err
	}
	embeddingCount, err := uow.ActivityEmbeddingRepository().Count(ctx)
	if err != nil {
		return nil, err
	}
	alertCount, err := uow.AuditEventRepository().Count(ctx,
		specification.FilterBy{Field: "event_type", Value: entity.EventTypeProactiveAlert},
	)
	if err != nil {
		return nil, err
	}

	answer := fmt.Sprintf("I have %d recorded activities, %d of them indexed for search, and %d proactive alerts on file.",
		stats.ActivityCount, embeddingCount, alertCount)
	if stats.EarliestActivity != nil && stats.LatestActivity != nil {
		answer += fmt.Sprintf(" Records span %s to %s.",
			stats.EarliestActivity.Format("Jan 2 15:04"),
			stats.LatestActivity.Format("Jan 2 15:04"))
	}

	return &dto.AskResponse{
		Answer:  answer,
		Results: []dto.ActivityResponse{},
		Count:   0,
	}, nil
}

// askSemantic runs a three stage retrieval funnel. Later stages only
// run when earlier ones come up short, and the recency fallback
// guarantees the funnel never returns nothing on a non-empty store.
func (s *queryService) askSemantic(ctx context.Context, raw string) (*dto.AskResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Stage 1: vector search.
	activities := s.vectorStage(ctx, uow, raw)

	// Stage 2: keyword search, only when the vector stage is thin.
	if len(activities) < keywordStageMin {
		activities = mergeActivities(activities, s.keywordStage(ctx, uow, raw))
	}

	// Stage 3: recency fallback.
	if len(activities) == 0 {
		recent, err := uow.ActivityRepository().FindRecent(ctx, recencyFallback)
		if err != nil {
			return nil, err
		}
		activities = recent
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Timestamp.After(activities[j].Timestamp)
	})

	answer := s.synthesizeAnswer(ctx, raw, activities)
	return &dto.AskResponse{
		Answer:  answer,
		Results: ToActivityResponses(activities),
		Count:   len(activities),
	}, nil
}

func (s *queryService) vectorStage(ctx context.Context, uow unitofwork.UnitOfWork, raw string) []*entity.Activity {
	vector, err := s.embeddingProvider.Generate(ctx, raw, embedding.TaskQuery)
	if err != nil {
		s.logger.Warn("QueryService", "Query embedding failed, skipping vector stage", map[string]interface{}{"error": err.Error()})
		return nil
	}

	scored, err := uow.ActivityEmbeddingRepository().SearchSimilar(ctx, vector, vectorTopK)
	if err != nil {
		s.logger.Warn("QueryService", "Vector search failed, skipping vector stage", map[string]interface{}{"error": err.Error()})
		return nil
	}

	ids := make([]uuid.UUID, 0, hydrateLimit)
	for _, hit := range scored {
		if len(ids) == hydrateLimit {
			break
		}
		ids = append(ids, hit.Embedding.ActivityId)
	}
	if len(ids) == 0 {
		return nil
	}

	activities, err := uow.ActivityRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		s.logger.Warn("QueryService", "Hydration failed, skipping vector stage", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return activities
}

// keywordStage fans out one text search per keyword and merges the
// results.
func (s *queryService) keywordStage(ctx context.Context, uow unitofwork.UnitOfWork, raw string) []*entity.Activity {
	keywords := query.Keywords(raw, keywordMinLen)
	if len(keywords) == 0 {
		return nil
	}

	var (
		mu    sync.Mutex
		found []*entity.Activity
		wg    sync.WaitGroup
	)
	for _, kw := range keywords {
		wg.Add(1)
		go func(term string) {
			defer wg.Done()
			matches, err := uow.ActivityRepository().FindAll(ctx,
				specification.TextSearch{Query: term},
				specification.OrderBy{Field: "timestamp", Desc: true},
				specification.Limit{Limit: hydrateLimit},
			)
			if err != nil {
				s.logger.Warn("QueryService", "Keyword search failed", map[string]interface{}{"keyword": term, "error": err.Error()})
				return
			}
			mu.Lock()
			found = append(found, matches...)
			mu.Unlock()
		}(kw)
	}
	wg.Wait()
	return found
}

// synthesizeAnswer turns the retrieved activities into a natural
// language answer. Inference failures fall back to a deterministic
// summary so the caller always gets something.
func (s *queryService) synthesizeAnswer(ctx context.Context, raw string, activities []*entity.Activity) string {
	if len(activities) == 0 {
		return "I don't have any recorded activity matching that yet."
	}

	top := activities
	if len(top) > answerContextTop {
		top = top[:answerContextTop]
	}

	var b strings.Builder
	for _, a := range top {
		fmt.Fprintf(&b, "- [%s] %s (%s): %s\n", a.Timestamp.Format("Jan 2 15:04"), a.AppName, a.Modality, a.Description())
	}

	prompt := fmt.Sprintf(`You are the user's personal activity companion. Answer their question using ONLY the recorded activities below. Be concise and specific. If the records don't fully answer the question, say what you do know.

Question: %s

Recorded activities:
%s`, raw, b.String())

	answer, err := s.provider.Chat(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		s.logger.Warn("QueryService", "Answer synthesis failed, using fallback", map[string]interface{}{"error": fmt.Sprint(err)})
		return s.fallbackAnswer(activities)
	}
	return strings.TrimSpace(answer)
}

// fallbackAnswer names the dominant application in the result set.
func (s *queryService) fallbackAnswer(activities []*entity.Activity) string {
	counts := map[string]int{}
	for _, a := range activities {
		counts[a.AppName]++
	}
	topApp, topCount := "", 0
	for app, count := range counts {
		if count > topCount {
			topApp, topCount = app, count
		}
	}
	return fmt.Sprintf("I found %d related activities, mostly in %s. The most recent one: %s.",
		len(activities), topApp, activities[0].Description())
}

func (s *queryService) audit(ctx context.Context, rawQuery string, res *dto.AskResponse) {
	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.AuditEventRepository().Create(ctx, &entity.AuditEvent{
		Id:        uuid.New(),
		Timestamp: now,
		EventType: entity.EventTypeQuery,
		Content:   rawQuery,
		Priority:  inference.PriorityLow,
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("QueryService", "Failed to audit query", map[string]interface{}{"error": err.Error()})
	}
}

func mergeActivities(lists ...[]*entity.Activity) []*entity.Activity {
	seen := map[uuid.UUID]bool{}
	var merged []*entity.Activity
	for _, list := range lists {
		for _, a := range list {
			if seen[a.Id] {
				continue
			}
			seen[a.Id] = true
			merged = append(merged, a)
		}
	}
	return merged
}
