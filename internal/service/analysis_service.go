package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/capture"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/inference"

	"github.com/google/uuid"
)

// AnalyzedCallback is invoked after an activity is persisted. Callbacks
// run in the worker goroutine; a panicking callback never takes the
// pipeline down.
type AnalyzedCallback func(ctx context.Context, activity *entity.Activity)

type IAnalysisService interface {
	EnqueueScreen(ctx context.Context, req *dto.CaptureScreenRequest) (*dto.CaptureResponse, error)
	EnqueueAudio(ctx context.Context, req *dto.CaptureAudioRequest) (*dto.CaptureResponse, error)

	// AnalyzeNow processes a screen capture synchronously, skipping the
	// queue. Used for on-demand "what am I looking at" requests.
	AnalyzeNow(ctx context.Context, req *dto.CaptureScreenRequest) (*dto.AnalyzeNowResponse, error)

	OnAnalyzed(cb AnalyzedCallback)

	Start()
	Stop()

	QueueDepth() int
	Processed() int64
}

type analysisService struct {
	cfg               *config.Config
	uowFactory        unitofwork.RepositoryFactory
	provider          inference.Provider
	embeddingProvider embedding.Provider
	logger            logger.ILogger

	// Per-modality queues preserve capture order within a modality
	// while letting screen and audio drain independently.
	screenQueue *capture.Queue
	audioQueue  *capture.Queue

	callbacks   []AnalyzedCallback
	callbacksMu sync.RWMutex

	// Ring of recent activity one-liners fed back into the vision prompt.
	recent   []string
	recentMu sync.Mutex

	processed atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewAnalysisService(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	provider inference.Provider,
	embeddingProvider embedding.Provider,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		cfg:               cfg,
		uowFactory:        uowFactory,
		provider:          provider,
		embeddingProvider: embeddingProvider,
		logger:            log,
		screenQueue:       capture.NewQueue(),
		audioQueue:        capture.NewQueue(),
		stop:              make(chan struct{}),
	}
}

func (s *analysisService) OnAnalyzed(cb AnalyzedCallback) {
	s.callbacksMu.Lock()
	defer s.callbacksMu.Unlock()
	s.callbacks = append(s.callbacks, cb)
}

func (s *analysisService) EnqueueScreen(ctx context.Context, req *dto.CaptureScreenRequest) (*dto.CaptureResponse, error) {
	if !capture.ShouldCapture(req.AppName) {
		s.logger.Debug("AnalysisService", "Capture skipped for excluded app", map[string]interface{}{"app": req.AppName})
		return &dto.CaptureResponse{Queued: false, QueueDepth: s.QueueDepth()}, nil
	}

	event := screenEvent(req)
	s.screenQueue.Enqueue(event)
	return &dto.CaptureResponse{Queued: true, QueueDepth: s.QueueDepth()}, nil
}

func (s *analysisService) EnqueueAudio(ctx context.Context, req *dto.CaptureAudioRequest) (*dto.CaptureResponse, error) {
	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	s.audioQueue.Enqueue(&capture.Event{
		Modality:    capture.ModalityAudio,
		Timestamp:   ts,
		AppName:     req.AppName,
		PayloadPath: req.PayloadPath,
		RawText:     req.AudioData,
		MimeType:    req.MimeType,
	})
	return &dto.CaptureResponse{Queued: true, QueueDepth: s.QueueDepth()}, nil
}

func (s *analysisService) AnalyzeNow(ctx context.Context, req *dto.CaptureScreenRequest) (*dto.AnalyzeNowResponse, error) {
	activity := s.processScreen(ctx, screenEvent(req))
	if err := s.store(ctx, activity); err != nil {
		return nil, err
	}
	s.afterStore(ctx, activity)
	return &dto.AnalyzeNowResponse{
		ActivityId: activity.Id,
		Analysis:   toAnalysisResponse(activity),
	}, nil
}

func (s *analysisService) Start() {
	s.wg.Add(2)
	go s.worker(s.screenQueue, s.processScreen)
	go s.worker(s.audioQueue, s.processAudio)
	s.logger.Info("AnalysisService", "Pipeline workers started", nil)
}

func (s *analysisService) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	s.logger.Info("AnalysisService", "Pipeline workers stopped", map[string]interface{}{"processed": s.Processed()})
}

func (s *analysisService) QueueDepth() int {
	return s.screenQueue.Len() + s.audioQueue.Len()
}

func (s *analysisService) Processed() int64 {
	return s.processed.Load()
}

func (s *analysisService) worker(queue *capture.Queue, process func(context.Context, *capture.Event) *entity.Activity) {
	defer s.wg.Done()
	ctx := context.Background()
	for {
		select {
		case <-s.stop:
			return
		default:
		}

		event, ok := queue.Dequeue(s.cfg.Capture.QueuePollTimeout)
		if !ok {
			continue
		}

		activity := process(ctx, event)
		if err := s.store(ctx, activity); err != nil {
			s.logger.Error("AnalysisService", "Failed to store activity", map[string]interface{}{"error": err.Error(), "app": event.AppName})
			continue
		}
		s.afterStore(ctx, activity)
	}
}

// processScreen always returns a well-formed activity. Inference
// failures degrade to a default analysis instead of dropping the event.
func (s *analysisService) processScreen(ctx context.Context, event *capture.Event) *entity.Activity {
	ocr := capture.RedactSensitive(event.RawText)

	imageData, err := base64.StdEncoding.DecodeString(event.ImageData)
	if err != nil {
		s.logger.Warn("AnalysisService", "Invalid base64 image payload", map[string]interface{}{"app": event.AppName})
		imageData = nil
	}

	var analysis *inference.AnalysisResult
	if len(imageData) > 0 {
		analysis, err = s.provider.AnalyzeScreen(ctx, inference.ScreenRequest{
			ImageData:     imageData,
			MimeType:      event.MimeType,
			AppName:       event.AppName,
			WindowTitle:   event.WindowTitle,
			OcrText:       ocr,
			RecentContext: s.recentContext(),
		})
		if err != nil {
			s.logger.Warn("AnalysisService", "Screen analysis failed, using defaults", map[string]interface{}{"error": err.Error(), "app": event.AppName})
		}
	}
	if analysis == nil {
		analysis = inference.DefaultAnalysis(event.AppName)
	}
	if analysis.ExtractedText == "" {
		analysis.ExtractedText = ocr
	}
	analysis.ExtractedText = capture.RedactSensitive(analysis.ExtractedText)

	return s.toActivity(event, analysis, "")
}

func (s *analysisService) processAudio(ctx context.Context, event *capture.Event) *entity.Activity {
	var transcription string

	audioData, err := base64.StdEncoding.DecodeString(event.RawText)
	if err != nil {
		s.logger.Warn("AnalysisService", "Invalid base64 audio payload", nil)
	} else if len(audioData) > 0 {
		transcription, err = s.provider.TranscribeAudio(ctx, audioData, event.MimeType)
		if err != nil {
			s.logger.Warn("AnalysisService", "Audio transcription failed", map[string]interface{}{"error": err.Error()})
		}
	}
	transcription = capture.RedactSensitive(transcription)

	analysis := s.analyzeTranscription(ctx, transcription, event.AppName)
	return s.toActivity(event, analysis, transcription)
}

func (s *analysisService) analyzeTranscription(ctx context.Context, transcription, appName string) *inference.AnalysisResult {
	if strings.TrimSpace(transcription) == "" {
		return inference.DefaultAnalysis(appName)
	}

	prompt := fmt.Sprintf(`Analyze this audio transcription of the user's environment.

Transcription:
%s

Respond with ONLY a JSON object:
{
  "activity": "one sentence describing what is happening",
  "intent": "what the user is likely trying to accomplish",
  "issues": [],
  "should_interrupt": false,
  "interrupt_message": "",
  "tags": ["relevant", "topic", "tags"],
  "priority": "low|medium|high|critical"
}`, transcription)

	text, err := s.provider.Chat(ctx, prompt)
	if err != nil {
		s.logger.Warn("AnalysisService", "Transcription analysis failed, using defaults", map[string]interface{}{"error": err.Error()})
		return inference.DefaultAnalysis(appName)
	}
	analysis := inference.ParseAnalysis(text)
	if analysis == nil {
		return inference.DefaultAnalysis(appName)
	}
	analysis.ExtractedText = transcription
	return analysis
}

func (s *analysisService) toActivity(event *capture.Event, analysis *inference.AnalysisResult, transcription string) *entity.Activity {
	activity := &entity.Activity{
		Id:            uuid.New(),
		Timestamp:     event.Timestamp,
		Modality:      string(event.Modality),
		AppName:       event.AppName,
		WindowTitle:   event.WindowTitle,
		Transcription: transcription,
		Analysis:      analysis,
		Tags:          analysis.Tags,
		Priority:      analysis.Priority,
		CreatedAt:     time.Now(),
	}
	if event.PayloadPath != "" {
		path := event.PayloadPath
		if event.Modality == capture.ModalityAudio {
			activity.AudioPath = &path
		} else {
			activity.ScreenshotPath = &path
		}
	}
	return activity
}

// store persists the record and then its index entry. A failed index
// write is logged and swallowed: the record of what happened must
// survive even when the search index lags behind.
func (s *analysisService) store(ctx context.Context, activity *entity.Activity) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.ActivityRepository().Create(ctx, activity); err != nil {
		return err
	}

	document := activity.Description()
	if text := activity.ExtractedText(); text != "" {
		document = document + "\n" + text
	}
	if activity.WindowTitle != "" {
		document = document + "\n" + activity.WindowTitle
	}

	vector, err := s.embeddingProvider.Generate(ctx, document, embedding.TaskDocument)
	if err != nil {
		s.logger.Warn("AnalysisService", "Embedding generation failed, record kept without index entry", map[string]interface{}{"error": err.Error(), "activity_id": activity.Id})
		return nil
	}

	err = uow.ActivityEmbeddingRepository().Upsert(ctx, &entity.ActivityEmbedding{
		ActivityId: activity.Id,
		Document:   document,
		Embedding:  vector,
		AppName:    activity.AppName,
		Tags:       strings.Join(activity.Tags, ","),
		Priority:   activity.Priority,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		s.logger.Warn("AnalysisService", "Index write failed, record kept without index entry", map[string]interface{}{"error": err.Error(), "activity_id": activity.Id})
	}
	return nil
}

func (s *analysisService) afterStore(ctx context.Context, activity *entity.Activity) {
	s.processed.Add(1)
	s.remember(activity)

	s.callbacksMu.RLock()
	callbacks := make([]AnalyzedCallback, len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.callbacksMu.RUnlock()

	for _, cb := range callbacks {
		s.invoke(ctx, cb, activity)
	}
}

func (s *analysisService) invoke(ctx context.Context, cb AnalyzedCallback, activity *entity.Activity) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("AnalysisService", "Analyzed callback panicked", map[string]interface{}{"panic": fmt.Sprint(r), "activity_id": activity.Id})
		}
	}()
	cb(ctx, activity)
}

func (s *analysisService) remember(activity *entity.Activity) {
	limit := s.cfg.Capture.RecentContext
	if limit <= 0 {
		return
	}
	line := fmt.Sprintf("[%s] %s: %s", activity.Timestamp.Format("15:04"), activity.AppName, activity.Description())

	s.recentMu.Lock()
	defer s.recentMu.Unlock()
	s.recent = append(s.recent, line)
	if len(s.recent) > limit {
		s.recent = s.recent[len(s.recent)-limit:]
	}
}

func (s *analysisService) recentContext() []string {
	s.recentMu.Lock()
	defer s.recentMu.Unlock()
	out := make([]string, len(s.recent))
	copy(out, s.recent)
	return out
}

func screenEvent(req *dto.CaptureScreenRequest) *capture.Event {
	ts := time.Now()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}
	return &capture.Event{
		Modality:    capture.ModalityScreen,
		Timestamp:   ts,
		AppName:     req.AppName,
		WindowTitle: req.WindowTitle,
		PayloadPath: req.PayloadPath,
		RawText:     req.OcrText,
		ImageData:   req.ImageData,
		MimeType:    req.MimeType,
	}
}
