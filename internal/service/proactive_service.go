package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-lifeos-be/internal/config"
	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/entity"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/pkg/mailer"
	"ai-lifeos-be/internal/repository/unitofwork"
	"ai-lifeos-be/pkg/embedding"
	"ai-lifeos-be/pkg/events"
	"ai-lifeos-be/pkg/inference"
	pktNats "ai-lifeos-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Alert types emitted by the rule engine.
const (
	AlertAiInterrupt         = "ai_interrupt"
	AlertEmailNoAttachment   = "email_no_attachment"
	AlertDuplicateWork       = "duplicate_work"
	AlertPasswordExposed     = "password_exposed"
	AlertDeadlineApproaching = "deadline_approaching"
)

var (
	emailApps          = []string{"mail", "outlook", "gmail", "thunderbird", "spark", "airmail"}
	composeWords       = []string{"compose", "new message", "reply", "forward", "draft"}
	attachmentKeywords = []string{"attach", "enclosed", "enclosing", "find the file", "see file"}
	credentialManagers = []string{"keychain", "1password", "lastpass", "dashlane", "bitwarden"}
	shareIndicators    = []string{"share", "meeting", "call", "zoom", "teams", "meet"}
	passwordMarkers    = []string{"[redacted]", "password:", "pwd:", "secret:"}
	deadlineMarkers    = []string{"due today", "due tomorrow", "deadline", "eod", "end of day"}
)

// AlertCallback receives every fired alert. Callbacks run inline on the
// evaluating goroutine and are panic-isolated.
type AlertCallback func(ctx context.Context, alert *dto.AlertResponse)

type IProactiveService interface {
	// Evaluate runs the rules against the activity in fixed order and
	// fires at most one alert: the first rule that matches wins. A
	// rule that is cooling down, fails, or panics is skipped and the
	// next one is tried.
	Evaluate(ctx context.Context, activity *entity.Activity)

	OnAlert(cb AlertCallback)

	// ActiveCooldowns reports how many alert types are currently
	// suppressed.
	ActiveCooldowns() int
}

type proactiveService struct {
	cfg               *config.Config
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	eventPublisher    *pktNats.Publisher
	emailService      mailer.IEmailService
	logger            logger.ILogger

	// A present key means the alert type is cooling down.
	cooldowns *gocache.Cache

	callbacks []AlertCallback
}

func NewProactiveService(
	cfg *config.Config,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IProactiveService {
	return &proactiveService{
		cfg:               cfg,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
		emailService:      emailService,
		logger:            log,
		cooldowns:         gocache.New(cfg.Proactive.AlertCooldown, 10*time.Minute),
	}
}

func (s *proactiveService) OnAlert(cb AlertCallback) {
	s.callbacks = append(s.callbacks, cb)
}

func (s *proactiveService) ActiveCooldowns() int {
	return s.cooldowns.ItemCount()
}

type rule struct {
	alertType string
	check     func(ctx context.Context, activity *entity.Activity) (fired bool, message, priority string)
}

func (s *proactiveService) Evaluate(ctx context.Context, activity *entity.Activity) {
	rules := []rule{
		{AlertAiInterrupt, s.checkAiInterrupt},
		{AlertEmailNoAttachment, s.checkEmailNoAttachment},
		{AlertDuplicateWork, s.checkDuplicateWork},
		{AlertPasswordExposed, s.checkPasswordExposed},
		{AlertDeadlineApproaching, s.checkDeadlineApproaching},
	}

	for _, r := range rules {
		if _, coolingDown := s.cooldowns.Get(r.alertType); coolingDown {
			continue
		}
		fired, message, priority := s.runRule(ctx, r, activity)
		if !fired {
			continue
		}
		s.fire(ctx, r.alertType, message, priority, activity)
		return
	}
}

// runRule isolates rule panics so one broken rule cannot suppress
// the remaining ones.
func (s *proactiveService) runRule(ctx context.Context, r rule, activity *entity.Activity) (fired bool, message, priority string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("ProactiveService", "Rule panicked", map[string]interface{}{"rule": r.alertType, "panic": fmt.Sprint(rec)})
			fired = false
		}
	}()
	return r.check(ctx, activity)
}

func (s *proactiveService) fire(ctx context.Context, alertType, message, priority string, activity *entity.Activity) {
	now := time.Now()
	relatedId := activity.Id
	event := &entity.AuditEvent{
		Id:                uuid.New(),
		Timestamp:         now,
		EventType:         entity.EventTypeProactiveAlert,
		AlertType:         alertType,
		Content:           message,
		Priority:          priority,
		RelatedActivityId: &relatedId,
		CreatedAt:         now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AuditEventRepository().Create(ctx, event); err != nil {
		s.logger.Error("ProactiveService", "Failed to persist alert", map[string]interface{}{"rule": alertType, "error": err.Error()})
		return
	}

	// The cooldown stamps only after a successful write so a failed
	// persist can retry on the next matching activity.
	s.cooldowns.Set(alertType, now, s.cfg.Proactive.AlertCooldown)

	s.logger.Info("ProactiveService", "Alert fired", map[string]interface{}{"rule": alertType, "priority": priority})

	alert := toAlertResponse(event)
	for _, cb := range s.callbacks {
		s.invokeCallback(ctx, cb, &alert)
	}

	if s.eventPublisher != nil {
		evt := events.NewAlertEvent(alertType, message, priority, now)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ProactiveService", "Failed to publish alert event", map[string]interface{}{"error": err.Error()})
		}
	}

	if priority == inference.PriorityCritical && s.cfg.Proactive.EmailAlertsEnabled && s.emailService != nil && s.cfg.Proactive.AlertEmail != "" {
		if err := s.emailService.SendAlert(s.cfg.Proactive.AlertEmail, alertType, message, priority); err != nil {
			s.logger.Warn("ProactiveService", "Failed to send alert email", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (s *proactiveService) invokeCallback(ctx context.Context, cb AlertCallback, alert *dto.AlertResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("ProactiveService", "Alert callback panicked", map[string]interface{}{"panic": fmt.Sprint(r)})
		}
	}()
	cb(ctx, alert)
}

// Rules

func (s *proactiveService) checkAiInterrupt(ctx context.Context, activity *entity.Activity) (bool, string, string) {
	if activity.Analysis == nil || !activity.Analysis.ShouldInterrupt {
		return false, "", ""
	}
	message := activity.Analysis.InterruptMessage
	if message == "" {
		return false, "", ""
	}
	priority := activity.Analysis.Priority
	if priority == "" {
		priority = inference.PriorityMedium
	}
	return true, message, priority
}

func (s *proactiveService) checkEmailNoAttachment(ctx context.Context, activity *entity.Activity) (bool, string, string) {
	app := strings.ToLower(activity.AppName)
	windowTitle := strings.ToLower(activity.WindowTitle)

	// Webmail in a browser has no email app name, only a compose window.
	isEmailApp := containsAny(app, emailApps)
	isComposing := containsAny(windowTitle, composeWords)
	if !isEmailApp && !isComposing {
		return false, "", ""
	}

	mentions := strings.ToLower(activity.ExtractedText() + " " + activity.Description())
	if !containsAny(mentions, attachmentKeywords) {
		return false, "", ""
	}

	return true, "You mentioned an attachment in this email. Did you attach the file?", inference.PriorityHigh
}

func (s *proactiveService) checkDuplicateWork(ctx context.Context, activity *entity.Activity) (bool, string, string) {
	description := activity.Description()
	if description == "" || description == "Unknown" {
		return false, "", ""
	}

	text := description
	if extracted := activity.ExtractedText(); extracted != "" {
		text += "\n" + extracted
	}

	// Re-embed at evaluation time so the check also works for records
	// whose index write failed.
	vector, err := s.embeddingProvider.Generate(ctx, text, embedding.TaskQuery)
	if err != nil {
		s.logger.Warn("ProactiveService", "Duplicate check embedding failed", map[string]interface{}{"error": err.Error()})
		return false, "", ""
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ActivityEmbeddingRepository().SearchSimilar(ctx, vector, 5)
	if err != nil {
		s.logger.Warn("ProactiveService", "Duplicate check search failed", map[string]interface{}{"error": err.Error()})
		return false, "", ""
	}

	for _, hit := range scored {
		if hit.Embedding.ActivityId == activity.Id {
			continue
		}
		if hit.Distance < s.cfg.Proactive.DuplicateThreshold {
			message := fmt.Sprintf("This looks very similar to something you worked on before: %q", firstLine(hit.Embedding.Document))
			return true, message, inference.PriorityLow
		}
	}
	return false, "", ""
}

func (s *proactiveService) checkPasswordExposed(ctx context.Context, activity *entity.Activity) (bool, string, string) {
	if !containsAny(strings.ToLower(activity.ExtractedText()), passwordMarkers) {
		return false, "", ""
	}
	// A credential manager showing its own vault is not an exposure.
	if containsAny(strings.ToLower(activity.AppName), credentialManagers) {
		return false, "", ""
	}
	// Only the window identity counts as a screen-share signal. Meeting
	// words inside the captured text are just content.
	if !containsAny(strings.ToLower(activity.WindowTitle), shareIndicators) {
		return false, "", ""
	}

	return true, "Credentials may be visible while you appear to be sharing your screen.", inference.PriorityCritical
}

func (s *proactiveService) checkDeadlineApproaching(ctx context.Context, activity *entity.Activity) (bool, string, string) {
	haystack := strings.ToLower(activity.WindowTitle + " " + activity.ExtractedText())
	for _, marker := range deadlineMarkers {
		if strings.Contains(haystack, marker) {
			return true, fmt.Sprintf("A deadline was mentioned on screen (%q). Worth a look before it slips.", marker), inference.PriorityMedium
		}
	}
	return false, "", ""
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
