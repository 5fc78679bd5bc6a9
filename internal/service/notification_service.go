package service

import (
	"context"
	"fmt"

	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/websocket"
	"ai-lifeos-be/pkg/events"
	pktNats "ai-lifeos-be/pkg/nats"
)

// NotificationService relays events arriving on the NATS bridge back to
// connected clients. It lets alerts fired by one instance reach clients
// attached to another.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, hub *websocket.Hub, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		hub:        hub,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	if s.subscriber == nil {
		s.logger.Info("NotificationService", "No event bus configured, relay disabled", nil)
		return
	}
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("NotificationService", fmt.Sprintf("Relaying event: %s", event.EventType()), map[string]interface{}{"type": event.EventType()})

	switch event.EventType() {
	case events.TypeProactiveAlert:
		s.hub.Broadcast("alert", event.Payload())
	case events.TypeActivityAnalyzed:
		s.hub.Broadcast("activity", event.Payload())
	default:
		// Unknown event types are acked and dropped.
	}
	return nil
}
