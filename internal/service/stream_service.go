package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-lifeos-be/internal/dto"
	"ai-lifeos-be/internal/pkg/logger"
	"ai-lifeos-be/internal/websocket"

	"github.com/ThreeDotsLabs/watermill"
	wmsg "github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	TopicActivityAnalyzed = "activity.analyzed"
	TopicAlertFired       = "alert.fired"
)

// IStreamService bridges the analysis pipeline and the websocket
// layer through an in-process pub/sub. Publishing never blocks the
// pipeline on slow websocket clients.
type IStreamService interface {
	PublishActivity(ctx context.Context, activity *dto.ActivityResponse) error
	PublishAlert(ctx context.Context, alert *dto.AlertResponse) error
	Consume(ctx context.Context) error
}

type streamService struct {
	pubSub *gochannel.GoChannel
	hub    *websocket.Hub
	logger logger.ILogger
}

func NewStreamService(pubSub *gochannel.GoChannel, hub *websocket.Hub, log logger.ILogger) IStreamService {
	return &streamService{
		pubSub: pubSub,
		hub:    hub,
		logger: log,
	}
}

func (s *streamService) PublishActivity(ctx context.Context, activity *dto.ActivityResponse) error {
	payload, err := json.Marshal(activity)
	if err != nil {
		return err
	}
	return s.pubSub.Publish(TopicActivityAnalyzed, wmsg.NewMessage(watermill.NewUUID(), payload))
}

func (s *streamService) PublishAlert(ctx context.Context, alert *dto.AlertResponse) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return s.pubSub.Publish(TopicAlertFired, wmsg.NewMessage(watermill.NewUUID(), payload))
}

func (s *streamService) Consume(ctx context.Context) error {
	activities, err := s.pubSub.Subscribe(ctx, TopicActivityAnalyzed)
	if err != nil {
		return err
	}
	alerts, err := s.pubSub.Subscribe(ctx, TopicAlertFired)
	if err != nil {
		return err
	}

	go s.pump(activities, "activity", func(raw json.RawMessage) {
		s.hub.Broadcast("activity", raw)
	})
	go s.pump(alerts, "alert", func(raw json.RawMessage) {
		s.hub.Broadcast("alert", raw)
	})

	return nil
}

func (s *streamService) pump(messages <-chan *wmsg.Message, kind string, deliver func(json.RawMessage)) {
	for msg := range messages {
		var raw json.RawMessage
		if err := json.Unmarshal(msg.Payload, &raw); err != nil {
			log.Printf("[ERROR] Failed to unmarshal %s message: %v", kind, err)
			msg.Ack() // Ack invalid messages to prevent infinite retry
			continue
		}
		deliver(raw)
		msg.Ack()
	}
}
