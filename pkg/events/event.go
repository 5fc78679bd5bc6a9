package events

import "time"

// Event type codes published to the outbound bridge.
const (
	TypeProactiveAlert   = "PROACTIVE_ALERT"
	TypeActivityAnalyzed = "ACTIVITY_ANALYZED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "PROACTIVE_ALERT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the pipeline.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewAlertEvent wraps a fired proactive alert for the event bridge.
func NewAlertEvent(alertType, message, priority string, firedAt time.Time) Event {
	return BaseEvent{
		Type: TypeProactiveAlert,
		Data: map[string]interface{}{
			"alert_type": alertType,
			"message":    message,
			"priority":   priority,
			"fired_at":   firedAt.Format(time.RFC3339),
		},
		OccurredAt: firedAt,
	}
}
