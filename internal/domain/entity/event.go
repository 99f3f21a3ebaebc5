package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a subscriber-visible change
type EventType string

const (
	EventRequestReceived     EventType = "request.received"
	EventRequestAccepted     EventType = "request.accepted"
	EventRequestDeclined     EventType = "request.declined"
	EventRequestCancelled    EventType = "request.cancelled"
	EventNotificationCreated EventType = "notification.created"
)

// Event is delivered to exactly one subject's feed
type Event struct {
	Type       EventType       `json:"type"`
	SubjectID  string          `json:"subject_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent encodes payload as JSON
func NewEvent(eventType EventType, subjectID string, payload interface{}, at time.Time) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encode %s payload: %w", eventType, err)
	}
	return Event{
		Type:       eventType,
		SubjectID:  subjectID,
		Payload:    raw,
		OccurredAt: at,
	}, nil
}
