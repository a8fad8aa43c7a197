package events

import "time"

const (
	UserRegistered = "USER_REGISTERED"
	UserLogin      = "USER_LOGIN"
	NoteCreated    = "NOTE_CREATED"
	NoteUpdated    = "NOTE_UPDATED"
	NoteDeleted    = "NOTE_DELETED"
)

// ActivityEvent is the payload carried on the in-process activity topic.
type ActivityEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewActivityEvent(eventType string, data map[string]interface{}) ActivityEvent {
	return ActivityEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
