// Package events defines the typed events emitted while the queue runs
// and the bus that delivers them.
package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EntityType() string // EntityJob or EntityQueue
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by every event. For EntityJob the
// ID is the queue-assigned job ID; queue-wide events use EntityQueue with
// ID 0 since there is only one queue per process.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent stamped with the current time.
func NewBaseEvent(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Entity:    entityType,
		ID:        entityID,
		Timestamp: time.Now(),
	}
}

// NewJobEvent creates a BaseEvent about job jobID.
func NewJobEvent(eventType string, jobID int64) BaseEvent {
	return NewBaseEvent(eventType, EntityJob, jobID)
}

// NewQueueEvent creates a BaseEvent about the queue as a whole.
func NewQueueEvent(eventType string) BaseEvent {
	return NewBaseEvent(eventType, EntityQueue, 0)
}
