package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is a single fact appended to an item's stream
type Event interface {
	ID() uuid.UUID
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to appended events
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore is an append-only log of events grouped into streams
type EventStore interface {
	AppendEvent(streamID string, event Event) error
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// BaseEvent is the stored form of every event
type BaseEvent struct {
	EventID      uuid.UUID
	EventType    string
	Stream       string
	EventData    any
	EventTime    time.Time
	EventVersion int
}

func (e BaseEvent) ID() uuid.UUID        { return e.EventID }
func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) StreamID() string     { return e.Stream }
func (e BaseEvent) Data() any            { return e.EventData }
func (e BaseEvent) Timestamp() time.Time { return e.EventTime }
func (e BaseEvent) Version() int         { return e.EventVersion }

// NewEvent creates an unversioned event occurring at the given time; the
// store assigns the stream version on append
func NewEvent(eventType, streamID string, data any, at time.Time) Event {
	return BaseEvent{
		EventID:   uuid.New(),
		EventType: eventType,
		Stream:    streamID,
		EventData: data,
		EventTime: at,
	}
}
