package events

import (
	"sync"

	"github.com/vsinha/pantry/pkg/infrastructure/logger"
)

// InMemoryEventStore keeps every stream in memory. Subscribers are
// notified synchronously, after the append lock is released, in
// subscription order.
type InMemoryEventStore struct {
	streams     map[string][]Event
	subscribers map[string][]EventHandler
	mutex       sync.RWMutex
	allEvents   []Event
	log         *logger.Logger
}

// NewInMemoryEventStore creates an empty store. A nil logger discards
// handler failures.
func NewInMemoryEventStore(log *logger.Logger) *InMemoryEventStore {
	return &InMemoryEventStore{
		streams:     make(map[string][]Event),
		subscribers: make(map[string][]EventHandler),
		allEvents:   make([]Event, 0),
		log:         log,
	}
}

var _ EventStore = (*InMemoryEventStore)(nil)

// AppendEvent stores event at the end of its stream, assigning the next version
func (s *InMemoryEventStore) AppendEvent(streamID string, event Event) error {
	s.mutex.Lock()

	stored := BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: len(s.streams[streamID]) + 1,
	}

	s.streams[streamID] = append(s.streams[streamID], stored)
	s.allEvents = append(s.allEvents, stored)
	handlers := append([]EventHandler(nil), s.subscribers[stored.EventType]...)

	s.mutex.Unlock()

	s.notify(handlers, stored)
	return nil
}

// ReadEvents returns the stream's events starting at fromVersion (1-based)
func (s *InMemoryEventStore) ReadEvents(streamID string, fromVersion int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.streams[streamID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(events) {
		return []Event{}, nil
	}

	return append([]Event(nil), events[fromVersion-1:]...), nil
}

// ReadAllEvents returns every event from the global position onwards (0-based)
func (s *InMemoryEventStore) ReadAllEvents(fromPosition int) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.allEvents) {
		return []Event{}, nil
	}

	return append([]Event(nil), s.allEvents[fromPosition:]...), nil
}

// Subscribe registers handler for the given event types
func (s *InMemoryEventStore) Subscribe(eventTypes []string, handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

// Unsubscribe removes handler from every event type
func (s *InMemoryEventStore) Unsubscribe(handler EventHandler) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for eventType, handlers := range s.subscribers {
		kept := make([]EventHandler, 0, len(handlers))
		for _, h := range handlers {
			if h != handler {
				kept = append(kept, h)
			}
		}
		s.subscribers[eventType] = kept
	}
	return nil
}

func (s *InMemoryEventStore) notify(handlers []EventHandler, event Event) {
	for _, handler := range handlers {
		if !handler.CanHandle(event.Type()) {
			continue
		}
		if err := handler.Handle(event); err != nil {
			s.log.Error("handling event %s on %s: %v", event.Type(), event.StreamID(), err)
		}
	}
}
