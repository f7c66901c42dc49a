package event

import (
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/erp/posting/internal/domain/shared"
)

// EventSerializer turns domain events into outbox payloads and back. Decoding needs a
// factory per event type because the outbox row only keeps the type name.
type EventSerializer struct {
	mu        sync.RWMutex
	factories map[string]func() shared.DomainEvent
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{factories: make(map[string]func() shared.DomainEvent)}
}

// Register binds eventType to a factory returning an empty event to decode into.
// Registering a type twice replaces the earlier factory.
func (s *EventSerializer) Register(eventType string, factory func() shared.DomainEvent) {
	s.mu.Lock()
	s.factories[eventType] = factory
	s.mu.Unlock()
}

// RegisterEvent registers eventType as decoding into a fresh *T
func RegisterEvent[T any, PT interface {
	*T
	shared.DomainEvent
}](s *EventSerializer, eventType string) {
	s.Register(eventType, func() shared.DomainEvent { return PT(new(T)) })
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", event.EventType(), err)
	}
	return payload, nil
}

// Deserialize decodes data into the type registered for eventType. A payload whose
// embedded type disagrees with eventType is rejected.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	factory, ok := s.factories[eventType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	event := factory()
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", eventType, err)
	}
	if got := event.EventType(); got != "" && got != eventType {
		return nil, fmt.Errorf("payload carries %s, expected %s", got, eventType)
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.factories[eventType]
	return ok
}

// RegisteredTypes lists the decodable type names, sorted
func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	types := make([]string, 0, len(s.factories))
	for t := range s.factories {
		types = append(types, t)
	}
	s.mu.RUnlock()

	slices.Sort(types)
	return types
}
