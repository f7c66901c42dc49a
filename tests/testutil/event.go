package testutil

import (
	"context"
	"sync"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/google/uuid"
)

// StubEvent is a scoped domain event with a free-form type, registered by tests that
// need something to push through the bus or the outbox
type StubEvent struct {
	shared.EventEnvelope
	Data string `json:"data"`
}

// NewStubEvent raises a StubEvent of eventType in scope
func NewStubEvent(eventType string, scope shared.Scope) *StubEvent {
	return &StubEvent{
		EventEnvelope: shared.NewEventEnvelope(eventType, "StubAggregate", uuid.New(), scope),
		Data:          "stub",
	}
}

// RecordingHandler remembers every event it is handed. It can be told to fail or panic.
type RecordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panic  any
}

// NewRecordingHandler subscribes to eventTypes, or to everything when none are given
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{types: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string { return h.types }

func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if h.panic != nil {
		panic(h.panic)
	}
	return h.err
}

// FailWith makes later calls to Handle return err
func (h *RecordingHandler) FailWith(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// PanicWith makes later calls to Handle panic with v
func (h *RecordingHandler) PanicWith(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panic = v
}

// Events returns a copy of the events handled so far
func (h *RecordingHandler) Events() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.events...)
}

func (h *RecordingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
