package event

import (
	"sync"
	"sync/atomic"

	"github.com/erp/posting/internal/domain/shared"
)

type subscription struct {
	handler shared.EventHandler
	// nil matches every event type
	types map[string]struct{}
}

func (s subscription) matches(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// HandlerRegistry routes event types to handlers in subscription order. Writers copy the
// table so dispatch reads a snapshot without locking.
type HandlerRegistry struct {
	mu   sync.Mutex
	subs atomic.Pointer[[]subscription]
}

func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{}
	r.subs.Store(&[]subscription{})
	return r
}

// Register routes eventTypes to handler, or every type when none are given. Registering
// a handler again widens its existing subscription in place.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.subs.Load()
	next := make([]subscription, len(current), len(current)+1)
	copy(next, current)

	for i := range next {
		if next[i].handler != handler {
			continue
		}
		next[i].types = widen(next[i].types, eventTypes)
		r.subs.Store(&next)
		return
	}
	next = append(next, subscription{handler: handler, types: widen(map[string]struct{}{}, eventTypes)})
	r.subs.Store(&next)
}

func widen(types map[string]struct{}, add []string) map[string]struct{} {
	if types == nil || len(add) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(types)+len(add))
	for t := range types {
		out[t] = struct{}{}
	}
	for _, t := range add {
		out[t] = struct{}{}
	}
	return out
}

// Unregister drops handler from every route
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.subs.Load()
	next := make([]subscription, 0, len(current))
	for _, s := range current {
		if s.handler != handler {
			next = append(next, s)
		}
	}
	r.subs.Store(&next)
}

// Handlers returns the handlers subscribed to eventType
func (r *HandlerRegistry) Handlers(eventType string) []shared.EventHandler {
	var out []shared.EventHandler
	for _, s := range *r.subs.Load() {
		if s.matches(eventType) {
			out = append(out, s.handler)
		}
	}
	return out
}

func (r *HandlerRegistry) Count() int {
	return len(*r.subs.Load())
}
