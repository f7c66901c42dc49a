package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/erp/posting/internal/domain/shared"
	"go.uber.org/zap"
)

var ErrBusStopped = errors.New("event bus stopped")

// InMemoryEventBus hands committed events to in-process handlers on the caller's
// goroutine. Every handler sees every matching event and the failures come back joined,
// which lets the outbox processor retry the entry.
type InMemoryEventBus struct {
	routes  *HandlerRegistry
	log     *zap.Logger
	stopped atomic.Bool
	active  sync.WaitGroup
}

func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &InMemoryEventBus{routes: NewHandlerRegistry(), log: log.Named("event_bus")}
}

func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		return ErrBusStopped
	}
	b.active.Add(1)
	defer b.active.Done()

	var errs []error
	for _, event := range events {
		for _, handler := range b.routes.Handlers(event.EventType()) {
			if err := b.deliver(ctx, handler, event); err != nil {
				b.log.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.Stringer("event_id", event.EventID()),
					zap.Error(err),
				)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s handler panicked: %v", event.EventType(), r)
		}
	}()
	return handler.Handle(ctx, event)
}

// Subscribe routes eventTypes to handler, falling back to handler.EventTypes()
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.routes.Register(handler, eventTypes...)
	b.log.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.routes.Unregister(handler)
}

// Start reopens the bus after Stop
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.log.Info("event bus started", zap.Int("handlers", b.routes.Count()))
	return nil
}

// Stop rejects new publishes and waits for running ones until ctx expires
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.stopped.Store(true)

	drained := make(chan struct{})
	go func() {
		b.active.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		b.log.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
