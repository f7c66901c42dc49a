package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/posting/internal/domain/shared"
	"github.com/erp/posting/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScope() shared.Scope {
	return testutil.RandomScope()
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := testutil.NewRecordingHandler("TestEvent")
	bus.Subscribe(handler)

	event := testutil.NewStubEvent("TestEvent", newTestScope())
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, handler.Events(), 1)
	assert.Equal(t, event, handler.Events()[0])
}

func TestInMemoryEventBus_Publish_Routing(t *testing.T) {
	tests := []struct {
		name      string
		subscribe []string
		eventType string
		want      int
	}{
		{name: "matching type", subscribe: []string{"TestEvent"}, eventType: "TestEvent", want: 1},
		{name: "other type", subscribe: []string{"OtherEvent"}, eventType: "TestEvent", want: 0},
		{name: "one of several types", subscribe: []string{"A", "TestEvent"}, eventType: "TestEvent", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			handler := testutil.NewRecordingHandler(tt.subscribe...)
			bus.Subscribe(handler)

			require.NoError(t, bus.Publish(context.Background(), testutil.NewStubEvent(tt.eventType, newTestScope())))
			assert.Len(t, handler.Events(), tt.want)
		})
	}
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	wildcard := testutil.NewRecordingHandler()
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(),
		testutil.NewStubEvent("A", newTestScope()),
		testutil.NewStubEvent("B", newTestScope()),
	))
	assert.Len(t, wildcard.Events(), 2)
}

func TestInMemoryEventBus_Publish_HandlerErrorIsReturned(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := testutil.NewRecordingHandler("TestEvent")
	failing.FailWith(errors.New("handler error"))
	healthy := testutil.NewRecordingHandler("TestEvent")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), testutil.NewStubEvent("TestEvent", newTestScope()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler error")
	assert.Len(t, healthy.Events(), 1, "remaining handlers still run")
}

func TestInMemoryEventBus_Publish_HandlerPanicBecomesError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := testutil.NewRecordingHandler("TestEvent")
	handler.PanicWith("boom")
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), testutil.NewStubEvent("TestEvent", newTestScope()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := testutil.NewRecordingHandler("TestEvent")
	bus.Subscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), testutil.NewStubEvent("TestEvent", newTestScope())))

	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), testutil.NewStubEvent("TestEvent", newTestScope())))

	assert.Len(t, handler.Events(), 1)
}

func TestInMemoryEventBus_StopRejectsPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	err := bus.Publish(ctx, testutil.NewStubEvent("TestEvent", newTestScope()))
	assert.ErrorIs(t, err, ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, testutil.NewStubEvent("TestEvent", newTestScope())))
}
