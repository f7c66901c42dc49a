package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingHandler(t *testing.T) {
	handler := NewRecordingHandler("DocumentPosted")
	event := NewStubEvent("DocumentPosted", RandomScope())

	require.NoError(t, handler.Handle(context.Background(), event))
	assert.Equal(t, []string{"DocumentPosted"}, handler.EventTypes())
	assert.Equal(t, 1, handler.Count())
	assert.Equal(t, event, handler.Events()[0])

	handler.FailWith(assert.AnError)
	assert.ErrorIs(t, handler.Handle(context.Background(), event), assert.AnError)
	assert.Equal(t, 2, handler.Count())

	handler.PanicWith("boom")
	assert.PanicsWithValue(t, "boom", func() { _ = handler.Handle(context.Background(), event) })
	assert.Equal(t, 3, handler.Count())
}

func TestNewStubEvent(t *testing.T) {
	scope := RandomScope()
	event := NewStubEvent("LowStockAlertRaised", scope)

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, "LowStockAlertRaised", event.EventType())
	assert.Equal(t, scope, event.Scope())
	assert.False(t, event.OccurredAt().IsZero())
}
