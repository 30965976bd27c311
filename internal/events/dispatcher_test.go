package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var seen []EventType
	dispatcher.Subscribe(EventLoggedIn, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	dispatcher.Subscribe(EventLoggedIn, func(_ context.Context, event Event) error {
		seen = append(seen, event.Type)
		return nil
	})
	dispatcher.Subscribe(EventLoggedOut, func(_ context.Context, event Event) error {
		t.Fatal("logged_out handler must not fire for logged_in")
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventLoggedIn}))
	assert.Equal(t, []EventType{EventLoggedIn, EventLoggedIn}, seen)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventSessionExpired}))
	assert.True(t, called, "later handlers must still run")
}

func TestDispatcherWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventDecisionSubmitted}))
}
