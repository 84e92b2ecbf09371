package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversToSubscribersOfType(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventJobCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.JobID)
		return nil
	})
	d.Subscribe(EventJobCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.JobID)
		return nil
	})
	d.Subscribe(EventMessageAdded, func(context.Context, Event) error {
		got = append(got, "message")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventJobCreated, JobID: "42"}))
	require.Equal(t, []string{"first:42", "second:42"}, got)
}

func TestDispatcher_HandlerErrorsDoNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false
	d.Subscribe(EventJobRated, func(context.Context, Event) error { return boom })
	d.Subscribe(EventJobRated, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventJobRated})
	require.ErrorIs(t, err, boom)
	require.True(t, called)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	require.NoError(t, NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventSessionEnded}))
}
