package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_PublishInOrder(t *testing.T) {
	hub := NewHub()
	s := hub.Register("client-1")

	hub.Publish("client-1", Caption("hello", "hello there", 0.9))
	hub.Publish("client-1", Done("hello there"))

	first := <-s.Events()
	require.Equal(t, NameCaption, first.Name)
	payload, ok := first.Payload.(CaptionPayload)
	require.True(t, ok)
	require.Equal(t, "hello", payload.Text)
	require.Equal(t, "hello there", payload.Original)
	require.InDelta(t, 0.9, payload.Confidence, 1e-9)

	second := <-s.Events()
	require.Equal(t, NameDone, second.Name)
}

func TestHub_PublishUnknownSessionIsNoOp(t *testing.T) {
	hub := NewHub()
	hub.Publish("ghost", Done(""))
	require.Equal(t, 0, hub.Len())
}

func TestHub_UnregisterCancelsContextAndClosesChannel(t *testing.T) {
	hub := NewHub()
	s := hub.Register("client-1")

	hub.Unregister(s)

	select {
	case <-s.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("session context not cancelled")
	}

	_, open := <-s.Events()
	require.False(t, open)
	require.Equal(t, 0, hub.Len())
}

func TestHub_RegisterReplacesExistingSession(t *testing.T) {
	hub := NewHub()
	old := hub.Register("client-1")
	next := hub.Register("client-1")

	select {
	case <-old.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("replaced session context not cancelled")
	}

	hub.Publish("client-1", Done("x"))
	ev := <-next.Events()
	require.Equal(t, NameDone, ev.Name)

	// Unregistering the stale session must not detach the new one.
	hub.Unregister(old)
	require.Equal(t, 1, hub.Len())
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	s := hub.Register("client-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sessionBuffer+10; i++ {
			hub.Publish("client-1", Done(""))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on full session buffer")
	}
	require.Len(t, s.Events(), sessionBuffer)
}

func TestHub_FullBufferEvictsOldestKeepingTerminalEvents(t *testing.T) {
	hub := NewHub()
	s := hub.Register("client-1")

	for i := 0; i < sessionBuffer; i++ {
		hub.Publish("client-1", Connected())
	}
	hub.Publish("client-1", Caption("late caption", "late caption", 0.5))
	hub.Publish("client-1", Done("late caption"))

	got := make([]Event, 0, sessionBuffer)
	for len(s.Events()) > 0 {
		got = append(got, <-s.Events())
	}
	require.Len(t, got, sessionBuffer)
	require.Equal(t, NameCaption, got[len(got)-2].Name)
	require.Equal(t, NameDone, got[len(got)-1].Name)
}

func TestHub_ContextForUnknownSession(t *testing.T) {
	hub := NewHub()
	ctx := hub.Context("ghost")
	require.NoError(t, ctx.Err())
}
