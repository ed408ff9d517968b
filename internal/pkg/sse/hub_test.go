package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTopicSubscribersOnly(t *testing.T) {
	hub := NewHub()

	a, cleanupA := hub.Subscribe("attendance")
	defer cleanupA()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	hub.Publish(Event{Topic: "attendance", Event: "changed", Data: "e1"})

	select {
	case ev := <-a:
		assert.Equal(t, "changed", ev.Event)
		assert.Equal(t, "e1", ev.Data)
	default:
		t.Fatal("subscriber did not receive the event")
	}

	select {
	case ev := <-other:
		t.Fatalf("unexpected event on another topic: %v", ev)
	default:
	}
}

func TestHub_FullSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("attendance")
	defer cleanup()

	for i := 0; i < cap(ch)+5; i++ {
		hub.Publish(Event{Topic: "attendance", Event: "changed"})
	}
	assert.Len(t, ch, cap(ch))
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("attendance")
	require.Equal(t, 1, hub.SubscriberCount("attendance"))

	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("attendance"))
	_, open := <-ch
	assert.False(t, open)

	hub.Publish(Event{Topic: "attendance"})
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "dashboard", map[string]int{"present": 2}))
	assert.Equal(t, "event: dashboard\ndata: {\"present\":2}\n\n", buf.String())
}
