package handlers

import (
	"testing"
)

func newTestClient(challengeID uint, buffer int) *liveClient {
	return &liveClient{
		challengeID: challengeID,
		send:        make(chan LiveMessage, buffer),
	}
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	a := newTestClient(1, 4)
	b := newTestClient(1, 4)
	hub.register(a)
	hub.register(b)

	hub.Publish(1, "session_state", map[string]interface{}{"status": "paused"})

	for _, c := range []*liveClient{a, b} {
		select {
		case msg := <-c.send:
			if msg.Type != "session_state" {
				t.Errorf("got type %s, want session_state", msg.Type)
			}
			if msg.Payload["status"] != "paused" {
				t.Errorf("payload not delivered: %v", msg.Payload)
			}
		default:
			t.Error("client did not receive broadcast")
		}
	}
}

func TestHubSequenceMonotonicPerChallenge(t *testing.T) {
	hub := NewHub()
	c1 := newTestClient(1, 16)
	c2 := newTestClient(2, 16)
	hub.register(c1)
	hub.register(c2)

	hub.Publish(1, "session_state", nil)
	hub.Publish(1, "session_state", nil)
	hub.Publish(2, "session_state", nil)
	hub.Publish(1, "participant_locked", nil)

	var last uint64
	for i := 0; i < 3; i++ {
		msg := <-c1.send
		if msg.Seq <= last {
			t.Errorf("sequence not strictly increasing: %d after %d", msg.Seq, last)
		}
		last = msg.Seq
	}
	if last != 3 {
		t.Errorf("challenge 1 final seq = %d, want 3", last)
	}

	// Challenge 2 counts independently.
	if msg := <-c2.send; msg.Seq != 1 {
		t.Errorf("challenge 2 seq = %d, want 1", msg.Seq)
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(1, 1)
	fast := newTestClient(1, 16)
	hub.register(slow)
	hub.register(fast)

	// First publish fills the slow client's buffer; the second must drop it
	// without blocking or affecting the fast client.
	hub.Publish(1, "session_state", nil)
	hub.Publish(1, "session_state", nil)

	if got := hub.clientCount(1); got != 1 {
		t.Errorf("clientCount = %d, want 1 after slow client dropped", got)
	}

	// The dropped client's channel is closed after its buffered message.
	<-slow.send
	if _, open := <-slow.send; open {
		t.Error("slow client channel not closed after drop")
	}

	// Fast client saw both messages.
	if len(fast.send) != 2 {
		t.Errorf("fast client received %d messages, want 2", len(fast.send))
	}
}

func TestHubUnregisterIdempotentWithDrop(t *testing.T) {
	hub := NewHub()
	c := newTestClient(1, 1)
	hub.register(c)

	hub.Publish(1, "a", nil)
	hub.Publish(1, "b", nil) // drops and closes

	// The connection teardown path also unregisters; must not panic on the
	// already-dropped client.
	hub.unregister(c)

	if got := hub.clientCount(1); got != 0 {
		t.Errorf("clientCount = %d, want 0", got)
	}
}

func TestHubIsolationBetweenChallenges(t *testing.T) {
	hub := NewHub()
	other := newTestClient(7, 4)
	hub.register(other)

	hub.Publish(1, "session_state", nil)

	if len(other.send) != 0 {
		t.Error("client received broadcast for a different challenge")
	}
}
