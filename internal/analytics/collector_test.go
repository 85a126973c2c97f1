package analytics

import (
	"context"
	"testing"
	"time"
)

// Shutdown closes the collector while request handlers may still be
// draining; a late Track must drop the event, never panic.
func TestCollectorTrackAfterClose(t *testing.T) {
	c := NewCollector(nil, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.Start(ctx)

	c.Close()
	c.Track(QueryEvent{Type: EventLookup, Lemma: "car"})
	c.Track(QueryEvent{Type: EventDefine, Lemma: "dog"})
}

func TestCollectorCloseIdempotent(t *testing.T) {
	c := NewCollector(nil, 4)
	c.Start(context.Background())

	c.Close()
	c.Close()
}

func TestCollectorCloseAfterContextCancel(t *testing.T) {
	c := NewCollector(nil, 4)
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)

	cancel()
	done := make(chan struct{})
	go func() {
		c.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return after the context was cancelled")
	}
}

func TestCollectorTrackDropsWhenFull(t *testing.T) {
	// Never started, so the buffer fills and the overflow is dropped
	// without blocking the caller.
	c := NewCollector(nil, 2)
	for i := 0; i < 5; i++ {
		c.Track(QueryEvent{Type: EventLookup, Lemma: "car"})
	}
	if got := len(c.eventCh); got != 2 {
		t.Errorf("buffered events = %d, want capacity 2", got)
	}
}
