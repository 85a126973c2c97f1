package analytics

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/tnguyen91/lexigraph/pkg/kafka"
)

// Collector buffers query events and publishes them to Kafka off the
// request path. Track never blocks a request; when the buffer is full or
// the collector is shutting down the event is dropped.
type Collector struct {
	producer *kafka.Producer
	eventCh  chan QueryEvent
	logger   *slog.Logger
	quit     chan struct{}
	done     chan struct{}
	closed   atomic.Bool
}

func NewCollector(producer *kafka.Producer, bufferSize int) *Collector {
	if bufferSize <= 0 {
		bufferSize = 10000
	}
	return &Collector{
		producer: producer,
		eventCh:  make(chan QueryEvent, bufferSize),
		logger:   slog.Default().With("component", "analytics-collector"),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (c *Collector) Start(ctx context.Context) {
	go func() {
		defer close(c.done)
		for {
			select {
			case event := <-c.eventCh:
				if err := c.producer.Publish(ctx, kafka.Event{
					Key:   string(event.Type),
					Value: event,
				}); err != nil {
					c.logger.Error("failed to publish query event", "error", err)
				}
			case <-c.quit:
				c.drainRemaining()
				return
			case <-ctx.Done():
				c.drainRemaining()
				return
			}
		}
	}()
	c.logger.Info("analytics collector started", "buffer_size", cap(c.eventCh))
}

// Track enqueues an event for publication. In-flight requests may still call
// it while shutdown is draining; those events are dropped rather than
// racing the drain. The event channel is never closed for the same reason.
func (c *Collector) Track(event QueryEvent) {
	if c.closed.Load() {
		return
	}
	select {
	case c.eventCh <- event:
	default:
		c.logger.Warn("query event dropped (buffer full)")
	}
}

// Close stops the publish loop after draining buffered events. Safe to call
// once Start has run; repeated calls are no-ops.
func (c *Collector) Close() {
	if !c.closed.CompareAndSwap(false, true) {
		return
	}
	close(c.quit)
	<-c.done
}

func (c *Collector) drainRemaining() {
	for {
		select {
		case event := <-c.eventCh:
			if err := c.producer.Publish(context.Background(), kafka.Event{
				Key:   string(event.Type),
				Value: event,
			}); err != nil {
				c.logger.Error("failed to publish remaining event", "error", err)
			}
		default:
			return
		}
	}
}
