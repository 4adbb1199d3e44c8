// Package events delivers activity events to the activity log without
// blocking the operations that emit them.
//
// Services publish after their transaction commits; delivery is
// fire-and-forget with at-least-once intent. A full buffer drops the event
// with a warning rather than stalling a request.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mkravchenko/notekeep-backend/internal/domain"
)

// Publisher accepts domain events for asynchronous delivery.
type Publisher interface {
	Publish(event domain.DomainEvent)
}

// activityStore is the sink the async publisher drains into.
type activityStore interface {
	Record(ctx context.Context, event domain.DomainEvent) error
}

// writeTimeout bounds a single activity-log write so a stuck store cannot
// wedge the drain goroutine forever.
const writeTimeout = 5 * time.Second

// AsyncPublisher hands events to a buffered channel drained by a single
// goroutine. Publish never blocks the caller.
type AsyncPublisher struct {
	log   *slog.Logger
	store activityStore

	ch        chan domain.DomainEvent
	closeOnce sync.Once
	stopped   chan struct{}
	done      chan struct{}
}

// NewAsyncPublisher starts the drain goroutine. Close must be called on
// shutdown to flush buffered events.
func NewAsyncPublisher(log *slog.Logger, store activityStore, bufferSize int) *AsyncPublisher {
	p := &AsyncPublisher{
		log:     log.With("component", "events"),
		store:   store,
		ch:      make(chan domain.DomainEvent, bufferSize),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go p.drain()
	return p
}

// Publish enqueues the event. When the buffer is full, or the publisher is
// already stopped, the event is dropped and logged; activity logging is
// best-effort and must not fail the operation it decorates. The channel is
// never closed, so Publish is safe concurrently with Close.
func (p *AsyncPublisher) Publish(event domain.DomainEvent) {
	select {
	case <-p.stopped:
		p.log.Warn("publisher stopped, dropping event",
			slog.String("action", event.Action.String()),
			slog.String("entity_id", event.EntityID.String()),
		)
		return
	default:
	}

	select {
	case p.ch <- event:
	default:
		p.log.Warn("event buffer full, dropping event",
			slog.String("action", event.Action.String()),
			slog.String("entity_id", event.EntityID.String()),
		)
	}
}

// Close stops accepting events and blocks until the buffer is drained.
func (p *AsyncPublisher) Close() {
	p.closeOnce.Do(func() {
		close(p.stopped)
		<-p.done
	})
}

func (p *AsyncPublisher) drain() {
	defer close(p.done)

	for {
		select {
		case event := <-p.ch:
			p.record(event)
		case <-p.stopped:
			// Flush whatever is still buffered, then exit.
			for {
				select {
				case event := <-p.ch:
					p.record(event)
				default:
					return
				}
			}
		}
	}
}

func (p *AsyncPublisher) record(event domain.DomainEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.store.Record(ctx, event); err != nil {
		p.log.Error("record activity event",
			slog.String("action", event.Action.String()),
			slog.String("acting_user_id", event.ActingUserID.String()),
			slog.Any("error", err),
		)
	}
}

// NopPublisher discards all events. Used in tests and tools.
type NopPublisher struct{}

func (NopPublisher) Publish(domain.DomainEvent) {}
