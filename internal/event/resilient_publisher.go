package event

import (
	"context"
	"sync"
	"time"

	"github.com/donalcheung/dine-together-sub000/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher publishes on a Bus without failing the caller.
// Failed publishes are retried in the background with exponential backoff and
// land in the dead-letter file once retries are exhausted or the queue is full.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher starts the retry worker. Call Shutdown to stop it.
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	rp := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	rp.wg.Add(1)
	go rp.retryWorker()

	return rp, nil
}

// PublishWithRetry publishes synchronously and queues the event for retry on failure.
// It never returns an error; delivery problems end in the dead-letter file.
func (rp *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	err := rp.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	log := logger.FromContext(ctx)
	log.Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)

	select {
	case <-rp.shutdown:
		log.Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type)
		rp.writeDeadLetter(evt, 1, err)
		return
	default:
	}

	rp.enqueue(retryEntry{
		event:     evt,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, 1)),
		lastErr:   err,
	})
}

// Publish satisfies Bus so the publisher can stand in wherever a bus is expected.
// It always returns nil.
func (rp *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	rp.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the wrapped bus
func (rp *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	rp.bus.Subscribe(eventType, handler)
}

func (rp *ResilientPublisher) enqueue(entry retryEntry) {
	select {
	case rp.retryQueue <- entry:
	default:
		logger.FromContext(context.Background()).Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		rp.writeDeadLetter(entry.event, entry.attempt, entry.lastErr)
	}
}

func (rp *ResilientPublisher) retryWorker() {
	defer rp.wg.Done()

	for {
		select {
		case <-rp.shutdown:
			rp.drainQueue()
			return
		case entry := <-rp.retryQueue:
			rp.processRetry(entry)
		}
	}
}

func (rp *ResilientPublisher) processRetry(entry retryEntry) {
	log := logger.FromContext(context.Background())

	if wait := time.Until(entry.nextRetry); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-rp.shutdown:
			// Make one last attempt now instead of waiting out the backoff
			timer.Stop()
		}
	}

	err := rp.bus.Publish(context.Background(), entry.event)
	if err == nil {
		log.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}

	if entry.attempt >= rp.maxRetries {
		log.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt, "error", err)
		rp.writeDeadLetter(entry.event, entry.attempt, err)
		return
	}

	select {
	case <-rp.shutdown:
		rp.writeDeadLetter(entry.event, entry.attempt, err)
		return
	default:
	}

	next := entry.attempt + 1
	log.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)
	rp.enqueue(retryEntry{
		event:     entry.event,
		attempt:   next,
		nextRetry: time.Now().Add(CalculateRetryDelay(rp.retryDelay, next)),
		lastErr:   err,
	})
}

// drainQueue gives every queued event one final attempt
func (rp *ResilientPublisher) drainQueue() {
	drained := 0
	for {
		select {
		case entry := <-rp.retryQueue:
			drained++
			if err := rp.bus.Publish(context.Background(), entry.event); err != nil {
				rp.writeDeadLetter(entry.event, entry.attempt+1, err)
			}
		default:
			if drained > 0 {
				logger.FromContext(context.Background()).Info(LogMsgQueueDrainedShutdown, "events", drained)
			}
			return
		}
	}
}

func (rp *ResilientPublisher) writeDeadLetter(evt Event, attempts int, lastErr error) {
	if rp.deadLetter == nil {
		return
	}
	if err := rp.deadLetter.Write(evt, attempts, lastErr); err != nil {
		logger.FromContext(context.Background()).Error(LogMsgDeadLetterWriteFailed, "event_type", evt.Type, "error", err)
	}
}

// Shutdown stops the retry worker after draining the queue, then closes the dead-letter file.
// Safe to call more than once.
func (rp *ResilientPublisher) Shutdown(ctx context.Context) error {
	var result error
	rp.closeOnce.Do(func() {
		close(rp.shutdown)

		done := make(chan struct{})
		go func() {
			rp.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			logger.FromContext(ctx).Error(LogMsgShutdownTimeout, "error", ctx.Err())
			result = ctx.Err()
			return
		}

		if rp.deadLetter != nil {
			if err := rp.deadLetter.Close(); err != nil {
				result = err
			}
		}
	})
	return result
}
