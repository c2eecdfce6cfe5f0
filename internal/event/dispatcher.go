package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Failure reasons reported to the Observer.
const (
	ReasonPublish   = "publish"
	ReasonQueueFull = "queue_full"
	ReasonClosed    = "closed"
)

const (
	defaultWorkers        = 2
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// Observer is told about every dispatch outcome. It is the only place a
// publication failure becomes visible.
type Observer interface {
	EventPublished(took time.Duration)
	EventFailed(reason string)
}

type noopObserver struct{}

func (noopObserver) EventPublished(time.Duration) {}
func (noopObserver) EventFailed(string)           {}

// Dispatcher publishes events in the background with a fixed worker pool.
// Each event gets exactly one publish attempt; nothing is retried.
type Dispatcher struct {
	publisher Publisher
	observer  Observer
	log       *zap.Logger
	timeout   time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan MessageCreatedEvent
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines draining a queue of queueSize
// events. Values <= 0 fall back to defaults, and a nil observer is allowed.
func NewDispatcher(
	publisher Publisher,
	observer Observer,
	log *zap.Logger,
	workers int,
	queueSize int,
	publishTimeout time.Duration,
) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		publisher: publisher,
		observer:  observer,
		log:       log.Named("dispatcher"),
		timeout:   publishTimeout,
		queue:     make(chan MessageCreatedEvent, queueSize),
	}

	for w := 0; w < workers; w++ {
		d.wg.Add(1)
		go d.work(w + 1)
	}

	return d
}

// Dispatch enqueues evt and returns immediately. When the queue is full or
// the dispatcher is closed the event is dropped and reported as failed.
func (d *Dispatcher) Dispatch(evt MessageCreatedEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.fail(evt, ReasonClosed, nil)
		return
	}

	select {
	case d.queue <- evt:
	default:
		d.fail(evt, ReasonQueueFull, nil)
	}
}

// Close stops accepting events and waits for queued ones to be published,
// or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("dispatcher: pending events not drained"), ctx.Err())
	}
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()

	for evt := range d.queue {
		d.publish(id, evt)
	}
}

func (d *Dispatcher) publish(worker int, evt MessageCreatedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.publisher.Publish(ctx, evt); err != nil {
		d.fail(evt, ReasonPublish, err)
		return
	}

	took := time.Since(start)
	d.observer.EventPublished(took)
	d.log.Info("event published",
		zap.Int("worker", worker),
		zap.Stringer("message_id", evt.MessageID),
		zap.Stringer("session_id", evt.SessionID),
		zap.Stringer("receiver_id", evt.ReceiverID),
		zap.Duration("took", took),
	)
}

func (d *Dispatcher) fail(evt MessageCreatedEvent, reason string, err error) {
	pubErr := &PublicationError{MessageID: evt.MessageID, Reason: reason, Err: err}

	d.observer.EventFailed(reason)
	d.log.Warn("event dropped",
		zap.Error(pubErr),
		zap.Stringer("message_id", evt.MessageID),
		zap.Stringer("session_id", evt.SessionID),
		zap.Stringer("receiver_id", evt.ReceiverID),
	)
}
