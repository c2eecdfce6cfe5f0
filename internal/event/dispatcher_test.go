package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu        sync.Mutex
	published []MessageCreatedEvent
	attempts  int
	err       error
	block     chan struct{}
}

func (p *stubPublisher) Publish(ctx context.Context, evt MessageCreatedEvent) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts++
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evt)
	return nil
}

func (p *stubPublisher) snapshot() ([]MessageCreatedEvent, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]MessageCreatedEvent(nil), p.published...), p.attempts
}

type stubObserver struct {
	mu        sync.Mutex
	published int
	failed    map[string]int
}

func newStubObserver() *stubObserver { return &stubObserver{failed: map[string]int{}} }

func (o *stubObserver) EventPublished(time.Duration) {
	o.mu.Lock()
	o.published++
	o.mu.Unlock()
}

func (o *stubObserver) EventFailed(reason string) {
	o.mu.Lock()
	o.failed[reason]++
	o.mu.Unlock()
}

func (o *stubObserver) counts() (int, map[string]int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]int, len(o.failed))
	for k, v := range o.failed {
		out[k] = v
	}
	return o.published, out
}

func newEvent() MessageCreatedEvent {
	return MessageCreatedEvent{
		MessageID:  uuid.New(),
		SessionID:  uuid.New(),
		ReceiverID: uuid.New(),
		SenderID:   uuid.New(),
		Content:    "hello",
		Timestamp:  time.Now().UnixMilli(),
	}
}

func closeDispatcher(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
}

func TestDispatcher_PublishesEveryEvent(t *testing.T) {
	pub := &stubPublisher{}
	obs := newStubObserver()
	d := NewDispatcher(pub, obs, nil, 3, 16, time.Second)

	for i := 0; i < 10; i++ {
		d.Dispatch(newEvent())
	}
	closeDispatcher(t, d)

	published, attempts := pub.snapshot()
	assert.Len(t, published, 10)
	assert.Equal(t, 10, attempts)

	ok, failed := obs.counts()
	assert.Equal(t, 10, ok)
	assert.Empty(t, failed)
}

func TestDispatcher_SingleAttemptOnFailure(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	obs := newStubObserver()
	d := NewDispatcher(pub, obs, nil, 1, 4, time.Second)

	d.Dispatch(newEvent())
	closeDispatcher(t, d)

	_, attempts := pub.snapshot()
	assert.Equal(t, 1, attempts, "failed events are not retried")

	ok, failed := obs.counts()
	assert.Zero(t, ok)
	assert.Equal(t, 1, failed[ReasonPublish])
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	pub := &stubPublisher{block: make(chan struct{})}
	obs := newStubObserver()
	d := NewDispatcher(pub, obs, nil, 1, 1, 5*time.Second)

	// One event occupies the worker, one fills the queue.
	d.Dispatch(newEvent())
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, 5*time.Millisecond)
	d.Dispatch(newEvent())

	done := make(chan struct{})
	go func() {
		d.Dispatch(newEvent())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(pub.block)
	closeDispatcher(t, d)

	_, failed := obs.counts()
	assert.Equal(t, 1, failed[ReasonQueueFull])
	published, _ := pub.snapshot()
	assert.Len(t, published, 2)
}

func TestDispatcher_RejectsAfterClose(t *testing.T) {
	pub := &stubPublisher{}
	obs := newStubObserver()
	d := NewDispatcher(pub, obs, nil, 1, 4, time.Second)
	closeDispatcher(t, d)

	d.Dispatch(newEvent())

	_, attempts := pub.snapshot()
	assert.Zero(t, attempts)
	_, failed := obs.counts()
	assert.Equal(t, 1, failed[ReasonClosed])
}

func TestDispatcher_CloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&stubPublisher{}, nil, nil, 0, 0, 0)
	closeDispatcher(t, d)
	closeDispatcher(t, d)
}

func TestDispatcher_CloseHonoursDeadline(t *testing.T) {
	pub := &stubPublisher{block: make(chan struct{})}
	d := NewDispatcher(pub, nil, nil, 1, 4, 5*time.Second)
	d.Dispatch(newEvent())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Close(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(pub.block)
}

func TestDispatcher_PublishTimeout(t *testing.T) {
	pub := &stubPublisher{block: make(chan struct{})}
	obs := newStubObserver()
	d := NewDispatcher(pub, obs, nil, 1, 4, 10*time.Millisecond)

	d.Dispatch(newEvent())
	closeDispatcher(t, d)

	_, failed := obs.counts()
	assert.Equal(t, 1, failed[ReasonPublish])
}

func TestPublicationError(t *testing.T) {
	cause := errors.New("broker down")
	id := uuid.New()

	err := &PublicationError{MessageID: id, Reason: ReasonPublish, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), id.String())
	assert.Contains(t, err.Error(), "broker down")

	dropped := &PublicationError{MessageID: id, Reason: ReasonQueueFull}
	assert.Contains(t, dropped.Error(), ReasonQueueFull)
	assert.Nil(t, errors.Unwrap(dropped))
}
