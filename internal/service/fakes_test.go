package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/cache"
	"github.com/oggyb/session-messaging/internal/domain/message"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"github.com/oggyb/session-messaging/internal/domain/user"
	"github.com/oggyb/session-messaging/internal/event"
)

// store is an in-memory stand-in for all three repositories. calls counts
// every repository access so tests can assert none happened.
type store struct {
	mu       sync.Mutex
	calls    int
	users    map[uuid.UUID]*user.User
	sessions map[uuid.UUID]*session.Session
	messages []*message.Message

	createErr error
	findErr   error

	// afterCount runs once, outside the lock, between computing a count
	// and returning it.
	afterCount func()
}

func newStore() *store {
	return &store{
		users:    map[uuid.UUID]*user.User{},
		sessions: map[uuid.UUID]*session.Session{},
	}
}

func (s *store) repos() Repositories {
	return Repositories{
		Messages: messageRepo{s},
		Sessions: sessionRepo{s},
		Users:    userRepo{s},
	}
}

func (s *store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

func (s *store) touch() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

type userRepo struct{ s *store }

func (r userRepo) Create(_ context.Context, u *user.User) error {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = u
	return nil
}

func (r userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type sessionRepo struct{ s *store }

func (r sessionRepo) Create(_ context.Context, sess *session.Session) error {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.ID] = sess
	return nil
}

func (r sessionRepo) FindByID(_ context.Context, id uuid.UUID) (*session.Session, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	cp := *sess
	cp.Messages = nil
	return &cp, nil
}

type messageRepo struct{ s *store }

func (r messageRepo) Create(_ context.Context, m *message.Message) (*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = message.Now()
	}
	cp := *m
	cp.Sender = r.s.users[m.SenderID]
	r.s.messages = append(r.s.messages, &cp)
	return &cp, nil
}

func (r messageRepo) FindByID(_ context.Context, id uuid.UUID) (*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, message.ErrNotFound
}

// inSession returns a session's messages ordered by time then insertion.
func (r messageRepo) inSession(sessionID uuid.UUID) []*message.Message {
	var out []*message.Message
	for _, m := range r.s.messages {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r messageRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.inSession(sessionID), nil
}

func (r messageRepo) ListBySessionWithSender(ctx context.Context, sessionID uuid.UUID) ([]*message.Message, error) {
	return r.ListBySession(ctx, sessionID)
}

func (r messageRepo) LatestInSession(_ context.Context, sessionID uuid.UUID) (*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msgs := r.inSession(sessionID)
	if len(msgs) == 0 {
		return nil, message.ErrNotFound
	}
	return msgs[len(msgs)-1], nil
}

func (r messageRepo) SearchByContent(_ context.Context, term string) ([]*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*message.Message
	for _, m := range r.s.messages {
		if strings.Contains(strings.ToLower(m.Content), strings.ToLower(term)) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r messageRepo) CountBySession(_ context.Context, sessionID uuid.UUID) (int64, error) {
	r.s.touch()
	r.s.mu.Lock()
	n := int64(len(r.inSession(sessionID)))
	hook := r.s.afterCount
	r.s.afterCount = nil
	r.s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return n, nil
}

func (r messageRepo) ListPage(_ context.Context, sessionID uuid.UUID, offset, limit int) ([]*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	msgs := r.inSession(sessionID)
	if offset >= len(msgs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(msgs) {
		end = len(msgs)
	}
	return msgs[offset:end], nil
}

func (r messageRepo) Delete(_ context.Context, id uuid.UUID) (*message.Message, error) {
	r.s.touch()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, m := range r.s.messages {
		if m.ID == id {
			r.s.messages = append(r.s.messages[:i], r.s.messages[i+1:]...)
			return m, nil
		}
	}
	return nil, message.ErrNotFound
}

// recordingDispatcher captures dispatched events synchronously.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []event.MessageCreatedEvent
}

func (d *recordingDispatcher) Dispatch(evt event.MessageCreatedEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, evt)
}

func (d *recordingDispatcher) Events() []event.MessageCreatedEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]event.MessageCreatedEvent(nil), d.events...)
}

// memCache is a map-backed cache.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
	err  error
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Ping(context.Context) error { return c.err }

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	v, ok := c.data[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return v, nil
}

func (c *memCache) Del(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	delete(c.data, key)
	return nil
}

func (c *memCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type countingRecorder struct {
	mu      sync.Mutex
	created int
}

func (r *countingRecorder) MessageCreated() {
	r.mu.Lock()
	r.created++
	r.mu.Unlock()
}
