package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/cache"
	"github.com/oggyb/session-messaging/internal/domain/message"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"github.com/oggyb/session-messaging/internal/domain/user"
	"github.com/oggyb/session-messaging/internal/dto"
	"github.com/oggyb/session-messaging/internal/event"
	"go.uber.org/zap"
)

const defaultCountTTL = 5 * time.Minute

type MessageService interface {
	CreateMessage(ctx context.Context, sessionID, senderID uuid.UUID, body string) (dto.MessageDTO, error)
	GetSessionMessages(ctx context.Context, sessionID uuid.UUID) ([]dto.MessageDTO, error)
	GetSessionMessagesPage(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]dto.MessageDTO, error)
	GetMessageByID(ctx context.Context, messageID uuid.UUID) (dto.MessageDTO, error)
	GetLatestMessage(ctx context.Context, sessionID uuid.UUID) (dto.MessageDTO, error)
	SearchMessages(ctx context.Context, term string) ([]dto.MessageDTO, error)
	CountSessionMessages(ctx context.Context, sessionID uuid.UUID) (int64, error)
	DeleteMessage(ctx context.Context, messageID uuid.UUID) (bool, error)
	GetSession(ctx context.Context, sessionID uuid.UUID, includeMessages bool) (dto.SessionDTO, error)
}

// EventDispatcher hands an event to the event channel without blocking.
// Outcomes are never reported back to the caller.
type EventDispatcher interface {
	Dispatch(evt event.MessageCreatedEvent)
}

// Recorder counts created messages.
type Recorder interface {
	MessageCreated()
}

// Repositories bundles the stores the service reads and writes.
type Repositories struct {
	Messages message.Repository
	Sessions session.Repository
	Users    user.Repository
}

type messageService struct {
	messages message.Repository
	sessions session.Repository
	users    user.Repository
	events   EventDispatcher
	cache    cache.Cache
	recorder Recorder
	log      *zap.Logger

	countTTL time.Duration
}

// NewMessageService wires the message service. cache and recorder may be
// nil; a non-positive countTTL falls back to a default.
func NewMessageService(
	repos Repositories,
	events EventDispatcher,
	c cache.Cache,
	recorder Recorder,
	log *zap.Logger,
	countTTL time.Duration,
) MessageService {
	if countTTL <= 0 {
		countTTL = defaultCountTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &messageService{
		messages: repos.Messages,
		sessions: repos.Sessions,
		users:    repos.Users,
		events:   events,
		cache:    c,
		recorder: recorder,
		log:      log.Named("service"),
		countTTL: countTTL,
	}
}

// CreateMessage validates input, resolves the session and sender, persists
// the message and dispatches a MessageCreatedEvent after the commit.
//
// A failed write returns a PersistenceError and dispatches nothing. A failed
// publication is only logged; the committed message is still returned.
func (s *messageService) CreateMessage(ctx context.Context, sessionID, senderID uuid.UUID, body string) (dto.MessageDTO, error) {
	in := createMessageInput{SessionID: sessionID, SenderID: senderID, Body: body}
	if err := check(in); err != nil {
		return dto.MessageDTO{}, err
	}

	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return dto.MessageDTO{}, err
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if errors.Is(err, user.ErrNotFound) {
		return dto.MessageDTO{}, &NotFoundError{Entity: "sender"}
	}
	if err != nil {
		return dto.MessageDTO{}, &PersistenceError{Op: "find sender", Err: err}
	}

	// Participation is not enforced here; the receiver falls back to the
	// initiator for a sender outside the session.
	if !sess.HasParticipant(sender.ID) {
		s.log.Warn("sender is not a session participant",
			zap.Stringer("session_id", sess.ID),
			zap.Stringer("sender_id", sender.ID),
		)
	}

	msg, err := message.New(sess.ID, sender.ID, body)
	if err != nil {
		return dto.MessageDTO{}, &PersistenceError{Op: "build message", Err: err}
	}

	saved, err := s.messages.Create(ctx, msg)
	if err != nil {
		s.log.Error("failed to persist message",
			zap.Stringer("session_id", sess.ID),
			zap.Stringer("sender_id", sender.ID),
			zap.Error(err),
		)
		return dto.MessageDTO{}, &PersistenceError{Op: "create message", Err: err}
	}

	s.invalidateCount(ctx, saved.SessionID)
	if s.recorder != nil {
		s.recorder.MessageCreated()
	}

	evt := event.NewMessageCreated(sess, saved)
	s.events.Dispatch(evt)

	s.log.Info("message created",
		zap.Stringer("message_id", saved.ID),
		zap.Stringer("session_id", saved.SessionID),
		zap.Stringer("sender_id", saved.SenderID),
		zap.Stringer("receiver_id", evt.ReceiverID),
	)

	return dto.ToMessage(saved), nil
}

// GetSessionMessages lists a session's messages oldest first. An existing
// session without messages yields an empty slice.
func (s *messageService) GetSessionMessages(ctx context.Context, sessionID uuid.UUID) ([]dto.MessageDTO, error) {
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, &PersistenceError{Op: "list session messages", Err: err}
	}
	return dto.ToMessages(msgs), nil
}

// GetSessionMessagesPage returns limit messages starting at offset, in the
// same order as GetSessionMessages.
func (s *messageService) GetSessionMessagesPage(ctx context.Context, sessionID uuid.UUID, offset, limit int) ([]dto.MessageDTO, error) {
	if err := check(pageInput{Offset: offset, Limit: limit}); err != nil {
		return nil, err
	}
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListPage(ctx, sessionID, offset, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "list message page", Err: err}
	}
	return dto.ToMessages(msgs), nil
}

func (s *messageService) GetMessageByID(ctx context.Context, messageID uuid.UUID) (dto.MessageDTO, error) {
	msg, err := s.messages.FindByID(ctx, messageID)
	if errors.Is(err, message.ErrNotFound) {
		return dto.MessageDTO{}, &NotFoundError{Entity: "message"}
	}
	if err != nil {
		return dto.MessageDTO{}, &PersistenceError{Op: "find message", Err: err}
	}
	return dto.ToMessage(msg), nil
}

// GetLatestMessage returns the newest message of an existing session.
// An empty session is reported as NotFoundError{Entity: "message"}.
func (s *messageService) GetLatestMessage(ctx context.Context, sessionID uuid.UUID) (dto.MessageDTO, error) {
	if _, err := s.findSession(ctx, sessionID); err != nil {
		return dto.MessageDTO{}, err
	}

	latest, err := s.messages.LatestInSession(ctx, sessionID)
	if errors.Is(err, message.ErrNotFound) {
		return dto.MessageDTO{}, &NotFoundError{Entity: "message"}
	}
	if err != nil {
		return dto.MessageDTO{}, &PersistenceError{Op: "find latest message", Err: err}
	}
	return dto.ToMessage(latest), nil
}

// SearchMessages matches term against every message body, ignoring case.
func (s *messageService) SearchMessages(ctx context.Context, term string) ([]dto.MessageDTO, error) {
	if err := check(searchInput{Term: term}); err != nil {
		return nil, err
	}

	msgs, err := s.messages.SearchByContent(ctx, term)
	if err != nil {
		return nil, &PersistenceError{Op: "search messages", Err: err}
	}
	return dto.ToMessages(msgs), nil
}

// CountSessionMessages does not check that the session exists; an unknown
// session counts zero. Counts are served from the cache when possible.
func (s *messageService) CountSessionMessages(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	gen, cacheable := s.countGeneration(ctx, sessionID)
	key := countKey(sessionID, gen)

	if cacheable {
		v, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				return n, nil
			}
			s.log.Warn("ignoring malformed cached count", zap.String("key", key), zap.String("value", v))
		case !errors.Is(err, cache.ErrMiss):
			s.log.Warn("count cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	n, err := s.messages.CountBySession(ctx, sessionID)
	if err != nil {
		return 0, &PersistenceError{Op: "count session messages", Err: err}
	}

	// A write committed after the generation was read bumps it, leaving this
	// entry under a key nobody reads any more.
	if cacheable {
		if err := s.cache.Set(ctx, key, strconv.FormatInt(n, 10), s.countTTL); err != nil {
			s.log.Warn("count cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return n, nil
}

// DeleteMessage reports whether a message was removed. A missing id is not
// an error.
func (s *messageService) DeleteMessage(ctx context.Context, messageID uuid.UUID) (bool, error) {
	deleted, err := s.messages.Delete(ctx, messageID)
	if errors.Is(err, message.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "delete message", Err: err}
	}

	s.invalidateCount(ctx, deleted.SessionID)
	s.log.Info("message deleted",
		zap.Stringer("message_id", deleted.ID),
		zap.Stringer("session_id", deleted.SessionID),
	)
	return true, nil
}

// GetSession maps a session, attaching its messages (senders loaded) when
// includeMessages is set.
func (s *messageService) GetSession(ctx context.Context, sessionID uuid.UUID, includeMessages bool) (dto.SessionDTO, error) {
	sess, err := s.findSession(ctx, sessionID)
	if err != nil {
		return dto.SessionDTO{}, err
	}

	if includeMessages {
		msgs, err := s.messages.ListBySessionWithSender(ctx, sessionID)
		if err != nil {
			return dto.SessionDTO{}, &PersistenceError{Op: "list session messages", Err: err}
		}
		sess.Messages = msgs
	}

	return dto.ToSession(sess, includeMessages), nil
}

func (s *messageService) findSession(ctx context.Context, id uuid.UUID) (*session.Session, error) {
	sess, err := s.sessions.FindByID(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, &NotFoundError{Entity: "session"}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find session", Err: err}
	}
	return sess, nil
}

// countGeneration reads the session's write generation. The count cache is
// bypassed when the generation cannot be read.
func (s *messageService) countGeneration(ctx context.Context, sessionID uuid.UUID) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	key := cache.SessionMessageGen.Key(sessionID.String())
	v, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrMiss) {
		return 0, true
	}
	if err != nil {
		s.log.Warn("count generation read failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}

	gen, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		s.log.Warn("ignoring malformed count generation", zap.String("key", key), zap.String("value", v))
		return 0, false
	}
	return gen, true
}

func countKey(sessionID uuid.UUID, gen int64) string {
	return cache.SessionMessageCount.Key(sessionID.String() + ":" + strconv.FormatInt(gen, 10))
}

// invalidateCount bumps the session's generation after a committed write.
// It is best-effort: if the bump fails a stale count expires with its TTL.
func (s *messageService) invalidateCount(ctx context.Context, sessionID uuid.UUID) {
	if s.cache == nil {
		return
	}
	key := cache.SessionMessageGen.Key(sessionID.String())
	if _, err := s.cache.Incr(ctx, key); err != nil {
		s.log.Warn("count cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
