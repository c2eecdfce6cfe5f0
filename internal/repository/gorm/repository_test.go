package gormrepo_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/oggyb/session-messaging/internal/db/gormdb"
	"github.com/oggyb/session-messaging/internal/domain/message"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"github.com/oggyb/session-messaging/internal/domain/user"
	gormrepo "github.com/oggyb/session-messaging/internal/repository/gorm"
	messagegorm "github.com/oggyb/session-messaging/internal/repository/gorm/message"
	sessiongorm "github.com/oggyb/session-messaging/internal/repository/gorm/session"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	users    *usergorm.Repository
	sessions *sessiongorm.Repository
	messages *messagegorm.Repository

	doctor  *user.User
	patient *user.User
	session *session.Session
}

func setup(t *testing.T) *env {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)

	conn, err := gormdb.Open(sqlite.Open(dsn))
	require.NoError(t, err)
	sqlDB, err := conn.Conn().(*gorm.DB).DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, gormrepo.AutoMigrate(conn))

	e := &env{
		users:    usergorm.NewRepository(conn),
		sessions: sessiongorm.NewRepository(conn),
		messages: messagegorm.NewRepository(conn),
	}

	ctx := context.Background()
	e.doctor, err = user.New("Dr. Lind", "lind@example.com", "", user.RoleDoctor)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(ctx, e.doctor))
	e.patient, err = user.New("Alex Berg", "alex@example.com", "", user.RolePatient)
	require.NoError(t, err)
	require.NoError(t, e.users.Create(ctx, e.patient))

	e.session, err = session.New(e.doctor.ID, e.patient.ID, "Follow-up")
	require.NoError(t, err)
	require.NoError(t, e.sessions.Create(ctx, e.session))

	return e
}

func (e *env) create(t *testing.T, sender *user.User, body string, at time.Time) *message.Message {
	t.Helper()

	m, err := message.New(e.session.ID, sender.ID, body)
	require.NoError(t, err)
	if !at.IsZero() {
		m.CreatedAt = at
	}
	saved, err := e.messages.Create(context.Background(), m)
	require.NoError(t, err)
	return saved
}

func contents(msgs []*message.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestUserRepository(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	got, err := e.users.FindByID(ctx, e.doctor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Lind", got.Name)
	assert.Equal(t, user.RoleDoctor, got.Role)

	_, err = e.users.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestSessionRepository(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	got, err := e.sessions.FindByID(ctx, e.session.ID)
	require.NoError(t, err)
	assert.Equal(t, "Follow-up", got.Subject)
	assert.Equal(t, e.doctor.ID, got.InitiatorID)
	assert.Equal(t, e.patient.ID, got.CounterpartyID)
	assert.Nil(t, got.Messages)

	_, err = e.sessions.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMessageRepository_CreateReadsBackSender(t *testing.T) {
	e := setup(t)

	saved := e.create(t, e.doctor, "hello", time.Time{})

	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	require.NotNil(t, saved.Sender)
	assert.Equal(t, e.doctor.ID, saved.Sender.ID)
	assert.Equal(t, "Dr. Lind", saved.Sender.Name)
}

func TestMessageRepository_CreateRejectsUnknownSender(t *testing.T) {
	e := setup(t)

	m, err := message.New(e.session.ID, uuid.New(), "ghost")
	require.NoError(t, err)

	_, err = e.messages.Create(context.Background(), m)
	require.Error(t, err)

	n, err := e.messages.CountBySession(context.Background(), e.session.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessageRepository_FindByID(t *testing.T) {
	e := setup(t)
	saved := e.create(t, e.doctor, "hello", time.Time{})
	ctx := context.Background()

	got, err := e.messages.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "hello", got.Content)
	assert.Nil(t, got.Sender)

	_, err = e.messages.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, message.ErrNotFound)
}

func TestMessageRepository_ChronologicalOrder(t *testing.T) {
	e := setup(t)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	e.create(t, e.patient, "third", base.Add(2*time.Second))
	e.create(t, e.doctor, "first", base)
	e.create(t, e.patient, "second", base.Add(time.Second))

	got, err := e.messages.ListBySession(context.Background(), e.session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, contents(got))
}

func TestMessageRepository_EqualTimestampsFollowCreationOrder(t *testing.T) {
	e := setup(t)
	at := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	e.create(t, e.doctor, "a", at)
	e.create(t, e.patient, "b", at)
	e.create(t, e.doctor, "c", at)

	got, err := e.messages.ListBySession(context.Background(), e.session.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, contents(got))

	latest, err := e.messages.LatestInSession(context.Background(), e.session.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", latest.Content)
}

func TestMessageRepository_ListBySessionWithSender(t *testing.T) {
	e := setup(t)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	e.create(t, e.doctor, "question", base)
	e.create(t, e.patient, "answer", base.Add(time.Second))

	got, err := e.messages.ListBySessionWithSender(context.Background(), e.session.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Sender)
	require.NotNil(t, got[1].Sender)
	assert.Equal(t, "Dr. Lind", got[0].Sender.Name)
	assert.Equal(t, "Alex Berg", got[1].Sender.Name)
}

func TestMessageRepository_ListPage(t *testing.T) {
	e := setup(t)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	e.create(t, e.doctor, "Hello world", base)
	e.create(t, e.doctor, "Another message", base.Add(time.Second))
	ctx := context.Background()

	page, err := e.messages.ListPage(ctx, e.session.ID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello world"}, contents(page))

	page, err = e.messages.ListPage(ctx, e.session.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Another message"}, contents(page))

	page, err = e.messages.ListPage(ctx, e.session.ID, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMessageRepository_LatestOnEmptySession(t *testing.T) {
	e := setup(t)

	_, err := e.messages.LatestInSession(context.Background(), e.session.ID)
	assert.ErrorIs(t, err, message.ErrNotFound)
}

func TestMessageRepository_SearchByContent(t *testing.T) {
	e := setup(t)
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	e.create(t, e.doctor, "Hello world", base)
	e.create(t, e.doctor, "Another message", base.Add(time.Second))
	e.create(t, e.patient, "100% better", base.Add(2*time.Second))
	e.create(t, e.patient, "snake_case", base.Add(3*time.Second))
	ctx := context.Background()

	tests := []struct {
		term string
		want []string
	}{
		{"Hello", []string{"Hello world"}},
		{"hello", []string{"Hello world"}},
		{"MESSAGE", []string{"Another message"}},
		{"o", []string{"Hello world", "Another message"}},
		{"%", []string{"100% better"}},
		{"_", []string{"snake_case"}},
		{"absent", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got, err := e.messages.SearchByContent(ctx, tt.term)
			require.NoError(t, err)
			assert.Equal(t, tt.want, contents(got))
		})
	}
}

func TestMessageRepository_CountBySession(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	n, err := e.messages.CountBySession(ctx, e.session.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	e.create(t, e.doctor, "one", time.Time{})
	e.create(t, e.patient, "two", time.Time{})

	n, err = e.messages.CountBySession(ctx, e.session.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = e.messages.CountBySession(ctx, uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessageRepository_Delete(t *testing.T) {
	e := setup(t)
	saved := e.create(t, e.doctor, "bye", time.Time{})
	ctx := context.Background()

	deleted, err := e.messages.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, deleted.ID)
	assert.Equal(t, e.session.ID, deleted.SessionID)

	_, err = e.messages.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, message.ErrNotFound)

	_, err = e.messages.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, message.ErrNotFound)
}
