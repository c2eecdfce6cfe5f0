package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/oggyb/session-messaging/internal/config"
	"github.com/oggyb/session-messaging/internal/db/gormdb"
	"github.com/oggyb/session-messaging/internal/domain/session"
	"github.com/oggyb/session-messaging/internal/domain/user"
	"github.com/oggyb/session-messaging/internal/event"
	"github.com/oggyb/session-messaging/internal/logger"
	gormrepo "github.com/oggyb/session-messaging/internal/repository/gorm"
	messagegorm "github.com/oggyb/session-messaging/internal/repository/gorm/message"
	sessiongorm "github.com/oggyb/session-messaging/internal/repository/gorm/session"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
	"github.com/oggyb/session-messaging/internal/service"
	"go.uber.org/zap"
)

// messagesPerSession is how many messages each seeded session gets.
const messagesPerSession = 10

// quietDispatcher drops events; seeded history must not notify anyone.
type quietDispatcher struct{}

func (quietDispatcher) Dispatch(event.MessageCreatedEvent) {}

func main() {
	ctx := context.Background()

	// Load application configuration (DB, Redis, etc.) from env/.env.
	cfg := config.New()

	log, err := logger.New("seed", cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Open a Postgres connection through our GORM adapter.
	gormAdapter, err := gormdb.New(cfg.PostgresDSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = gormAdapter.Close() }()

	log.Info("connected to database", zap.String("name", cfg.DB.Name))

	// 1) AutoMigrate: make sure users, sessions and messages exist.
	if err := gormrepo.AutoMigrate(gormAdapter); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}
	log.Info("schema is up to date")

	users := usergorm.NewRepository(gormAdapter)
	sessions := sessiongorm.NewRepository(gormAdapter)

	// 2) Participants. Emails are unique, so each run gets its own suffix.
	run := time.Now().Unix()
	doctor := mustUser(ctx, log, users, "Dr. Ada Lind", fmt.Sprintf("ada.lind+%d@example.com", run), user.RoleDoctor)
	staff := mustUser(ctx, log, users, "Sam Ortiz", fmt.Sprintf("sam.ortiz+%d@example.com", run), user.RoleStaff)
	patient := mustUser(ctx, log, users, "Alex Berg", fmt.Sprintf("alex.berg+%d@example.com", run), user.RolePatient)

	// 3) Sessions between them.
	seeded := []*session.Session{
		mustSession(ctx, log, sessions, doctor, patient, "Follow-up consultation"),
		mustSession(ctx, log, sessions, staff, patient, "Appointment scheduling"),
	}

	// 4) Messages go through the service so every domain rule applies.
	msgSvc := service.NewMessageService(
		service.Repositories{
			Messages: messagegorm.NewRepository(gormAdapter),
			Sessions: sessions,
			Users:    users,
		},
		quietDispatcher{},
		nil,
		nil,
		log,
		0,
	)

	total := 0
	for _, s := range seeded {
		for i := 0; i < messagesPerSession; i++ {
			sender := s.InitiatorID
			if i%2 == 1 {
				sender = s.CounterpartyID
			}

			msg, err := msgSvc.CreateMessage(ctx, s.ID, sender, randomContent(i+1))
			if err != nil {
				log.Fatal("failed to create message", zap.Stringer("session_id", s.ID), zap.Error(err))
			}
			total++

			log.Debug("created message",
				zap.Stringer("message_id", msg.MessageID),
				zap.Stringer("session_id", s.ID),
			)
		}
	}

	log.Info("seeding done",
		zap.Int("users", 3),
		zap.Int("sessions", len(seeded)),
		zap.Int("messages", total),
	)
}

func mustUser(ctx context.Context, log *zap.Logger, repo *usergorm.Repository, name, email string, role user.Role) *user.User {
	u, err := user.New(name, email, "", role)
	if err != nil {
		log.Fatal("invalid seed user", zap.String("email", email), zap.Error(err))
	}
	if err := repo.Create(ctx, u); err != nil {
		log.Fatal("failed to save user", zap.String("email", email), zap.Error(err))
	}
	log.Info("created user", zap.Stringer("id", u.ID), zap.String("role", string(u.Role)))
	return u
}

func mustSession(ctx context.Context, log *zap.Logger, repo *sessiongorm.Repository, a, b *user.User, subject string) *session.Session {
	s, err := session.New(a.ID, b.ID, subject)
	if err != nil {
		log.Fatal("invalid seed session", zap.Error(err))
	}
	if err := repo.Create(ctx, s); err != nil {
		log.Fatal("failed to save session", zap.Error(err))
	}
	log.Info("created session", zap.Stringer("id", s.ID), zap.String("subject", subject))
	return s
}

var phrases = []string{
	"How are you feeling today?",
	"Much better, thank you.",
	"Please remember to bring your test results.",
	"Can we move the appointment to Thursday?",
	"Thursday at 10:00 works.",
	"Any side effects from the new dosage?",
}

// randomContent generates a short chat line for seeding.
func randomContent(i int) string {
	return fmt.Sprintf("%s (#%d)", phrases[rand.Intn(len(phrases))], i)
}
