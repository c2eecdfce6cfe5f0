package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oggyb/session-messaging/internal/cache/redis"
	"github.com/oggyb/session-messaging/internal/config"
	"github.com/oggyb/session-messaging/internal/db/gormdb"
	"github.com/oggyb/session-messaging/internal/event"
	eventkafka "github.com/oggyb/session-messaging/internal/event/kafka"
	"github.com/oggyb/session-messaging/internal/handler"
	"github.com/oggyb/session-messaging/internal/logger"
	"github.com/oggyb/session-messaging/internal/metrics"
	gormrepo "github.com/oggyb/session-messaging/internal/repository/gorm"
	messagegorm "github.com/oggyb/session-messaging/internal/repository/gorm/message"
	sessiongorm "github.com/oggyb/session-messaging/internal/repository/gorm/session"
	usergorm "github.com/oggyb/session-messaging/internal/repository/gorm/user"
	routes "github.com/oggyb/session-messaging/internal/router"
	"github.com/oggyb/session-messaging/internal/scheduler"
	"github.com/oggyb/session-messaging/internal/server"
	"github.com/oggyb/session-messaging/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title       Session Messaging API
// @version     1.0
// @description Two-party session messaging with Kafka notifications.
// @host        localhost:8080
// @BasePath    /
func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	log, err := logger.New(cfg.App.Name, cfg.App.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Init cache. Counts fall back to the database while Redis is down.
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := cache.Ping(rootCtx); err != nil {
		log.Warn("redis unreachable, continuing without count cache hits", zap.Error(err))
	}

	// Init DB.
	db, err := gormdb.New(cfg.PostgresDSN())
	if err != nil {
		log.Fatal("failed to connect db", zap.Error(err))
	}
	if cfg.DB.AutoMigrate {
		if err := gormrepo.AutoMigrate(db); err != nil {
			log.Fatal("failed to migrate schema", zap.Error(err))
		}
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Event channel
	publisher := eventkafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.WriteTimeout)
	dispatcher := event.NewDispatcher(
		publisher,
		collector,
		log,
		cfg.Dispatcher.Workers,
		cfg.Dispatcher.QueueSize,
		cfg.Dispatcher.PublishTimeout,
	)

	// Repositories and services.
	msgSvc := service.NewMessageService(
		service.Repositories{
			Messages: messagegorm.NewRepository(db),
			Sessions: sessiongorm.NewRepository(db),
			Users:    usergorm.NewRepository(db),
		},
		dispatcher,
		cache,
		collector,
		log,
		cfg.Cache.CountTTL,
	)

	// Cron
	cron := scheduler.NewSchedulerService(
		"kafka-stats",
		eventkafka.NewStatsJob(publisher, collector),
		cfg.Scheduler.Interval,
		cfg.Scheduler.JobTimeout,
		log,
	)

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:      handler.NewHomeHandler(cache),
		Message:   handler.NewMessageHandler(msgSvc, log),
		Scheduler: handler.NewSchedulerHandler(cron),
		Metrics:   metrics.Handler(registry),
	}

	addr := cfg.Addr()
	srv := server.New(addr, deps, log)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		log.Info("HTTP server listening", zap.String("addr", addr))

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Start the scheduler after everything is wired up.
	if err := cron.Start(); err != nil {
		log.Fatal("stats scheduler could not start", zap.Error(err))
	}

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Info("shutdown signal received, starting graceful shutdown")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop accepting requests first so no new events are produced.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	if err := cron.Stop(); err != nil {
		log.Error("stats scheduler could not stop", zap.Error(err))
	}

	// Drain queued events before the writer goes away.
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("event dispatcher did not drain", zap.Error(err))
	}
	if err := publisher.Close(); err != nil {
		log.Error("kafka writer close failed", zap.Error(err))
	}

	if err := cache.Close(); err != nil {
		log.Warn("redis close failed", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}

	log.Info("shutdown complete")
}
