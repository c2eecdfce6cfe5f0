package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Name string
		Env  string
	}

	API struct {
		Host string
		Port string
	}

	DB struct {
		Host        string
		Port        int
		User        string
		Password    string
		Name        string
		SSLMode     string
		AutoMigrate bool
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		Brokers      []string
		Topic        string
		WriteTimeout time.Duration
	}

	Dispatcher struct {
		Workers        int
		QueueSize      int
		PublishTimeout time.Duration
	}

	Cache struct {
		CountTTL time.Duration
	}

	Scheduler struct {
		Interval   time.Duration
		JobTimeout time.Duration
	}
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	// App
	cfg.App.Name = getEnv("APP_NAME", "session-messaging")
	cfg.App.Env = getEnv("APP_ENV", "development")

	// API
	cfg.API.Host = getEnv("API_HOST", "0.0.0.0")
	cfg.API.Port = getEnv("API_PORT", "8080")

	// DB
	cfg.DB.Host = getEnv("DB_HOST", "db")
	cfg.DB.Port = getInt("DB_PORT", 5432)
	cfg.DB.User = getEnv("DB_USER", "root")
	cfg.DB.Password = getEnv("DB_PASSWORD", "123456")
	cfg.DB.Name = getEnv("DB_NAME", "db_session_messages")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.AutoMigrate = getBool("DB_AUTO_MIGRATE", true)

	// Redis
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "redis:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getInt("REDIS_DB", 0)

	// Kafka event channel
	cfg.Kafka.Brokers = getList("KAFKA_BROKERS", []string{"kafka:9092"})
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", "message-events")
	cfg.Kafka.WriteTimeout = getDuration("KAFKA_WRITE_TIMEOUT", 10*time.Second)

	// Event dispatch
	cfg.Dispatcher.Workers = getInt("EVENT_WORKERS", 2)
	cfg.Dispatcher.QueueSize = getInt("EVENT_QUEUE_SIZE", 256)
	cfg.Dispatcher.PublishTimeout = getDuration("EVENT_PUBLISH_TIMEOUT", 5*time.Second)

	// Cache
	cfg.Cache.CountTTL = getDuration("CACHE_COUNT_TTL", 5*time.Minute)

	// Scheduler
	cfg.Scheduler.Interval = getDuration("SCHEDULER_INTERVAL", 15*time.Second)
	cfg.Scheduler.JobTimeout = getDuration("SCHEDULER_JOB_TIMEOUT", 5*time.Second)

	return cfg
}

func getEnv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return isTruthy(v)
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// getList splits a comma separated value, dropping empty items.
func getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}

	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

// Addr is the listen address of the HTTP API.
func (c *Config) Addr() string {
	return c.API.Host + ":" + c.API.Port
}
