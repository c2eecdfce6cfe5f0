// Package metrics exposes Prometheus counters for message creation and
// event publication.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the messaging metrics registered on one registry.
type Collector struct {
	messagesCreated prometheus.Counter
	eventsPublished prometheus.Counter
	eventsFailed    *prometheus.CounterVec
	publishLatency  prometheus.Histogram
	kafkaWrites     prometheus.Counter
	kafkaMessages   prometheus.Counter
	kafkaErrors     prometheus.Counter
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		messagesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messaging_messages_created_total",
			Help: "Messages persisted by the message service.",
		}),
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messaging_events_published_total",
			Help: "Message events accepted by the event channel.",
		}),
		eventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "messaging_events_failed_total",
			Help: "Message events that were dropped, by reason.",
		}, []string{"reason"}),
		publishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "messaging_event_publish_seconds",
			Help:    "Time spent publishing a single event.",
			Buckets: prometheus.DefBuckets,
		}),
		kafkaWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messaging_kafka_writes_total",
			Help: "Write calls issued by the Kafka writer.",
		}),
		kafkaMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messaging_kafka_messages_total",
			Help: "Records written by the Kafka writer.",
		}),
		kafkaErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "messaging_kafka_errors_total",
			Help: "Errors reported by the Kafka writer.",
		}),
	}

	reg.MustRegister(
		c.messagesCreated,
		c.eventsPublished,
		c.eventsFailed,
		c.publishLatency,
		c.kafkaWrites,
		c.kafkaMessages,
		c.kafkaErrors,
	)

	return c
}

// MessageCreated counts one persisted message.
func (c *Collector) MessageCreated() {
	c.messagesCreated.Inc()
}

// EventPublished records a successful publish and its latency.
func (c *Collector) EventPublished(took time.Duration) {
	c.eventsPublished.Inc()
	c.publishLatency.Observe(took.Seconds())
}

// EventFailed counts a dropped event.
func (c *Collector) EventFailed(reason string) {
	c.eventsFailed.WithLabelValues(reason).Inc()
}

// RecordWriterStats adds Kafka writer deltas.
func (c *Collector) RecordWriterStats(writes, messages, errors int64) {
	c.kafkaWrites.Add(float64(writes))
	c.kafkaMessages.Add(float64(messages))
	c.kafkaErrors.Add(float64(errors))
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
