// Package telemetry exposes the bot's Prometheus metrics and a health
// endpoint on an optional HTTP listener.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"homeworkbot/internal/types"
)

const (
	resultDelivered = "delivered"
	resultFailed    = "failed"

	kindNone = "none"
)

// Metrics holds the bot's collectors on a private registry, so tests can
// create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	pollsTotal         *prometheus.CounterVec
	pollDuration       prometheus.Histogram
	notificationsTotal *prometheus.CounterVec
	cursor             prometheus.Gauge
	errorStreak        prometheus.Gauge
}

// NewMetrics creates and registers the collectors, plus the standard Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: types.MetricNamespace,
				Name:      types.MetricPollsTotal,
				Help:      "Total poll iterations by outcome and error kind",
			},
			[]string{types.LabelOutcome, types.LabelErrorKind},
		),
		pollDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: types.MetricNamespace,
				Name:      types.MetricPollDuration,
				Help:      "Poll iteration latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		notificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: types.MetricNamespace,
				Name:      types.MetricNotificationsTotal,
				Help:      "Total chat deliveries by message kind and result",
			},
			[]string{types.LabelKind, types.LabelResult},
		),
		cursor: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: types.MetricNamespace,
				Name:      types.MetricPollCursor,
				Help:      "Current poll cursor as Unix seconds",
			},
		),
		errorStreak: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: types.MetricNamespace,
				Name:      types.MetricErrorStreak,
				Help:      "Consecutive failed poll iterations",
			},
		),
	}

	m.registry.MustRegister(
		m.pollsTotal,
		m.pollDuration,
		m.notificationsTotal,
		m.cursor,
		m.errorStreak,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordPoll counts one iteration. kind is empty for error-free iterations
// and is exported as "none".
func (m *Metrics) RecordPoll(outcome types.PollOutcome, kind types.ErrorKind, duration time.Duration) {
	kindLabel := string(kind)
	if kindLabel == "" {
		kindLabel = kindNone
	}
	m.pollsTotal.WithLabelValues(string(outcome), kindLabel).Inc()
	m.pollDuration.Observe(duration.Seconds())
}

// SetCursor publishes the poll cursor.
func (m *Metrics) SetCursor(cursor int64) {
	m.cursor.Set(float64(cursor))
}

// SetErrorStreak publishes the length of the current failure streak.
func (m *Metrics) SetErrorStreak(streak int) {
	m.errorStreak.Set(float64(streak))
}

// RecordDelivery counts one chat delivery attempt.
func (m *Metrics) RecordDelivery(kind string, delivered bool) {
	result := resultDelivered
	if !delivered {
		result = resultFailed
	}
	m.notificationsTotal.WithLabelValues(kind, result).Inc()
}
