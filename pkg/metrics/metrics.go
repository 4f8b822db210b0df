// Package metrics provides Prometheus metrics collection for the bot
// pipeline: inbound messages, cache behaviour, retrieval fallbacks and
// generation-call latency.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

const subsystem = "vecinito"

// Metrics holds the registry and the collectors the pipeline reports to.
type Metrics struct {
	reg *prometheus.Registry

	MessagesTotal       *prometheus.CounterVec // by kind: text, voice, location
	RepliesTotal        prometheus.Counter
	CacheHitsTotal      *prometheus.CounterVec // by tier: personal, global
	CacheMissesTotal    *prometheus.CounterVec
	RetrievalFallbacks  prometheus.Counter
	RateLimitedTotal    prometheus.Counter
	GenerationDuration  prometheus.Histogram
	CoalescedBurstSize  prometheus.Histogram
	TranscriptionErrors prometheus.Counter

	server *http.Server
	log    logger.Logger
}

// New creates a Metrics instance with all pipeline collectors registered
// on a private registry.
func New(l logger.Logger) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		log: l,
	}

	m.MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "messages_total",
		Help:      "Inbound messages by kind",
	}, []string{"kind"})

	m.RepliesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "replies_total",
		Help:      "Replies delivered to users",
	})

	m.CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "reply_cache_hits_total",
		Help:      "Reply cache hits by tier",
	}, []string{"tier"})

	m.CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "reply_cache_misses_total",
		Help:      "Reply cache misses by tier",
	}, []string{"tier"})

	m.RetrievalFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "retrieval_fallbacks_total",
		Help:      "Vector-search failures resolved by the local filter",
	})

	m.RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "rate_limited_total",
		Help:      "Messages rejected by the per-user rate limit",
	})

	m.GenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "generation_duration_seconds",
		Help:      "Text-generation call duration in seconds",
		Buckets:   []float64{0.1, 0.3, 0.5, 0.7, 1.0, 3.0, 5.0, 7.0, 10.0},
	})

	m.CoalescedBurstSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Subsystem: subsystem,
		Name:      "coalesced_burst_size",
		Help:      "Messages merged per coalesced burst",
		Buckets:   []float64{1, 2, 3, 4, 5, 7, 10},
	})

	m.TranscriptionErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "transcription_errors_total",
		Help:      "Voice transcription failures",
	})

	m.reg.MustRegister(
		m.MessagesTotal,
		m.RepliesTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.RetrievalFallbacks,
		m.RateLimitedTotal,
		m.GenerationDuration,
		m.CoalescedBurstSize,
		m.TranscriptionErrors,
	)

	return m
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Listen starts the monitoring HTTP server on the given port, serving
// /metrics and, when a handler is given, /healthz. It returns
// immediately; server errors are logged.
func (m *Metrics) Listen(port int, healthHandler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/", http.NotFoundHandler())
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	if healthHandler != nil {
		mux.Handle("/healthz", healthHandler)
	}

	m.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	m.log.Info("Starting metrics listener", logger.IntField("port", port))
	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.log.Error("Metrics listener failed", logger.ErrorField(err))
		}
	}()
}

// Shutdown stops the metrics HTTP server if it was started.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
