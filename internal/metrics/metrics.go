// Package metrics holds the Prometheus collectors for the relay.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for tts_requests_total.
const (
	OutcomeSuccess        = "success"
	OutcomeInvalidJSON    = "invalid_json"
	OutcomeEmptyText      = "empty_text"
	OutcomeTextTooLong    = "text_too_long"
	OutcomeInvalidFormat  = "invalid_format"
	OutcomeInvalidRate    = "invalid_rate"
	OutcomeSynthesisError = "synthesis_error"
)

type Metrics struct {
	Requests          *prometheus.CounterVec
	SynthesisDuration prometheus.Histogram
	AudioBytes        prometheus.Histogram
	CleanupFailures   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tts_requests_total",
			Help: "Synthesis requests by outcome.",
		}, []string{"outcome"}),
		SynthesisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tts_synthesis_duration_seconds",
			Help:    "Time spent in the external provider call.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		AudioBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tts_audio_bytes",
			Help:    "Size of synthesized audio returned to clients.",
			Buckets: prometheus.ExponentialBuckets(4096, 4, 8),
		}),
		CleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tts_artifact_cleanup_failures_total",
			Help: "Temp audio files left behind after all delete attempts.",
		}),
	}
	reg.MustRegister(m.Requests, m.SynthesisDuration, m.AudioBytes, m.CleanupFailures)
	return m
}

// The methods below accept a nil receiver so callers can run without metrics.

func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSynthesis(d time.Duration) {
	if m == nil {
		return
	}
	m.SynthesisDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveAudio(size int) {
	if m == nil {
		return
	}
	m.AudioBytes.Observe(float64(size))
}

func (m *Metrics) CleanupFailed() {
	if m == nil {
		return
	}
	m.CleanupFailures.Inc()
}
