// Package metrics exports pipeline counters to Prometheus.
package metrics

import (
	"time"

	"github.com/rxcheck/ddi/pkg/ai"
	"github.com/rxcheck/ddi/pkg/embedding"
	"github.com/rxcheck/ddi/pkg/resolve"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements resolve.Observer and ai.UsageObserver on top of
// Prometheus collectors.
type Recorder struct {
	Resolutions       *prometheus.CounterVec
	Fallbacks         *prometheus.CounterVec
	Similarity        *prometheus.CounterVec
	ReasoningDuration *prometheus.HistogramVec
	Tokens            *prometheus.CounterVec
}

// NewRecorder registers the pipeline metrics with reg, or with the default
// registerer when reg is nil.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ddi_resolutions_total",
			Help: "Total number of resolved drug pairs by method",
		}, []string{"method"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ddi_reasoning_fallbacks_total",
			Help: "Total number of explanation strategy failures that fell through the chain",
		}, []string{"strategy", "reason"}),
		Similarity: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ddi_similarity_total",
			Help: "Total number of similarity estimates by status",
		}, []string{"status"}),
		ReasoningDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ddi_reasoning_duration_seconds",
			Help:    "Duration of reasoning service calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}, []string{"outcome"}),
		Tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ddi_ai_tokens_total",
			Help: "Total number of model tokens by backend, operation and direction",
		}, []string{"backend", "operation", "direction"}),
	}
}

func (r *Recorder) ObserveResolution(method resolve.Method) {
	r.Resolutions.WithLabelValues(string(method)).Inc()
}

func (r *Recorder) ObserveSimilarity(status embedding.Status) {
	r.Similarity.WithLabelValues(string(status)).Inc()
}

func (r *Recorder) ObserveFallback(strategy string, reason string) {
	r.Fallbacks.WithLabelValues(strategy, reason).Inc()
}

func (r *Recorder) ObserveReasoning(d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = resolve.FallbackReason(err)
	}
	r.ReasoningDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (r *Recorder) ObserveUsage(backend string, operation string, m ai.ModelMetrics) {
	if m.InputTokens > 0 {
		r.Tokens.WithLabelValues(backend, operation, "input").Add(float64(m.InputTokens))
	}
	if m.OutputTokens > 0 {
		r.Tokens.WithLabelValues(backend, operation, "output").Add(float64(m.OutputTokens))
	}
}

var (
	_ resolve.Observer = (*Recorder)(nil)
	_ ai.UsageObserver = (*Recorder)(nil)
)
