package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NewPrometheus returns a Recorder exporting to reg. Callers tag every
// observation with its flow ("scan", "send", "api").
func NewPrometheus(reg prometheus.Registerer) Recorder {
	r := &prometheusRecorder{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "walletflow",
			Subsystem: "flow",
			Name:      "events_total",
			Help:      "state machine events",
		}, []string{"flow", "kind"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "walletflow",
			Subsystem: "flow",
			Name:      "step_duration_seconds",
			Help:      "camera open and transfer submit duration",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"flow", "step"}),
	}

	reg.MustRegister(r.events, r.steps)
	return r
}

type prometheusRecorder struct {
	events *prometheus.CounterVec
	steps  *prometheus.HistogramVec
}

func (r *prometheusRecorder) IncCounter(kind string, labels map[string]string) {
	r.events.WithLabelValues(labels["flow"], kind).Inc()
}

func (r *prometheusRecorder) ObserveLatency(step string, d time.Duration, labels map[string]string) {
	r.steps.WithLabelValues(labels["flow"], step).Observe(d.Seconds())
}
