package logplus

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

// TraceMetrics counts the work done by the auto tracer.
//   - logplus_trace_events_total{event="call"|"return"}: logged events
//   - logplus_trace_excluded_frames_total: calls skipped as infrastructure
type TraceMetrics struct {
	events   *prometheus.CounterVec
	excluded prometheus.Counter
}

// NewTraceMetrics creates the tracer counters and registers them with reg.
func NewTraceMetrics(reg prometheus.Registerer) (*TraceMetrics, error) {
	tm := &TraceMetrics{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "logplus",
				Name:      "trace_events_total",
				Help:      "Number of function entry and exit events logged by the auto tracer",
			},
			[]string{"event"},
		),
		excluded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "logplus",
				Name:      "trace_excluded_frames_total",
				Help:      "Number of traced calls skipped because they run inside infrastructure packages",
			},
		),
	}
	for _, c := range []prometheus.Collector{tm.events, tm.excluded} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

var traceMetrics atomic.Pointer[TraceMetrics]

// SetTraceMetrics makes the auto tracer report to tm; nil stops reporting.
func SetTraceMetrics(tm *TraceMetrics) {
	traceMetrics.Store(tm)
}

func traceMetricsEvent(e Event) {
	if tm := traceMetrics.Load(); tm != nil {
		tm.events.WithLabelValues(e.String()).Inc()
	}
}

func traceMetricsExcluded() {
	if tm := traceMetrics.Load(); tm != nil {
		tm.excluded.Inc()
	}
}
