// Package observability exposes interpreter activity as Prometheus metrics,
// wired through the engine's lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// Collector accumulates pipeline metrics. Attach its Hooks to an interpreter
// and register it with a Prometheus registry.
type Collector struct {
	runs         *prometheus.CounterVec
	segments     prometheus.Counter
	verbDuration *prometheus.HistogramVec
	openShells   prometheus.Gauge
}

// NewCollector creates the metric set under the dotpipe namespace.
func NewCollector() *Collector {
	return &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dotpipe",
			Name:      "pipeline_runs_total",
			Help:      "Completed pipeline runs, partitioned by outcome.",
		}, []string{"outcome"}),
		segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dotpipe",
			Name:      "segments_total",
			Help:      "Classified segments executed.",
		}),
		verbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dotpipe",
			Name:      "verb_duration_seconds",
			Help:      "Verb execution latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"verb"}),
		openShells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dotpipe",
			Name:      "open_shells",
			Help:      "Shells currently open across all entries.",
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.runs.Describe(ch)
	c.segments.Describe(ch)
	c.verbDuration.Describe(ch)
	c.openShells.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.runs.Collect(ch)
	c.segments.Collect(ch)
	c.verbDuration.Collect(ch)
	c.openShells.Collect(ch)
}

// Hooks returns lifecycle hooks feeding this collector.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPipelineEnd: func(_ context.Context, ev *domain.PipelineEvent) {
			outcome := "ok"
			if ev.Err != nil {
				outcome = "error"
			}
			c.runs.WithLabelValues(outcome).Inc()
		},
		OnSegment: func(_ context.Context, _ *domain.SegmentEvent) {
			c.segments.Inc()
		},
		OnVerbReturn: func(_ context.Context, ev *domain.VerbEvent) {
			c.verbDuration.WithLabelValues(ev.Verb).Observe(ev.Duration.Seconds())
		},
		OnShellOpen: func(_ context.Context, _ *domain.ShellEvent) {
			c.openShells.Inc()
		},
		OnShellClose: func(_ context.Context, _ *domain.ShellEvent) {
			c.openShells.Dec()
		},
	}
}

// Merge composes several hook sets into one that fans out to each in order.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	out.OnPipelineStart = func(ctx context.Context, ev *domain.PipelineEvent) {
		for _, h := range sets {
			if h.OnPipelineStart != nil {
				h.OnPipelineStart(ctx, ev)
			}
		}
	}
	out.OnPipelineEnd = func(ctx context.Context, ev *domain.PipelineEvent) {
		for _, h := range sets {
			if h.OnPipelineEnd != nil {
				h.OnPipelineEnd(ctx, ev)
			}
		}
	}
	out.OnSegment = func(ctx context.Context, ev *domain.SegmentEvent) {
		for _, h := range sets {
			if h.OnSegment != nil {
				h.OnSegment(ctx, ev)
			}
		}
	}
	out.OnVerbCall = func(ctx context.Context, ev *domain.VerbEvent) {
		for _, h := range sets {
			if h.OnVerbCall != nil {
				h.OnVerbCall(ctx, ev)
			}
		}
	}
	out.OnVerbReturn = func(ctx context.Context, ev *domain.VerbEvent) {
		for _, h := range sets {
			if h.OnVerbReturn != nil {
				h.OnVerbReturn(ctx, ev)
			}
		}
	}
	out.OnShellOpen = func(ctx context.Context, ev *domain.ShellEvent) {
		for _, h := range sets {
			if h.OnShellOpen != nil {
				h.OnShellOpen(ctx, ev)
			}
		}
	}
	out.OnShellClose = func(ctx context.Context, ev *domain.ShellEvent) {
		for _, h := range sets {
			if h.OnShellClose != nil {
				h.OnShellClose(ctx, ev)
			}
		}
	}
	return out
}
