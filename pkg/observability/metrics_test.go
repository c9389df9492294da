package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

func TestCollector_CountsPipelineActivity(t *testing.T) {
	c := NewCollector()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	hooks := c.Hooks()
	ctx := context.Background()

	hooks.OnPipelineEnd(ctx, &domain.PipelineEvent{})
	hooks.OnPipelineEnd(ctx, &domain.PipelineEvent{Err: errors.New("boom")})
	hooks.OnSegment(ctx, &domain.SegmentEvent{})
	hooks.OnSegment(ctx, &domain.SegmentEvent{})
	hooks.OnVerbReturn(ctx, &domain.VerbEvent{Verb: "inc", Duration: 3 * time.Millisecond})
	hooks.OnShellOpen(ctx, &domain.ShellEvent{})
	hooks.OnShellOpen(ctx, &domain.ShellEvent{})
	hooks.OnShellClose(ctx, &domain.ShellEvent{})

	assert.Equal(t, float64(1), testutil.ToFloat64(c.runs.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.runs.WithLabelValues("error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.segments))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.openShells))

	count := testutil.CollectAndCount(c, "dotpipe_verb_duration_seconds")
	assert.Equal(t, 1, count)
}

func TestMerge_FansOut(t *testing.T) {
	var first, second int
	merged := Merge(
		domain.LifecycleHooks{OnSegment: func(context.Context, *domain.SegmentEvent) { first++ }},
		domain.LifecycleHooks{OnSegment: func(context.Context, *domain.SegmentEvent) { second++ }},
	)

	merged.OnSegment(context.Background(), &domain.SegmentEvent{})
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	// Nil callbacks in a set are simply skipped.
	merged.OnPipelineStart(context.Background(), &domain.PipelineEvent{})
}
