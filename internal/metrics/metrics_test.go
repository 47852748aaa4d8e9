package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg)
	ctx := context.Background()

	p.Observe(ctx, "buy_car", true, 10*time.Millisecond)
	p.Observe(ctx, "buy_car", false, time.Millisecond)
	p.Observe(ctx, "buy_car", true, time.Millisecond)
	p.Observe(ctx, "", true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.results.WithLabelValues("buy_car", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.results.WithLabelValues("buy_car", "error")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.durations))
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() { r.Observe(context.Background(), "x", true, 0) })
}
