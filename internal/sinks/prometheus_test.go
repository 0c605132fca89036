package sinks

import (
	"context"
	"strings"
	"testing"

	"github.com/cybertec-postgresql/slowwatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectAll(promw *PrometheusWriter) []prometheus.Metric {
	ch := make(chan prometheus.Metric, 100)
	promw.Collect(ch)
	close(ch)
	collected := make([]prometheus.Metric, 0, len(ch))
	for m := range ch {
		collected = append(collected, m)
	}
	return collected
}

func TestPrometheusWriter_Collect(t *testing.T) {
	promw := newPrometheusWriter(context.Background(), metrics.ParseLabels("env=prod"))

	require.NoError(t, promw.Write(sampleSnapshot()))
	collected := collectAll(promw)
	// scrape counter + 2 global + 2 per bob/billing + 2 per alice/orders
	require.Len(t, collected, 7)

	var total, sum float64
	var keyed int
	for _, m := range collected {
		var pb dto.Metric
		require.NoError(t, m.Write(&pb))
		if pb.Counter == nil {
			continue
		}
		desc := m.Desc().String()
		switch {
		case strings.Contains(desc, countMetricName) && len(pb.Label) > 1:
			keyed++
		case strings.Contains(desc, countMetricName):
			total = pb.Counter.GetValue()
		case strings.Contains(desc, sumMetricName) && len(pb.Label) == 1:
			sum = pb.Counter.GetValue()
		}
	}
	assert.EqualValues(t, 3, total)
	assert.InDelta(t, 2550.5, sum, 0.001)
	assert.Equal(t, 2, keyed, "one count series per (user,db) pair")
}

func TestPrometheusWriter_CollectEmpty(t *testing.T) {
	promw := newPrometheusWriter(context.Background(), nil)

	collected := collectAll(promw)
	require.Len(t, collected, 3, "scrape counter plus zeroed global counters")
}

func TestPrometheusWriter_WriteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	promw := newPrometheusWriter(ctx, nil)
	cancel()
	assert.Error(t, promw.Write(sampleSnapshot()))
}
