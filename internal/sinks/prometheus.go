package sinks

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/cybertec-postgresql/slowwatch/internal/log"
	"github.com/cybertec-postgresql/slowwatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusWriter is a sink that exposes the lastly published snapshot
// on a live HTTP endpoint for a Prometheus scraper, complementing the
// textfile output for setups without a node_exporter on the host.
type PrometheusWriter struct {
	sync.RWMutex
	ctx          context.Context
	logger       log.Logger
	labels       metrics.LabelSet
	last         metrics.Snapshot
	globalDesc   *prometheus.Desc
	globalSum    *prometheus.Desc
	keyedDesc    *prometheus.Desc
	keyedSum     *prometheus.Desc
	totalScrapes prometheus.Counter
}

func (promw *PrometheusWriter) Println(v ...any) {
	promw.logger.Errorln(v...)
}

func newPrometheusWriter(ctx context.Context, labels metrics.LabelSet) *PrometheusWriter {
	keyedNames := labels.Merge(
		metrics.Label{Name: "user", Value: ""},
		metrics.Label{Name: "db", Value: ""},
	).Names()
	return &PrometheusWriter{
		ctx:        ctx,
		logger:     log.GetLogger(ctx),
		labels:     labels,
		globalDesc: prometheus.NewDesc(countMetricName, countMetricHelp, nil, labelMap(labels)),
		globalSum:  prometheus.NewDesc(sumMetricName, sumMetricHelp, nil, labelMap(labels)),
		keyedDesc:  prometheus.NewDesc(countMetricName, countMetricHelp, keyedNames, nil),
		keyedSum:   prometheus.NewDesc(sumMetricName, sumMetricHelp, keyedNames, nil),
		totalScrapes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "slowwatch_exporter_total_scrapes",
			Help: "Total scrape attempts.",
		}),
	}
}

// NewPrometheusWriter registers the collector and starts serving the
// /metrics endpoint on the given address.
func NewPrometheusWriter(ctx context.Context, addr string, labels metrics.LabelSet) (promw *PrometheusWriter, err error) {
	l := log.GetLogger(ctx).WithField("sink", "prometheus").WithField("address", addr)
	ctx = log.WithLogger(ctx, l)
	promw = newPrometheusWriter(ctx, labels)

	if err = prometheus.Register(promw); err != nil {
		return nil, err
	}

	promServer := &http.Server{
		Addr: addr,
		Handler: promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{
				ErrorLog:      promw,
				ErrorHandling: promhttp.ContinueOnError,
			},
		),
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() { log.GetLogger(ctx).Error(promServer.Serve(ln)) }()

	l.Info("measurements sink is activated")
	return promw, nil
}

func (promw *PrometheusWriter) Write(snap metrics.Snapshot) error {
	if promw.ctx.Err() != nil {
		return promw.ctx.Err()
	}
	promw.Lock()
	promw.last = snap
	promw.Unlock()
	return nil
}

func (promw *PrometheusWriter) Describe(_ chan<- *prometheus.Desc) {
}

func (promw *PrometheusWriter) Collect(ch chan<- prometheus.Metric) {
	promw.totalScrapes.Add(1)
	ch <- promw.totalScrapes

	promw.RLock()
	snap := promw.last
	promw.RUnlock()

	ch <- prometheus.MustNewConstMetric(promw.globalDesc, prometheus.CounterValue, float64(snap.Global.Count))
	ch <- prometheus.MustNewConstMetric(promw.globalSum, prometheus.CounterValue, snap.Global.SumMs)
	for _, key := range snap.SortedKeys() {
		values := promw.labels.Merge(
			metrics.Label{Name: "user", Value: key.User},
			metrics.Label{Name: "db", Value: key.DB},
		).Values()
		b := snap.ByKey[key]
		ch <- prometheus.MustNewConstMetric(promw.keyedDesc, prometheus.CounterValue, float64(b.Count), values...)
		ch <- prometheus.MustNewConstMetric(promw.keyedSum, prometheus.CounterValue, b.SumMs, values...)
	}
}

func labelMap(ls metrics.LabelSet) prometheus.Labels {
	if len(ls) == 0 {
		return nil
	}
	m := make(prometheus.Labels, len(ls))
	for _, l := range ls {
		m[l.Name] = l.Value
	}
	return m
}
