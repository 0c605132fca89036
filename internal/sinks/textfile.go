package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cybertec-postgresql/slowwatch/internal/log"
	"github.com/cybertec-postgresql/slowwatch/internal/metrics"
)

const (
	countMetricName = "pg_slow_queries_total"
	sumMetricName   = "pg_slow_queries_ms_sum"

	countMetricHelp = "Count of slow queries observed by log parser."
	sumMetricHelp   = "Sum of durations (ms) for slow queries."
)

// TextFileWriter is a sink that publishes snapshots as a Prometheus
// textfile, meant to be picked up by the node_exporter textfile collector.
// Every write replaces the whole file atomically, a concurrent reader sees
// either the previous or the new content and never a partial file.
type TextFileWriter struct {
	ctx    context.Context
	logger log.Logger
	path   string
	labels metrics.LabelSet
}

func NewTextFileWriter(ctx context.Context, path string, labels metrics.LabelSet) (*TextFileWriter, error) {
	l := log.GetLogger(ctx).WithField("sink", "textfile").WithField("path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	l.Info("measurements sink is activated")
	return &TextFileWriter{
		ctx:    log.WithLogger(ctx, l),
		logger: l,
		path:   path,
		labels: labels,
	}, nil
}

func (tw *TextFileWriter) Write(snap metrics.Snapshot) error {
	if tw.ctx.Err() != nil {
		return tw.ctx.Err()
	}
	return writeFileAtomic(tw.path, tw.Render(snap))
}

// Render encodes a snapshot into the exposition format. Output is
// deterministic: unchanged state renders to byte-identical content.
func (tw *TextFileWriter) Render(snap metrics.Snapshot) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# HELP %s %s\n# TYPE %s counter\n", countMetricName, countMetricHelp, countMetricName)
	fmt.Fprintf(&sb, "# HELP %s %s\n# TYPE %s counter\n", sumMetricName, sumMetricHelp, sumMetricName)

	writeBucket := func(labels metrics.LabelSet, b metrics.Bucket) {
		fmt.Fprintf(&sb, "%s%s %d\n", countMetricName, labels, b.Count)
		fmt.Fprintf(&sb, "%s%s %.3f\n", sumMetricName, labels, b.SumMs)
	}

	writeBucket(tw.labels, snap.Global)
	for _, key := range snap.SortedKeys() {
		labels := tw.labels.Merge(
			metrics.Label{Name: "user", Value: key.User},
			metrics.Label{Name: "db", Value: key.DB},
		)
		writeBucket(labels, snap.ByKey[key])
	}
	return []byte(sb.String())
}

// writeFileAtomic writes content to a temporary file next to the
// destination, forces it to durable storage and renames it over the
// destination. On failure the previous file is left untouched.
func writeFileAtomic(path string, content []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(content); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
