package sinks

import (
	"context"
	"errors"

	"github.com/cybertec-postgresql/slowwatch/internal/metrics"
)

// Writer is an interface that publishes aggregated counter snapshots
type Writer interface {
	Write(snap metrics.Snapshot) error
}

// MultiWriter ensures the simultaneous publishing of snapshots to several sinks.
type MultiWriter struct {
	writers []Writer
}

// NewSinkWriter builds the configured sinks: always the textfile sink,
// plus the live Prometheus endpoint when an address is given. Static
// labels from the command line take precedence over the labels file.
func NewSinkWriter(ctx context.Context, opts *CmdOpts) (Writer, error) {
	if opts.MetricsPath == "" {
		return nil, errors.New("no metrics destination specified")
	}
	labels := metrics.LabelSet{}
	if opts.LabelsFile != "" {
		var err error
		if labels, err = metrics.ReadLabelsFile(opts.LabelsFile); err != nil {
			return nil, err
		}
	}
	labels = labels.Merge(metrics.ParseLabels(opts.Labels)...)

	mw := &MultiWriter{}
	tw, err := NewTextFileWriter(ctx, opts.MetricsPath, labels)
	if err != nil {
		return nil, err
	}
	mw.AddWriter(tw)
	if opts.PrometheusAddr != "" {
		pw, err := NewPrometheusWriter(ctx, opts.PrometheusAddr, labels)
		if err != nil {
			return nil, err
		}
		mw.AddWriter(pw)
	}
	if len(mw.writers) == 1 {
		return mw.writers[0], nil
	}
	return mw, nil
}

func (mw *MultiWriter) AddWriter(w Writer) {
	mw.writers = append(mw.writers, w)
}

// Write publishes the snapshot to all configured sinks, collecting errors.
func (mw *MultiWriter) Write(snap metrics.Snapshot) (err error) {
	for _, w := range mw.writers {
		err = errors.Join(err, w.Write(snap))
	}
	return
}
