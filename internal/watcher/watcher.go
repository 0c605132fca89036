package watcher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cybertec-postgresql/slowwatch/internal/cmdopts"
	"github.com/cybertec-postgresql/slowwatch/internal/log"
	"github.com/cybertec-postgresql/slowwatch/internal/logparse"
	"github.com/cybertec-postgresql/slowwatch/internal/metrics"
)

// Watcher is the struct responsible for following the server log,
// aggregating slow query observations and publishing them to the sinks.
type Watcher struct {
	*cmdopts.Options
	ready      atomic.Bool
	aggregator *metrics.Aggregator
	logger     log.Logger
}

// NewWatcher creates a new Watcher instance
func NewWatcher(ctx context.Context, opts *cmdopts.Options) *Watcher {
	return &Watcher{
		Options:    opts,
		aggregator: metrics.NewAggregator(),
		logger:     log.GetLogger(ctx),
	}
}

// Ready() returns true if the service is healthy and operating correctly
func (w *Watcher) Ready() bool {
	return w.ready.Load()
}

// Watch() starts the main monitoring loop. A single goroutine pulls lines
// from the follower, extracts observations and applies the slow query
// threshold; on every publish interval the aggregated state is handed to
// the sinks. On cancellation the loop performs one final publish so the
// last observations are not lost.
func (w *Watcher) Watch(ctx context.Context) {
	follower := logparse.NewFollower(w.Source.LogFile, w.Source.PollInterval)
	defer func() { _ = follower.Close() }()

	w.logger.WithField("logfile", w.Source.LogFile).
		WithField("threshold", w.Source.ThresholdMs).
		Info("Watching for slow queries")

	lastPublish := time.Now()
	w.ready.Store(true)
	for {
		line, ok, err := follower.Next(ctx)
		if err != nil {
			break
		}
		if ok {
			if obs, matched := logparse.Extract(line); matched && obs.DurationMs >= w.Source.ThresholdMs {
				w.logger.WithField("user", obs.User).WithField("db", obs.DB).
					Debugf("Slow query took %.3f ms", obs.DurationMs)
				w.aggregator.Record(obs.DurationMs, obs.User, obs.DB)
			}
		}
		if time.Since(lastPublish) >= w.Sinks.PublishInterval {
			w.publish()
			// a failed publish is retried on the next interval only,
			// tight-looping on a persistent I/O fault helps nobody
			lastPublish = time.Now()
		}
	}
	w.ready.Store(false)
	w.publish()
}

func (w *Watcher) publish() {
	if err := w.SinksWriter.Write(w.aggregator.Snapshot()); err != nil {
		w.logger.WithError(err).Error("Failed to publish measurements")
	}
}
