// Package worker implements the per-destination control loop: the
// timer/size-threshold batcher that decides when to flush, tracks
// sequential failures with linear back-off, and drops a destination after
// its failure budget is exhausted.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/logging"
	"github.com/lsyncd-go/rsyncwatch/internal/synctimer"
)

// errIncompleteFlush is returned by synchronize when both halves reported
// success but the queue is still non-empty afterwards: only an empty queue
// counts as a successful synchronize.
var errIncompleteFlush = errors.New("worker: queue non-empty after synchronize")

// Config carries the process-wide tunables from spec §6.
type Config struct {
	TimerLimit       time.Duration
	MaxChanges       int
	MaxChangesSync   int
	TimeSleepFailure time.Duration
	MaxSyncFailures  int
}

// DefaultConfig matches the spec's documented defaults.
func DefaultConfig() Config {
	return Config{
		TimerLimit:       60 * time.Second,
		MaxChanges:       1000,
		MaxChangesSync:   100,
		TimeSleepFailure: 60 * time.Second,
		MaxSyncFailures:  5,
	}
}

// Worker runs one Destination's state machine for the life of the
// process, or until it is dropped.
type Worker struct {
	dest   *Destination
	in     <-chan item.Item
	cfg    Config
	source *Source
}

// New builds a Worker over channel in, draining it into dest according to
// cfg's tunables.
func New(dest *Destination, in <-chan item.Item, cfg Config, source *Source) *Worker {
	return &Worker{dest: dest, in: in, cfg: cfg, source: source}
}

// Run blocks until ready fires (S0), then drives the worker through S1 (if
// requested), S2, S3 and Dropped, returning when ctx is cancelled or the
// destination is dropped.
func (w *Worker) Run(ctx context.Context, ready <-chan struct{}) {
	ctx = logging.WithDest(ctx, w.dest.Shortname)
	log := logging.GetLogger(ctx)

	select {
	case <-ready:
	case <-ctx.Done():
		return
	}

	if w.dest.InitialSync {
		w.dest.Enqueue(item.New(w.source.Path, true))
		if err := w.dest.Synchronize(ctx); err != nil {
			logging.WithError(log, err, "initial sync failed, dropping destination")
			w.drop(log)
			return
		}
	}

	w.runLoop(ctx, log)
}

// runLoop is S2: timer-and-size-driven batching until the destination is
// dropped or ctx is cancelled. On any received item the timer is NOT
// reset; only an actual flush resets it, bounding worst-case propagation
// latency at TimerLimit under steady load.
func (w *Worker) runLoop(ctx context.Context, log *slog.Logger) {
	var tm synctimer.Timer
	tm.Start(w.cfg.TimerLimit)

	for {
		select {
		case <-ctx.Done():
			return
		case it, ok := <-w.in:
			if !ok {
				return
			}
			w.dest.Enqueue(it)
			if w.dest.QueueLength() >= w.cfg.MaxChanges {
				w.dest.Optimize()
				if w.dest.QueueLength() >= w.cfg.MaxChangesSync {
					if w.flush(ctx, log) {
						return
					}
					tm.Reset()
				}
			}
		case <-time.After(tm.Remaining()):
			if w.dest.QueueLength() > 0 {
				w.dest.Optimize()
				if w.flush(ctx, log) {
					return
				}
			}
			tm.Reset()
		}
	}
}

// flush synchronizes the destination; on failure it runs the back-off
// state (S3) to completion and reports whether the worker should stop
// running: the destination was dropped, or ctx was cancelled during
// back-off.
func (w *Worker) flush(ctx context.Context, log *slog.Logger) bool {
	if err := w.dest.Synchronize(ctx); err == nil {
		return false
	}
	return w.backoff(ctx, log, 1)
}

// backoff is S3: sleep failCount*TimeSleepFailure, retry, and on repeated
// failure increase failCount until MaxSyncFailures triggers a drop.
func (w *Worker) backoff(ctx context.Context, log *slog.Logger, failCount int) bool {
	w.dest.failCount = failCount
	for {
		if failCount >= w.cfg.MaxSyncFailures {
			w.drop(log)
			return true
		}
		sleep := time.Duration(failCount) * w.cfg.TimeSleepFailure
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return true
		}
		if err := w.dest.Synchronize(ctx); err == nil {
			w.dest.failCount = 0
			return false
		}
		failCount++
		w.dest.failCount = failCount
	}
}

func (w *Worker) drop(log *slog.Logger) {
	log.Error("destination dropped after exceeding failure budget", "dest", w.dest.Shortname)
	w.dest.markDropped()
}
