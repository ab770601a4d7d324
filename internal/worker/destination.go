package worker

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lsyncd-go/rsyncwatch/internal/chainlock"
	"github.com/lsyncd-go/rsyncwatch/internal/destination"
	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/rsync"
	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// Recorder receives one observation per synchronize attempt. Satisfied by
// *metrics.Metrics; nil-safe so tests and the dry-run CLI paths can skip
// wiring a Prometheus registry entirely.
type Recorder interface {
	Observe(dest string, dirs, trees, failCount int, success bool, seconds float64)
	Drop()
}

// Destination is the mutable aggregation context owned by exactly one
// worker after startup: its Queue is never touched by any other goroutine.
// The status snapshot is the sole exception, published under lock so the
// control socket can read it without touching the queue.
type Destination struct {
	Remote         bool
	Shortname      string
	NormalizedPath string
	InitialSync    bool

	source   *Source
	queue    *item.Queue
	invoker  *rsync.Invoker
	recorder Recorder

	failCount int

	statusMu chainlock.L
	status   status.Report
}

// NewDestination builds a Destination from a parsed target string.
func NewDestination(target string, initialSync bool, source *Source, invoker *rsync.Invoker) *Destination {
	p := destination.Parse(target)
	d := &Destination{
		Remote:         p.Remote,
		Shortname:      p.Shortname,
		NormalizedPath: p.Normalized,
		InitialSync:    initialSync,
		source:         source,
		queue:          item.NewQueue(),
		invoker:        invoker,
	}
	d.publishStatus("", 0)
	return d
}

// SetRecorder attaches a metrics recorder; safe to call once before the
// worker goroutine starts.
func (d *Destination) SetRecorder(r Recorder) { d.recorder = r }

// Enqueue adds it to the destination's queue. Called only from the owning
// worker goroutine.
func (d *Destination) Enqueue(it item.Item) { d.queue.Add(it) }

// QueueLength returns the combined queue size.
func (d *Destination) QueueLength() int { return d.queue.Length() }

// Optimize runs the queue's collapse/existence-filter pass.
func (d *Destination) Optimize() { d.queue.Optimize() }

// Status returns a copy of the most recently published status report.
func (d *Destination) Status() status.Report {
	var r status.Report
	d.statusMu.Lock()
	r = d.status
	d.statusMu.Unlock()
	return r
}

func (d *Destination) publishStatus(outcome string, took time.Duration) {
	d.statusMu.Lock()
	defer d.statusMu.Unlock()
	d.status = status.Report{
		Shortname:   d.Shortname,
		Remote:      d.Remote,
		Path:        d.NormalizedPath,
		QueuedDirs:  len(d.queue.Dirs()),
		QueuedTrees: len(d.queue.Trees()),
		FailCount:   d.failCount,
	}
	if outcome != "" {
		d.status.LastOutcome = outcome
		d.status.LastSyncAt = time.Now()
		d.status.LastSyncTaken = took.Seconds()
		if d.recorder != nil {
			d.recorder.Observe(d.Shortname, d.status.QueuedDirs, d.status.QueuedTrees,
				d.failCount, outcome == "success", took.Seconds())
		}
	}
}

func (d *Destination) markDropped() {
	d.statusMu.Lock()
	d.status.Dropped = true
	d.statusMu.Unlock()
	if d.recorder != nil {
		d.recorder.Drop()
	}
}

// Synchronize implements the per-destination synchronize protocol: an
// empty queue is trivially successful; otherwise the recursive and
// non-recursive halves are each transferred once, independently, via
// errgroup, and each clears its half of the queue only on success.
func (d *Destination) Synchronize(ctx context.Context) error {
	start := time.Now()
	err := d.synchronize(ctx)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	d.publishStatus(outcome, time.Since(start))
	return err
}

func (d *Destination) synchronize(ctx context.Context) error {
	if d.queue.Length() == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.syncTrees(ctx) })
	g.Go(func() error { return d.syncDirs(ctx) })
	if err := g.Wait(); err != nil {
		return err
	}
	if d.queue.Length() != 0 {
		return errIncompleteFlush
	}
	return nil
}

func (d *Destination) syncTrees(ctx context.Context) error {
	trees := d.queue.Trees()
	if len(trees) == 0 {
		return nil
	}
	paths := make([]string, len(trees))
	for i, t := range trees {
		paths[i] = d.source.Relative(t)
	}
	if err := d.invoker.Run(ctx, rsync.Options{
		Recursive:   true,
		Source:      d.source.Base(),
		Destination: d.NormalizedPath,
		Paths:       paths,
	}); err != nil {
		return err
	}
	d.queue.EmptyTrees()
	return nil
}

func (d *Destination) syncDirs(ctx context.Context) error {
	dirs := d.queue.Dirs()
	if len(dirs) == 0 {
		return nil
	}
	paths := make([]string, len(dirs))
	for i, p := range dirs {
		paths[i] = d.source.Relative(p)
	}
	if err := d.invoker.Run(ctx, rsync.Options{
		Recursive:   false,
		Source:      d.source.Base(),
		Destination: d.NormalizedPath,
		Paths:       paths,
	}); err != nil {
		return err
	}
	d.queue.EmptyDirs()
	return nil
}
