// Package reporter implements the periodic aggregate-stats log line
// (SPEC_FULL.md §4.Q): a cron-scheduled tick that summarizes queue depth,
// back-off and drop counts across all destinations, adding per-destination
// sync-duration percentiles once enough history has accumulated.
package reporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dsh2dsh/cron/v3"
	"github.com/montanaflynn/stats"

	"github.com/lsyncd-go/rsyncwatch/internal/chainlock"
	"github.com/lsyncd-go/rsyncwatch/internal/logging"
	statuspkg "github.com/lsyncd-go/rsyncwatch/internal/status"
)

// minSamples is the smallest history montanaflynn/stats gets before a
// percentile is reported; below it a handful of samples skews wildly.
const minSamples = 5

// StatusFunc returns every destination's current status.Report.
type StatusFunc func() []statuspkg.Report

// Reporter owns the per-destination duration history and the cron
// schedule driving one log line per tick.
type Reporter struct {
	mtx       chainlock.L
	durations map[string][]float64

	statusFn StatusFunc
	cronSpec string
	cron     *cron.Cron
}

// New builds a Reporter that will call statusFn once per cronSpec tick
// (e.g. "@every 5m").
func New(cronSpec string, statusFn StatusFunc) *Reporter {
	return &Reporter{
		durations: make(map[string][]float64),
		statusFn:  statusFn,
		cronSpec:  cronSpec,
	}
}

// Record appends one synchronize duration sample for dest, keeping
// reporting history independent of the control socket's point-in-time
// status.
func (r *Reporter) Record(dest string, seconds float64) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.durations[dest] = append(r.durations[dest], seconds)
}

// Observe implements worker.Recorder, feeding each synchronize attempt's
// duration into the percentile history regardless of outcome.
func (r *Reporter) Observe(dest string, _, _, _ int, _ bool, seconds float64) {
	r.Record(dest, seconds)
}

// Drop implements worker.Recorder; dropped-destination counts are carried
// in the status snapshot itself, so this is a no-op.
func (r *Reporter) Drop() {}

// Start schedules the periodic tick and begins running it; cancel ctx to
// end it.
func (r *Reporter) Start(ctx context.Context) error {
	log := logging.GetLogger(ctx)
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.cronSpec, func() { r.tick(log) })
	if err != nil {
		return fmt.Errorf("reporter: schedule %q: %w", r.cronSpec, err)
	}
	r.cron.Start()
	go func() {
		<-ctx.Done()
		r.cron.Stop()
	}()
	return nil
}

func (r *Reporter) tick(log *slog.Logger) {
	reports := r.statusFn()

	var queued, backoff, dropped int
	for _, rep := range reports {
		queued += rep.QueuedDirs + rep.QueuedTrees
		if rep.FailCount > 0 {
			backoff++
		}
		if rep.Dropped {
			dropped++
		}
	}

	log.Info("periodic status",
		slog.Int("destinations", len(reports)),
		slog.Int("queued_items", queued),
		slog.Int("backing_off", backoff),
		slog.Int("dropped", dropped))

	for _, rep := range reports {
		p50, p95, ok := r.percentiles(rep.Shortname)
		if !ok {
			continue
		}
		log.Info("sync duration percentiles",
			slog.String("dest", rep.Shortname),
			slog.Float64("p50_seconds", p50),
			slog.Float64("p95_seconds", p95))
	}
}

func (r *Reporter) percentiles(dest string) (p50, p95 float64, ok bool) {
	r.mtx.Lock()
	samples := append([]float64{}, r.durations[dest]...)
	r.mtx.Unlock()

	if len(samples) < minSamples {
		return 0, 0, false
	}
	p50, err := stats.Percentile(samples, 50)
	if err != nil {
		return 0, 0, false
	}
	p95, err = stats.Percentile(samples, 95)
	if err != nil {
		return 0, 0, false
	}
	return p50, p95, true
}
