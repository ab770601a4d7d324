// Package daemon implements the Supervisor (spec component I): it builds
// the Source, the Destinations, their channels and workers, the event
// translator and dispatcher, and coordinates the startup barrier that
// gates workers until the initial recursive watch is registered.
package daemon

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lsyncd-go/rsyncwatch/internal/config"
	"github.com/lsyncd-go/rsyncwatch/internal/control"
	"github.com/lsyncd-go/rsyncwatch/internal/dispatch"
	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/logging"
	"github.com/lsyncd-go/rsyncwatch/internal/metrics"
	"github.com/lsyncd-go/rsyncwatch/internal/reporter"
	"github.com/lsyncd-go/rsyncwatch/internal/rsync"
	"github.com/lsyncd-go/rsyncwatch/internal/status"
	"github.com/lsyncd-go/rsyncwatch/internal/watch"
	"github.com/lsyncd-go/rsyncwatch/internal/worker"
)

// fanoutRecorder feeds one synchronize observation to every underlying
// worker.Recorder, so a Destination can report to Prometheus and the
// periodic reporter without either depending on the other.
type fanoutRecorder []worker.Recorder

func (f fanoutRecorder) Observe(dest string, dirs, trees, failCount int, success bool, seconds float64) {
	for _, r := range f {
		r.Observe(dest, dirs, trees, failCount, success, seconds)
	}
}

func (f fanoutRecorder) Drop() {
	for _, r := range f {
		r.Drop()
	}
}

// Supervisor owns every long-lived component for one daemon process.
type Supervisor struct {
	source      *worker.Source
	destination []*worker.Destination
	workers     []*worker.Worker
	channels    []chan item.Item

	translator *watch.Translator
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics
	control    *control.Server
	reporter   *reporter.Reporter
}

// New builds every component but does not start any goroutines or
// register any watch; call Run for that.
func New(cfg *config.Config, reg prometheus.Registerer) (*Supervisor, error) {
	s := &Supervisor{source: worker.NewSource(cfg.Source)}

	var err error
	s.translator, err = watch.New(s.source.Path)
	if err != nil {
		return nil, fmt.Errorf("supervisor: build event translator: %w", err)
	}

	if reg != nil {
		s.metrics = metrics.New(reg)
	}
	if cfg.Monitoring.Report != "" {
		s.reporter = reporter.New(cfg.Monitoring.Report, s.Statuses)
	}
	var recorders fanoutRecorder
	if s.metrics != nil {
		recorders = append(recorders, s.metrics)
	}
	if s.reporter != nil {
		recorders = append(recorders, s.reporter)
	}

	workerCfg := worker.Config{
		TimerLimit:       cfg.Global.TimerLimit,
		MaxChanges:       cfg.Global.MaxChanges,
		MaxChangesSync:   cfg.Global.MaxChangesSync,
		TimeSleepFailure: cfg.Global.TimeSleepFailure,
		MaxSyncFailures:  cfg.Global.MaxSyncFailures,
	}
	invoker := &rsync.Invoker{BinaryPath: cfg.Global.RsyncBinary, DryRun: cfg.Global.DryRun}

	writeChans := make([]chan<- item.Item, 0, len(cfg.Destinations))
	for _, de := range cfg.Destinations {
		dest := worker.NewDestination(de.Target, de.InitialSync, s.source, invoker)
		if len(recorders) > 0 {
			dest.SetRecorder(recorders)
		}

		ch := make(chan item.Item, cfg.Global.MaxQueueLen)
		s.destination = append(s.destination, dest)
		s.channels = append(s.channels, ch)
		writeChans = append(writeChans, ch)
		s.workers = append(s.workers, worker.New(dest, ch, workerCfg, s.source))
	}
	s.dispatcher = dispatch.New(writeChans)

	if cfg.Control.SockPath != "" {
		srv, err := control.NewServer(cfg.Control.SockPath, s.Statuses)
		if err != nil {
			return nil, fmt.Errorf("supervisor: build control socket: %w", err)
		}
		s.control = srv
	}

	return s, nil
}

// Statuses returns every destination's current status.Report, in
// construction order.
func (s *Supervisor) Statuses() []status.Report {
	reports := make([]status.Report, len(s.destination))
	for i, d := range s.destination {
		reports[i] = d.Status()
	}
	return reports
}

// Run starts the translator, the dispatcher, every worker and the
// optional control socket / reporter, registers the initial recursive
// watch, then releases the startup barrier (MonitoringReady). It blocks
// until ctx is cancelled or the translator stops unexpectedly.
func (s *Supervisor) Run(ctx context.Context) error {
	log := logging.GetLogger(ctx)
	ready := make(chan struct{})

	for _, w := range s.workers {
		go w.Run(ctx, ready)
	}
	if s.control != nil {
		go func() {
			if err := s.control.Run(ctx); err != nil {
				logging.WithError(log, err, "control socket stopped")
			}
		}()
	}
	if s.reporter != nil {
		if err := s.reporter.Start(ctx); err != nil {
			logging.WithError(log, err, "periodic reporter failed to start")
		}
	}

	if err := s.translator.Start(); err != nil {
		return fmt.Errorf("supervisor: register initial watch: %w", err)
	}
	close(ready)
	log.Info("monitoring ready", "source", s.source.Path, "destinations", len(s.destination))

	go s.dispatcher.Run(ctx, s.translator.Items())

	translatorDone := make(chan error, 1)
	go func() { translatorDone <- s.translator.Run(ctx) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-translatorDone:
		return err
	}
}
