package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/rsync"
)

func newTestWorker(t *testing.T, cfg Config) (*Worker, *Destination, chan item.Item) {
	t.Helper()
	src := NewSource("/")
	dest := NewDestination("/srv/mirror", false, src, &rsync.Invoker{DryRun: true})
	ch := make(chan item.Item, 10)
	w := New(dest, ch, cfg, src)
	return w, dest, ch
}

func tempFile(t *testing.T) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(f, nil, 0o644))
	return f
}

func TestWorkerFlushesOnTimerExpiry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimerLimit = 30 * time.Millisecond
	w, dest, ch := newTestWorker(t, cfg)

	ready := make(chan struct{})
	close(ready)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, ready)
		close(done)
	}()

	ch <- item.New(tempFile(t), false)

	require.Eventually(t, func() bool {
		return dest.Status().LastOutcome == "success"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, dest.QueueLength())

	cancel()
	<-done
}

func TestWorkerFlushesOnMaxChangesSync(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimerLimit = time.Hour
	cfg.MaxChanges = 2
	cfg.MaxChangesSync = 2
	w, dest, ch := newTestWorker(t, cfg)

	ready := make(chan struct{})
	close(ready)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, ready)
		close(done)
	}()

	ch <- item.New(tempFile(t), false)
	ch <- item.New(tempFile(t), false)

	require.Eventually(t, func() bool {
		return dest.Status().LastOutcome == "success"
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestWorkerBacksOffAndDropsAfterBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimerLimit = 10 * time.Millisecond
	cfg.TimeSleepFailure = 10 * time.Millisecond
	cfg.MaxSyncFailures = 2

	src := NewSource("/")
	dest := NewDestination("/srv/mirror", false, src, &rsync.Invoker{BinaryPath: "false"})
	ch := make(chan item.Item, 10)
	w := New(dest, ch, cfg, src)

	ready := make(chan struct{})
	close(ready)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, ready)
		close(done)
	}()

	ch <- item.New(tempFile(t), false)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		require.Fail(t, "worker did not drop destination in time")
	}
	assert.True(t, dest.Status().Dropped)
}

func TestWorkerWaitsForReadyBeforeProcessing(t *testing.T) {
	cfg := DefaultConfig()
	w, dest, ch := newTestWorker(t, cfg)

	ready := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx, ready)
		close(done)
	}()

	ch <- item.New(tempFile(t), false)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, dest.QueueLength(), "worker must not process before ready fires")

	close(ready)
	cancel()
	<-done
}
