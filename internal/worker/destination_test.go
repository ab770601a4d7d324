package worker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsyncd-go/rsyncwatch/internal/item"
	"github.com/lsyncd-go/rsyncwatch/internal/rsync"
)

func TestSynchronizeEmptyQueueSucceeds(t *testing.T) {
	src := NewSource("/")
	d := NewDestination("/srv/mirror", false, src, &rsync.Invoker{DryRun: true})
	require.NoError(t, d.Synchronize(context.Background()))
}

func TestSynchronizeDryRunEmptiesQueue(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(f, nil, 0o644))

	src := NewSource("/")
	d := NewDestination("/srv/mirror", false, src, &rsync.Invoker{DryRun: true})
	d.Enqueue(item.New(f, false))
	d.Enqueue(item.New(dir, true))

	require.NoError(t, d.Synchronize(context.Background()))
	assert.Equal(t, 0, d.QueueLength())
}

func TestSynchronizeFailurePreservesQueue(t *testing.T) {
	dir := t.TempDir()
	src := NewSource("/")
	d := NewDestination("/srv/mirror", false, src, &rsync.Invoker{BinaryPath: "false"})
	d.Enqueue(item.New(dir, false))

	require.Error(t, d.Synchronize(context.Background()))
	assert.Equal(t, 1, d.QueueLength())
}

func TestSourceRelativeWithVirtualRoot(t *testing.T) {
	src := NewSource("/data/./www")
	assert.Equal(t, "/data", src.Base())
	assert.Equal(t, "/data/www", src.Path, "Path must not retain the literal vroot marker")
	assert.Equal(t, "www/site", src.Relative("/data/www/site"))
}

func TestSourceRelativeWithoutVirtualRoot(t *testing.T) {
	src := NewSource("/data/www")
	assert.Equal(t, "/", src.Base())
	assert.Equal(t, "/data/www", src.Path)
	assert.Equal(t, "data/www/site", src.Relative("/data/www/site"))
}

func TestSourceDotIsResolvedToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	src := NewSource(".")
	assert.Equal(t, wd, src.Path)
	assert.Equal(t, "/", src.Base())
}
