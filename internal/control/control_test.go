package control

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

func TestServerAnswersStatusRequest(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "control.sock")
	want := []status.Report{{Shortname: "mirror", QueuedDirs: 2}}

	srv, err := NewServer(sock, func() []status.Report { return want })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	client := NewClient(sock)
	got, err := client.Status()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientErrorsWhenNoServer(t *testing.T) {
	client := NewClient(filepath.Join(t.TempDir(), "nonexistent.sock"))
	_, err := client.Status()
	require.Error(t, err)
}
