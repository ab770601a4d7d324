package rsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdinPayloadNulTerminates(t *testing.T) {
	got := stdinPayload([]string{"a/b", "c"})
	assert.Equal(t, "a/b/\x00c/\x00", string(got))
}

func TestRunNoPathsIsNoop(t *testing.T) {
	inv := &Invoker{BinaryPath: "/nonexistent/binary"}
	err := inv.Run(context.Background(), Options{Paths: nil})
	require.NoError(t, err)
}

func TestRunDryRunSkipsSubprocess(t *testing.T) {
	inv := &Invoker{BinaryPath: "/nonexistent/binary", DryRun: true}
	err := inv.Run(context.Background(), Options{Paths: []string{"a"}})
	require.NoError(t, err)
}

func TestRunSurfacesSubprocessFailure(t *testing.T) {
	inv := &Invoker{BinaryPath: "false"}
	err := inv.Run(context.Background(), Options{Paths: []string{"a"}, Source: "/tmp", Destination: "/tmp"})
	require.Error(t, err)
}

func TestCheckExecutable(t *testing.T) {
	assert.NoError(t, CheckExecutable("sh"))
	assert.Error(t, CheckExecutable("definitely-not-a-real-binary"))
}
