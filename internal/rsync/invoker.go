// Package rsync wraps the external rsync binary: the one opaque subprocess
// the aggregation engine treats as a black box returning success/failure.
// Modeled on the grsync-style options-struct-to-flag-slice wrapper, but
// paths travel on stdin, NUL-delimited, rather than as CLI arguments.
package rsync

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Invoker runs one rsync process per call, writing the relative path list
// to its stdin.
type Invoker struct {
	// BinaryPath is the rsync executable; checked for executability at
	// config-load time (error kind 1: configuration fatal).
	BinaryPath string
	// DryRun, when true, skips spawning the subprocess and reports success
	// immediately, per the transfer tool contract's dry-run clause.
	DryRun bool
}

// Options describes one invocation: which flag set to use and the
// source/destination pair to pass as positional arguments.
type Options struct {
	Recursive   bool
	Source      string
	Destination string
	Paths       []string
}

// nonRecursiveFlags and recursiveFlags implement the two fixed option sets
// from the transfer tool contract: relative paths from stdin (-R),
// NUL-terminated (--from0, --files-from=-), hard-links/perms/times/owner/
// group/devices preserved (-HpltogD), extraneous-file deletion (--delete),
// and either depth-limited (-d) or fully recursive (-r) traversal.
var (
	nonRecursiveFlags = []string{"-R", "-d", "-HpltogD", "--delete", "--files-from=-", "--from0"}
	recursiveFlags    = []string{"-R", "-r", "-HpltogD", "--delete", "--files-from=-", "--from0"}
)

// Run invokes rsync for one half of a synchronize call (recursive or
// non-recursive). Success is defined solely by exit code 0; output is never
// parsed, and only stderr is captured, for the error message.
func (inv *Invoker) Run(ctx context.Context, opts Options) error {
	if len(opts.Paths) == 0 {
		return nil
	}
	if inv.DryRun {
		return nil
	}

	flags := nonRecursiveFlags
	if opts.Recursive {
		flags = recursiveFlags
	}
	args := append(append([]string{}, flags...), opts.Source, opts.Destination)

	cmd := exec.CommandContext(ctx, inv.BinaryPath, args...)
	cmd.Stdin = bytes.NewReader(stdinPayload(opts.Paths))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("rsync: %w: %s", err, stderr.String())
	}
	return nil
}

// stdinPayload appends a trailing '/' to each path before NUL-terminating
// it, per the transfer tool contract.
func stdinPayload(paths []string) []byte {
	var buf bytes.Buffer
	for _, p := range paths {
		buf.WriteString(p)
		buf.WriteByte('/')
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

// CheckExecutable verifies the configured binary can be found, surfacing a
// configuration-fatal error at init rather than at the first synchronize.
func CheckExecutable(path string) error {
	_, err := exec.LookPath(path)
	if err != nil {
		return fmt.Errorf("rsync: binary %q not executable: %w", path, err)
	}
	return nil
}
