// Package healthcheck implements the Nagios/Icinga-style plugin behind
// `rsyncwatch check`, grounded in the teacher's client/monitor SnapCheck:
// build a monitoringplugin.Response, apply threshold rules, and let the
// caller exit with the response's status code.
package healthcheck

import (
	"fmt"

	monitoringplugin "github.com/dsh2dsh/go-monitoringplugin/v2"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

// Options configures one check run.
type Options struct {
	// Dest restricts the check to a single destination shortname; empty
	// checks all of them.
	Dest string
	Warn int
	Crit int
}

// Run evaluates reports against opts and returns a populated
// monitoringplugin.Response. The caller is expected to call
// resp.OutputAndExit() (or equivalent) to terminate with the right code.
func Run(reports []status.Report, opts Options) *monitoringplugin.Response {
	resp := monitoringplugin.NewResponse("rsyncwatch")

	filtered := reports
	if opts.Dest != "" {
		filtered = filtered[:0]
		for _, r := range reports {
			if r.Shortname == opts.Dest {
				filtered = append(filtered, r)
			}
		}
		if len(filtered) == 0 {
			resp.UpdateStatus(monitoringplugin.UNKNOWN,
				fmt.Sprintf("no destination named %q", opts.Dest))
			return resp
		}
	}

	ok := 0
	for _, r := range filtered {
		if !evaluate(resp, r, opts) {
			continue
		}
		ok++
	}
	if ok == len(filtered) {
		resp.UpdateStatus(monitoringplugin.OK,
			fmt.Sprintf("%d destination(s) healthy", ok))
	}
	return resp
}

// evaluate reports this destination's status to resp and returns whether
// it's healthy (no WARNING/CRITICAL raised for it).
func evaluate(resp *monitoringplugin.Response, r status.Report, opts Options) bool {
	if r.Dropped {
		resp.UpdateStatus(monitoringplugin.CRITICAL,
			fmt.Sprintf("%s: dropped after exceeding its failure budget", r.Shortname))
		return false
	}
	switch {
	case opts.Crit > 0 && r.FailCount >= opts.Crit:
		resp.UpdateStatus(monitoringplugin.CRITICAL,
			fmt.Sprintf("%s: fail count %d >= %d", r.Shortname, r.FailCount, opts.Crit))
		return false
	case opts.Warn > 0 && r.FailCount >= opts.Warn:
		resp.UpdateStatus(monitoringplugin.WARNING,
			fmt.Sprintf("%s: fail count %d >= %d", r.Shortname, r.FailCount, opts.Warn))
		return false
	case r.LastOutcome == "failure":
		resp.UpdateStatus(monitoringplugin.WARNING,
			fmt.Sprintf("%s: last synchronize failed", r.Shortname))
		return false
	}
	return true
}
