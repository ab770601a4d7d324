// Package status defines the point-in-time snapshot published by each
// destination worker and consumed by the control socket, the status TUI
// and the health check plugin.
package status

import "time"

// Report is a point-in-time summary of one destination worker's queue and
// health. It never carries ItemQueue contents — only summary counts — so
// publishing it never crosses the single-owner-per-worker boundary.
type Report struct {
	Shortname     string    `json:"shortname"`
	Remote        bool      `json:"remote"`
	Path          string    `json:"path"`
	QueuedDirs    int       `json:"queued_dirs"`
	QueuedTrees   int       `json:"queued_trees"`
	FailCount     int       `json:"fail_count"`
	Dropped       bool      `json:"dropped"`
	LastOutcome   string    `json:"last_outcome"` // "success", "failure", or "" if never synced
	LastSyncAt    time.Time `json:"last_sync_at"`
	LastSyncTaken float64   `json:"last_sync_seconds"`
}
