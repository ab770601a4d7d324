package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lsyncd-go/rsyncwatch/internal/status"
)

func TestApplyFilterSortsByShortname(t *testing.T) {
	m := NewModel(func() ([]status.Report, error) { return nil, nil }, false)
	m.reports = []status.Report{{Shortname: "zeta"}, {Shortname: "alpha"}}
	m.applyFilter()
	assert.Equal(t, []string{"alpha", "zeta"}, shortnames(m.visible))
}

func TestApplyFilterFuzzyMatchesShortname(t *testing.T) {
	m := NewModel(func() ([]status.Report, error) { return nil, nil }, false)
	m.reports = []status.Report{{Shortname: "backup-east"}, {Shortname: "backup-west"}, {Shortname: "staging"}}
	m.filterInput.SetValue("east")
	m.applyFilter()
	assert.Equal(t, []string{"backup-east"}, shortnames(m.visible))
}

func shortnames(reports []status.Report) []string {
	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Shortname
	}
	return names
}
