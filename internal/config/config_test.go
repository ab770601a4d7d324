package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidConfig(t *testing.T, input string) *Config {
	t.Helper()
	cfg, err := Parse([]byte(input))
	require.NoError(t, err)
	require.NotNil(t, cfg)
	return cfg
}

func TestEmptyConfigIsRejected(t *testing.T) {
	cases := []string{"", "\n", "---", "---\n"}
	for _, input := range cases {
		_, err := Parse([]byte(input))
		require.Error(t, err)
	}
}

func TestMinimalConfigFillsDefaults(t *testing.T) {
	cfg := testValidConfig(t, `
source: /srv/data
destinations:
  - target: /srv/mirror
`)
	assert.Equal(t, "rsync", cfg.Global.RsyncBinary)
	assert.Equal(t, 60*time.Second, cfg.Global.TimerLimit)
	assert.Equal(t, 1000, cfg.Global.MaxChanges)
	assert.Equal(t, 100, cfg.Global.MaxChangesSync)
	assert.Equal(t, 100000, cfg.Global.MaxQueueLen)
	assert.Equal(t, 60*time.Second, cfg.Global.TimeSleepFailure)
	assert.Equal(t, 5, cfg.Global.MaxSyncFailures)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "@every 5m", cfg.Monitoring.Report)
}

func TestDestinationsRequireAtLeastOne(t *testing.T) {
	_, err := Parse([]byte(`
source: /srv/data
destinations: []
`))
	require.Error(t, err)
}

func TestDestinationTargetRequired(t *testing.T) {
	_, err := Parse([]byte(`
source: /srv/data
destinations:
  - initial_sync: true
`))
	require.Error(t, err)
}

func TestGlobalTunablesOverrideDefaults(t *testing.T) {
	cfg := testValidConfig(t, `
source: /srv/data
destinations:
  - target: /srv/mirror
global:
  timer_limit: 5s
  max_changes: 10
  max_sync_failures: 2
`)
	assert.Equal(t, 5*time.Second, cfg.Global.TimerLimit)
	assert.Equal(t, 10, cfg.Global.MaxChanges)
	assert.Equal(t, 2, cfg.Global.MaxSyncFailures)
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	t.Setenv("RSYNCWATCH_MAX_SYNC_FAILURES", "9")
	cfg := testValidConfig(t, `
source: /srv/data
destinations:
  - target: /srv/mirror
global:
  max_sync_failures: 2
`)
	assert.Equal(t, 9, cfg.Global.MaxSyncFailures)
}

func TestInvalidLoggingLevelRejected(t *testing.T) {
	_, err := Parse([]byte(`
source: /srv/data
destinations:
  - target: /srv/mirror
logging:
  level: verbose
`))
	require.Error(t, err)
}
