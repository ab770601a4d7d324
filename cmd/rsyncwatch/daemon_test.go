package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseLevel(input), "input %q", input)
	}
}

func TestLogLevelFlagRejectsUnknownValue(t *testing.T) {
	var f logLevelFlag
	assert.NoError(t, f.Set("warn"))
	assert.Equal(t, "warn", f.String())
	assert.Error(t, f.Set("trace"))
}
