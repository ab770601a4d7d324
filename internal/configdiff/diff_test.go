package configdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffIdenticalDocumentsIsEmpty(t *testing.T) {
	doc := []byte("source: /data\nglobal:\n  timer_limit: 60s\n")
	out, err := Diff(doc, doc)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiffReportsChangedField(t *testing.T) {
	a := []byte("source: /data\nglobal:\n  timer_limit: 60s\n")
	b := []byte("source: /data\nglobal:\n  timer_limit: 30s\n")
	out, err := Diff(a, b)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestDiffInvalidYAMLReturnsError(t *testing.T) {
	_, err := Diff([]byte("source: [unclosed\n"), []byte("source: /data\n"))
	assert.Error(t, err)
}
