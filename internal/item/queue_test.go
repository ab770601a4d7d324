package item

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueAddDedup(t *testing.T) {
	q := NewQueue()
	q.Add(New("/a/b", false))
	q.Add(New("/a/b", false))
	assert.Equal(t, 1, q.Length())
}

func TestQueueAddRecursiveWins(t *testing.T) {
	cases := []struct {
		name  string
		items []Item
	}{
		{"dir then tree", []Item{New("/a/b", false), New("/a/b", true)}},
		{"tree then dir", []Item{New("/a/b", true), New("/a/b", false)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQueue()
			for _, it := range tc.items {
				q.Add(it)
			}
			assert.Equal(t, 1, q.Length())
			assert.Equal(t, []string{"/a/b"}, q.Trees())
			assert.Empty(t, q.Dirs())
		})
	}
}

func TestQueueOptimizeCollapsesSubtrees(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	ab := filepath.Join(a, "b")
	abc := filepath.Join(ab, "c")
	require.NoError(t, os.MkdirAll(abc, 0o755))

	q := NewQueue()
	q.Add(New(abc, false))
	q.Add(New(a, true))
	q.Add(New(ab, true))
	q.Optimize()

	assert.Equal(t, []string{a}, q.Trees())
	assert.Empty(t, q.Dirs())
}

func TestQueueOptimizeDropsNonexistentPaths(t *testing.T) {
	dir := t.TempDir()
	gone := filepath.Join(dir, "gone")

	q := NewQueue()
	q.Add(New(gone, false))
	q.Add(New(dir, false))
	q.Optimize()

	assert.Equal(t, []string{dir}, q.Dirs())
}

func TestIsDescendantOf(t *testing.T) {
	cases := []struct {
		p, base string
		want    bool
	}{
		{"/a/b/c", "/a", true},
		{"/a/b", "/a/b", false},
		{"/ab", "/a", false},
		{"/a/bc", "/a/b", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsDescendantOf(tc.p, tc.base), "%s vs %s", tc.p, tc.base)
	}
}
