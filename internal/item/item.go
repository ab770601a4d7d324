// Package item defines the unit of work that flows from the event
// translator through the dispatcher into a destination's queue.
package item

import "strings"

// Item is an intent to synchronize a filesystem location: either a single
// directory's immediate contents, or an entire subtree. Equality is by Path
// alone; Recursive is advisory metadata used by merge rules in Queue.
type Item struct {
	Path      string
	Recursive bool
}

// New builds an Item, panicking if path is empty — an empty path is a
// programming error in the translator, not a runtime condition to handle.
func New(path string, recursive bool) Item {
	if path == "" {
		panic("item: empty path")
	}
	return Item{Path: path, Recursive: recursive}
}

// IsDescendantOf reports whether p is a strict descendant of base: the
// absolute form of p is strictly longer than base+"/" and begins with it.
func IsDescendantOf(p, base string) bool {
	prefix := strings.TrimRight(base, "/") + "/"
	return len(p) > len(prefix) && strings.HasPrefix(p, prefix)
}
