// Package chainlock provides a mutex whose methods return the lock itself,
// allowing lock/defer-unlock to be written as a single expression.
package chainlock

import "sync"

// L is a sync.Mutex with chainable Lock/Unlock.
type L struct {
	mtx sync.Mutex
}

func New() *L { return &L{} }

func (l *L) Lock() *L {
	l.mtx.Lock()
	return l
}

func (l *L) Unlock() *L {
	l.mtx.Unlock()
	return l
}

// HoldWhile runs f with the lock held.
func (l *L) HoldWhile(f func()) {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	f()
}
