// Package upcell provides interior mutability for uniprocessor kernel state.
//
// A Cell hands out at most one borrow at a time. Borrowing an already
// borrowed cell panics instead of waiting: with a single core nothing else
// could ever release it. Cells are not a general mutex and must not be used
// for state shared between cores.
package upcell

import "sync/atomic"

// Cell wraps a value that may only be accessed through an exclusive borrow.
type Cell[T any] struct {
	_        [0]func() // prevent accidental comparison.
	borrowed atomic.Bool
	v        T
}

// New returns a cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Guard is an outstanding exclusive borrow of a Cell.
type Guard[T any] struct {
	c *Cell[T]
}

// Borrow takes exclusive access to the value. It panics if the cell is
// already borrowed.
func (c *Cell[T]) Borrow() *Guard[T] {
	if !c.borrowed.CompareAndSwap(false, true) {
		panic("upcell: already borrowed")
	}
	return &Guard[T]{c: c}
}

// TryBorrow is Borrow for observers outside the kernel: it reports false
// instead of panicking when the cell is already borrowed.
func (c *Cell[T]) TryBorrow() (*Guard[T], bool) {
	if !c.borrowed.CompareAndSwap(false, true) {
		return nil, false
	}
	return &Guard[T]{c: c}, true
}

// Borrowed reports whether a borrow is outstanding.
func (c *Cell[T]) Borrowed() bool {
	return c.borrowed.Load()
}

// With runs fn with exclusive access and releases it when fn returns.
func (c *Cell[T]) With(fn func(v *T)) {
	g := c.Borrow()
	defer g.Release()
	fn(g.Get())
}

// Get returns the borrowed value. The pointer must not be used after Release.
func (g *Guard[T]) Get() *T {
	if g.c == nil {
		panic("upcell: use of released guard")
	}
	return &g.c.v
}

// Release ends the borrow. Releasing twice panics.
func (g *Guard[T]) Release() {
	if g.c == nil {
		panic("upcell: guard released twice")
	}
	g.c.borrowed.Store(false)
	g.c = nil
}
