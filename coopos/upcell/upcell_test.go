package upcell

import "testing"

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s did not panic", name)
		}
	}()
	fn()
}

func TestBorrowRelease(t *testing.T) {
	c := New(41)

	g := c.Borrow()
	if !c.Borrowed() {
		t.Fatalf("Borrowed() = false while guard outstanding")
	}
	*g.Get()++
	g.Release()

	if c.Borrowed() {
		t.Fatalf("Borrowed() = true after Release")
	}

	c.With(func(v *int) {
		if *v != 42 {
			t.Fatalf("value = %d, want 42", *v)
		}
	})
}

func TestReentrantBorrowPanics(t *testing.T) {
	c := New(struct{}{})
	g := c.Borrow()
	defer g.Release()

	mustPanic(t, "second Borrow", func() { c.Borrow() })
	if !c.Borrowed() {
		t.Fatalf("failed second Borrow released the first borrow")
	}
}

func TestWithNestedPanics(t *testing.T) {
	c := New(0)
	mustPanic(t, "nested With", func() {
		c.With(func(*int) {
			c.With(func(*int) {})
		})
	})
	if c.Borrowed() {
		t.Fatalf("outer With left the cell borrowed after panic")
	}
}

func TestGuardMisuse(t *testing.T) {
	c := New(0)
	g := c.Borrow()
	g.Release()

	mustPanic(t, "double Release", g.Release)
	mustPanic(t, "Get after Release", func() { g.Get() })
}

func TestTryBorrow(t *testing.T) {
	c := New(1)
	g, ok := c.TryBorrow()
	if !ok {
		t.Fatalf("TryBorrow() on free cell = false")
	}
	if _, ok := c.TryBorrow(); ok {
		t.Fatalf("TryBorrow() on borrowed cell = true")
	}
	g.Release()
	if c.Borrowed() {
		t.Fatalf("Borrowed() after Release = true")
	}
}
