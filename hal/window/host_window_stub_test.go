//go:build !tinygo && (!cgo || nowindow)

package window

import (
	"context"
	"errors"
	"testing"
)

func TestRunUnavailable(t *testing.T) {
	called := false
	err := Run(context.Background(), nil, "x", func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrUnavailable) || called {
		t.Fatalf("Run() = %v, called=%v, want %v without running", err, called, ErrUnavailable)
	}
}
