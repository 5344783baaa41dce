//go:build !tinygo && (!cgo || nowindow)

package cli

import (
	"errors"
	"testing"

	"coop/hal/window"
)

func TestRunWindowUnavailable(t *testing.T) {
	path := writeManifest(t, "apps: [{name: hi, program: hello}]\n")
	stdout, _, err := execute(t, "run", "--window", "--manifest", path)
	if !errors.Is(err, window.ErrUnavailable) {
		t.Fatalf("run --window err = %v, want %v", err, window.ErrUnavailable)
	}
	if stdout != "" {
		t.Fatalf("kernel ran without a window: %q", stdout)
	}
}
