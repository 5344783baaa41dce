//go:build !tinygo && (!cgo || nowindow)

package window

import (
	"context"

	"coop/hal"
)

// Run reports ErrUnavailable without calling run.
func Run(_ context.Context, _ hal.Framebuffer, _ string, _ func(context.Context) error) error {
	return ErrUnavailable
}
