// Package window shows a HAL framebuffer in a desktop window.
//
// Windows need cgo. Builds without cgo, or with the nowindow tag, get a Run
// that reports ErrUnavailable.
package window

import "errors"

// ErrUnavailable is returned by Run when the binary has no window support.
var ErrUnavailable = errors.New("window mode requires cgo (build with CGO_ENABLED=1 and without -tags nowindow)")
