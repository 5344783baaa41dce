//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostHAL struct {
	logger  *hostLogger
	console *hostConsole
	fb      *hostFramebuffer
	clock   Clock
}

// HostConfig selects the host devices.
type HostConfig struct {
	// Out receives console output and log lines. Defaults to os.Stdout.
	Out io.Writer
	// Clock defaults to a wall clock started at New.
	Clock  Clock
	Width  int
	Height int
}

// NewHost returns a host HAL built from cfg.
func NewHost(cfg HostConfig) HAL {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Clock == nil {
		cfg.Clock = newHostClock()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 320, 320
	}
	var mu sync.Mutex
	return &hostHAL{
		logger:  &hostLogger{mu: &mu, w: cfg.Out},
		console: &hostConsole{mu: &mu, w: cfg.Out},
		fb:      newHostFramebuffer(cfg.Width, cfg.Height),
		clock:   cfg.Clock,
	}
}

func (h *hostHAL) Logger() Logger     { return h.logger }
func (h *hostHAL) Console() io.Writer { return h.console }
func (h *hostHAL) Display() Display   { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Clock() Clock       { return h.clock }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

// hostLogger and hostConsole share one lock so log lines never split
// console output.
type hostLogger struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostConsole struct {
	mu *sync.Mutex
	w  io.Writer
}

func (c *hostConsole) Write(p []byte) (int, error) {
	if c.w == nil {
		return 0, ErrNotImplemented
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}
