// Package kernel implements the halt path taken when the kernel can no
// longer make progress.
package kernel

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// HaltInfo describes why the kernel stopped.
type HaltInfo struct {
	// TaskID is the task that was current when the kernel halted, or -1.
	TaskID int
	Err    error
	Stack  []byte
}

func (i HaltInfo) String() string {
	return fmt.Sprintf("task=%d: %v", i.TaskID, i.Err)
}

// Halter stops the kernel. Only the first Halt is reported.
type Halter struct {
	active atomic.Bool
	once   sync.Once

	handler atomic.Value // func(HaltInfo)

	info HaltInfo
	done chan struct{}
}

// NewHalter returns a halter with no handler installed.
func NewHalter() *Halter {
	return &Halter{done: make(chan struct{})}
}

// SetHandler installs the function that reports the halt.
//
// The handler is invoked at most once (on the first halt). It must not panic.
func (h *Halter) SetHandler(fn func(HaltInfo)) {
	h.handler.Store(fn)
}

// Halted reports whether the kernel has halted.
func (h *Halter) Halted() bool {
	return h.active.Load()
}

// Done is closed once the handler of the first halt has returned.
func (h *Halter) Done() <-chan struct{} {
	return h.done
}

// Info returns the first halt. It is only meaningful after Done is closed.
func (h *Halter) Info() HaltInfo {
	<-h.done
	return h.info
}

// Halt records info, runs the handler and parks the caller forever.
func (h *Halter) Halt(info HaltInfo) {
	h.once.Do(func() {
		h.active.Store(true)
		info.Stack = captureStack()
		h.info = info
		if v := h.handler.Load(); v != nil {
			if fn, ok := v.(func(HaltInfo)); ok && fn != nil {
				fn(info)
			}
		}
		close(h.done)
	})
	select {}
}
