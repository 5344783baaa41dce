package kernel

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestHaltRunsHandlerOnce(t *testing.T) {
	h := NewHalter()
	calls := make(chan HaltInfo, 4)
	h.SetHandler(func(info HaltInfo) { calls <- info })

	go h.Halt(HaltInfo{TaskID: 2, Err: errBoom})

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for halt")
	}
	go h.Halt(HaltInfo{TaskID: 3, Err: errors.New("second")})
	time.Sleep(10 * time.Millisecond)

	if got := len(calls); got != 1 {
		t.Fatalf("handler calls = %d, want 1", got)
	}
	info := <-calls
	if info.TaskID != 2 || !errors.Is(info.Err, errBoom) {
		t.Fatalf("handler info = %v, want task=2: boom", info)
	}
	if len(info.Stack) == 0 {
		t.Fatalf("handler info has no stack")
	}
	if !h.Halted() {
		t.Fatalf("Halted() = false after Halt")
	}
	if got := h.Info(); got.TaskID != 2 {
		t.Fatalf("Info().TaskID = %d, want 2", got.TaskID)
	}
}

func TestHaltWithoutHandler(t *testing.T) {
	h := NewHalter()
	if h.Halted() {
		t.Fatalf("Halted() = true before Halt")
	}
	go h.Halt(HaltInfo{TaskID: -1, Err: errBoom})

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for halt")
	}
	if got := h.Info().String(); got != "task=-1: boom" {
		t.Fatalf("Info().String() = %q, want %q", got, "task=-1: boom")
	}
}
