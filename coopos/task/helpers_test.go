package task

import (
	"sync/atomic"
	"testing"
	"time"

	"coop/coopos/abi"
	"coop/coopos/config"
	"coop/coopos/kernel"
	"coop/coopos/trap"
)

type fakeClock struct {
	ms atomic.Uint64
}

func (c *fakeClock) NowMS() uint64 { return c.ms.Load() }
func (c *fakeClock) Set(ms uint64) { c.ms.Store(ms) }

type fakeLoader struct {
	frames []*trap.Frame
}

func newFakeLoader(vec *trap.Vector, progs ...trap.Program) *fakeLoader {
	l := &fakeLoader{}
	for i, p := range progs {
		l.frames = append(l.frames, &trap.Frame{
			AppID:    i,
			Name:     string(rune('A' + i)),
			Entry:    p,
			UserSP:   uintptr(0x1000 * (i + 1)),
			KernelSP: uintptr(0x8000 * (i + 1)),
			Vector:   vec,
		})
	}
	return l
}

func (l *fakeLoader) NumApp() int                 { return len(l.frames) }
func (l *fakeLoader) InitAppCx(i int) *trap.Frame { return l.frames[i] }

// testHandler is a minimal trap handler: it counts every call and implements
// yield and exit.
type testHandler struct {
	m *Manager
}

func (h testHandler) Syscall(c trap.Call) int {
	if c.ID >= 0 && c.ID < config.MaxSyscallNum {
		IncreaseSyscallCounter(h.m, c.ID)
	}
	switch c.ID {
	case abi.SysYield:
		SuspendCurrentAndRunNext(h.m)
		return 0
	case abi.SysExit:
		ExitCurrentAndRunNext(h.m)
		panic("exit returned")
	}
	return 0
}

func yield(u *trap.User) { u.Ecall(trap.Call{ID: abi.SysYield}) }

func exit(u *trap.User, code int) {
	u.Ecall(trap.Call{ID: abi.SysExit, Args: [3]uintptr{uintptr(code)}})
}

type harness struct {
	m      *Manager
	clock  *fakeClock
	halter *kernel.Halter
}

func newHarness(progs ...trap.Program) *harness {
	vec := trap.NewVector()
	h := &harness{clock: &fakeClock{}, halter: kernel.NewHalter()}
	h.m = New(newFakeLoader(vec, progs...), h.clock, h.halter, nil)
	vec.Install(testHandler{m: h.m})
	return h
}

func (h *harness) boot() {
	PostInitialization(h.m)
	go RunFirstTask(h.m)
}

func (h *harness) wait(t *testing.T) kernel.HaltInfo {
	t.Helper()
	select {
	case <-h.halter.Done():
		return h.halter.Info()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for kernel halt")
		return kernel.HaltInfo{}
	}
}

func (h *harness) snapshot(id TaskID) TaskSnapshot {
	return h.m.Snapshot()[id]
}

func idle(*trap.User) int { return 0 }
