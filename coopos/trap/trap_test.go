package trap

import (
	"runtime"
	"testing"

	"coop/coopos/abi"
)

type recordHandler struct {
	calls []Call
}

func (h *recordHandler) Syscall(c Call) int {
	h.calls = append(h.calls, c)
	if c.ID == abi.SysExit {
		runtime.Goexit()
	}
	return 7
}

func TestReturnExitsWithProgramResult(t *testing.T) {
	h := &recordHandler{}
	vec := NewVector()
	vec.Install(h)

	var got int
	f := &Frame{Name: "t", UserSP: 0x1000, Vector: vec, Entry: func(u *User) int {
		if u.SP() != 0x1000 {
			t.Errorf("SP() = %#x, want 0x1000", u.SP())
		}
		got = u.Ecall(Call{ID: abi.SysYield})
		return -2
	}}

	done := make(chan struct{})
	go func() {
		defer close(done)
		Return(f)
	}()
	<-done

	if got != 7 {
		t.Fatalf("Ecall() = %d, want 7", got)
	}
	if len(h.calls) != 2 || h.calls[0].ID != abi.SysYield || h.calls[1].ID != abi.SysExit {
		t.Fatalf("calls = %+v, want yield then exit", h.calls)
	}
	if code := int(h.calls[1].Args[0]); code != -2 {
		t.Fatalf("exit code = %d, want -2", code)
	}
}

func TestEcallWithoutHandlerPanics(t *testing.T) {
	u := &User{f: &Frame{Vector: NewVector()}}
	defer func() {
		if recover() == nil {
			t.Fatalf("Ecall with no handler did not panic")
		}
	}()
	u.Ecall(Call{ID: abi.SysYield})
}

type faultHandler struct {
	fault chan any
}

func (h *faultHandler) Syscall(Call) int { return 0 }

func (h *faultHandler) Fault(v any) {
	h.fault <- v
	runtime.Goexit()
}

func TestReturnRoutesPanicToFaulter(t *testing.T) {
	h := &faultHandler{fault: make(chan any, 1)}
	vec := NewVector()
	vec.Install(h)

	f := &Frame{Name: "boom", Vector: vec, Entry: func(u *User) int {
		panic("boom")
	}}
	go Return(f)

	if v := <-h.fault; v != "boom" {
		t.Fatalf("Fault(%v), want boom", v)
	}
}
