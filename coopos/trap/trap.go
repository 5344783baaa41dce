// Package trap is the boundary between user programs and the kernel.
//
// A task enters user mode through Return, which runs the program of its
// Frame. The program can only reach the kernel through User.Ecall, which
// forwards to the Handler installed on the frame's Vector.
package trap

import (
	"sync/atomic"

	"coop/coopos/abi"
)

// Call is one ecall issued by a user program.
type Call struct {
	ID   int
	Args [3]uintptr
	// Buf is the user buffer of write-like calls.
	Buf []byte
	// Out is the user out-pointer of calls that fill a struct
	// (*abi.TimeVal, *abi.TaskInfo).
	Out any
}

// Handler services ecalls for the current task.
type Handler interface {
	Syscall(c Call) int
}

// Faulter is implemented by handlers that take over a panicking program.
// Fault must not return.
type Faulter interface {
	Fault(v any)
}

// Program is a user entry point. Its return value is the exit code.
type Program func(u *User) int

// Vector holds the kernel's trap handler.
type Vector struct {
	h atomic.Value // Handler
}

// NewVector returns a vector with no handler installed.
func NewVector() *Vector {
	return &Vector{}
}

// Install sets the handler that receives every ecall.
func (v *Vector) Install(h Handler) {
	v.h.Store(&h)
}

func (v *Vector) handler() Handler {
	h := v.lookup()
	if h == nil {
		panic("trap: no handler installed")
	}
	return h
}

func (v *Vector) lookup() Handler {
	p, _ := v.h.Load().(*Handler)
	if p == nil {
		return nil
	}
	return *p
}

// Frame is the state a task first enters user mode with.
type Frame struct {
	AppID    int
	Name     string
	Entry    Program
	UserSP   uintptr
	KernelSP uintptr
	Vector   *Vector
}

// User is the user-mode view of the machine.
type User struct {
	f *Frame
}

// Ecall traps into the kernel.
func (u *User) Ecall(c Call) int {
	return u.f.Vector.handler().Syscall(c)
}

// SP returns the user stack top the program was entered with.
func (u *User) SP() uintptr { return u.f.UserSP }

// Return enters user mode for f. A program that returns is exited with its
// return value as the exit code. A program that panics is handed to the
// installed Faulter, if any. Return never returns.
func Return(f *Frame) {
	defer func() {
		if r := recover(); r != nil {
			if fh, ok := f.Vector.lookup().(Faulter); ok {
				fh.Fault(r)
			}
			panic(r)
		}
	}()
	u := &User{f: f}
	code := f.Entry(u)
	u.Ecall(Call{ID: abi.SysExit, Args: [3]uintptr{uintptr(code)}})
	panic("trap: exit returned to user mode")
}
