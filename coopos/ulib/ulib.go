// Package ulib is the user-side library: thin wrappers that turn calls into
// ecalls.
package ulib

import (
	"fmt"

	"coop/coopos/abi"
	"coop/coopos/trap"
)

// Write writes buf to fd and returns the number of bytes written, or -1.
func Write(u *trap.User, fd int, buf []byte) int {
	return u.Ecall(trap.Call{ID: abi.SysWrite, Args: [3]uintptr{uintptr(fd), 0, uintptr(len(buf))}, Buf: buf})
}

// Printf formats to stdout.
func Printf(u *trap.User, format string, args ...any) {
	Write(u, abi.FDStdout, []byte(fmt.Sprintf(format, args...)))
}

// Println writes a line to stdout.
func Println(u *trap.User, args ...any) {
	Write(u, abi.FDStdout, []byte(fmt.Sprintln(args...)))
}

// Exit terminates the calling program. It never returns.
func Exit(u *trap.User, code int) {
	u.Ecall(trap.Call{ID: abi.SysExit, Args: [3]uintptr{uintptr(code)}})
	panic("ulib: exit returned")
}

// Yield gives up the CPU until the scheduler comes back around.
func Yield(u *trap.User) int {
	return u.Ecall(trap.Call{ID: abi.SysYield})
}

// GetTimeMS returns the current time in milliseconds, or -1.
func GetTimeMS(u *trap.User) int64 {
	var tv abi.TimeVal
	if u.Ecall(trap.Call{ID: abi.SysGetTime, Out: &tv}) != 0 {
		return -1
	}
	return int64(tv.Sec)*1000 + int64(tv.Usec)/1000
}

// TaskInfo fills ti with the caller's accounting state.
func TaskInfo(u *trap.User, ti *abi.TaskInfo) int {
	return u.Ecall(trap.Call{ID: abi.SysTaskInfo, Out: ti})
}
