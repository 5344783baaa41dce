// Package abi defines the system call interface shared by the kernel and
// user programs.
package abi

import "coop/coopos/config"

// Syscall numbers.
const (
	SysWrite    = 64
	SysExit     = 93
	SysYield    = 124
	SysGetTime  = 169
	SysTaskInfo = 410
)

// FDStdout is the only file descriptor write accepts.
const FDStdout = 1

// TaskStatus is the lifecycle state of a task.
type TaskStatus uint8

const (
	UnInit TaskStatus = iota
	Ready
	Running
	Exited
)

func (s TaskStatus) String() string {
	switch s {
	case UnInit:
		return "uninit"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// TimeVal is filled by get_time.
type TimeVal struct {
	Sec  uint64
	Usec uint64
}

// TaskInfo is filled by task_info.
type TaskInfo struct {
	Status       TaskStatus
	SyscallTimes [config.MaxSyscallNum]uint32
	// Time is milliseconds since the task was first dispatched.
	Time uint64
}
