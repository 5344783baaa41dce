package task

import (
	"fmt"

	"coop/coopos/abi"
	"coop/coopos/config"
)

// Status is the lifecycle state of a task.
type Status = abi.TaskStatus

const (
	UnInit  = abi.UnInit
	Ready   = abi.Ready
	Running = abi.Running
	Exited  = abi.Exited
)

// SyscallCounts maps syscall id to the number of times a task issued it.
type SyscallCounts [config.MaxSyscallNum]uint32

// Nonzero returns the ids with a nonzero count.
func (c SyscallCounts) Nonzero() map[int]uint32 {
	out := make(map[int]uint32)
	for id, n := range c {
		if n != 0 {
			out[id] = n
		}
	}
	return out
}

// Total returns the sum of all counts.
func (c SyscallCounts) Total() uint64 {
	var total uint64
	for _, n := range c {
		total += uint64(n)
	}
	return total
}

const unsetTime = ^uint64(0)

// TaskControlBlock is the per-task scheduler state.
type TaskControlBlock struct {
	status    Status
	context   TaskContext
	counts    SyscallCounts
	startTime uint64
	name      string
}

func newTCB() TaskControlBlock {
	return TaskControlBlock{
		status:    UnInit,
		context:   ZeroContext(),
		startTime: unsetTime,
	}
}

func validTransition(from, to Status) bool {
	switch {
	case from == UnInit && to == Ready:
		return true
	case from == Ready && to == Running:
		return true
	case from == Running && (to == Ready || to == Exited):
		return true
	default:
		return false
	}
}

// setStatus moves the task to status to. Invalid transitions are a caller bug.
func (t *TaskControlBlock) setStatus(to Status) {
	if !validTransition(t.status, to) {
		panic(fmt.Sprintf("task %q: invalid transition %s -> %s", t.name, t.status, to))
	}
	t.status = to
}

// markStarted records the first dispatch time. Later calls are ignored.
func (t *TaskControlBlock) markStarted(now uint64) {
	if t.startTime == unsetTime {
		t.startTime = now
	}
}

// StartTime returns the first dispatch time, if the task has run.
func (t *TaskControlBlock) StartTime() (uint64, bool) {
	if t.startTime == unsetTime {
		return 0, false
	}
	return t.startTime, true
}
