package task

import "coop/coopos/trap"

// TaskContext is the saved execution state of a suspended task.
//
// The scheduler never inspects a context; it only hands pointers to Switch.
type TaskContext struct {
	// ra is the first-entry resume point. It is cleared when Switch saves
	// into the context.
	ra func()
	// sp is the kernel stack top the context resumes on.
	sp uintptr
	// wake is closed to resume a context saved by Switch.
	wake chan struct{}
}

// ZeroContext returns a context with no resume point. It is only ever used
// as a save target.
func ZeroContext() TaskContext {
	return TaskContext{}
}

// GotoResume returns a context that, when switched to, returns from a trap
// into the user program of f.
func GotoResume(f *trap.Frame) TaskContext {
	return TaskContext{
		ra: func() { trap.Return(f) },
		sp: f.KernelSP,
	}
}

func (c *TaskContext) resumable() bool {
	return c.ra != nil || c.wake != nil
}
