package task

// The functions below are the surface the trap handler uses. Each one
// composes Manager calls and adds nothing else.

// PostInitialization readies every loaded task.
func PostInitialization(m *Manager) {
	m.PostInitialization()
}

// RunFirstTask dispatches task 0. It never returns.
func RunFirstTask(m *Manager) {
	m.RunFirstTask()
}

// SuspendCurrentAndRunNext suspends the running task and runs the next one.
func SuspendCurrentAndRunNext(m *Manager) {
	m.MarkCurrentSuspended()
	m.RunNextTask()
}

// ExitCurrentAndRunNext exits the running task and runs the next one.
func ExitCurrentAndRunNext(m *Manager) {
	m.MarkCurrentExited()
	m.RunNextTask()
}

// IncreaseSyscallCounter counts one call of syscall id by the current task.
func IncreaseSyscallCounter(m *Manager, id int) {
	m.IncreaseSyscallCounter(id)
}

// SyscallCounter returns the syscall counts of a task (CurrentTask for the
// running one).
func SyscallCounter(m *Manager, sel TaskID) (SyscallCounts, error) {
	return m.SyscallCounter(sel)
}

// StartTime returns the milliseconds since a task (CurrentTask for the
// running one) was first dispatched.
func StartTime(m *Manager, sel TaskID) (uint64, bool) {
	return m.StartTime(sel)
}
