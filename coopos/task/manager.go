// Package task owns the lifecycle of the statically loaded tasks and switches
// between them cooperatively.
//
// A task runs until it suspends or exits, then the Manager picks the next
// Ready task in round-robin order and switches to it. Control flow around
// Switch is not ordinary: RunNextTask returns to its caller only when the
// task that called it is switched back in.
package task

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"coop/coopos/config"
	"coop/coopos/kernel"
	"coop/coopos/trap"
	"coop/coopos/upcell"
)

// TaskID identifies a task. It is the task's index in the task table.
type TaskID int

// CurrentTask selects the currently running task in queries.
const CurrentTask TaskID = -1

var (
	// ErrInvalidTaskID is returned for a task id outside the loaded range.
	ErrInvalidTaskID = errors.New("invalid task id")

	// ErrAllAppsCompleted halts the kernel once no task is left to run.
	ErrAllAppsCompleted = errors.New("all applications completed")

	ErrCorruptStartTime  = errors.New("corrupted start timestamp")
	ErrNotInitialized    = errors.New("task table not initialized")
	ErrReinitialized     = errors.New("post initialization ran twice")
	ErrGuardHeldAtSwitch = errors.New("exclusive access held across switch")
	ErrUnreachable       = errors.New("unreachable in run first task")

	// ErrTaskFault halts the kernel when a task panics.
	ErrTaskFault = errors.New("task fault")
)

// Loader supplies the statically loaded applications.
type Loader interface {
	NumApp() int
	InitAppCx(i int) *trap.Frame
}

// Clock returns monotonic milliseconds.
type Clock interface {
	NowMS() uint64
}

// Halter stops the kernel. Halt must not return.
type Halter interface {
	Halt(info kernel.HaltInfo)
}

type managerInner struct {
	tasks       [config.MaxAppNum]TaskControlBlock
	current     TaskID
	initialized bool
}

// Manager schedules the tasks of one kernel instance. It lives as long as
// the kernel and is shared by reference with the boot sequence and the trap
// handler.
type Manager struct {
	numApp int
	inner  *upcell.Cell[managerInner]

	loader Loader
	clock  Clock
	halter Halter
	log    *slog.Logger
}

// New creates a manager for the applications of l. Every task starts UnInit;
// PostInitialization must run before the first dispatch.
func New(l Loader, clock Clock, halter Halter, logger *slog.Logger) *Manager {
	n := l.NumApp()
	if n <= 0 || n > config.MaxAppNum {
		panic(fmt.Sprintf("task: loader reports %d apps, table holds 1..%d", n, config.MaxAppNum))
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var in managerInner
	for i := range in.tasks {
		in.tasks[i] = newTCB()
	}
	return &Manager{
		numApp: n,
		inner:  upcell.New(in),
		loader: l,
		clock:  clock,
		halter: halter,
		log:    logger,
	}
}

// NumApp returns the number of loaded tasks.
func (m *Manager) NumApp() int { return m.numApp }

func (m *Manager) valid(id TaskID) bool {
	return id >= 0 && int(id) < m.numApp
}

// fatal halts the kernel. It never returns.
func (m *Manager) fatal(id TaskID, err error) {
	m.log.Error("kernel halt", "task", int(id), "err", err)
	m.halter.Halt(kernel.HaltInfo{TaskID: int(id), Err: err})
	// Halt must not return; park the caller if it does.
	select {}
}

// Fault halts the kernel on behalf of a panicking task. It never returns.
func (m *Manager) Fault(v any) {
	id := TaskID(-1)
	if !m.inner.Borrowed() {
		id = m.Current()
	}
	m.fatal(id, fmt.Errorf("%w: %v", ErrTaskFault, v))
}

// PostInitialization installs the initial context of every task and makes
// it Ready.
func (m *Manager) PostInitialization() {
	g := m.inner.Borrow()
	in := g.Get()
	if in.initialized {
		cur := in.current
		g.Release()
		m.fatal(cur, ErrReinitialized)
	}
	for i := 0; i < m.numApp; i++ {
		f := m.loader.InitAppCx(i)
		t := &in.tasks[i]
		t.context = GotoResume(f)
		t.name = f.Name
		t.setStatus(Ready)
		m.log.Debug("task loaded", "task", i, "name", f.Name, "user_sp", f.UserSP, "kernel_sp", f.KernelSP)
	}
	in.initialized = true
	g.Release()
}

// RunFirstTask dispatches task 0. It never returns.
func (m *Manager) RunFirstTask() {
	g := m.inner.Borrow()
	in := g.Get()
	task0 := &in.tasks[0]
	if !in.initialized || task0.status != Ready {
		g.Release()
		m.fatal(0, ErrNotInitialized)
	}
	task0.setStatus(Running)
	task0.markStarted(m.clock.NowMS())
	in.current = 0
	next := &task0.context
	m.log.Info("first task", "task", 0, "name", task0.name)
	g.Release()

	unused := ZeroContext()
	m.switchTo(&unused, next)
	m.fatal(0, ErrUnreachable)
}

// IncreaseSyscallCounter counts one call of syscall id by the current task.
// id must be below config.MaxSyscallNum.
func (m *Manager) IncreaseSyscallCounter(id int) {
	m.inner.With(func(in *managerInner) {
		in.tasks[in.current].counts[id]++
	})
}

// SyscallCounter returns a copy of the syscall counts of task sel, or of the
// current task for CurrentTask.
func (m *Manager) SyscallCounter(sel TaskID) (SyscallCounts, error) {
	var counts SyscallCounts
	err := ErrInvalidTaskID
	m.inner.With(func(in *managerInner) {
		id := sel
		if id == CurrentTask {
			id = in.current
		}
		if !m.valid(id) {
			return
		}
		counts = in.tasks[id].counts
		err = nil
	})
	if err != nil {
		return SyscallCounts{}, fmt.Errorf("syscall counter of task %d: %w", sel, err)
	}
	return counts, nil
}

// StartTime returns the milliseconds elapsed since task sel (or the current
// task for CurrentTask) was first dispatched. It reports false for a task
// that has never run or an id outside the loaded range.
func (m *Manager) StartTime(sel TaskID) (uint64, bool) {
	var (
		id    = sel
		start uint64
		ok    bool
	)
	m.inner.With(func(in *managerInner) {
		if id == CurrentTask {
			id = in.current
		}
		if !m.valid(id) {
			return
		}
		start, ok = in.tasks[id].StartTime()
	})
	if !ok {
		return 0, false
	}
	now := m.clock.NowMS()
	if start > now {
		m.fatal(id, fmt.Errorf("%w: task %d started at %d, now %d", ErrCorruptStartTime, id, start, now))
	}
	return now - start, true
}

// Current returns the id of the running task.
func (m *Manager) Current() TaskID {
	var id TaskID
	m.inner.With(func(in *managerInner) { id = in.current })
	return id
}

// CurrentStatus returns the status of the current task.
func (m *Manager) CurrentStatus() Status {
	var s Status
	m.inner.With(func(in *managerInner) { s = in.tasks[in.current].status })
	return s
}

// MarkCurrentSuspended moves the running task back to Ready.
func (m *Manager) MarkCurrentSuspended() {
	m.inner.With(func(in *managerInner) {
		in.tasks[in.current].setStatus(Ready)
	})
}

// MarkCurrentExited moves the running task to Exited.
func (m *Manager) MarkCurrentExited() {
	m.inner.With(func(in *managerInner) {
		in.tasks[in.current].setStatus(Exited)
	})
}

// FindNextTask returns the first Ready task after the current one, wrapping
// around the task table.
func (m *Manager) FindNextTask() (TaskID, bool) {
	var (
		next  TaskID
		found bool
	)
	m.inner.With(func(in *managerInner) {
		next, found = m.findNext(in)
	})
	return next, found
}

func (m *Manager) findNext(in *managerInner) (TaskID, bool) {
	n := TaskID(m.numApp)
	for off := TaskID(1); off <= n; off++ {
		id := (in.current + off) % n
		if in.tasks[id].status == Ready {
			return id, true
		}
	}
	return 0, false
}

// RunNextTask switches from the current task to the next Ready one. The
// caller must already have marked the current task Ready or Exited. It
// returns when the calling task is switched back in. With no Ready task left
// the kernel halts.
func (m *Manager) RunNextTask() {
	next, ok := m.FindNextTask()
	if !ok {
		m.fatal(m.Current(), ErrAllAppsCompleted)
	}

	g := m.inner.Borrow()
	in := g.Get()
	cur := in.current
	t := &in.tasks[next]
	t.setStatus(Running)
	t.markStarted(m.clock.NowMS())
	in.current = next
	save := &in.tasks[cur].context
	resume := &t.context
	m.log.Debug("switch", "from", int(cur), "from_status", in.tasks[cur].status.String(), "to", int(next), "name", t.name)
	g.Release()

	m.switchTo(save, resume)
}

// switchTo is the only place the manager calls Switch.
func (m *Manager) switchTo(save, resume *TaskContext) {
	if m.inner.Borrowed() {
		m.fatal(-1, ErrGuardHeldAtSwitch)
	}
	Switch(save, resume)
}

// TaskSnapshot is a copy of one task's accounting state.
type TaskSnapshot struct {
	ID        TaskID
	Name      string
	Status    Status
	Counts    SyscallCounts
	StartTime uint64
	Started   bool
}

// Snapshot copies the state of every loaded task.
func (m *Manager) Snapshot() []TaskSnapshot {
	var out []TaskSnapshot
	m.inner.With(func(in *managerInner) { out = m.snapshot(in) })
	return out
}

// TrySnapshot is Snapshot for callers outside the running kernel. It reports
// false if the task table is borrowed at the moment of the call.
func (m *Manager) TrySnapshot() ([]TaskSnapshot, bool) {
	g, ok := m.inner.TryBorrow()
	if !ok {
		return nil, false
	}
	defer g.Release()
	return m.snapshot(g.Get()), true
}

func (m *Manager) snapshot(in *managerInner) []TaskSnapshot {
	out := make([]TaskSnapshot, 0, m.numApp)
	for i := 0; i < m.numApp; i++ {
		t := &in.tasks[i]
		start, started := t.StartTime()
		out = append(out, TaskSnapshot{
			ID:        TaskID(i),
			Name:      t.name,
			Status:    t.status,
			Counts:    t.counts,
			StartTime: start,
			Started:   started,
		})
	}
	return out
}
