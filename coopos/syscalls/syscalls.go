// Package syscalls dispatches ecalls from user programs to the kernel.
package syscalls

import (
	"io"
	"log/slog"

	"coop/coopos/abi"
	"coop/coopos/config"
	"coop/coopos/task"
	"coop/coopos/trap"
)

// Clock returns monotonic milliseconds.
type Clock interface {
	NowMS() uint64
}

// Dispatcher is the kernel's trap handler.
type Dispatcher struct {
	m       *task.Manager
	console io.Writer
	clock   Clock
	log     *slog.Logger
}

// New returns a dispatcher that services calls for the tasks of m and
// writes user output to console.
func New(m *task.Manager, console io.Writer, clock Clock, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{m: m, console: console, clock: clock, log: logger}
}

// Syscall counts c against the current task and services it.
func (d *Dispatcher) Syscall(c trap.Call) int {
	if c.ID >= 0 && c.ID < config.MaxSyscallNum {
		task.IncreaseSyscallCounter(d.m, c.ID)
	}

	switch c.ID {
	case abi.SysWrite:
		return d.write(int(c.Args[0]), c.Buf)
	case abi.SysExit:
		d.exit(int(c.Args[0]))
	case abi.SysYield:
		task.SuspendCurrentAndRunNext(d.m)
		return 0
	case abi.SysGetTime:
		return d.getTime(c.Out)
	case abi.SysTaskInfo:
		return d.taskInfo(c.Out)
	}
	d.log.Warn("unsupported syscall", "task", int(d.m.Current()), "id", c.ID)
	return -1
}

// Fault halts the kernel when a user program panics.
func (d *Dispatcher) Fault(v any) {
	d.log.Error("user program panicked", "panic", v)
	d.m.Fault(v)
}

func (d *Dispatcher) write(fd int, buf []byte) int {
	if fd != abi.FDStdout {
		d.log.Warn("unsupported fd in write", "task", int(d.m.Current()), "fd", fd)
		return -1
	}
	n, err := d.console.Write(buf)
	if err != nil {
		d.log.Warn("console write", "task", int(d.m.Current()), "err", err)
	}
	return n
}

func (d *Dispatcher) exit(code int) {
	d.log.Info("application exited", "task", int(d.m.Current()), "code", code)
	task.ExitCurrentAndRunNext(d.m)
	panic("syscalls: exited task was resumed")
}

func (d *Dispatcher) getTime(out any) int {
	tv, ok := out.(*abi.TimeVal)
	if !ok || tv == nil {
		return -1
	}
	ms := d.clock.NowMS()
	tv.Sec = ms / 1000
	tv.Usec = (ms % 1000) * 1000
	return 0
}

func (d *Dispatcher) taskInfo(out any) int {
	ti, ok := out.(*abi.TaskInfo)
	if !ok || ti == nil {
		return -1
	}
	counts, err := task.SyscallCounter(d.m, task.CurrentTask)
	if err != nil {
		d.log.Warn("task info", "err", err)
		return -1
	}
	elapsed, _ := task.StartTime(d.m, task.CurrentTask)

	ti.Status = d.m.CurrentStatus()
	ti.SyscallTimes = counts
	ti.Time = elapsed
	return 0
}
