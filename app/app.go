// Package app wires the kernel together and boots it on a HAL.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"coop/coopos/apps"
	"coop/coopos/kernel"
	"coop/coopos/loader"
	"coop/coopos/syscalls"
	"coop/coopos/task"
	"coop/coopos/trap"
	"coop/hal"
	"coop/internal/config"
)

var (
	// ErrKernelHalted is returned by Run when the kernel stopped for any
	// reason other than every task exiting.
	ErrKernelHalted = errors.New("kernel halted")
	ErrAlreadyRun   = errors.New("system already booted")
)

// System is one booted kernel instance.
type System struct {
	id string

	hal    hal.HAL
	halter *kernel.Halter
	tasks  *task.Manager
	log    *slog.Logger

	started atomic.Bool
	bootMS  uint64
}

// Report summarizes a finished run.
type Report struct {
	BootID string
	Halt   kernel.HaltInfo
	Tasks  []task.TaskSnapshot
	// UptimeMS is kernel clock time from boot to halt.
	UptimeMS uint64
}

// Clean reports whether the kernel stopped because every task exited.
func (r Report) Clean() bool {
	return errors.Is(r.Halt.Err, task.ErrAllAppsCompleted)
}

// New builds the kernel image described by m on h. Nothing runs until Run.
func New(h hal.HAL, m config.Manifest, logger *slog.Logger) (*System, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	logger = logger.With("boot_id", id)

	images := make([]loader.App, 0, len(m.Apps))
	for _, a := range m.Apps {
		prog, err := apps.Build(a.Program, apps.Params(a.Params))
		if err != nil {
			return nil, fmt.Errorf("app %q: %w", a.Name, err)
		}
		images = append(images, loader.App{Name: a.Name, Entry: prog})
	}

	vec := trap.NewVector()
	img, err := loader.NewImage(images, vec)
	if err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}

	s := &System{
		id:     id,
		hal:    h,
		halter: kernel.NewHalter(),
		log:    logger,
	}
	s.tasks = task.New(img, h.Clock(), s.halter, logger.With("component", "task"))

	console := h.Console()
	if fb := s.Framebuffer(); fb != nil {
		console = io.MultiWriter(console, newScreenConsole(fb))
	}
	vec.Install(syscalls.New(s.tasks, console, h.Clock(), logger.With("component", "syscall")))
	s.halter.SetHandler(s.onHalt)
	return s, nil
}

// BootID identifies this boot in logs and reports.
func (s *System) BootID() string { return s.id }

// Framebuffer returns the display the halt screen is drawn on, or nil.
func (s *System) Framebuffer() hal.Framebuffer {
	if d := s.hal.Display(); d != nil {
		return d.Framebuffer()
	}
	return nil
}

// Run boots the kernel and blocks until it halts or ctx is done. A kernel
// that halts after every task exited returns a nil error. A ctx that is
// already done returns before anything is dispatched.
func (s *System) Run(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{BootID: s.id, Halt: kernel.HaltInfo{TaskID: -1, Err: err}}, err
	}
	if !s.started.CompareAndSwap(false, true) {
		return Report{}, ErrAlreadyRun
	}

	s.bootMS = s.hal.Clock().NowMS()
	s.log.Info("boot", "apps", s.tasks.NumApp())
	bootScreen(s.Framebuffer(), fmt.Sprintf("%d apps", s.tasks.NumApp()))

	task.PostInitialization(s.tasks)
	go task.RunFirstTask(s.tasks)

	select {
	case <-ctx.Done():
		return s.report(kernel.HaltInfo{TaskID: -1, Err: ctx.Err()}), ctx.Err()
	case <-s.halter.Done():
	}

	r := s.report(s.halter.Info())
	if r.Clean() {
		s.log.Info("all tasks exited", "uptime_ms", r.UptimeMS)
		return r, nil
	}
	return r, fmt.Errorf("%w: %w", ErrKernelHalted, r.Halt.Err)
}

func (s *System) report(info kernel.HaltInfo) Report {
	r := Report{
		BootID:   s.id,
		Halt:     info,
		UptimeMS: s.hal.Clock().NowMS() - s.bootMS,
	}
	// A running kernel owns the task table.
	if !s.halter.Halted() {
		return r
	}
	if tasks, ok := s.tasks.TrySnapshot(); ok {
		r.Tasks = tasks
	}
	return r
}

// onHalt runs on the halting task before the kernel parks.
func (s *System) onHalt(info kernel.HaltInfo) {
	if errors.Is(info.Err, task.ErrAllAppsCompleted) {
		return
	}
	logHalt(s.hal.Logger(), info)
	tasks, _ := s.tasks.TrySnapshot()
	haltScreen(s.Framebuffer(), info, tasks)
}
