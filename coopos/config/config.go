// Package config holds the compile-time limits of the kernel.
package config

const (
	// MaxAppNum is the number of task slots in the static task table.
	MaxAppNum = 16
	// MaxSyscallNum bounds syscall ids; counters are indexed by id.
	MaxSyscallNum = 500

	UserStackSize   = 4096 * 2
	KernelStackSize = 4096 * 2
)
