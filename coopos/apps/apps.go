// Package apps contains the user programs that can be linked into the boot
// image.
package apps

import (
	"errors"
	"fmt"
	"sort"

	"coop/coopos/trap"
)

// ErrUnknownProgram is returned for a program name with no builder.
var ErrUnknownProgram = errors.New("unknown program")

// Params are the integer settings of one program instance.
type Params map[string]int

func (p Params) get(key string, def int) int {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Builder creates a program from its params.
type Builder func(p Params) (trap.Program, error)

var registry = map[string]Builder{
	"hello":    buildHello,
	"power":    buildPower,
	"sleep":    buildSleep,
	"spin":     buildSpin,
	"taskinfo": buildTaskInfo,
}

var descriptions = map[string]string{
	"hello":    "print a greeting and exit",
	"power":    "compute base^i mod modulus, yielding every step (base, iter, modulus, step)",
	"sleep":    "yield until ms milliseconds have passed (ms)",
	"spin":     "yield a fixed number of times (yields)",
	"taskinfo": "check its own syscall accounting via task_info",
}

// Describe returns a one-line description of a registered program.
func Describe(name string) string {
	return descriptions[name]
}

// Build returns the program named name configured with p.
func Build(name string, p Params) (trap.Program, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	prog, err := b(p)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	return prog, nil
}

// Names returns the registered program names in order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
