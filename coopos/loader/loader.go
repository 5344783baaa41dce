// Package loader builds the static application image the kernel boots with.
package loader

import (
	"errors"
	"fmt"

	"coop/coopos/config"
	"coop/coopos/trap"
)

var (
	ErrNoApps      = errors.New("no applications to load")
	ErrTooManyApps = errors.New("too many applications")
)

// Stack layout of the image, one user and one kernel stack per app slot.
//
//	userStackBase
//	App 0 user stack
//	App 1 user stack
//	...
//	kernelStackBase
//	App 0 kernel stack
//	App 0 guard page
//	...
const (
	userStackBase   uintptr = 0x8040_0000
	kernelStackBase uintptr = 0x8060_0000
	guardSize       uintptr = 4096
)

// UserStackTop returns the initial user stack pointer of app slot i.
func UserStackTop(i int) uintptr {
	return userStackBase + uintptr(i+1)*config.UserStackSize
}

// KernelStackTop returns the initial kernel stack pointer of app slot i.
func KernelStackTop(i int) uintptr {
	return kernelStackBase + uintptr(i+1)*(config.KernelStackSize+guardSize) - guardSize
}

// App is one statically linked application.
type App struct {
	Name  string
	Entry trap.Program
}

// Image is the set of applications loaded at boot.
type Image struct {
	frames []trap.Frame
}

// NewImage lays out apps in slot order. Every frame traps through vec.
func NewImage(apps []App, vec *trap.Vector) (*Image, error) {
	if len(apps) == 0 {
		return nil, ErrNoApps
	}
	if len(apps) > config.MaxAppNum {
		return nil, fmt.Errorf("%w: %d, limit %d", ErrTooManyApps, len(apps), config.MaxAppNum)
	}
	img := &Image{frames: make([]trap.Frame, len(apps))}
	for i, app := range apps {
		if app.Entry == nil {
			return nil, fmt.Errorf("app %d (%s): no entry point", i, app.Name)
		}
		img.frames[i] = trap.Frame{
			AppID:    i,
			Name:     app.Name,
			Entry:    app.Entry,
			UserSP:   UserStackTop(i),
			KernelSP: KernelStackTop(i),
			Vector:   vec,
		}
	}
	return img, nil
}

// NumApp returns the number of loaded applications.
func (img *Image) NumApp() int { return len(img.frames) }

// InitAppCx returns the trap frame app i first enters user mode with.
func (img *Image) InitAppCx(i int) *trap.Frame {
	if i < 0 || i >= len(img.frames) {
		panic(fmt.Sprintf("loader: app %d out of range [0, %d)", i, len(img.frames)))
	}
	return &img.frames[i]
}

// Name returns the name of app i.
func (img *Image) Name(i int) string {
	return img.InitAppCx(i).Name
}
