package loader

import (
	"errors"
	"fmt"
	"testing"

	"coop/coopos/config"
	"coop/coopos/trap"
)

func entry(*trap.User) int { return 0 }

func TestNewImageRejectsBadAppLists(t *testing.T) {
	if _, err := NewImage(nil, trap.NewVector()); !errors.Is(err, ErrNoApps) {
		t.Fatalf("NewImage(nil) err = %v, want %v", err, ErrNoApps)
	}

	apps := make([]App, config.MaxAppNum+1)
	for i := range apps {
		apps[i] = App{Name: fmt.Sprintf("app%d", i), Entry: entry}
	}
	if _, err := NewImage(apps, trap.NewVector()); !errors.Is(err, ErrTooManyApps) {
		t.Fatalf("NewImage(%d apps) err = %v, want %v", len(apps), err, ErrTooManyApps)
	}

	if _, err := NewImage([]App{{Name: "broken"}}, trap.NewVector()); err == nil {
		t.Fatalf("NewImage with nil entry err = nil")
	}
}

func TestImageFrames(t *testing.T) {
	vec := trap.NewVector()
	img, err := NewImage([]App{{Name: "a", Entry: entry}, {Name: "b", Entry: entry}}, vec)
	if err != nil {
		t.Fatalf("NewImage() err = %v", err)
	}
	if img.NumApp() != 2 {
		t.Fatalf("NumApp() = %d, want 2", img.NumApp())
	}

	f := img.InitAppCx(1)
	if f.AppID != 1 || f.Name != "b" || f.Vector != vec {
		t.Fatalf("InitAppCx(1) = %+v, want app 1 named b on vec", f)
	}
	if f.UserSP != UserStackTop(1) || f.KernelSP != KernelStackTop(1) {
		t.Fatalf("InitAppCx(1) stacks = %#x/%#x, want %#x/%#x", f.UserSP, f.KernelSP, UserStackTop(1), KernelStackTop(1))
	}
	if img.Name(0) != "a" {
		t.Fatalf("Name(0) = %q, want a", img.Name(0))
	}
}

func TestStacksDoNotOverlap(t *testing.T) {
	for i := 1; i < config.MaxAppNum; i++ {
		if UserStackTop(i)-UserStackTop(i-1) != config.UserStackSize {
			t.Fatalf("user stacks %d and %d overlap", i-1, i)
		}
		if KernelStackTop(i)-KernelStackTop(i-1) < config.KernelStackSize {
			t.Fatalf("kernel stacks %d and %d overlap", i-1, i)
		}
	}
	if UserStackTop(config.MaxAppNum-1) > kernelStackBase {
		t.Fatalf("user stacks run into the kernel stack region")
	}
}

func TestInitAppCxOutOfRangePanics(t *testing.T) {
	img, _ := NewImage([]App{{Name: "a", Entry: entry}}, trap.NewVector())
	defer func() {
		if recover() == nil {
			t.Fatalf("InitAppCx(1) did not panic")
		}
	}()
	img.InitAppCx(1)
}
