package app

import (
	"sync"

	"tinygo.org/x/tinyterm"

	"coop/hal"
)

// screenConsole mirrors user console output onto the framebuffer through a
// VT100 terminal. The terminal starts on the first write so the boot banner
// stays up until a program prints.
type screenConsole struct {
	mu   sync.Mutex
	d    *fbDisplay
	term *tinyterm.Terminal
}

func newScreenConsole(fb hal.Framebuffer) *screenConsole {
	return &screenConsole{d: newFBDisplay(fb)}
}

func (c *screenConsole) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.term == nil {
		c.reset()
	}
	n, err := c.term.Write(p)
	c.term.Display()
	return n, err
}

func (c *screenConsole) reset() {
	if c.d.fb != nil {
		c.d.fb.ClearRGB(0, 0, 0)
	}
	c.term = tinyterm.NewTerminal(c.d)
	c.term.Configure(&tinyterm.Config{
		Font:              screenFont,
		FontHeight:        fontHeight,
		FontOffset:        fontOffset,
		UseSoftwareScroll: true,
	})
}
