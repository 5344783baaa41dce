package app

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"coop/coopos/kernel"
	"coop/coopos/task"
	"coop/hal"
)

var (
	screenFont = &proggy.TinySZ8pt7b

	fgHalt = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	fgBoot = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

const (
	fontHeight = int16(10)
	fontOffset = int16(8)
)

func logHalt(l hal.Logger, info kernel.HaltInfo) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf("coop halt: task=%d err=%v", info.TaskID, info.Err))
	for _, line := range bytes.Split(info.Stack, []byte("\n")) {
		if len(line) > 0 {
			l.WriteLineBytes(line)
		}
	}
}

func bootScreen(fb hal.Framebuffer, msg string) {
	if fb == nil {
		return
	}
	fb.ClearRGB(0, 0, 0)
	d := newFBDisplay(fb)
	tinyfont.WriteLine(d, screenFont, 0, fontOffset+2, "coop boot", fgBoot)
	tinyfont.WriteLine(d, screenFont, 0, fontOffset+2+fontHeight*2, msg, fgBoot)
	_ = fb.Present()
}

// haltScreen draws the halt reason, the task table and the stack, clipped to
// the framebuffer.
func haltScreen(fb hal.Framebuffer, info kernel.HaltInfo, tasks []task.TaskSnapshot) {
	if fb == nil {
		return
	}
	fb.ClearRGB(255, 255, 255)

	_, outboxWidth := tinyfont.LineWidth(screenFont, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = fb.Present()
		return
	}

	d := newFBDisplay(fb)
	y := int16(0)
	maxH := int16(fb.Height())
	cols := int16(fb.Width()) / fontWidth
	if cols <= 0 {
		cols = 1
	}

	for _, line := range haltLines(info, tasks) {
		for len(line) > 0 {
			if y+fontHeight > maxH {
				_ = fb.Present()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(d, fontWidth, 0, y, chunk, fgHalt)
			y += fontHeight
			line = strings.TrimLeft(rest, " ")
		}
	}
	_ = fb.Present()
}

func haltLines(info kernel.HaltInfo, tasks []task.TaskSnapshot) []string {
	lines := []string{
		"coop halt:",
		fmt.Sprintf("task: %d", info.TaskID),
		fmt.Sprintf("err: %v", info.Err),
	}
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("%2d %-10s %-7s calls=%d", t.ID, t.Name, t.Status, t.Counts.Total()))
	}
	if st := stackLines(info.Stack); len(st) > 0 {
		lines = append(lines, "stack:")
		lines = append(lines, st...)
	} else {
		lines = append(lines, "stack: unavailable")
	}
	return lines
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func drawTextLine(d *fbDisplay, fontWidth, x0, y0 int16, s string, fg color.RGBA) {
	x := x0
	for _, r := range s {
		tinyfont.DrawChar(d, screenFont, x, y0+fontOffset, r, fg)
		x += fontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		count++
	}
	return s[:i], s[i:]
}
