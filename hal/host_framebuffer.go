//go:build !tinygo

package hal

import (
	"image"
	"image/color"
	"sync"
)

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

// Snapshot converts an RGB565 framebuffer into an RGBA image.
func Snapshot(fb Framebuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width(), fb.Height()))
	DrawRGBA(img, fb)
	return img
}

// DrawRGBA copies an RGB565 framebuffer into dst, clipped to both.
func DrawRGBA(dst *image.RGBA, fb Framebuffer) {
	if fb.Format() != PixelFormatRGB565 {
		return
	}
	b := dst.Bounds()
	w, h := min(fb.Width(), b.Dx()), min(fb.Height(), b.Dy())
	buf := fb.Buffer()
	for y := 0; y < h; y++ {
		row := y * fb.StrideBytes()
		for x := 0; x < w; x++ {
			off := row + x*2
			if off+1 >= len(buf) {
				return
			}
			r, g, bb := rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
			dst.SetRGBA(b.Min.X+x, b.Min.Y+y, color.RGBA{R: r, G: g, B: bb, A: 255})
		}
	}
}
