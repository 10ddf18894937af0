//go:build !baremetal

package watch

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers/pixel"
)

// simCanvas is an in-memory display. Display hands the framebuffer to flush,
// which sends it to the simulator window.
type simCanvas struct {
	mu     sync.Mutex
	image  pixel.Image[pixel.RGB888]
	width  int16
	height int16
	flush  func(buf []byte, width, height int16)
}

func newSimCanvas(width, height int16) *simCanvas {
	return &simCanvas{
		image:  pixel.NewImage[pixel.RGB888](int(width), int(height)),
		width:  width,
		height: height,
	}
}

func (c *simCanvas) Size() (x, y int16) {
	return c.width, c.height
}

func (c *simCanvas) SetPixel(x, y int16, rgba color.RGBA) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.mu.Lock()
	c.image.Set(int(x), int(y), pixel.NewColor[pixel.RGB888](rgba.R, rgba.G, rgba.B))
	c.mu.Unlock()
}

func (c *simCanvas) FillRectangle(x, y, width, height int16, rgba color.RGBA) error {
	x0, y0 := clip(x, c.width), clip(y, c.height)
	x1, y1 := clip(x+width, c.width), clip(y+height, c.height)
	col := pixel.NewColor[pixel.RGB888](rgba.R, rgba.G, rgba.B)
	c.mu.Lock()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.image.Set(int(px), int(py), col)
		}
	}
	c.mu.Unlock()
	return nil
}

func clip(v, limit int16) int16 {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}

func (c *simCanvas) Display() error {
	if c.flush == nil {
		return nil
	}
	c.mu.Lock()
	buf := append([]byte(nil), c.image.RawBuffer()...)
	c.mu.Unlock()
	c.flush(buf, c.width, c.height)
	return nil
}

// at returns the color of a single pixel.
func (c *simCanvas) at(x, y int) color.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.image.Get(x, y).RGBA()
}
