package fb

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"tinygo.org/x/drivers"
)

// Ensure Framebuffer implements drivers.Displayer.
var _ drivers.Displayer = (*Framebuffer)(nil)

// Framebuffer is an in-memory RGBA display used on the host in place of the OLED.
// Drawing happens on the harness goroutine, snapshots are taken by the GUI.
type Framebuffer struct {
	mu  sync.RWMutex
	img *image.RGBA

	cbMu      sync.RWMutex
	onDisplay func()
}

// New creates a black framebuffer of the given size.
func New(width, height int16) *Framebuffer {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{A: 0xff}}, image.Point{}, draw.Src)
	return &Framebuffer{img: img}
}

// Size returns the display size in pixels.
func (f *Framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

// SetPixel sets one pixel. Out of range coordinates are ignored.
func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !(image.Point{X: int(x), Y: int(y)}).In(f.img.Bounds()) {
		return
	}
	f.img.SetRGBA(int(x), int(y), c)
}

// FillRectangle fills a rectangle clipped to the display.
func (f *Framebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height))
	draw.Draw(f.img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return nil
}

// Display notifies the listener that a frame is complete.
func (f *Framebuffer) Display() error {
	f.cbMu.RLock()
	cb := f.onDisplay
	f.cbMu.RUnlock()

	if cb != nil {
		cb()
	}
	return nil
}

// OnDisplay registers a callback invoked after each Display call.
func (f *Framebuffer) OnDisplay(cb func()) {
	f.cbMu.Lock()
	defer f.cbMu.Unlock()
	f.onDisplay = cb
}

// At returns the colour of one pixel.
func (f *Framebuffer) At(x, y int16) color.RGBA {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.img.RGBAAt(int(x), int(y))
}

// Snapshot returns a copy of the current frame.
func (f *Framebuffer) Snapshot() *image.RGBA {
	f.mu.RLock()
	defer f.mu.RUnlock()

	cp := image.NewRGBA(f.img.Bounds())
	copy(cp.Pix, f.img.Pix)
	return cp
}

// CountColor returns how many pixels inside r have colour c.
func (f *Framebuffer) CountColor(r image.Rectangle, c color.RGBA) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	r = r.Intersect(f.img.Bounds())
	n := 0
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			if f.img.RGBAAt(px, py) == c {
				n++
			}
		}
	}
	return n
}
