// Package screen shows the simulated OLED framebuffer in a Fyne window.
package screen

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/pcbtest/pkg/fb"
)

// DefaultScale is the number of window pixels per display pixel.
const DefaultScale = 4

// Widget mirrors a framebuffer. Every Display call on the framebuffer redraws it.
type Widget struct {
	widget.BaseWidget

	source *fb.Framebuffer
	scale  float32

	mu    sync.RWMutex
	frame *image.RGBA
}

// New creates a widget showing source, scaled by scale (DefaultScale if zero).
func New(source *fb.Framebuffer, scale float32) *Widget {
	if scale <= 0 {
		scale = DefaultScale
	}
	w := &Widget{
		source: source,
		scale:  scale,
		frame:  source.Snapshot(),
	}
	w.ExtendBaseWidget(w)
	source.OnDisplay(w.Update)
	return w
}

// Update copies the framebuffer and schedules a redraw on the UI goroutine.
// It is safe to call from the harness goroutine.
func (w *Widget) Update() {
	frame := w.source.Snapshot()
	w.mu.Lock()
	w.frame = frame
	w.mu.Unlock()

	fyne.Do(w.Refresh)
}

// Frame returns the last copied frame.
func (w *Widget) Frame() *image.RGBA {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.frame
}

// CreateRenderer creates the widget renderer.
func (w *Widget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	img := canvas.NewImageFromImage(w.Frame())
	img.ScaleMode = canvas.ImageScalePixels
	img.FillMode = canvas.ImageFillContain

	return &renderer{
		screen:  w,
		bg:      bg,
		img:     img,
		objects: []fyne.CanvasObject{bg, img},
	}
}
