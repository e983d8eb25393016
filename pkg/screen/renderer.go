package screen

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

type renderer struct {
	screen *Widget

	bg  *canvas.Rectangle
	img *canvas.Image

	objects []fyne.CanvasObject
}

// MinSize keeps whole display pixels visible at the configured scale.
func (r *renderer) MinSize() fyne.Size {
	b := r.screen.Frame().Bounds()
	return fyne.NewSize(float32(b.Dx())*r.screen.scale, float32(b.Dy())*r.screen.scale)
}

func (r *renderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.img.Resize(size)
	r.img.Move(fyne.NewPos(0, 0))
}

func (r *renderer) Refresh() {
	r.img.Image = r.screen.Frame()
	r.img.Refresh()
	r.bg.Refresh()
}

func (r *renderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *renderer) Destroy() {}
