package fb

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	Black = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
)

// Target is a display that can draw pixels and fill rectangles.
// Both the SSD1331 driver and Framebuffer satisfy it.
type Target interface {
	drivers.Displayer
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Text draws short strings and rectangles on a Target. Coordinates given to
// DrawString are the top-left corner of the text line.
type Text struct {
	target Target
	font   tinyfont.Fonter
	ascent int16
}

// NewText creates a text adapter using the default 12 px line font.
func NewText(target Target) *Text {
	return &Text{
		target: target,
		font:   &proggy.TinySZ8pt7b,
		ascent: 11,
	}
}

// FillRect fills a region and pushes the frame.
func (t *Text) FillRect(x, y, width, height int16, c color.RGBA) error {
	if err := t.target.FillRectangle(x, y, width, height, c); err != nil {
		return err
	}
	return t.target.Display()
}

// DrawString renders s with its top-left corner at (x, y) and pushes the frame.
func (t *Text) DrawString(x, y int16, s string, c color.RGBA) error {
	tinyfont.WriteLine(t.target, t.font, x, y+t.ascent, s, c)
	return t.target.Display()
}

// LineWidth returns the rendered width of s in pixels.
func (t *Text) LineWidth(s string) int16 {
	_, w := tinyfont.LineWidth(t.font, s)
	return int16(w)
}
