// Package terminal hosts the dial in a terminal. A [Panel] presents a
// software framebuffer with upper-half-block cells, and [Pump] turns key and
// mouse events into rotary steps and button presses.
package terminal

import (
	"image"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/graphics"
)

// halfBlock paints the top pixel of a cell in the foreground color and the
// bottom one in the background color.
const halfBlock = '▀'

// dimScale darkens the panel while the device sleeps.
const dimScale = 0.25

// Panel is a Display backed by a Raster and presented on a tcell screen.
// Each terminal cell shows two stacked pixels, each the average of a
// scale by scale block of the framebuffer.
//
// Drawing and Flush must happen on one goroutine. Resize may be called from
// any goroutine; it takes effect on the next Flush.
type Panel struct {
	*display.Raster

	screen  tcell.Screen
	scale   int
	originX int
	originY int
	dimmed  bool

	resized atomic.Bool
}

// NewPanel returns a size by size panel presented on screen.
func NewPanel(screen tcell.Screen, size int) *Panel {
	p := &Panel{
		Raster: display.NewRaster(size, size),
		screen: screen,
	}
	p.layout()
	return p
}

// Scale returns the framebuffer pixels per cell column.
func (p *Panel) Scale() int {
	return p.scale
}

// Origin returns the cell where the panel's top-left corner is drawn.
func (p *Panel) Origin() (int, int) {
	return p.originX, p.originY
}

// Resize schedules a relayout and full repaint for the next Flush.
func (p *Panel) Resize() {
	p.resized.Store(true)
}

// SetDimmed darkens or restores the whole panel and presents it
// immediately.
func (p *Panel) SetDimmed(dim bool) {
	if p.dimmed == dim {
		return
	}
	p.dimmed = dim
	p.present(p.bounds())
}

// Flush presents every cell touched since the previous Flush.
func (p *Panel) Flush() {
	if p.resized.Swap(false) {
		p.layout()
		p.screen.Clear()
		p.Raster.TakeDirty()
		p.present(p.bounds())
		return
	}
	dirty := p.Raster.TakeDirty()
	if dirty.Empty() {
		return
	}
	p.present(dirty)
}

func (p *Panel) bounds() image.Rectangle {
	w, h := p.Raster.Size()
	return image.Rect(0, 0, w, h)
}

// layout picks the smallest scale at which the panel fits the screen and
// centers it.
func (p *Panel) layout() {
	w, h := p.Raster.Size()
	cols, rows := p.screen.Size()
	s := 1
	for s < max(w, h) && (ceilDiv(w, s) > cols || ceilDiv(h, 2*s) > rows) {
		s++
	}
	p.scale = s
	p.originX = max(0, (cols-ceilDiv(w, s))/2)
	p.originY = max(0, (rows-ceilDiv(h, 2*s))/2)
}

// present redraws the cells covering the pixel rectangle r.
func (p *Panel) present(r image.Rectangle) {
	s := p.scale
	cx0, cx1 := r.Min.X/s, ceilDiv(r.Max.X, s)
	cy0, cy1 := r.Min.Y/(2*s), ceilDiv(r.Max.Y, 2*s)
	for cy := cy0; cy < cy1; cy++ {
		for cx := cx0; cx < cx1; cx++ {
			top := p.sample(cx*s, 2*cy*s)
			bottom := p.sample(cx*s, (2*cy+1)*s)
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			p.screen.SetContent(p.originX+cx, p.originY+cy, halfBlock, nil, style)
		}
	}
	p.screen.Show()
}

// sample averages the s by s block at (x, y), clipped to the framebuffer.
func (p *Panel) sample(x, y int) graphics.Color {
	w, h := p.Raster.Size()
	var r, g, b, n int
	for yy := y; yy < min(y+p.scale, h); yy++ {
		for xx := x; xx < min(x+p.scale, w); xx++ {
			c := p.Raster.At(xx, yy)
			r += int(c.R())
			g += int(c.G())
			b += int(c.B())
			n++
		}
	}
	if n == 0 {
		return graphics.ColorBlack
	}
	c := graphics.RGB(uint8(r/n), uint8(g/n), uint8(b/n))
	if p.dimmed {
		c = c.Scale(dimScale)
	}
	return c
}

func toTcell(c graphics.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R()), int32(c.G()), int32(c.B()))
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
