package display

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/dialtimer/pkg/graphics"
)

// textPadding is the bg margin around rendered text, in unscaled pixels.
const textPadding = 2

// Raster is a software framebuffer implementing Display.
//
// A pixel belongs to a shape when its center does: sectors and bands use
// half-open angle ranges, so adjacent ranges sharing a boundary never overlap
// and never leave a gap.
type Raster struct {
	img   *image.RGBA
	face  font.Face
	dirty image.Rectangle
}

// NewRaster returns a black framebuffer of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
	}
	r.FillScreen(graphics.ColorBlack)
	return r
}

// Image returns the backing image. Callers must not retain it across frames
// if they mutate it.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// At returns the color of pixel (x, y).
func (r *Raster) At(x, y int) graphics.Color {
	c := r.img.RGBAAt(x, y)
	return graphics.RGBA8(c.R, c.G, c.B, c.A)
}

// TakeDirty returns the region touched since the previous call and clears it.
func (r *Raster) TakeDirty() image.Rectangle {
	d := r.dirty
	r.dirty = image.Rectangle{}
	return d
}

// WritePNG encodes the framebuffer as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// Size returns the framebuffer size.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) FillScreen(c graphics.Color) {
	b := r.img.Bounds()
	px := toRGBA(c)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.img.SetRGBA(x, y, px)
		}
	}
	r.markDirty(b)
}

func (r *Raster) FillSector(center graphics.Offset, radius float64, span graphics.AngleRange, c graphics.Color) {
	r.FillArcBand(center, -1, radius, span, c)
}

func (r *Raster) FillArcBand(center graphics.Offset, inner, outer float64, span graphics.AngleRange, c graphics.Color) {
	segs := span.Segments()
	if len(segs) == 0 || outer <= 0 || outer <= inner {
		return
	}
	px := toRGBA(c)
	box := r.circleBounds(center, outer)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			p := graphics.Offset{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			d := center.Distance(p)
			if d > outer || d < inner {
				continue
			}
			a := graphics.AngleOf(center, p)
			for _, s := range segs {
				if a >= s.Start && a < s.End {
					r.img.SetRGBA(x, y, px)
					break
				}
			}
		}
	}
	r.markDirty(box)
}

func (r *Raster) DrawThickLine(p0, p1 graphics.Offset, c graphics.Color, thickness float64) {
	half := thickness / 2
	if half <= 0 {
		return
	}
	px := toRGBA(c)
	box := image.Rect(
		int(math.Floor(math.Min(p0.X, p1.X)-half)),
		int(math.Floor(math.Min(p0.Y, p1.Y)-half)),
		int(math.Ceil(math.Max(p0.X, p1.X)+half)),
		int(math.Ceil(math.Max(p0.Y, p1.Y)+half)),
	).Intersect(r.img.Bounds())

	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	lenSq := dx*dx + dy*dy
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			cx, cy := float64(x)+0.5, float64(y)+0.5
			if lenSq == 0 {
				if math.Hypot(cx-p0.X, cy-p0.Y) <= half {
					r.img.SetRGBA(x, y, px)
				}
				continue
			}
			t := ((cx-p0.X)*dx + (cy-p0.Y)*dy) / lenSq
			if t < 0 || t > 1 {
				continue
			}
			// Perpendicular distance to the segment's line.
			if math.Abs((cx-p0.X)*dy-(cy-p0.Y)*dx)/math.Sqrt(lenSq) <= half {
				r.img.SetRGBA(x, y, px)
			}
		}
	}
	r.markDirty(box)
}

func (r *Raster) DrawFilledCircle(center graphics.Offset, radius float64, c graphics.Color) {
	if radius <= 0 {
		return
	}
	px := toRGBA(c)
	box := r.circleBounds(center, radius)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			if math.Hypot(float64(x)+0.5-center.X, float64(y)+0.5-center.Y) <= radius {
				r.img.SetRGBA(x, y, px)
			}
		}
	}
	r.markDirty(box)
}

// DrawCenteredText renders text in the 7x13 bitmap face, scaled up by size
// with nearest-neighbour sampling so glyph edges stay crisp.
func (r *Raster) DrawCenteredText(text string, size int, fg, bg graphics.Color) {
	if size < 1 {
		size = 1
	}
	metrics := r.face.Metrics()
	w := font.MeasureString(r.face, text).Ceil() + 2*textPadding
	h := (metrics.Ascent + metrics.Descent).Ceil() + 2*textPadding

	glyphs := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(glyphs, glyphs.Bounds(), image.NewUniform(bg), image.Point{}, xdraw.Src)
	d := font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(fg),
		Face: r.face,
		Dot:  fixed.P(textPadding, textPadding+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	bw, bh := r.Size()
	sw, sh := w*size, h*size
	dst := image.Rect((bw-sw)/2, (bh-sh)/2, (bw-sw)/2+sw, (bh-sh)/2+sh)
	xdraw.NearestNeighbor.Scale(r.img, dst, glyphs, glyphs.Bounds(), xdraw.Src, nil)
	r.markDirty(dst.Intersect(r.img.Bounds()))
}

// Flush is a no-op: pixels are committed as they are drawn.
func (r *Raster) Flush() {}

func (r *Raster) circleBounds(center graphics.Offset, radius float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(center.X-radius)),
		int(math.Floor(center.Y-radius)),
		int(math.Ceil(center.X+radius))+1,
		int(math.Ceil(center.Y+radius))+1,
	).Intersect(r.img.Bounds())
}

func (r *Raster) markDirty(rect image.Rectangle) {
	if rect.Empty() {
		return
	}
	r.dirty = r.dirty.Union(rect)
}

func toRGBA(c graphics.Color) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}
