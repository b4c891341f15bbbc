package dial

import (
	"math"

	"github.com/go-drift/dialtimer/pkg/animation"
	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/graphics"
)

const (
	// wedgeEpsilon is the smallest end-angle change, in degrees, that is
	// worth a repaint.
	wedgeEpsilon = 1e-3

	// blinkEpsilon suppresses blink redraws caused by floating point noise
	// in the tip angle.
	blinkEpsilon = 0.05

	// eraseMargin widens the pointer erase band beyond the stroke so
	// antialiasing-free edge pixels are always covered.
	eraseMargin = 1.5

	// blinkLevels quantizes blink brightness so a fade emits a bounded
	// number of redraws.
	blinkLevels = 8

	// shadowScale darkens the wedge color for the rim shadow.
	shadowScale = 0.6
)

// Palette holds the dial colors.
type Palette struct {
	Background graphics.Color
	Running    graphics.Color
	Paused     graphics.Color
	Pointer    graphics.Color
	Blink      graphics.Color
	Text       graphics.Color
}

// DefaultPalette is a red wedge on a dark face.
var DefaultPalette = Palette{
	Background: graphics.RGB(16, 16, 20),
	Running:    graphics.RGB(214, 48, 49),
	Paused:     graphics.RGB(225, 112, 85),
	Pointer:    graphics.RGB(245, 246, 250),
	Blink:      graphics.RGB(255, 234, 167),
	Text:       graphics.RGB(245, 246, 250),
}

// Frame describes what the dial should show.
type Frame struct {
	// Fraction is the remaining share of FullScale, clamped to [0, 1].
	Fraction float64
	// FullScale is the duration of a full turn. Zero draws nothing.
	FullScale clock.Millis
	// Tint is the wedge color.
	Tint graphics.Color
	// Blink is the tip indicator brightness; 0 hides it.
	Blink float64
	// Text is overlaid on the hub when non-empty.
	Text string
}

// Stats counts repaint decisions.
type Stats struct {
	FullRepaints  int
	DeltaRepaints int
	Unchanged     int
}

// Renderer paints frames onto a display, emitting only the operations
// needed to move from the previously painted frame to the new one.
type Renderer struct {
	display    display.Display
	layout     Layout
	palette    Palette
	cache      Cache
	needsClear bool
	stats      Stats
}

// NewRenderer returns a renderer for d. The first Render clears the screen.
func NewRenderer(d display.Display, layout Layout, palette Palette) *Renderer {
	return &Renderer{
		display:    d,
		layout:     layout,
		palette:    palette,
		needsClear: true,
	}
}

// Layout returns the dial geometry.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Palette returns the dial colors.
func (r *Renderer) Palette() Palette {
	return r.palette
}

// Cache returns a copy of the render cache.
func (r *Renderer) Cache() Cache {
	return r.cache
}

// Stats returns repaint counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Invalidate forces the next Render to clear the screen and repaint
// everything.
func (r *Renderer) Invalidate() {
	r.needsClear = true
	r.cache.invalidate()
}

// Clear blanks the panel to the background. The next Render repaints the
// whole dial without clearing again.
func (r *Renderer) Clear() {
	r.display.FillScreen(r.palette.Background)
	r.needsClear = false
	r.cache.invalidate()
}

// Render paints f.
func (r *Renderer) Render(f Frame) {
	if f.FullScale == 0 {
		return
	}
	end := clampUnit(f.Fraction) * graphics.FullTurn

	touched := r.paintWedge(end, f.Tint)
	r.paintPointer()
	r.paintBlink(f.Blink)
	r.paintText(f.Text, touched)
}

// paintWedge brings the wedge to end and reports whether any pixel inside
// the face changed.
func (r *Renderer) paintWedge(end float64, tint graphics.Color) bool {
	l := r.layout
	c := &r.cache

	if r.needsClear {
		r.display.FillScreen(r.palette.Background)
		r.needsClear = false
		c.invalidate()
	}

	if !c.WedgeValid || c.WedgeColor != tint {
		if c.WedgeValid {
			r.display.FillSector(l.Center, l.Radius, fullTurn(), r.palette.Background)
		}
		r.fillWedge(graphics.AngleRange{Start: 0, End: end}, tint)
		c.PrevWedgeEndDeg = end
		c.WedgeEndDeg = end
		c.WedgeColor = tint
		c.WedgeValid = true
		// The pointer and hub were painted over.
		c.PointerValid = false
		c.TextValid = false
		r.stats.FullRepaints++
		return true
	}

	old := c.WedgeEndDeg
	switch {
	case end < old-wedgeEpsilon:
		r.display.FillSector(l.Center, l.Radius, graphics.AngleRange{Start: end, End: old}, r.palette.Background)
	case end > old+wedgeEpsilon:
		r.fillWedge(graphics.AngleRange{Start: old, End: end}, tint)
	default:
		r.stats.Unchanged++
		return false
	}
	c.PrevWedgeEndDeg = old
	c.WedgeEndDeg = end
	r.stats.DeltaRepaints++
	return true
}

func (r *Renderer) fillWedge(span graphics.AngleRange, tint graphics.Color) {
	if span.IsEmpty() {
		return
	}
	l := r.layout
	r.display.FillSector(l.Center, l.Radius, span, tint)
	r.display.FillArcBand(l.Center, l.Radius-l.RimWidth, l.Radius, span, tint.Scale(shadowScale))
}

// paintPointer erases the hand at its previous angle and draws it at the
// wedge end. Erased pixels take the color of the side of the current wedge
// end they fall on.
func (r *Renderer) paintPointer() {
	l := r.layout
	c := &r.cache
	angle := c.WedgeEndDeg

	if c.PointerValid && math.Abs(c.PointerAngleDeg-angle) > wedgeEpsilon {
		half := r.pointerHalfSpan()
		span := graphics.AngleRange{Start: c.PointerAngleDeg - half, End: c.PointerAngleDeg + half}
		inside, outside := span.SplitAt(c.WedgeEndDeg)
		inner := l.PointerInner - eraseMargin
		outer := l.PointerOuter + eraseMargin
		for _, s := range inside {
			r.display.FillArcBand(l.Center, inner, outer, s, c.WedgeColor)
		}
		for _, s := range outside {
			r.display.FillArcBand(l.Center, inner, outer, s, r.palette.Background)
		}
	}

	p0 := graphics.Polar(l.Center, l.PointerInner, angle)
	p1 := graphics.Polar(l.Center, l.PointerOuter, angle)
	r.display.DrawThickLine(p0, p1, r.palette.Pointer, l.PointerWidth)
	c.PointerValid = true
	c.PointerAngleDeg = angle
}

// pointerHalfSpan is the angular half width of the pointer erase band at
// its innermost radius, where the stroke subtends the widest angle.
func (r *Renderer) pointerHalfSpan() float64 {
	l := r.layout
	return math.Atan2(l.PointerWidth/2+eraseMargin, l.PointerInner-eraseMargin) * 180 / math.Pi
}

// paintBlink moves or fades the tip indicator. It is only redrawn when its
// visibility, brightness or angle changes.
func (r *Renderer) paintBlink(level float64) {
	l := r.layout
	c := &r.cache

	level = animation.Quantize(clampUnit(level), blinkLevels)
	visible := level > 0
	color := animation.LerpColor(r.palette.Background, r.palette.Blink, level)
	angle := c.WedgeEndDeg

	if visible == c.BlinkVisible &&
		(!visible || (color == c.BlinkColor && math.Abs(angle-c.BlinkAngleDeg) <= blinkEpsilon)) {
		return
	}

	if c.BlinkVisible {
		r.display.DrawFilledCircle(graphics.Offset{X: c.BlinkX, Y: c.BlinkY}, l.BlinkDot+1, r.palette.Background)
	}
	c.BlinkVisible = visible
	if !visible {
		return
	}
	p := graphics.Polar(l.Center, l.BlinkRadius, angle)
	r.display.DrawFilledCircle(p, l.BlinkDot, color)
	c.BlinkAngleDeg = angle
	c.BlinkX, c.BlinkY = p.X, p.Y
	c.BlinkColor = color
}

// paintText keeps the hub overlay in sync. The hub is restored from the
// wedge state before text changes so a shorter string leaves no residue.
func (r *Renderer) paintText(text string, wedgeTouched bool) {
	c := &r.cache
	if c.TextValid && text == c.Text && !wedgeTouched {
		return
	}
	if c.TextValid && c.Text != "" && text != c.Text {
		r.restoreHub()
	}
	if text != "" {
		r.display.DrawCenteredText(text, r.layout.TextSize, r.palette.Text, r.palette.Background)
	}
	c.Text = text
	c.TextValid = true
}

func (r *Renderer) restoreHub() {
	l := r.layout
	c := &r.cache
	inside, outside := fullTurn().SplitAt(c.WedgeEndDeg)
	for _, s := range inside {
		r.display.FillSector(l.Center, l.HubRadius, s, c.WedgeColor)
	}
	for _, s := range outside {
		r.display.FillSector(l.Center, l.HubRadius, s, r.palette.Background)
	}
}

func fullTurn() graphics.AngleRange {
	return graphics.AngleRange{Start: 0, End: graphics.FullTurn}
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
