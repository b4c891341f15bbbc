package dial

import (
	"math"

	"github.com/go-drift/dialtimer/pkg/graphics"
)

// Text boxes are sized for two glyphs of a 7x13 bitmap face plus padding,
// at scale 1. Minute values never exceed two digits.
const (
	textBoxWidth  = 18.0
	textBoxHeight = 17.0
	maxTextSize   = 4
)

// Layout holds the dial geometry in panel pixels.
//
// From the center outwards: the hub where text is drawn, the pointer stroke,
// the rim shadow at the wedge edge, and outside the face the track the blink
// indicator travels on. The regions do not overlap, which lets each one be
// repainted without disturbing the others.
type Layout struct {
	Center       graphics.Offset
	Radius       float64
	RimWidth     float64
	HubRadius    float64
	PointerInner float64
	PointerOuter float64
	PointerWidth float64
	BlinkRadius  float64
	BlinkDot     float64
	TextSize     int
}

// LayoutFor fits a dial into a width x height panel.
func LayoutFor(width, height int) Layout {
	half := math.Min(float64(width), float64(height)) / 2
	dot := math.Max(1.5, half*0.035)
	blinkR := half - dot - 1.5
	radius := blinkR - dot - 2
	rim := math.Max(1, radius*0.04)
	pointerWidth := math.Max(1.5, radius*0.03)

	hub := radius * 0.5
	size := int(hub / textHalfDiagonal(1))
	if size < 1 {
		size = 1
	}
	if size > maxTextSize {
		size = maxTextSize
	}
	hub = math.Max(hub, textHalfDiagonal(size)+1)

	return Layout{
		Center:       graphics.Offset{X: float64(width) / 2, Y: float64(height) / 2},
		Radius:       radius,
		RimWidth:     rim,
		HubRadius:    hub,
		PointerInner: math.Max(radius*0.6, hub+pointerWidth+2),
		PointerOuter: radius - rim - 2,
		PointerWidth: pointerWidth,
		BlinkRadius:  blinkR,
		BlinkDot:     dot,
		TextSize:     size,
	}
}

// Valid reports whether the regions are ordered and non-empty.
func (l Layout) Valid() bool {
	return l.Radius > 0 &&
		l.HubRadius < l.PointerInner-l.PointerWidth &&
		l.PointerInner < l.PointerOuter &&
		l.PointerOuter+eraseMargin <= l.Radius-l.RimWidth &&
		l.BlinkRadius-l.BlinkDot-1 > l.Radius
}

func textHalfDiagonal(size int) float64 {
	return math.Hypot(textBoxWidth*float64(size), textBoxHeight*float64(size)) / 2
}
