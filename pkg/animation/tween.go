package animation

import (
	"math"

	"github.com/go-drift/dialtimer/pkg/graphics"
)

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor linearly interpolates between two Color values, channel by channel.
func LerpColor(a, b graphics.Color, t float64) graphics.Color {
	t = clampUnit(t)
	return graphics.RGBA8(
		lerpByte(a.R(), b.R(), t),
		lerpByte(a.G(), b.G(), t),
		lerpByte(a.B(), b.B(), t),
		lerpByte(a.A(), b.A(), t),
	)
}

func lerpByte(a, b uint8, t float64) uint8 {
	return uint8(math.Round(LerpFloat64(float64(a), float64(b), t)))
}

// Quantize snaps v in [0, 1] to the nearest of steps+1 evenly spaced levels.
// Renderers use it to collapse sub-visible brightness changes into one draw.
func Quantize(v float64, steps int) float64 {
	if steps <= 0 {
		return clampUnit(v)
	}
	return math.Round(clampUnit(v)*float64(steps)) / float64(steps)
}
