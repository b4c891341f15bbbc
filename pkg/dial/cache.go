// Package dial renders the countdown dial: a wedge from twelve o'clock
// covering the remaining time, a pointer at the wedge end, a blinking tip
// indicator outside the face and an optional text overlay on the hub.
//
// The renderer remembers what it last painted in a [Cache] and emits only
// the sectors that changed. Any doubt about the panel contents is resolved
// by [Renderer.Invalidate], which forces a full repaint on the next frame.
package dial

import "github.com/go-drift/dialtimer/pkg/graphics"

// Cache is the last painted state of the dial. Fields are only meaningful
// while their Valid flag is set.
type Cache struct {
	WedgeValid      bool
	WedgeEndDeg     float64
	PrevWedgeEndDeg float64
	WedgeColor      graphics.Color

	PointerValid    bool
	PointerAngleDeg float64

	BlinkVisible  bool
	BlinkAngleDeg float64
	BlinkX        float64
	BlinkY        float64
	BlinkColor    graphics.Color

	TextValid bool
	Text      string
}

func (c *Cache) invalidate() {
	*c = Cache{}
}
