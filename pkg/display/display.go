// Package display defines the drawing surface the dial renderer paints on,
// plus two implementations: a [Recorder] that captures operations for
// inspection and replay, and a [Raster] software framebuffer.
//
// The core never touches pixels directly. A hardware port implements
// [Display] on top of its panel driver; everything above this package stays
// the same.
package display

import "github.com/go-drift/dialtimer/pkg/graphics"

// Display is the set of primitives the dial needs from a panel.
// Calls are synchronous: each returns after the pixels are committed.
type Display interface {
	// Size returns the panel size in pixels.
	Size() (width, height int)

	// FillScreen paints every pixel with c.
	FillScreen(c graphics.Color)

	// FillSector paints the pie slice of the given radius covering span.
	FillSector(center graphics.Offset, radius float64, span graphics.AngleRange, c graphics.Color)

	// FillArcBand paints the ring segment between inner and outer radius
	// covering span.
	FillArcBand(center graphics.Offset, inner, outer float64, span graphics.AngleRange, c graphics.Color)

	// DrawThickLine paints a stroke from p0 to p1 with butt ends.
	DrawThickLine(p0, p1 graphics.Offset, c graphics.Color, thickness float64)

	// DrawFilledCircle paints a disc.
	DrawFilledCircle(center graphics.Offset, radius float64, c graphics.Color)

	// DrawCenteredText paints text centered on the panel at the given scale,
	// over a box of bg.
	DrawCenteredText(text string, size int, fg, bg graphics.Color)
}

// Flusher is implemented by displays that batch pixels until the end of a
// frame. The controller calls Flush once per tick.
type Flusher interface {
	Flush()
}
