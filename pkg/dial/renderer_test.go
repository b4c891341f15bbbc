package dial

import (
	"bytes"
	"math"
	"testing"

	"github.com/go-drift/dialtimer/pkg/clock"
	"github.com/go-drift/dialtimer/pkg/display"
	"github.com/go-drift/dialtimer/pkg/graphics"
)

const (
	panel     = 120
	fullScale = clock.Millis(60 * 60 * 1000)
)

func frame(fraction float64) Frame {
	return Frame{Fraction: fraction, FullScale: fullScale, Tint: DefaultPalette.Running}
}

func newRecorded() (*Renderer, *display.Recorder) {
	rec := display.NewRecorder(panel, panel)
	return NewRenderer(rec, LayoutFor(panel, panel), DefaultPalette), rec
}

func TestLayoutFor(t *testing.T) {
	tests := []struct {
		size  int
		valid bool
	}{
		{120, true},
		{240, true},
		{480, true},
		{32, false},
	}
	for _, tt := range tests {
		l := LayoutFor(tt.size, tt.size)
		if got := l.Valid(); got != tt.valid {
			t.Errorf("LayoutFor(%d).Valid() = %v, want %v (%+v)", tt.size, got, tt.valid, l)
		}
	}

	l := LayoutFor(240, 240)
	if l.Center != (graphics.Offset{X: 120, Y: 120}) {
		t.Errorf("Center = %+v", l.Center)
	}
	if l.TextSize < 1 || l.TextSize > maxTextSize {
		t.Errorf("TextSize = %d", l.TextSize)
	}
	if textHalfDiagonal(l.TextSize) >= l.HubRadius {
		t.Errorf("text box does not fit the hub: %v >= %v", textHalfDiagonal(l.TextSize), l.HubRadius)
	}
}

// paint renders frames in order on a fresh raster.
func paint(frames []Frame) *display.Raster {
	raster := display.NewRaster(panel, panel)
	r := NewRenderer(raster, LayoutFor(panel, panel), DefaultPalette)
	for _, f := range frames {
		r.Render(f)
	}
	return raster
}

func TestIncrementalMatchesFullRepaint(t *testing.T) {
	paused := DefaultPalette.Paused
	withTint := func(f Frame, c graphics.Color) Frame { f.Tint = c; return f }
	withText := func(f Frame, s string) Frame { f.Text = s; return f }
	withBlink := func(f Frame, b float64) Frame { f.Blink = b; return f }

	tests := []struct {
		name   string
		frames []Frame
	}{
		{"shrinking", []Frame{frame(0.5), frame(0.45), frame(0.3), frame(0.299), frame(0.1)}},
		{"growing", []Frame{frame(0), frame(0.05), frame(0.5), frame(0.75), frame(1)}},
		{"mixed", []Frame{frame(0.5), frame(0.9), frame(0.2), frame(0.6), frame(0.4)}},
		{"to empty", []Frame{frame(0.25), frame(0.01), frame(0)}},
		{"from full", []Frame{frame(1), frame(0.999), frame(0.875)}},
		{"fine steps", fineSteps(0.5, 0.45, 200)},
		{"tint change", []Frame{frame(0.5), withTint(frame(0.4), paused), withTint(frame(0.35), paused), frame(0.3)}},
		{"blink moves", []Frame{
			withBlink(frame(0.5), 1),
			withBlink(frame(0.4), 0.5),
			withBlink(frame(0.3), 0),
			withBlink(frame(0.2), 1),
		}},
		{"text changes", []Frame{
			withText(frame(0.5), "30"),
			withText(frame(0.45), "5"),
			withText(frame(0.6), ""),
			withText(frame(0.7), "45"),
			withText(frame(0.65), "45"),
		}},
		{"text removed", []Frame{withText(frame(0.5), "30"), frame(0.25)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			incremental := paint(tt.frames)
			full := paint(tt.frames[len(tt.frames)-1:])
			if !bytes.Equal(incremental.Image().Pix, full.Image().Pix) {
				t.Errorf("incremental repaint differs from a single full repaint in %d pixels",
					diffPixels(incremental, full))
			}
		})
	}
}

func fineSteps(from, to float64, n int) []Frame {
	frames := make([]Frame, 0, n+1)
	for i := 0; i <= n; i++ {
		frames = append(frames, frame(from+(to-from)*float64(i)/float64(n)))
	}
	return frames
}

func diffPixels(a, b *display.Raster) int {
	n := 0
	w, h := a.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if a.At(x, y) != b.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestFirstRenderClearsScreen(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))

	ops := rec.Ops()
	if len(ops) != 4 {
		t.Fatalf("ops = %v, want clear, wedge, shadow, pointer", ops)
	}
	want := []display.OpKind{display.OpFillScreen, display.OpFillSector, display.OpFillArcBand, display.OpThickLine}
	for i, k := range want {
		if ops[i].Kind != k {
			t.Errorf("op %d = %s, want %s", i, ops[i].Kind, k)
		}
	}
	if ops[1].Span != (graphics.AngleRange{Start: 0, End: 180}) {
		t.Errorf("wedge span = %+v, want [0,180)", ops[1].Span)
	}
	if got := r.Stats().FullRepaints; got != 1 {
		t.Errorf("FullRepaints = %d, want 1", got)
	}
	c := r.Cache()
	if !c.WedgeValid || !c.PointerValid || c.WedgeEndDeg != 180 || c.PointerAngleDeg != 180 {
		t.Errorf("cache = %+v", c)
	}
}

func TestShrinkRepaintsVacatedBand(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))
	rec.Reset()

	f := 0.4
	end := f * graphics.FullTurn
	r.Render(frame(f))
	ops := rec.Ops()
	if rec.Count(display.OpFillScreen) != 0 {
		t.Fatal("a shrinking wedge must not clear the screen")
	}
	first := ops[0]
	if first.Kind != display.OpFillSector || first.Span != (graphics.AngleRange{Start: end, End: 180}) ||
		first.Color != DefaultPalette.Background {
		t.Errorf("first op = %s, want background sector over the vacated band", first)
	}
	// Vacated band plus the pointer erase band.
	if swept := rec.SweptDegrees(); swept > 36+2*r.pointerHalfSpan()+1e-9 {
		t.Errorf("SweptDegrees() = %v, want no more than the delta and the pointer", swept)
	}
	if c := r.Cache(); c.PrevWedgeEndDeg != 180 || c.WedgeEndDeg != end {
		t.Errorf("cache ends = %v -> %v", c.PrevWedgeEndDeg, c.WedgeEndDeg)
	}
	if got := r.Stats().DeltaRepaints; got != 1 {
		t.Errorf("DeltaRepaints = %d, want 1", got)
	}
}

func TestGrowPaintsWedgeAndShadow(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.4))
	rec.Reset()

	r.Render(frame(0.5))
	ops := rec.Ops()
	f := 0.4
	start := f * graphics.FullTurn
	span := graphics.AngleRange{Start: start, End: 180}
	if ops[0].Kind != display.OpFillSector || ops[0].Span != span || ops[0].Color != DefaultPalette.Running {
		t.Errorf("op 0 = %s, want wedge over the new band", ops[0])
	}
	if ops[1].Kind != display.OpFillArcBand || ops[1].Span != span ||
		ops[1].Color != DefaultPalette.Running.Scale(shadowScale) {
		t.Errorf("op 1 = %s, want shadow over the new band", ops[1])
	}
	// The old pointer now lies inside the wedge and is erased with its color.
	for _, op := range ops[2:] {
		if op.Kind == display.OpFillArcBand && op.Color != DefaultPalette.Running {
			t.Errorf("pointer erase %s, want wedge color", op)
		}
	}
}

func TestPointerEraseSplitsAtCurrentEnd(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))
	rec.Reset()

	f := 0.4997
	end := f * graphics.FullTurn
	r.Render(frame(f))

	var bands []display.Op
	for _, op := range rec.Ops() {
		if op.Kind == display.OpFillArcBand {
			bands = append(bands, op)
		}
	}
	if len(bands) != 2 {
		t.Fatalf("erase bands = %v, want one inside and one outside the wedge", bands)
	}
	half := r.pointerHalfSpan()
	if bands[0].Color != DefaultPalette.Running || bands[0].Span.Start != 180-half || bands[0].Span.End != end {
		t.Errorf("inside band = %s", bands[0])
	}
	if bands[1].Color != DefaultPalette.Background || bands[1].Span.Start != end || bands[1].Span.End != 180+half {
		t.Errorf("outside band = %s", bands[1])
	}
	l := r.Layout()
	if bands[0].Inner <= l.HubRadius || bands[0].Radius > l.Radius-l.RimWidth {
		t.Errorf("erase band %v..%v leaves the pointer region", bands[0].Inner, bands[0].Radius)
	}
}

func TestTintChangeRepaintsWholeWedge(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))
	rec.Reset()

	f := frame(0.5)
	f.Tint = DefaultPalette.Paused
	r.Render(f)

	ops := rec.Ops()
	if ops[0].Kind != display.OpFillSector || !ops[0].Span.IsFull() || ops[0].Color != DefaultPalette.Background {
		t.Errorf("op 0 = %s, want full background sector", ops[0])
	}
	if ops[1].Color != DefaultPalette.Paused {
		t.Errorf("op 1 = %s, want paused wedge", ops[1])
	}
	if rec.Count(display.OpFillScreen) != 0 {
		t.Error("tint change should repaint the face only")
	}
	if got := r.Stats().FullRepaints; got != 2 {
		t.Errorf("FullRepaints = %d, want 2", got)
	}
}

func TestUnchangedFrameOnlyRedrawsPointer(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))
	rec.Reset()

	r.Render(frame(0.5 + 1e-7))
	ops := rec.Ops()
	if len(ops) != 1 || ops[0].Kind != display.OpThickLine {
		t.Errorf("ops = %v, want a single pointer stroke", ops)
	}
	if got := r.Stats().Unchanged; got != 1 {
		t.Errorf("Unchanged = %d, want 1", got)
	}
}

func TestZeroFullScaleDrawsNothing(t *testing.T) {
	r, rec := newRecorded()
	f := frame(0.5)
	f.FullScale = 0
	r.Render(f)
	if rec.Len() != 0 {
		t.Errorf("ops = %v, want none", rec.Ops())
	}
}

func TestInvalidateForcesClear(t *testing.T) {
	r, rec := newRecorded()
	r.Render(frame(0.5))
	r.Invalidate()
	if c := r.Cache(); c.WedgeValid || c.PointerValid || c.BlinkVisible || c.TextValid {
		t.Errorf("cache after Invalidate = %+v", c)
	}
	rec.Reset()
	r.Render(frame(0.5))
	if rec.Count(display.OpFillScreen) != 1 {
		t.Errorf("ops = %v, want a screen clear", rec.Ops())
	}
}

func TestBlinkSuppressesJitter(t *testing.T) {
	r, rec := newRecorded()
	f := frame(0.5)
	f.Blink = 1
	r.Render(f)
	if rec.Count(display.OpFilledCircle) != 1 {
		t.Fatalf("ops = %v, want the blink dot", rec.Ops())
	}

	// 0.036 degrees: enough to move the wedge, not the dot.
	rec.Reset()
	f.Fraction = 0.5001
	r.Render(f)
	if n := rec.Count(display.OpFilledCircle); n != 0 {
		t.Errorf("blink redrawn %d times for sub-epsilon movement", n)
	}

	rec.Reset()
	f.Fraction = 0.51
	r.Render(f)
	if n := rec.Count(display.OpFilledCircle); n != 2 {
		t.Errorf("blink circles = %d, want erase and redraw", n)
	}

	rec.Reset()
	f.Blink = 0
	r.Render(f)
	ops := rec.Ops()
	if n := rec.Count(display.OpFilledCircle); n != 1 {
		t.Fatalf("blink circles = %d, want a single erase", n)
	}
	for _, op := range ops {
		if op.Kind == display.OpFilledCircle && op.Color != DefaultPalette.Background {
			t.Errorf("erase = %s, want background", op)
		}
	}
	if r.Cache().BlinkVisible {
		t.Error("BlinkVisible should be false")
	}
}

func TestBlinkFadeIsQuantized(t *testing.T) {
	r, rec := newRecorded()
	f := frame(0.5)
	draws := 0
	for i := 0; i <= 100; i++ {
		f.Blink = float64(i) / 100
		rec.Reset()
		r.Render(f)
		draws += rec.Count(display.OpFilledCircle)
	}
	// One draw per level plus an erase before each level after the first.
	if want := 2*blinkLevels - 1; draws != want {
		t.Errorf("circle ops over a fade = %d, want %d", draws, want)
	}
}

func TestBlinkDotOutsideFace(t *testing.T) {
	r, rec := newRecorded()
	f := frame(0.3)
	f.Blink = 1
	r.Render(f)
	l := r.Layout()
	for _, op := range rec.Ops() {
		if op.Kind != display.OpFilledCircle {
			continue
		}
		d := l.Center.Distance(op.Center)
		if d-op.Radius <= l.Radius {
			t.Errorf("blink dot at distance %v radius %v overlaps the face (R=%v)", d, op.Radius, l.Radius)
		}
		if math.Abs(graphics.AngleOf(l.Center, op.Center)-0.3*graphics.FullTurn) > 1e-6 {
			t.Errorf("blink dot angle = %v", graphics.AngleOf(l.Center, op.Center))
		}
	}
}

func TestTextRedrawnOnlyWhenNeeded(t *testing.T) {
	r, rec := newRecorded()
	f := frame(0.5)
	f.Text = "30"
	r.Render(f)
	if rec.Count(display.OpCenteredText) != 1 {
		t.Fatalf("ops = %v, want text", rec.Ops())
	}

	rec.Reset()
	r.Render(f)
	if rec.Count(display.OpCenteredText) != 0 {
		t.Error("unchanged text over an unchanged wedge should not be redrawn")
	}

	// A wedge delta may cross the hub.
	rec.Reset()
	f.Fraction = 0.45
	r.Render(f)
	if rec.Count(display.OpCenteredText) != 1 {
		t.Error("text should be redrawn after the wedge changed")
	}

	// New text restores the hub first.
	rec.Reset()
	f.Text = "5"
	r.Render(f)
	ops := rec.Ops()
	hub := 0
	for _, op := range ops {
		if op.Kind == display.OpFillSector && op.Radius == r.Layout().HubRadius {
			hub++
		}
	}
	if hub != 2 {
		t.Errorf("hub restore sectors = %d, want 2 (%v)", hub, ops)
	}
	if last := ops[len(ops)-1]; last.Kind != display.OpCenteredText || last.Text != "5" {
		t.Errorf("last op = %s, want the new text", last)
	}
}
