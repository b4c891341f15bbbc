package display

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/go-drift/dialtimer/pkg/graphics"
)

var (
	bg   = graphics.RGB(10, 10, 10)
	red  = graphics.RGB(220, 40, 30)
	blue = graphics.RGB(20, 40, 220)
)

func center() graphics.Offset { return graphics.Offset{X: 32, Y: 32} }

func TestRasterSectorQuadrants(t *testing.T) {
	r := NewRaster(64, 64)
	r.FillScreen(bg)
	r.FillSector(center(), 30, graphics.AngleRange{Start: 0, End: 90}, red)

	// Upper right quadrant is between twelve and three o'clock.
	if got := r.At(42, 22); got != red {
		t.Errorf("upper-right pixel = %s, want red", got.Hex())
	}
	for _, p := range [][2]int{{22, 22}, {22, 42}, {42, 42}} {
		if got := r.At(p[0], p[1]); got != bg {
			t.Errorf("pixel %v = %s, want background", p, got.Hex())
		}
	}
	// Outside the radius stays untouched.
	if got := r.At(63, 0); got != bg {
		t.Errorf("corner = %s, want background", got.Hex())
	}
}

func TestRasterAdjacentRangesTile(t *testing.T) {
	split := NewRaster(64, 64)
	split.FillScreen(bg)
	split.FillSector(center(), 30, graphics.AngleRange{Start: 0, End: 137.5}, red)
	split.FillSector(center(), 30, graphics.AngleRange{Start: 137.5, End: 300}, red)

	whole := NewRaster(64, 64)
	whole.FillScreen(bg)
	whole.FillSector(center(), 30, graphics.AngleRange{Start: 0, End: 300}, red)

	if !bytes.Equal(split.Image().Pix, whole.Image().Pix) {
		t.Error("two adjacent sectors should paint exactly the pixels of their union")
	}
}

func TestRasterArcBandLeavesInterior(t *testing.T) {
	r := NewRaster(64, 64)
	r.FillScreen(bg)
	r.FillArcBand(center(), 20, 30, graphics.AngleRange{Start: 0, End: 360}, blue)

	if got := r.At(32, 32); got != bg {
		t.Errorf("center = %s, want background", got.Hex())
	}
	if got := r.At(32, 6); got != blue {
		t.Errorf("ring pixel = %s, want blue", got.Hex())
	}
}

func TestRasterThickLine(t *testing.T) {
	r := NewRaster(64, 64)
	r.FillScreen(bg)
	r.DrawThickLine(graphics.Offset{X: 10, Y: 32}, graphics.Offset{X: 50, Y: 32}, red, 4)

	if got := r.At(30, 31); got != red {
		t.Errorf("on-line pixel = %s, want red", got.Hex())
	}
	if got := r.At(30, 36); got != bg {
		t.Errorf("off-line pixel = %s, want background", got.Hex())
	}
	// Butt ends: nothing before the start point.
	if got := r.At(8, 32); got != bg {
		t.Errorf("pixel before start = %s, want background", got.Hex())
	}
}

func TestRasterCircleAndText(t *testing.T) {
	r := NewRaster(64, 64)
	r.FillScreen(bg)
	r.DrawFilledCircle(graphics.Offset{X: 10, Y: 10}, 3, blue)
	if got := r.At(10, 10); got != blue {
		t.Errorf("circle center = %s, want blue", got.Hex())
	}

	r.DrawCenteredText("30", 2, graphics.ColorWhite, red)
	white := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if r.At(x, y) == graphics.ColorWhite {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("expected glyph pixels after DrawCenteredText")
	}
	if got := r.At(32, 32); got != red && got != graphics.ColorWhite {
		t.Errorf("text box center = %s, want text or its background", got.Hex())
	}
}

func TestRasterDirtyTracking(t *testing.T) {
	r := NewRaster(64, 64)
	r.TakeDirty()
	r.DrawFilledCircle(graphics.Offset{X: 10, Y: 10}, 2, red)
	d := r.TakeDirty()
	if d.Empty() || d.Max.X > 14 || d.Max.Y > 14 {
		t.Errorf("dirty rect = %v, want a small box around the circle", d)
	}
	if !r.TakeDirty().Empty() {
		t.Error("TakeDirty should clear the region")
	}
}

func TestRasterWritePNG(t *testing.T) {
	r := NewRaster(8, 8)
	r.FillScreen(red)
	var buf bytes.Buffer
	if err := r.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Errorf("width = %d, want 8", img.Bounds().Dx())
	}
}

func TestRecorderReplayMatchesDirect(t *testing.T) {
	rec := NewRecorder(64, 64)
	rec.FillScreen(bg)
	rec.FillSector(center(), 30, graphics.AngleRange{Start: 0, End: 200}, red)
	rec.FillArcBand(center(), 27, 30, graphics.AngleRange{Start: 0, End: 200}, blue)
	rec.DrawThickLine(center(), graphics.Offset{X: 32, Y: 5}, graphics.ColorWhite, 3)
	rec.DrawFilledCircle(graphics.Offset{X: 60, Y: 60}, 2, red)
	rec.DrawCenteredText("5", 1, graphics.ColorWhite, bg)

	replayed := NewRaster(64, 64)
	rec.Replay(replayed)

	direct := NewRaster(64, 64)
	for _, op := range rec.Ops() {
		op.Apply(direct)
	}
	if !bytes.Equal(replayed.Image().Pix, direct.Image().Pix) {
		t.Error("replay should match direct application")
	}
	if rec.Len() != 6 {
		t.Errorf("Len() = %d, want 6", rec.Len())
	}
	if rec.Count(OpFillSector) != 1 || rec.Count(OpCenteredText) != 1 {
		t.Errorf("unexpected op counts: %v", rec.Ops())
	}
	if got := rec.SweptDegrees(); got != 400 {
		t.Errorf("SweptDegrees() = %v, want 400", got)
	}
}

func TestRecorderForwards(t *testing.T) {
	r := NewRaster(16, 16)
	rec := Wrap(r)
	if w, h := rec.Size(); w != 16 || h != 16 {
		t.Errorf("Size() = %d,%d", w, h)
	}
	rec.FillScreen(red)
	rec.Flush()
	if got := r.At(3, 3); got != red {
		t.Errorf("forwarded pixel = %s, want red", got.Hex())
	}
	rec.Reset()
	if rec.Len() != 0 {
		t.Error("Reset should drop ops")
	}
}

func TestOpString(t *testing.T) {
	op := Op{Kind: OpFillSector, Radius: 10, Span: graphics.AngleRange{Start: 0, End: 90}, Color: red}
	want := "fillSector r=10.00 [0.00,90.00) #DC281E"
	if got := op.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
