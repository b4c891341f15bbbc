package display

import (
	"fmt"
	"math"

	"github.com/go-drift/dialtimer/pkg/graphics"
)

// OpKind names a recorded drawing operation.
type OpKind int

const (
	OpFillScreen OpKind = iota
	OpFillSector
	OpFillArcBand
	OpThickLine
	OpFilledCircle
	OpCenteredText
)

func (k OpKind) String() string {
	switch k {
	case OpFillScreen:
		return "fillScreen"
	case OpFillSector:
		return "fillSector"
	case OpFillArcBand:
		return "fillArcBand"
	case OpThickLine:
		return "drawThickLine"
	case OpFilledCircle:
		return "drawFilledCircle"
	case OpCenteredText:
		return "drawCenteredText"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded drawing call. Only the fields relevant to Kind are set.
type Op struct {
	Kind      OpKind
	Center    graphics.Offset
	Radius    float64
	Inner     float64
	Span      graphics.AngleRange
	P0, P1    graphics.Offset
	Thickness float64
	Text      string
	Size      int
	Color     graphics.Color
	Bg        graphics.Color
}

func (op Op) String() string {
	switch op.Kind {
	case OpFillScreen:
		return fmt.Sprintf("fillScreen %s", op.Color.Hex())
	case OpFillSector:
		return fmt.Sprintf("fillSector r=%.2f [%.2f,%.2f) %s", op.Radius, op.Span.Start, op.Span.End, op.Color.Hex())
	case OpFillArcBand:
		return fmt.Sprintf("fillArcBand r=%.2f..%.2f [%.2f,%.2f) %s", op.Inner, op.Radius, op.Span.Start, op.Span.End, op.Color.Hex())
	case OpThickLine:
		return fmt.Sprintf("drawThickLine (%.2f,%.2f)-(%.2f,%.2f) w=%.2f %s", op.P0.X, op.P0.Y, op.P1.X, op.P1.Y, op.Thickness, op.Color.Hex())
	case OpFilledCircle:
		return fmt.Sprintf("drawFilledCircle (%.2f,%.2f) r=%.2f %s", op.Center.X, op.Center.Y, op.Radius, op.Color.Hex())
	case OpCenteredText:
		return fmt.Sprintf("drawCenteredText %q x%d %s on %s", op.Text, op.Size, op.Color.Hex(), op.Bg.Hex())
	default:
		return op.Kind.String()
	}
}

// Apply executes the operation on d.
func (op Op) Apply(d Display) {
	switch op.Kind {
	case OpFillScreen:
		d.FillScreen(op.Color)
	case OpFillSector:
		d.FillSector(op.Center, op.Radius, op.Span, op.Color)
	case OpFillArcBand:
		d.FillArcBand(op.Center, op.Inner, op.Radius, op.Span, op.Color)
	case OpThickLine:
		d.DrawThickLine(op.P0, op.P1, op.Color, op.Thickness)
	case OpFilledCircle:
		d.DrawFilledCircle(op.Center, op.Radius, op.Color)
	case OpCenteredText:
		d.DrawCenteredText(op.Text, op.Size, op.Color, op.Bg)
	}
}

// Recorder is a Display that records every call. When Next is set the call
// is forwarded after recording, so a Recorder can sit in front of a real
// panel to count traffic.
type Recorder struct {
	Next   Display
	Width  int
	Height int

	ops []Op
}

// NewRecorder returns a Recorder reporting the given panel size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Wrap returns a Recorder that forwards to d.
func Wrap(d Display) *Recorder {
	w, h := d.Size()
	return &Recorder{Next: d, Width: w, Height: h}
}

// Ops returns a copy of the recorded operations.
func (r *Recorder) Ops() []Op {
	ops := make([]Op, len(r.ops))
	copy(ops, r.ops)
	return ops
}

// Len returns the number of recorded operations.
func (r *Recorder) Len() int {
	return len(r.ops)
}

// Count returns how many operations of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded operations.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
}

// Replay executes every recorded operation on d, in order.
func (r *Recorder) Replay(d Display) {
	for _, op := range r.ops {
		op.Apply(d)
	}
}

func (r *Recorder) record(op Op) {
	r.ops = append(r.ops, op)
	if r.Next != nil {
		op.Apply(r.Next)
	}
}

// Size returns the configured panel size.
func (r *Recorder) Size() (int, int) {
	return r.Width, r.Height
}

func (r *Recorder) FillScreen(c graphics.Color) {
	r.record(Op{Kind: OpFillScreen, Color: c})
}

func (r *Recorder) FillSector(center graphics.Offset, radius float64, span graphics.AngleRange, c graphics.Color) {
	r.record(Op{Kind: OpFillSector, Center: center, Radius: radius, Span: span, Color: c})
}

func (r *Recorder) FillArcBand(center graphics.Offset, inner, outer float64, span graphics.AngleRange, c graphics.Color) {
	r.record(Op{Kind: OpFillArcBand, Center: center, Inner: inner, Radius: outer, Span: span, Color: c})
}

func (r *Recorder) DrawThickLine(p0, p1 graphics.Offset, c graphics.Color, thickness float64) {
	r.record(Op{Kind: OpThickLine, P0: p0, P1: p1, Color: c, Thickness: thickness})
}

func (r *Recorder) DrawFilledCircle(center graphics.Offset, radius float64, c graphics.Color) {
	r.record(Op{Kind: OpFilledCircle, Center: center, Radius: radius, Color: c})
}

func (r *Recorder) DrawCenteredText(text string, size int, fg, bg graphics.Color) {
	r.record(Op{Kind: OpCenteredText, Text: text, Size: size, Color: fg, Bg: bg})
}

// Flush forwards to Next when it batches frames.
func (r *Recorder) Flush() {
	if f, ok := r.Next.(Flusher); ok {
		f.Flush()
	}
}

// SweptDegrees sums the angular extent of every sector and arc band
// recorded. Tests use it to compare repaint cost.
func (r *Recorder) SweptDegrees() float64 {
	total := 0.0
	for _, op := range r.ops {
		if op.Kind == OpFillSector || op.Kind == OpFillArcBand {
			total += math.Max(0, op.Span.Sweep())
		}
	}
	return total
}
