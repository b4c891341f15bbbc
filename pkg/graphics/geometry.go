package graphics

import "math"

// epsilon is the tolerance for floating-point comparisons.
const epsilon = 0.0001

// FullTurn is one revolution in degrees.
const FullTurn = 360.0

// Offset represents a 2D point or vector in pixel coordinates.
type Offset struct {
	X float64
	Y float64
}

// Distance returns the euclidean distance between o and p.
func (o Offset) Distance(p Offset) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Polar returns the point at radius r and angle deg from center.
//
// Dial angles are in degrees, zero at twelve o'clock, increasing clockwise
// in screen space (y grows downward).
func Polar(center Offset, r, deg float64) Offset {
	rad := deg * math.Pi / 180
	return Offset{
		X: center.X + r*math.Sin(rad),
		Y: center.Y - r*math.Cos(rad),
	}
}

// AngleOf returns the dial angle of p around center, in [0, 360).
func AngleOf(center, p Offset) float64 {
	deg := math.Atan2(p.X-center.X, center.Y-p.Y) * 180 / math.Pi
	return NormalizeDegrees(deg)
}

// NormalizeDegrees maps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, FullTurn)
	if deg < 0 {
		deg += FullTurn
	}
	if deg >= FullTurn {
		deg = 0
	}
	return deg
}

// AngleRange is a clockwise sweep from Start to End in dial degrees.
// Ranges are half-open: Start is covered, End is not. A sweep of 360 or more
// covers the whole circle.
type AngleRange struct {
	Start float64
	End   float64
}

// Sweep returns the angular extent of the range.
func (r AngleRange) Sweep() float64 {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers nothing.
func (r AngleRange) IsEmpty() bool {
	return r.End <= r.Start
}

// IsFull reports whether the range covers the whole circle.
func (r AngleRange) IsFull() bool {
	return r.Sweep() >= FullTurn-epsilon
}

// Segments splits the range into at most two pieces inside [0, 360].
// Ranges that already lie inside [0, 360] are returned unchanged so callers
// that share boundary values get bit-identical edges.
func (r AngleRange) Segments() []AngleRange {
	if r.IsEmpty() {
		return nil
	}
	if r.IsFull() {
		return []AngleRange{{Start: 0, End: FullTurn}}
	}
	s, e := r.Start, r.End
	if s < 0 || s >= FullTurn {
		shift := math.Floor(s/FullTurn) * FullTurn
		s -= shift
		e -= shift
	}
	if e <= FullTurn {
		return []AngleRange{{Start: s, End: e}}
	}
	return []AngleRange{{Start: s, End: FullTurn}, {Start: 0, End: e - FullTurn}}
}

// Contains reports whether the normalized angle deg lies in the range.
func (r AngleRange) Contains(deg float64) bool {
	for _, seg := range r.Segments() {
		if deg >= seg.Start && deg < seg.End {
			return true
		}
	}
	return false
}

// SplitAt partitions the range at boundary b of the sector [0, b).
// inside holds the pieces covered by that sector, outside the rest.
func (r AngleRange) SplitAt(b float64) (inside, outside []AngleRange) {
	for _, seg := range r.Segments() {
		if seg.Start < b {
			inside = append(inside, AngleRange{Start: seg.Start, End: math.Min(seg.End, b)})
		}
		if seg.End > b {
			outside = append(outside, AngleRange{Start: math.Max(seg.Start, b), End: seg.End})
		}
	}
	return inside, outside
}
