package animation

import "math"

// Easing curves transform linear animation progress into natural-feeling motion.
//
// A Curve maps t in [0, 1] to a value in [0, 1]. Curves are pure: the same t
// always yields the same value, which keeps engine output deterministic.
//
// Standard curves: [Linear], [Ease], [EaseIn], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().

// Curve is an easing function over unit progress.
type Curve interface {
	Transform(t float64) float64
}

// CurveFunc adapts a plain function to the Curve interface.
type CurveFunc func(t float64) float64

// Transform calls f(t).
func (f CurveFunc) Transform(t float64) float64 {
	return f(t)
}

type linearCurve struct{}

func (linearCurve) Transform(t float64) float64 {
	return clampUnit(t)
}

// Linear returns linear progress (no easing).
var Linear Curve = linearCurve{}

// Ease is a standard cubic bezier curve for general-purpose easing.
// Equivalent to CSS ease.
var Ease = CubicBezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1.0}

// EaseIn starts slowly and accelerates.
// Equivalent to CSS ease-in.
var EaseIn = CubicBezier{X1: 0.4, Y1: 0.0, X2: 1.0, Y2: 1.0}

// EaseOut starts quickly and decelerates. The dial sweep and blink fades use it.
var EaseOut = CubicBezier{X1: 0.0, Y1: 0.0, X2: 0.2, Y2: 1.0}

// EaseInOut starts and ends slowly with acceleration in the middle.
// Equivalent to CSS ease-in-out.
var EaseInOut = CubicBezier{X1: 0.4, Y1: 0.0, X2: 0.2, Y2: 1.0}

const (
	solverEpsilon    = 1e-7
	newtonIterations = 8
	bisectIterations = 24
)

// CubicBezier is a cubic-bezier easing curve matching CSS cubic-bezier().
// (X1,Y1) and (X2,Y2) are the two control points; the curve runs from (0,0)
// to (1,1). X1 and X2 must lie in [0, 1] for the curve to be a function of t.
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// Transform solves the curve's x(u) = t for u and returns y(u).
//
// Newton-Raphson runs first; if the derivative collapses or the budget runs
// out without converging, bisection over [0,1] finishes the job. Both loops
// are bounded.
func (c CubicBezier) Transform(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	u := t
	for range newtonIterations {
		x := sampleCurve(c.X1, c.X2, u) - t
		if math.Abs(x) < solverEpsilon {
			return sampleCurve(c.Y1, c.Y2, clampUnit(u))
		}
		dx := sampleCurveDerivative(c.X1, c.X2, u)
		if math.Abs(dx) < solverEpsilon {
			break
		}
		u -= x / dx
		if u < 0 || u > 1 || math.IsNaN(u) {
			break
		}
	}

	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	if math.IsNaN(u) {
		u = t
	}
	for range bisectIterations {
		x := sampleCurve(c.X1, c.X2, u) - t
		if math.Abs(x) < solverEpsilon {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}

	return sampleCurve(c.Y1, c.Y2, u)
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
