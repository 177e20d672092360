package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// bernsteinBasis is the cubic Bezier coefficient matrix such that, for
// T = [1 t t^2 t^3], the blended point is T * bernsteinBasis * P where P is
// the 4x1 column of (x or y) control coordinates. Kept as a package-level
// *mat.Dense so PointAt builds the matrix only once; blend still allocates
// its vectors per call, and TangentAt uses the closed-form derivative
// (blendDeriv) instead of this matrix.
var bernsteinBasis = mat.NewDense(4, 4, []float64{
	1, 0, 0, 0,
	-3, 3, 0, 0,
	3, -6, 3, 0,
	-1, 3, -3, 1,
})

// CubicSpline is a cubic Bezier curve defined by four control points. The
// spline is geometry only; arc-length parameterization lives in SplineMeta.
type CubicSpline struct {
	P0, P1, P2, P3 Point
}

// degenerate reports whether the control points are coincident or collinear
// enough that the curve math becomes numerically unstable (spec's
// DegenerateSpline condition).
func (s CubicSpline) degenerate() bool {
	chord := s.P3.Sub(s.P0).Length()
	if chord < 1e-6 {
		return true
	}
	span := s.P1.Sub(s.P0).Length() + s.P2.Sub(s.P1).Length() + s.P3.Sub(s.P2).Length()
	if span < 1e-6 {
		return true
	}
	// collinear: P1 and P2 both lie on the line through P0 and P3.
	d := s.P3.Sub(s.P0)
	c1 := d.X*(s.P1.Y-s.P0.Y) - d.Y*(s.P1.X-s.P0.X)
	c2 := d.X*(s.P2.Y-s.P0.Y) - d.Y*(s.P2.X-s.P0.X)
	return math.Abs(c1) < 1e-6*chord && math.Abs(c2) < 1e-6*chord
}

// PointAt evaluates the curve at parameter t in [0,1]. Falls back to linear
// interpolation between P0 and P3 for a degenerate spline, per spec §4.3.
func (s CubicSpline) PointAt(t float64) Point {
	if s.degenerate() {
		return s.P0.Lerp(s.P3, t)
	}
	bx := blend(t, s.P0.X, s.P1.X, s.P2.X, s.P3.X)
	by := blend(t, s.P0.Y, s.P1.Y, s.P2.Y, s.P3.Y)
	return Point{bx, by}
}

// blend evaluates one scalar component of the Bezier curve via the
// Bernstein basis matrix, T * M * P.
func blend(t, p0, p1, p2, p3 float64) float64 {
	tv := mat.NewVecDense(4, []float64{1, t, t * t, t * t * t})
	p := mat.NewVecDense(4, []float64{p0, p1, p2, p3})
	var mp mat.VecDense
	mp.MulVec(bernsteinBasis, p)
	return mat.Dot(tv, &mp)
}

// TangentAt returns the (non-unit) derivative direction at t, falling back
// to the chord direction for a degenerate spline.
func (s CubicSpline) TangentAt(t float64) Vec {
	if s.degenerate() {
		return s.P3.Sub(s.P0)
	}
	dx := blendDeriv(t, s.P0.X, s.P1.X, s.P2.X, s.P3.X)
	dy := blendDeriv(t, s.P0.Y, s.P1.Y, s.P2.Y, s.P3.Y)
	return Vec{dx, dy}
}

func blendDeriv(t, p0, p1, p2, p3 float64) float64 {
	u := 1 - t
	return 3*u*u*(p1-p0) + 6*u*t*(p2-p1) + 3*t*t*(p3-p2)
}

// arcLengthSamples is the resolution used by composite-Simpson arc-length
// integration; must be even for Simpson's rule.
const arcLengthSamples = 32

// ArcLength numerically integrates |B'(t)| over [0,1] via composite
// Simpson's rule, using gonum/floats to sum the weighted sample magnitudes.
func (s CubicSpline) ArcLength() float64 {
	if s.degenerate() {
		return s.P3.Sub(s.P0).Length()
	}
	n := arcLengthSamples
	h := 1.0 / float64(n)
	samples := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) * h
		samples[i] = s.TangentAt(t).Length()
	}
	weights := make([]float64, n+1)
	weights[0], weights[n] = 1, 1
	for i := 1; i < n; i++ {
		if i%2 == 0 {
			weights[i] = 2
		} else {
			weights[i] = 4
		}
	}
	weighted := make([]float64, n+1)
	floats.MulTo(weighted, samples, weights)
	return floats.Sum(weighted) * h / 3
}

// SampleAtArcLength walks the curve to find the parameter t whose arc length
// from P0 equals the requested distance, via bisection on the arc length of
// the curve up to t. Every call integrates those partial arc lengths afresh;
// route.Path.Sample calls it each tick, and SplineMeta caches only the total
// length.
func (s CubicSpline) SampleAtArcLength(dist, total float64) float64 {
	if total <= 0 {
		return 0
	}
	target := Clamp(dist, 0, total)
	lo, hi := 0.0, 1.0
	for i := 0; i < 24; i++ {
		mid := (lo + hi) / 2
		partial := CubicSpline{s.P0, s.P1, s.P2, s.P3}.partialArcLength(mid)
		if partial < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func (s CubicSpline) partialArcLength(tMax float64) float64 {
	n := arcLengthSamples
	h := tMax / float64(n)
	if h <= 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= n; i++ {
		t := float64(i) * h
		w := 1.0
		if i != 0 && i != n {
			if i%2 == 0 {
				w = 2
			} else {
				w = 4
			}
		}
		sum += w * s.TangentAt(t).Length()
	}
	return sum * h / 3
}

// StraightTangent returns whether two directions point the same way within
// a small angular tolerance, used to pick tight vs. wide intersection
// tangent magnitudes when building road-network splines.
func StraightTangent(a, b Vec) bool {
	return math.Abs(a.Normalized().Angle()-b.Normalized().Angle()) < 1e-3
}
