// Package geometry holds the 2-D helpers the pose classifiers are built on.
// Coordinates are normalized screen space: x grows rightward, y grows downward.
package geometry

import "math"

// epsilon below which two coordinates are considered the same point
const epsilon = 1e-9

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

func (a Axis) of(p Point) float64 {
	if a == AxisVertical {
		return p.Y
	}
	return p.X
}

// Coincide reports whether a and b are the same point.
func Coincide(a, b Point) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon
}

// Degenerate reports whether Angle(a, b, c) is undefined.
func Degenerate(a, b, c Point) bool {
	return Coincide(a, b) || Coincide(b, c) || Coincide(a, c)
}

// Angle returns the angle at vertex b between rays b->a and b->c, in degrees [0,180].
// Callers must check Degenerate first, the result is NaN for coinciding points.
func Angle(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y

	dot := v1x*v2x + v1y*v2y
	norms := math.Hypot(v1x, v1y) * math.Hypot(v2x, v2y)

	// rounding can push the cosine just outside [-1, 1]
	cos := math.Max(-1, math.Min(1, dot/norms))
	return math.Acos(cos) * 180 / math.Pi
}

func HorizontalDistance(a, b Point) float64 {
	return math.Abs(a.X - b.X)
}

func VerticalDistance(a, b Point) float64 {
	return math.Abs(a.Y - b.Y)
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Ratio divides num by den, ok is false when den is too small to be meaningful.
func Ratio(num, den float64) (_ float64, ok bool) {
	if math.Abs(den) < epsilon {
		return 0, false
	}
	return num / den, true
}

// IsAscending reports whether points never decrease along axis, in list order.
// Mirrored capture is the caller's concern: pass the points in the order that
// encodes the body-relative direction being checked.
func IsAscending(axis Axis, points ...Point) bool {
	for i := 1; i < len(points); i++ {
		if axis.of(points[i]) < axis.of(points[i-1]) {
			return false
		}
	}
	return true
}
