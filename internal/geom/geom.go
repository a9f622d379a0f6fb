// Package geom provides the pure 2D math used by the diagram: points,
// rectangles, interpolation, easing, and the connector anchor-point
// computations. Nothing in this package holds state.
package geom

import "math"

// Point is a coordinate in diagram space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p minus q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Rect is an axis-aligned rectangle given by its top-left corner and extent.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectAround returns the rectangle of the given size centered on c.
func RectAround(c Point, s Size) Rect {
	return Rect{X: c.X - s.W/2, Y: c.Y - s.H/2, W: s.W, H: s.H}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Union returns the smallest rectangle containing both r and o.
// An empty rectangle is treated as the identity.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.W, o.X+o.W)
	y2 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Inset grows (negative d) or shrinks (positive d) the rectangle on all sides.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EaseOutCubic maps t in [0,1] onto the out-cubic easing curve.
func EaseOutCubic(t float64) float64 {
	t = Clamp(t, 0, 1)
	u := 1 - t
	return 1 - u*u*u
}

// AnchorPoint returns the point on the boundary of r closest to the
// direction of target, so that a connector line drawn to target leaves
// the rectangle through its edge rather than its center.
//
// The exit edge is chosen by comparing the slope of the center->target
// line against the rectangle's aspect ratio: a shallow line exits
// left/right, a steep line exits top/bottom. A dead-vertical target
// clamps to the top or bottom edge.
func AnchorPoint(r Rect, target Point) Point {
	c := r.Center()

	if target.X == c.X {
		if target.Y < c.Y {
			return Point{c.X, c.Y - r.H/2}
		}
		return Point{c.X, c.Y + r.H/2}
	}

	slope := (target.Y - c.Y) / (target.X - c.X)
	if math.Abs(slope) < r.H/r.W {
		x := c.X + r.W/2
		if target.X < c.X {
			x = c.X - r.W/2
		}
		return Point{x, c.Y + slope*(x-c.X)}
	}

	y := c.Y + r.H/2
	if target.Y < c.Y {
		y = c.Y - r.H/2
	}
	return Point{c.X + (y-c.Y)/slope, y}
}

// AxisAnchor returns the midpoint of the edge of r facing target,
// choosing the horizontal or vertical edge by the dominant axis of the
// center->target offset. This is the anchor used while a node is in its
// collapsed, circular-silhouette presentation: it deliberately reuses
// the rectangular edge of the current (smaller) rectangle instead of a
// true circle intersection, matching long-standing connector behavior.
func AxisAnchor(r Rect, target Point) Point {
	c := r.Center()
	if math.Abs(target.X-c.X) > math.Abs(target.Y-c.Y) {
		x := c.X + r.W/2
		if target.X < c.X {
			x = c.X - r.W/2
		}
		return Point{x, c.Y}
	}
	y := c.Y + r.H/2
	if target.Y < c.Y {
		y = c.Y - r.H/2
	}
	return Point{c.X, y}
}

// OnBoundary reports whether p lies on the boundary of r within tol.
func OnBoundary(r Rect, p Point, tol float64) bool {
	onX := math.Abs(p.X-r.X) <= tol || math.Abs(p.X-(r.X+r.W)) <= tol
	onY := math.Abs(p.Y-r.Y) <= tol || math.Abs(p.Y-(r.Y+r.H)) <= tol
	insideX := p.X >= r.X-tol && p.X <= r.X+r.W+tol
	insideY := p.Y >= r.Y-tol && p.Y <= r.Y+r.H+tol
	return (onX && insideY) || (onY && insideX)
}
