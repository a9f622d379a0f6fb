package geom

import "math"

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// TopicAngleDeg returns the placement angle (degrees) for topic i of n,
// starting at 90 degrees ("up") and advancing clockwise so consecutive
// topics are exactly 360/n degrees apart.
func TopicAngleDeg(i, n int) float64 {
	return 90 + float64(i)*(-360/float64(n))
}

// DetailAngleDeg returns the placement angle (degrees) for detail j of
// m, fanned across an arc of spanDeg degrees around the topic direction
// topicDeg. The arc starts at topicDeg + spanDeg/2 and sweeps clockwise.
// A single detail sits exactly at the arc base with no step.
func DetailAngleDeg(topicDeg, spanDeg float64, j, m int) float64 {
	base := topicDeg + spanDeg/2
	if m <= 1 {
		return base
	}
	step := -spanDeg / float64(m-1)
	return base + float64(j)*step
}

// PolarOffset returns the point at the given radius and angle (degrees)
// from origin.
func PolarOffset(origin Point, radius, angleDeg float64) Point {
	a := Radians(angleDeg)
	return Point{
		X: origin.X + radius*math.Cos(a),
		Y: origin.Y + radius*math.Sin(a),
	}
}
