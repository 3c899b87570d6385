// Package geom provides the small amount of 2D geometry shared by the
// metric extraction and phase detection layers. All angles are in degrees
// and all positions are in pixel coordinates (y grows downward).
package geom

import "math"

// Point is a 2D pixel coordinate.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Angle returns the angle in degrees at vertex b formed by the rays b→a and
// b→c. The cosine argument is clamped to [-1, 1] before arccos so that
// floating-point drift on nearly-collinear points never produces NaN.
// Returns 0 when either ray has zero length (coincident points).
func Angle(a, b, c Point) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y

	n1 := math.Sqrt(v1x*v1x + v1y*v1y)
	n2 := math.Sqrt(v2x*v2x + v2y*v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// Velocity returns the per-second rate of change of a scalar between two
// consecutive frames sampled at fps. No smoothing is applied here; callers
// that need smoothing do it themselves.
func Velocity(prev, cur, fps float64) float64 {
	return (cur - prev) * fps
}

// VerticalVelocity returns the upward pixel velocity of a point between two
// consecutive frames. Image y grows downward, so a decreasing y is positive
// (upward) motion.
func VerticalVelocity(prev, cur Point, fps float64) float64 {
	return (prev.Y - cur.Y) * fps
}
