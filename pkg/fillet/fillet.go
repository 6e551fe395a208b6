// Package fillet turns a rectangular opening outline into a
// rounded-corner boundary polyline. The boundary is the contract consumed
// by the geometry engine's opening-cutting step; coordinates are (x, z)
// in the beam's longitudinal section plane.
package fillet

import "math"

// arcPoints is the number of discretized points per 90 degree corner arc,
// including both arc endpoints.
const arcPoints = 9

// Point is a 2D boundary point in the x/z plane.
type Point struct {
	X, Z float64
}

// Corner identifies one of the four rectangle corners.
type Corner int

const (
	BottomLeft Corner = iota
	BottomRight
	TopLeft
	TopRight
)

func (c Corner) String() string {
	switch c {
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	case TopLeft:
		return "top_left"
	case TopRight:
		return "top_right"
	default:
		return "unknown"
	}
}

// Validate reports whether a fillet radius is usable for an opening of the
// given size. A radius of zero disables filleting and is always valid; a
// positive radius may not exceed half the shorter side.
func Validate(radius, width, height float64) bool {
	if radius == 0 {
		return true
	}
	if radius < 0 {
		return false
	}
	return radius <= math.Min(width, height)/2
}

// arcAngles returns the start and end angle of each corner's 90 degree
// arc. The sweep direction keeps the assembled boundary counter-clockwise.
func arcAngles(c Corner) (start, end float64) {
	switch c {
	case BottomLeft:
		return math.Pi, 3 * math.Pi / 2
	case BottomRight:
		return 3 * math.Pi / 2, 2 * math.Pi
	case TopLeft:
		return math.Pi / 2, math.Pi
	default: // TopRight
		return 0, math.Pi / 2
	}
}

// CornerArcs discretizes the four corner arcs of a rectangle with its
// lower-left corner at (x, z). Each arc has arcPoints points including
// both endpoints. A zero radius yields no arcs.
func CornerArcs(x, z, width, height, radius float64) map[Corner][]Point {
	if radius == 0 {
		return nil
	}
	centers := map[Corner]Point{
		BottomLeft:  {X: x + radius, Z: z + radius},
		BottomRight: {X: x + width - radius, Z: z + radius},
		TopLeft:     {X: x + radius, Z: z + height - radius},
		TopRight:    {X: x + width - radius, Z: z + height - radius},
	}

	arcs := make(map[Corner][]Point, len(centers))
	for corner, c := range centers {
		start, end := arcAngles(corner)
		pts := make([]Point, arcPoints)
		for i := 0; i < arcPoints; i++ {
			t := float64(i) / float64(arcPoints-1)
			angle := start + t*(end-start)
			pts[i] = Point{
				X: c.X + radius*math.Cos(angle),
				Z: c.Z + radius*math.Sin(angle),
			}
		}
		arcs[corner] = pts
	}
	return arcs
}

// Boundary assembles the rounded opening boundary as a counter-clockwise
// closed polyline: the four corner arcs in traversal order, with the
// straight edges implied between consecutive arc endpoints. A zero radius
// returns the four raw rectangle corners. At the limit radius adjacent
// arcs meet at a shared tangent point, which is emitted once.
func Boundary(x, z, width, height, radius float64) []Point {
	if radius == 0 {
		return []Point{
			{X: x, Z: z},
			{X: x + width, Z: z},
			{X: x + width, Z: z + height},
			{X: x, Z: z + height},
		}
	}

	arcs := CornerArcs(x, z, width, height, radius)

	var b []Point
	for _, corner := range []Corner{BottomLeft, BottomRight, TopRight, TopLeft} {
		for _, p := range arcs[corner] {
			if n := len(b); n > 0 && samePoint(b[n-1], p) {
				continue
			}
			b = append(b, p)
		}
	}
	if n := len(b); n > 1 && samePoint(b[0], b[n-1]) {
		b = b[:n-1]
	}
	return b
}

func samePoint(a, b Point) bool {
	const tol = 1e-9
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Z-b.Z) <= tol
}
