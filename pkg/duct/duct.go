// Package duct computes post-tensioning duct centerlines and discretizes
// them into cylindrical segments for subtraction from the precast solid.
package duct

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
)

// minClearance is the minimum edge distance between the duct and the
// precast layer faces.
const minClearance = 50.0

// Segment is one cylindrical duct piece: the void cut between two
// consecutive path points.
type Segment struct {
	Center    graph.Point3D
	Radius    float64
	Length    float64
	Direction v3.Vec // unit vector
}

// StraightPath returns n+1 linearly interpolated points from p0 to p1.
func StraightPath(p0, p1 graph.Point3D, n int) []graph.Point3D {
	path := make([]graph.Point3D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		path = append(path, graph.Point3D{
			X: p0.X + t*(p1.X-p0.X),
			Y: p0.Y + t*(p1.Y-p0.Y),
			Z: p0.Z + t*(p1.Z-p0.Z),
		})
	}
	return path
}

// ParabolicPath returns n+1 points from p0 to p1 where x advances linearly
// and a symmetric parabolic offset is added to the linear z interpolation:
// zOffset(x) = 4*sag/L^2 * x*(L-x), peaking at sag over midspan.
func ParabolicPath(p0, p1 graph.Point3D, sag float64, n int) []graph.Point3D {
	span := p1.X - p0.X
	path := make([]graph.Point3D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		localX := t * span
		zOffset := 4 * sag / (span * span) * localX * (span - localX)
		path = append(path, graph.Point3D{
			X: p0.X + localX,
			Y: p0.Y + t*(p1.Y-p0.Y),
			Z: p0.Z + t*(p1.Z-p0.Z) + zOffset,
		})
	}
	return path
}

// Cylinders converts a path into duct segments. Each consecutive point
// pair yields a cylinder centered at the pair midpoint with Euclidean
// length and unit direction; radius is half the duct diameter.
func Cylinders(path []graph.Point3D, ductDiameter float64) ([]Segment, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("duct path needs at least 2 points, got %d", len(path))
	}
	radius := ductDiameter / 2
	segments := make([]Segment, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		p1, p2 := path[i], path[i+1]
		d := v3.Vec{X: p2.X - p1.X, Y: p2.Y - p1.Y, Z: p2.Z - p1.Z}
		length := d.Length()
		dir := v3.Vec{X: 1}
		if length > 1e-6 {
			dir = d.DivScalar(length)
		}
		segments = append(segments, Segment{
			Center: graph.Point3D{
				X: (p1.X + p2.X) / 2,
				Y: (p1.Y + p2.Y) / 2,
				Z: (p1.Z + p2.Z) / 2,
			},
			Radius:    radius,
			Length:    length,
			Direction: dir,
		})
	}
	return segments, nil
}

// ValidatePath checks a duct path against the beam geometry. Points with
// x outside [0, L] and an oversized duct diameter are errors; points with
// z outside the precast layer are collected as warnings and never abort
// the run.
func ValidatePath(path []graph.Point3D, ductDiameter, l, hPre float64) (warnings []string, err error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("duct path needs at least 2 points, got %d", len(path))
	}
	for i, p := range path {
		if p.X < 0 || p.X > l {
			return warnings, fmt.Errorf("duct path point %d: x = %g outside beam length [0, %g]", i+1, p.X, l)
		}
		if p.Z < 0 || p.Z > hPre {
			warnings = append(warnings, fmt.Sprintf("duct path point %d: z = %g outside precast layer [0, %g]", i+1, p.Z, hPre))
		}
	}
	if ductDiameter > hPre-2*minClearance {
		return warnings, fmt.Errorf("duct diameter %g too large for precast height %g (min clearance %gmm)", ductDiameter, hPre, minClearance)
	}
	return warnings, nil
}
