// Package kernel defines the abstract geometry kernel interface used for
// composing beam cross-section solids and subtracting duct voids. The
// entity graph is authored explicitly; the kernel serves as the geometric
// oracle behind it (bounding boxes, containment, boolean composition), so
// backends can be swapped without changing the synthesis code.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)

	// Contains reports whether the point lies inside the solid
	// (surface points count as inside).
	Contains(x, y, z float64) bool
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box has its minimum corner at the origin so beam
	// components place by their soffit corner. CylinderX runs along the
	// X axis centered at the origin, matching the beam longitudinal axis
	// used by prestress ducts.
	Box(x, y, z float64) Solid
	CylinderX(length, radius float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees
}
