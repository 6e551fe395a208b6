package sdfx

import (
	"math"
	"testing"
)

func TestBoxMinCornerOrigin(t *testing.T) {
	k := New()
	box := k.Box(7800, 300, 800)
	min, max := box.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{0, 0, 0}
	expectMax := [3]float64{7800, 300, 800}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestBoxContains(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)
	if !box.Contains(50, 50, 50) {
		t.Error("interior point reported outside")
	}
	if box.Contains(150, 50, 50) {
		t.Error("exterior point reported inside")
	}
}

func TestCylinderXOrientation(t *testing.T) {
	k := New()
	cyl := k.CylinderX(1000, 40)
	min, max := cyl.BoundingBox()

	// The long extent must lie along X, the radius along Y and Z.
	const tol = 1.0
	if math.Abs((max[0]-min[0])-1000) > tol {
		t.Errorf("X extent = %f, expected ~1000", max[0]-min[0])
	}
	if math.Abs((max[1]-min[1])-80) > tol {
		t.Errorf("Y extent = %f, expected ~80", max[1]-min[1])
	}
	if math.Abs((max[2]-min[2])-80) > tol {
		t.Errorf("Z extent = %f, expected ~80", max[2]-min[2])
	}
}

func TestDifferenceRemovesDuctVoid(t *testing.T) {
	k := New()

	// A web box with an axis-aligned duct through mid-depth.
	web := k.Box(2000, 300, 800)
	duct := k.Translate(k.CylinderX(2200, 40), 1000, 150, 300)
	cut := k.Difference(web, duct)

	if cut.Contains(1000, 150, 300) {
		t.Error("duct centerline point still inside the web after subtraction")
	}
	if !cut.Contains(1000, 150, 700) {
		t.Error("web material away from the duct was removed")
	}
}

func TestUnionComposesComponents(t *testing.T) {
	k := New()
	web := k.Box(2000, 300, 500)
	flange := k.Translate(k.Box(2000, 600, 150), 0, -150, 500)
	u := k.Union(web, flange)

	if !u.Contains(1000, 150, 250) {
		t.Error("web interior missing from union")
	}
	if !u.Contains(1000, -100, 575) {
		t.Error("flange interior missing from union")
	}
	min, max := u.BoundingBox()
	if max[2]-min[2] < 650-1 {
		t.Errorf("union height = %f, expected ~650", max[2]-min[2])
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	box := k.Box(10, 10, 10)
	translated := k.Translate(box, 100, 200, 300)

	min, max := translated.BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{100, 200, 300}
	expectMax := [3]float64{110, 210, 310}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)

	if !inter.Contains(75, 50, 50) {
		t.Error("overlap interior missing from intersection")
	}
	if inter.Contains(25, 50, 50) {
		t.Error("non-overlap region present in intersection")
	}
}

func TestRotate(t *testing.T) {
	k := New()
	box := k.Box(100, 10, 10)

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	rotated := k.Rotate(box, 0, 0, 90)
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}
