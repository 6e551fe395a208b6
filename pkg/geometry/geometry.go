// Package geometry builds the beam's layer solids: axis-aligned box
// solids in the entity graph with opening voids cut into the transverse
// faces, composed per cross-section component (web, flanges) and split
// into precast and cast-in-place layers.
package geometry

import (
	"fmt"

	"github.com/Dopamine-mania/pkpm-plug/pkg/duct"
	"github.com/Dopamine-mania/pkpm-plug/pkg/fillet"
	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/kernel"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// GeometryError reports inconsistent layer or opening clipping.
type GeometryError struct {
	Message string
}

func (e *GeometryError) Error() string {
	return "geometry: " + e.Message
}

func geoErrf(format string, args ...interface{}) error {
	return &GeometryError{Message: fmt.Sprintf(format, args...)}
}

// Range is a closed scalar interval.
type Range struct {
	Min, Max float64
}

// Len returns the interval length.
func (r Range) Len() float64 { return r.Max - r.Min }

// intersects reports whether (min, max) overlaps the range with positive
// measure.
func (r Range) intersects(min, max float64) bool {
	return max > r.Min && min < r.Max
}

// BuildLayerSolid creates one axis-aligned box solid in the registry:
// 8 corner nodes, 12 boundary edges and 6 surfaces. For every opening
// whose z-range intersects the layer, the opening's active span is
// clipped to the layer bounds and an inner boundary loop is cut into the
// two faces pierced along the transverse (y) axis, registering the
// through-hole on both. Filleted openings cut their rounded boundary
// polyline instead of the raw rectangle. Openings fully outside the
// layer's z-range are skipped. Dimensions are assumed pre-validated; only range consistency
// is checked here.
func BuildLayerSolid(reg *graph.Registry, x, y, z Range, openings []params.Opening) (graph.SolidID, error) {
	if x.Len() <= 0 || y.Len() <= 0 || z.Len() <= 0 {
		return 0, geoErrf("degenerate layer ranges x=%+v y=%+v z=%+v", x, y, z)
	}

	n := [8]graph.NodeID{
		reg.NodeAt(x.Min, y.Min, z.Min),
		reg.NodeAt(x.Max, y.Min, z.Min),
		reg.NodeAt(x.Max, y.Max, z.Min),
		reg.NodeAt(x.Min, y.Max, z.Min),
		reg.NodeAt(x.Min, y.Min, z.Max),
		reg.NodeAt(x.Max, y.Min, z.Max),
		reg.NodeAt(x.Max, y.Max, z.Max),
		reg.NodeAt(x.Min, y.Max, z.Max),
	}

	e := [12]graph.EdgeID{
		reg.Edge(n[0], n[1]), // bottom ring
		reg.Edge(n[1], n[2]),
		reg.Edge(n[2], n[3]),
		reg.Edge(n[3], n[0]),
		reg.Edge(n[4], n[5]), // top ring
		reg.Edge(n[5], n[6]),
		reg.Edge(n[6], n[7]),
		reg.Edge(n[7], n[4]),
		reg.Edge(n[1], n[5]), // verticals
		reg.Edge(n[2], n[6]),
		reg.Edge(n[3], n[7]),
		reg.Edge(n[0], n[4]),
	}

	// Opening loops live on the two y-faces the hole pierces through.
	var frontLoops, backLoops [][]graph.EdgeID
	for i := range openings {
		o := &openings[i]
		xMin, xMax, zMin, zMax := o.Bounds()
		if !z.intersects(zMin, zMax) {
			continue
		}
		clipZMin := max(zMin, z.Min)
		clipZMax := min(zMax, z.Max)
		if clipZMax <= clipZMin {
			return 0, geoErrf("opening at x=%g clips to empty z-range in layer [%g, %g]", o.X, z.Min, z.Max)
		}
		if xMin < x.Min || xMax > x.Max {
			return 0, geoErrf("opening at x=%g exceeds layer x-range [%g, %g]", o.X, x.Min, x.Max)
		}
		frontLoops = append(frontLoops, openingLoop(reg, o, y.Min, xMin, xMax, clipZMin, clipZMax))
		backLoops = append(backLoops, openingLoop(reg, o, y.Max, xMin, xMax, clipZMin, clipZMax))
	}

	bottom := reg.Surface([]graph.EdgeID{e[0], e[1], e[2], e[3]})
	top := reg.Surface([]graph.EdgeID{e[4], e[5], e[6], e[7]})
	front := reg.Surface([]graph.EdgeID{e[0], e[8], e[4], e[11]}, frontLoops...)
	back := reg.Surface([]graph.EdgeID{e[2], e[10], e[6], e[9]}, backLoops...)
	left := reg.Surface([]graph.EdgeID{e[3], e[11], e[7], e[10]})
	right := reg.Surface([]graph.EdgeID{e[1], e[9], e[5], e[8]})

	return reg.Solid(bottom, top, front, back, left, right), nil
}

// openingLoop cuts one opening loop into the face at the given y. A
// filleted opening gets its rounded boundary polyline; boundary points are
// clamped to the clipped z-range when the layer split passes through the
// opening.
func openingLoop(reg *graph.Registry, o *params.Opening, y, xMin, xMax, zMin, zMax float64) []graph.EdgeID {
	if o.FilletRadius <= 0 {
		return holeLoop(reg, y, xMin, xMax, zMin, zMax)
	}
	_, _, zBot, _ := o.Bounds()
	pts := fillet.Boundary(xMin, zBot, o.Width, o.Height, o.FilletRadius)

	var kept []fillet.Point
	for _, p := range pts {
		p.Z = min(max(p.Z, zMin), zMax)
		if n := len(kept); n > 0 && p == kept[n-1] {
			continue
		}
		kept = append(kept, p)
	}
	if n := len(kept); n > 1 && kept[0] == kept[n-1] {
		kept = kept[:n-1]
	}

	nodes := make([]graph.NodeID, len(kept))
	for i, p := range kept {
		nodes[i] = reg.NodeAt(p.X, y, p.Z)
	}
	loop := make([]graph.EdgeID, len(nodes))
	for i := range nodes {
		loop[i] = reg.Edge(nodes[i], nodes[(i+1)%len(nodes)])
	}
	return loop
}

// holeLoop cuts one rectangular opening loop into the face at the given y.
func holeLoop(reg *graph.Registry, y, xMin, xMax, zMin, zMax float64) []graph.EdgeID {
	a := reg.NodeAt(xMin, y, zMin)
	b := reg.NodeAt(xMax, y, zMin)
	c := reg.NodeAt(xMax, y, zMax)
	d := reg.NodeAt(xMin, y, zMax)
	return []graph.EdgeID{
		reg.Edge(a, b),
		reg.Edge(b, c),
		reg.Edge(c, d),
		reg.Edge(d, a),
	}
}

// Component is one rectangular cross-section piece (web or flange),
// described by its center and extents.
type Component struct {
	Name    string
	CenterX float64
	CenterY float64
	CenterZ float64
	DX      float64 // length along the beam axis
	DY      float64 // transverse width
	DZ      float64 // vertical height
}

// Ranges returns the component's axis-aligned extents.
func (c Component) Ranges() (x, y, z Range) {
	x = Range{Min: c.CenterX - c.DX/2, Max: c.CenterX + c.DX/2}
	y = Range{Min: c.CenterY - c.DY/2, Max: c.CenterY + c.DY/2}
	z = Range{Min: c.CenterZ - c.DZ/2, Max: c.CenterZ + c.DZ/2}
	return x, y, z
}

// SectionComponents derives the rectangular components of the cross
// section, split at hp into precast and cast-in-place sets. The web is
// split at hp; lower flanges belong to the precast layer and upper
// flanges to the cast layer. A flange is omitted when its width or
// thickness is zero. Asymmetric sections shift every component by the web
// centerline offset.
func SectionComponents(sec *params.SectionProfile) (precast, cast []Component) {
	hp := sec.EffectiveSplitHeight()
	offset := sec.WebOffsetY()

	precast = append(precast, Component{
		Name:    "web_pre",
		CenterX: sec.L / 2, CenterY: offset, CenterZ: hp / 2,
		DX: sec.L, DY: sec.Tw, DZ: hp,
	})
	if sec.TfLL > 0 && sec.BfLL > 0 {
		precast = append(precast, Component{
			Name:    "flange_ll",
			CenterX: sec.L / 2, CenterY: -sec.Tw/2 - sec.BfLL/2 + offset, CenterZ: sec.TfLL / 2,
			DX: sec.L, DY: sec.BfLL, DZ: sec.TfLL,
		})
	}
	if sec.TfRL > 0 && sec.BfRL > 0 {
		precast = append(precast, Component{
			Name:    "flange_rl",
			CenterX: sec.L / 2, CenterY: sec.Tw/2 + sec.BfRL/2 + offset, CenterZ: sec.TfRL / 2,
			DX: sec.L, DY: sec.BfRL, DZ: sec.TfRL,
		})
	}

	cast = append(cast, Component{
		Name:    "web_cast",
		CenterX: sec.L / 2, CenterY: offset, CenterZ: hp + (sec.H-hp)/2,
		DX: sec.L, DY: sec.Tw, DZ: sec.H - hp,
	})
	if sec.TfLU > 0 && sec.BfLU > 0 {
		cast = append(cast, Component{
			Name:    "flange_lu",
			CenterX: sec.L / 2, CenterY: -sec.Tw/2 - sec.BfLU/2 + offset, CenterZ: sec.H - sec.TfLU/2,
			DX: sec.L, DY: sec.BfLU, DZ: sec.TfLU,
		})
	}
	if sec.TfRU > 0 && sec.BfRU > 0 {
		cast = append(cast, Component{
			Name:    "flange_ru",
			CenterX: sec.L / 2, CenterY: sec.Tw/2 + sec.BfRU/2 + offset, CenterZ: sec.H - sec.TfRU/2,
			DX: sec.L, DY: sec.BfRU, DZ: sec.TfRU,
		})
	}
	return precast, cast
}

// isWeb reports whether a component carries the web openings.
func isWeb(c Component) bool {
	return c.Name == "web_pre" || c.Name == "web_cast"
}

// Layers is the graph output of the section build: solid ids per layer.
type Layers struct {
	Precast []graph.SolidID
	Cast    []graph.SolidID
}

// BuildSection creates every section component as a box solid in the
// registry. Openings are cut only into web components; flange components
// sit outside the opening's transverse span.
func BuildSection(reg *graph.Registry, sec *params.SectionProfile, openings []params.Opening) (*Layers, error) {
	precast, cast := SectionComponents(sec)
	layers := &Layers{}

	for _, c := range precast {
		id, err := buildComponent(reg, c, openings)
		if err != nil {
			return nil, err
		}
		layers.Precast = append(layers.Precast, id)
	}
	for _, c := range cast {
		id, err := buildComponent(reg, c, openings)
		if err != nil {
			return nil, err
		}
		layers.Cast = append(layers.Cast, id)
	}
	return layers, nil
}

func buildComponent(reg *graph.Registry, c Component, openings []params.Opening) (graph.SolidID, error) {
	x, y, z := c.Ranges()
	var holes []params.Opening
	if isWeb(c) {
		holes = openings
	}
	id, err := BuildLayerSolid(reg, x, y, z, holes)
	if err != nil {
		return 0, fmt.Errorf("component %s: %w", c.Name, err)
	}
	return id, nil
}

// ComposeKernel unions the components into one kernel solid, used as the
// geometric oracle for containment and bounding queries.
func ComposeKernel(k kernel.Kernel, components []Component) kernel.Solid {
	var out kernel.Solid
	for _, c := range components {
		x, y, z := c.Ranges()
		box := k.Translate(k.Box(c.DX, c.DY, c.DZ), x.Min, y.Min, z.Min)
		if out == nil {
			out = box
		} else {
			out = k.Union(out, box)
		}
	}
	return out
}

// SubtractDucts cuts the duct cylinders out of a kernel solid. Duct
// segments run along the beam axis.
func SubtractDucts(k kernel.Kernel, solid kernel.Solid, segments []duct.Segment) kernel.Solid {
	out := solid
	for _, s := range segments {
		cyl := k.CylinderX(s.Length, s.Radius)
		cyl = k.Translate(cyl, s.Center.X, s.Center.Y, s.Center.Z)
		out = k.Difference(out, cyl)
	}
	return out
}
