package graph

import (
	"fmt"
	"math"
)

// Severity indicates whether a validation finding blocks the result or is
// merely advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks the result
	SeverityWarning                 // advisory
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single validation result.
type Finding struct {
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
}

// Result bundles errors (blocking) and warnings (advisory) from all
// validation tiers.
type Result struct {
	Errors   []Finding
	Warnings []Finding
}

func (r *Result) add(f Finding) {
	if f.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, f)
	} else {
		r.Errors = append(r.Errors, f)
	}
}

// OK reports whether no blocking errors were found.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Envelope is the beam's bounding box used by geometric validation:
// [0,Length] x [-Width/2, Width/2] x [0,Height].
type Envelope struct {
	Length float64
	Width  float64
	Height float64
}

// VoidBox is the x/z extent of an opening void cut through the web.
type VoidBox struct {
	XMin, XMax float64
	ZMin, ZMax float64
}

// Validate runs structural reference checks on the model: every edge
// endpoint, surface loop member and solid face must exist, and every
// surface loop must close head to tail.
func Validate(m *Model) *Result {
	res := &Result{}

	for _, e := range m.Edges {
		if _, ok := m.NodeByID(e.A); !ok {
			res.add(Finding{Message: fmt.Sprintf("edge %d references missing node %d", e.ID, e.A), Severity: SeverityError})
		}
		if _, ok := m.NodeByID(e.B); !ok {
			res.add(Finding{Message: fmt.Sprintf("edge %d references missing node %d", e.ID, e.B), Severity: SeverityError})
		}
		if e.Kind == EdgeRebar && e.Diameter <= 0 {
			res.add(Finding{Message: fmt.Sprintf("rebar edge %d has no diameter", e.ID), Severity: SeverityError})
		}
	}

	for _, s := range m.Surfaces {
		res.validateLoop(m, s.ID, "outer", s.Outer)
		for i, loop := range s.Inner {
			res.validateLoop(m, s.ID, fmt.Sprintf("inner[%d]", i), loop)
		}
	}

	for _, sol := range m.Solids {
		for _, fid := range sol.Faces {
			if _, ok := m.SurfaceByID(fid); !ok {
				res.add(Finding{Message: fmt.Sprintf("solid %d references missing surface %d", sol.ID, fid), Severity: SeverityError})
			}
		}
	}

	return res
}

// validateLoop checks that a loop's edges exist and form a closed cycle:
// consecutive edges share a node and the last connects back to the first.
func (r *Result) validateLoop(m *Model, sid SurfaceID, label string, loop []EdgeID) {
	if len(loop) < 3 {
		r.add(Finding{Message: fmt.Sprintf("surface %d %s loop has %d edges, need >= 3", sid, label, len(loop)), Severity: SeverityError})
		return
	}
	edges := make([]Edge, 0, len(loop))
	for _, eid := range loop {
		e, ok := m.EdgeByID(eid)
		if !ok {
			r.add(Finding{Message: fmt.Sprintf("surface %d %s loop references missing edge %d", sid, label, eid), Severity: SeverityError})
			return
		}
		edges = append(edges, e)
	}
	// Each loop node must appear on exactly two loop edges.
	degree := make(map[NodeID]int)
	for _, e := range edges {
		degree[e.A]++
		degree[e.B]++
	}
	for nid, d := range degree {
		if d != 2 {
			r.add(Finding{Message: fmt.Sprintf("surface %d %s loop is not closed at node %d (degree %d)", sid, label, nid, d), Severity: SeverityError})
			return
		}
	}
}

// ValidateGeometry runs geometric checks against the beam envelope and
// opening voids: boundary nodes must lie inside the envelope, and no rebar
// segment may sit inside a padded void while crossing the web band.
// Containment uses a small tolerance so nodes exactly on a face pass.
func ValidateGeometry(m *Model, env Envelope, voids []VoidBox, webHalfWidth, pad float64) *Result {
	const tol = 1e-6
	res := &Result{}

	halfW := env.Width / 2
	for _, n := range m.Nodes {
		p := n.Pt
		if p.X < -tol || p.X > env.Length+tol ||
			p.Y < -halfW-tol || p.Y > halfW+tol ||
			p.Z < -tol || p.Z > env.Height+tol {
			res.add(Finding{Message: fmt.Sprintf("node %d at %s outside beam envelope", n.ID, p), Severity: SeverityError})
		}
	}

	for _, e := range m.RebarEdges() {
		a, okA := m.NodeByID(e.A)
		b, okB := m.NodeByID(e.B)
		if !okA || !okB {
			continue // reported by Validate
		}
		y := (a.Pt.Y + b.Pt.Y) / 2
		z := (a.Pt.Z + b.Pt.Z) / 2
		if math.Abs(y) > webHalfWidth-tol {
			continue // outside the web band, cannot cross a through-hole
		}
		lo := math.Min(a.Pt.X, b.Pt.X)
		hi := math.Max(a.Pt.X, b.Pt.X)
		for _, v := range voids {
			if z <= v.ZMin-pad+tol || z >= v.ZMax+pad-tol {
				continue
			}
			if hi > v.XMin-pad+tol && lo < v.XMax+pad-tol {
				res.add(Finding{Message: fmt.Sprintf("rebar edge %d crosses opening void x[%g,%g] z[%g,%g]", e.ID, v.XMin, v.XMax, v.ZMin, v.ZMax), Severity: SeverityError})
				break
			}
		}
	}

	return res
}

// ValidateAll runs both tiers and merges the findings.
func ValidateAll(m *Model, env Envelope, voids []VoidBox, webHalfWidth, pad float64) *Result {
	res := Validate(m)
	geo := ValidateGeometry(m, env, voids, webHalfWidth, pad)
	res.Errors = append(res.Errors, geo.Errors...)
	res.Warnings = append(res.Warnings, geo.Warnings...)
	return res
}
