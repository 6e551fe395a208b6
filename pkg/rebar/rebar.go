// Package rebar places longitudinal bars, builds adaptive closed stirrup
// rings and generates opening-localized reinforcement, enforcing hole
// avoidance throughout. One engine serves every section shape; the
// section profile's capability set selects which ring and corner-bar
// branches execute.
package rebar

import (
	"fmt"
	"math"
	"sort"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// HoleEdgeClearance pads every opening range so no bar sits exactly on an
// opening boundary line.
const HoleEdgeClearance = 2.0

// primarySegments is the sub-edge count for full-span longitudinal bars;
// openingSegments for the shorter opening bars.
const (
	primarySegments = 30
	openingSegments = 10
)

const eps = 1e-6

// Skip records an optional enhancement that was not generated, with the
// reason. Skips are aggregated into the synthesis report instead of being
// swallowed.
type Skip struct {
	Step   string
	Reason string
}

func (s Skip) String() string {
	return fmt.Sprintf("%s: %s", s.Step, s.Reason)
}

// Engine generates reinforcement into a registry. All placement decisions
// derive from the section profile; entity ids come from the injected
// registry so batch runs stay isolated.
type Engine struct {
	sec *params.SectionProfile
	reg *graph.Registry
}

// NewEngine returns an engine writing into reg.
func NewEngine(sec *params.SectionProfile, reg *graph.Registry) *Engine {
	return &Engine{sec: sec, reg: reg}
}

// flange aggregates used throughout placement.
func (e *Engine) bfUpper() float64 { return math.Max(e.sec.BfLU, e.sec.BfRU) }
func (e *Engine) bfLower() float64 { return math.Max(e.sec.BfLL, e.sec.BfRL) }
func (e *Engine) tfLower() float64 { return math.Max(e.sec.TfLL, e.sec.TfRL) }

// topWidth is the transverse extent available to top bars: web plus both
// upper flange outstands when an upper flange exists.
func (e *Engine) topWidth() float64 {
	if e.bfUpper() > eps {
		return e.sec.Tw + 2*e.bfUpper()
	}
	return e.sec.Tw
}

func (e *Engine) bottomWidth() float64 {
	if e.bfLower() > eps {
		return e.sec.Tw + 2*e.bfLower()
	}
	return e.sec.Tw
}

// LongitudinalResult reports the generated longitudinal groups. Group
// contents are also tagged in the registry under the graph group names.
type LongitudinalResult struct {
	Groups map[string][]graph.EdgeID
	Skips  []Skip
}

// CreateLongitudinal places the through bars, the support additional
// groups and the automatic corner bars. Support additional groups follow
// the classic cut-off pattern: group A spans the support zone, group B
// extends beyond it by its configured extension. Corner bars are tagged
// in separate auto groups so acceptance counts can exclude them.
func (e *Engine) CreateLongitudinal(lr *params.LongitudinalRebar, cover float64, openings []params.Opening) (*LongitudinalResult, error) {
	l, h := e.sec.L, e.sec.H
	res := &LongitudinalResult{Groups: make(map[string][]graph.EdgeID)}

	// Bottom bars sit above the lower flange; 100mm is the placement
	// floor for flange-less sections.
	tf := math.Max(e.tfLower(), 100)

	leftLen := lr.LeftSupportLength
	if leftLen <= 0 {
		leftLen = l / 3
	}
	rightLen := lr.RightSupportLength
	if rightLen <= 0 {
		rightLen = l / 3
	}

	zTopBase := h - cover
	topWidth := e.topWidth()

	// Top through group, stacked downward across rows.
	for _, z := range stackedZs(zTopBase, lr.TopRows, lr.TopRowSpacing, lr.TopThrough.Diameter, -1) {
		ys := e.yPositions(topWidth, lr.TopThrough.Count, cover, 0)
		edges := e.barLine(0, l, z, ys, lr.TopThrough.Diameter, primarySegments, openings)
		res.tag(e.reg, graph.GroupTopThrough, edges)
	}

	// Left support additional groups.
	if lr.LeftSupportTopA != nil {
		spec := lr.LeftSupportTopA
		for _, z := range stackedZs(zTopBase, lr.TopRows, lr.TopRowSpacing, spec.Diameter, -1) {
			ys := e.yPositions(topWidth, spec.Count, cover, 0)
			edges := e.barLine(0, leftLen, z, ys, spec.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupTopLeftA, edges)
		}
	}
	if lr.LeftSupportTopB != nil {
		spec := lr.LeftSupportTopB
		offset := 0
		if lr.LeftSupportTopA != nil {
			offset = lr.LeftSupportTopA.Count
		}
		for _, z := range stackedZs(zTopBase, lr.TopRows, lr.TopRowSpacing, spec.Diameter, -1) {
			ys := e.yPositions(topWidth, spec.Count, cover, offset)
			edges := e.barLine(0, math.Min(leftLen+spec.ExtendLength, l), z, ys, spec.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupTopLeftB, edges)
		}
	}

	// Right support additional groups.
	if lr.RightSupportTopA != nil {
		spec := lr.RightSupportTopA
		for _, z := range stackedZs(zTopBase, lr.TopRows, lr.TopRowSpacing, spec.Diameter, -1) {
			ys := e.yPositions(topWidth, spec.Count, cover, 0)
			edges := e.barLine(l-rightLen, l, z, ys, spec.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupTopRightA, edges)
		}
	}
	if lr.RightSupportTopB != nil {
		spec := lr.RightSupportTopB
		offset := 0
		if lr.RightSupportTopA != nil {
			offset = lr.RightSupportTopA.Count
		}
		for _, z := range stackedZs(zTopBase, lr.TopRows, lr.TopRowSpacing, spec.Diameter, -1) {
			ys := e.yPositions(topWidth, spec.Count, cover, offset)
			edges := e.barLine(math.Max(l-rightLen-spec.ExtendLength, 0), l, z, ys, spec.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupTopRightB, edges)
		}
	}

	// Top corner bars: guarantee bars at the extreme transverse flange
	// positions regardless of the requested count.
	if yCorner := topWidth/2 - cover; yCorner > eps {
		edges := e.barLine(0, l, h-cover, []float64{-yCorner, yCorner}, lr.TopThrough.Diameter, primarySegments, openings)
		res.tag(e.reg, graph.GroupTopCornerAuto, edges)
	} else {
		res.Skips = append(res.Skips, Skip{Step: "top corner bars", Reason: fmt.Sprintf("no corner room: half-width %g under cover %g", topWidth/2, cover)})
	}

	// Bottom through groups, distributed over the lower flange width and
	// stacked upward.
	bottomWidth := e.bottomWidth()
	for _, z := range stackedZs(cover, lr.BottomRows, lr.BottomRowSpacing, lr.BottomThroughA.Diameter, +1) {
		ys := e.yPositions(bottomWidth, lr.BottomThroughA.Count, cover, 0)
		edges := e.barLine(0, l, z, ys, lr.BottomThroughA.Diameter, primarySegments, openings)
		res.tag(e.reg, graph.GroupBottomThroughA, edges)
	}
	if lr.BottomThroughB != nil && lr.BottomThroughB.Count > 0 {
		spec := lr.BottomThroughB
		for _, z := range stackedZs(cover, lr.BottomRows, lr.BottomRowSpacing, spec.Diameter, +1) {
			ys := e.yPositions(bottomWidth, spec.Count, cover, lr.BottomThroughA.Count)
			edges := e.barLine(0, l, z, ys, spec.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupBottomThroughB, edges)
		}
	}

	// Bottom corner bars at the lower flange top; only sections with a
	// lower flange have corners to fill.
	if e.bfLower() > eps {
		yCorner := bottomWidth/2 - cover
		zFlangeTop := math.Max(cover, tf-cover)
		if yCorner > eps && zFlangeTop > cover+eps {
			edges := e.barLine(0, l, zFlangeTop, []float64{-yCorner, yCorner}, lr.BottomThroughA.Diameter, primarySegments, openings)
			res.tag(e.reg, graph.GroupBottomCornerAuto, edges)
		} else {
			res.Skips = append(res.Skips, Skip{Step: "bottom corner bars", Reason: fmt.Sprintf("flange band too thin: top z %g, cover %g", zFlangeTop, cover)})
		}
	} else {
		res.Skips = append(res.Skips, Skip{Step: "bottom corner bars", Reason: "section has no lower flange"})
	}

	return res, nil
}

func (r *LongitudinalResult) tag(reg *graph.Registry, group string, edges []graph.EdgeID) {
	reg.Tag(group, edges...)
	r.Groups[group] = append(r.Groups[group], edges...)
}

// stackedZs returns the z coordinates of rows stacked from baseZ. Center
// pitch is diameter plus net spacing; direction +1 stacks upward, -1
// downward.
func stackedZs(baseZ float64, rows int, spacing, diameter float64, direction int) []float64 {
	if rows < 1 {
		rows = 1
	}
	if spacing < 0 {
		spacing = 0
	}
	step := spacing
	if diameter > eps {
		step = diameter + spacing
	}
	zs := make([]float64, rows)
	for i := range zs {
		zs[i] = baseZ + float64(direction)*float64(i)*step
	}
	return zs
}

// yPositions spreads count bars equally over the effective width
// (sectionWidth minus cover on both sides); a single bar sits on the
// centerline. When offset primary bars are already placed, positions are
// drawn from the combined equally-spaced superset of count+offset
// positions, excluding the indices the primary group occupies (nearest
// integer across the combined index range). This keeps additional bars
// symmetric, inside cover, and off the primary positions.
func (e *Engine) yPositions(sectionWidth float64, count int, cover float64, offset int) []float64 {
	if count <= 0 {
		return nil
	}
	effective := sectionWidth - 2*cover
	if count == 1 {
		return []float64{0}
	}

	spacing := effective / float64(count-1)
	ys := make([]float64, count)
	for i := range ys {
		ys[i] = -effective/2 + float64(i)*spacing
	}

	if offset >= 2 {
		total := count + offset
		allSpacing := effective / float64(total-1)
		used := make(map[int]bool, offset)
		for i := 0; i < offset; i++ {
			used[int(math.Round(float64(i)*float64(total-1)/float64(offset-1)))] = true
		}
		var cand []float64
		for i := 0; i < total; i++ {
			if !used[i] {
				cand = append(cand, -effective/2+float64(i)*allSpacing)
			}
		}
		if len(cand) == count {
			ys = cand
		}
	}
	return ys
}

// holeSpan is an opening's padded x/z extent used for segment omission.
type holeSpan struct {
	x0, x1, z0, z1 float64
}

func padOpenings(openings []params.Opening) []holeSpan {
	spans := make([]holeSpan, 0, len(openings))
	for i := range openings {
		x0, x1, z0, z1 := openings[i].Bounds()
		spans = append(spans, holeSpan{
			x0: x0 - HoleEdgeClearance,
			x1: x1 + HoleEdgeClearance,
			z0: z0 - HoleEdgeClearance,
			z1: z1 + HoleEdgeClearance,
		})
	}
	return spans
}

// segHitsHole reports whether a constant-z bar segment crosses an opening
// void: the bar must run inside the web band, its z inside the padded
// opening height, and its x-span overlap the padded opening width.
// Avoidance is enforced by omission, never relocation.
func (e *Engine) segHitsHole(spans []holeSpan, xa, xb, y, z float64) bool {
	if len(spans) == 0 {
		return false
	}
	tw := e.sec.Tw
	if tw <= eps || math.Abs(y) > tw/2-eps {
		return false
	}
	for _, s := range spans {
		if z <= s.z0+eps || z >= s.z1-eps {
			continue
		}
		lo, hi := math.Min(xa, xb), math.Max(xa, xb)
		if hi > s.x0+eps && lo < s.x1-eps {
			return true
		}
	}
	return false
}

// barLine creates a group of parallel bars along x at the given y
// positions and z, each split into numSegments sub-edges with hole
// avoidance applied per segment.
func (e *Engine) barLine(xStart, xEnd, z float64, ys []float64, diameter float64, numSegments int, openings []params.Opening) []graph.EdgeID {
	spans := padOpenings(openings)

	xs := make([]float64, numSegments+1)
	for i := range xs {
		xs[i] = xStart + float64(i)*(xEnd-xStart)/float64(numSegments)
	}

	var edges []graph.EdgeID
	for _, y := range ys {
		nodeIDs := make([]graph.NodeID, len(xs))
		for i, x := range xs {
			nodeIDs[i] = e.reg.NodeAt(x, y, z)
		}
		for i := 0; i+1 < len(nodeIDs); i++ {
			if e.segHitsHole(spans, xs[i], xs[i+1], y, z) {
				continue
			}
			edges = append(edges, e.reg.RebarEdge(nodeIDs[i], nodeIDs[i+1], diameter))
		}
	}
	return edges
}

// dedupeSorted rounds, sorts and deduplicates a coordinate list.
func dedupeSorted(vals []float64) []float64 {
	seen := make(map[float64]bool, len(vals))
	var out []float64
	for _, v := range vals {
		r := math.Round(v*1e6) / 1e6
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Float64s(out)
	return out
}
