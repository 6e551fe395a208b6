package rebar

import (
	"fmt"
	"math"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// ringConfig parametrizes one closed stirrup ring at a given x station.
// yOuter equals yInner for sections without a lower flange, which
// degenerates the ring to a web rectangle.
type ringConfig struct {
	yOuter   float64
	yInner   float64
	zBottom  float64
	zfLeft   float64 // left lower-flange top
	zfRight  float64 // right lower-flange top
	zTop     float64
	legs     int
	diameter float64
}

// StirrupResult reports the generated stirrup groups plus the closure
// rings that could not be emitted.
type StirrupResult struct {
	Groups map[string][]graph.EdgeID
	Skips  []Skip
}

func (r *StirrupResult) tag(reg *graph.Registry, group string, edges []graph.EdgeID) {
	if len(edges) == 0 {
		return
	}
	reg.Tag(group, edges...)
	r.Groups[group] = append(r.Groups[group], edges...)
}

// webRingConfig derives the full-height ring parameters from the section.
// Outer legs reach the lower flange faces when a lower flange exists; the
// outer-leg height adapts per side to the flange thickness, collapsing to
// the ring bottom when the flange is missing or thinner than cover.
func (e *Engine) webRingConfig(cover float64, legs int, diameter float64) ringConfig {
	tw := e.sec.Tw
	yInner := tw/2 - cover
	yOuter := yInner
	if e.bfLower() > eps {
		yOuter = (tw+2*e.bfLower())/2 - cover
	}
	zfLeft := cover
	if e.sec.BfLL > eps && e.sec.TfLL > cover+eps {
		zfLeft = e.sec.TfLL - cover
	}
	zfRight := cover
	if e.sec.BfRL > eps && e.sec.TfRL > cover+eps {
		zfRight = e.sec.TfRL - cover
	}
	return ringConfig{
		yOuter: yOuter, yInner: yInner,
		zBottom: cover, zfLeft: zfLeft, zfRight: zfRight, zTop: e.sec.H - cover,
		legs: legs, diameter: diameter,
	}
}

// CreateStirrups builds the three stirrup zones: dense zones at both beam
// ends and the normal zone between them. Ring stations falling inside a
// padded opening x-range are skipped entirely; the opening's own
// reinforcement covers that span. Flange closure rings go to a separate
// auto group.
func (e *Engine) CreateStirrups(st *params.StirrupParams, openings []params.Opening) (*StirrupResult, error) {
	if st.DenseSpacing <= 0 || st.NormalSpacing <= 0 {
		return nil, fmt.Errorf("stirrup spacing must be positive, got dense %g normal %g", st.DenseSpacing, st.NormalSpacing)
	}
	l := e.sec.L
	cover := st.EffectiveCover()
	res := &StirrupResult{Groups: make(map[string][]graph.EdgeID)}

	var skipRanges [][2]float64
	for i := range openings {
		x0, x1, _, _ := openings[i].Bounds()
		skipRanges = append(skipRanges, [2]float64{x0 - HoleEdgeClearance, x1 + HoleEdgeClearance})
	}

	dense := e.webRingConfig(cover, st.DenseLegs, st.DenseDiameter)
	normal := e.webRingConfig(cover, st.NormalLegs, st.NormalDiameter)

	e.ringZone(res, graph.GroupDenseStirrups, cover, st.DenseZoneLength, st.DenseSpacing, dense, skipRanges)
	e.ringZone(res, graph.GroupDenseStirrups, l-st.DenseZoneLength, l-cover, st.DenseSpacing, dense, skipRanges)
	e.ringZone(res, graph.GroupNormalStirrups, st.DenseZoneLength, l-st.DenseZoneLength, st.NormalSpacing, normal, skipRanges)

	// Report closure rings this section cannot carry, once per run.
	if e.bfLower() <= eps {
		res.Skips = append(res.Skips, Skip{Step: "lower flange closure rings", Reason: "section has no lower flange"})
	} else if math.Abs(dense.zfLeft-dense.zfRight) > eps {
		res.Skips = append(res.Skips, Skip{Step: "flange-top through tie", Reason: "left and right lower flange tops differ"})
	}
	if reason := e.upperRingBlocked(dense); reason != "" {
		res.Skips = append(res.Skips, Skip{Step: "upper flange closure rings", Reason: reason})
	}
	return res, nil
}

// ringZone places rings from xStart at the given pitch, stopping at xEnd.
func (e *Engine) ringZone(res *StirrupResult, group string, xStart, xEnd, spacing float64, cfg ringConfig, skipRanges [][2]float64) {
	if xEnd < xStart {
		return
	}
	count := int((xEnd-xStart)/spacing) + 1
	for i := 0; i < count; i++ {
		x := xStart + float64(i)*spacing
		if x > xEnd+eps {
			break
		}
		if inSkipRange(skipRanges, x) {
			continue
		}
		main, flange := e.buildRing(x, cfg)
		res.tag(e.reg, group, main)
		res.tag(e.reg, graph.GroupFlangeRingAuto, flange)
	}
}

func inSkipRange(ranges [][2]float64, x float64) bool {
	for _, r := range ranges {
		if x >= r[0]-eps && x <= r[1]+eps {
			return true
		}
	}
	return false
}

// buildRing creates one closed stirrup at station x and returns the main
// ring edges plus the flange closure ring edges. Two topologies: sections
// without a lower flange (or with 2 requested legs) get a web rectangle
// with optional interior ties, sections with a lower flange and 4+ legs
// get the adaptive flanged ring whose outer legs stop at the flange top.
func (e *Engine) buildRing(x float64, cfg ringConfig) (main, flange []graph.EdgeID) {
	if cfg.legs <= 2 || math.Abs(cfg.yOuter-cfg.yInner) <= eps {
		main = e.rectRing(x, -cfg.yInner, cfg.yInner, cfg.zBottom, cfg.zTop, cfg.diameter)
		if cfg.legs >= 4 {
			main = append(main, e.interiorTies(x, cfg.yInner, cfg.zBottom, cfg.zTop, cfg.legs-2, cfg.diameter)...)
		}
		// Even the degenerate ring keeps the lower flange confined when
		// the section has one.
		if math.Abs(cfg.yOuter-cfg.yInner) > eps {
			if zf := math.Min(cfg.zfLeft, cfg.zfRight); zf > cfg.zBottom+eps {
				flange = append(flange, e.rectRing(x, -cfg.yOuter, cfg.yOuter, cfg.zBottom, zf, cfg.diameter)...)
			}
		}
		flange = append(flange, e.upperFlangeRing(x, cfg)...)
		return main, flange
	}

	// Flanged ring. Bottom chord spans the full flange width in three
	// segments so the outer short legs and inner full-height legs share
	// chord nodes.
	n1 := e.reg.NodeAt(x, -cfg.yOuter, cfg.zBottom)
	n2 := e.reg.NodeAt(x, -cfg.yInner, cfg.zBottom)
	n3 := e.reg.NodeAt(x, cfg.yInner, cfg.zBottom)
	n4 := e.reg.NodeAt(x, cfg.yOuter, cfg.zBottom)
	n5 := e.reg.NodeAt(x, -cfg.yOuter, cfg.zfLeft)
	n6 := e.reg.NodeAt(x, cfg.yOuter, cfg.zfRight)
	n7 := e.reg.NodeAt(x, -cfg.yInner, cfg.zfLeft)
	n8 := e.reg.NodeAt(x, cfg.yInner, cfg.zfRight)
	n9 := e.reg.NodeAt(x, -cfg.yInner, cfg.zTop)
	n10 := e.reg.NodeAt(x, cfg.yInner, cfg.zTop)

	d := cfg.diameter
	main = append(main,
		e.reg.RebarEdge(n1, n2, d), // bottom chord
		e.reg.RebarEdge(n2, n3, d),
		e.reg.RebarEdge(n3, n4, d),
		e.reg.RebarEdge(n1, n5, d), // outer short legs
		e.reg.RebarEdge(n4, n6, d),
		e.reg.RebarEdge(n2, n7, d), // inner legs split at the flange top
		e.reg.RebarEdge(n7, n9, d),
		e.reg.RebarEdge(n3, n8, d),
		e.reg.RebarEdge(n8, n10, d),
		e.reg.RebarEdge(n5, n7, d), // flange-top ties
		e.reg.RebarEdge(n8, n6, d),
		e.reg.RebarEdge(n9, n10, d), // top chord
	)
	// A through tie across the flange top only closes when both flange
	// tops sit at the same height; a sloped tie would leave the solid.
	if math.Abs(cfg.zfLeft-cfg.zfRight) <= eps {
		main = append(main, e.reg.RebarEdge(n5, n6, d))
	}

	// Extra requested legs become full-height interior ties; the flanged
	// ring already provides 4 legs.
	if extra := cfg.legs - 4; extra > 0 {
		main = append(main, e.interiorTies(x, cfg.yInner, cfg.zBottom, cfg.zTop, extra, d)...)
	}

	flange = e.upperFlangeRing(x, cfg)
	return main, flange
}

// rectRing creates a 4-edge closed rectangle in the yz-plane at x.
func (e *Engine) rectRing(x, y1, y2, z1, z2, diameter float64) []graph.EdgeID {
	a := e.reg.NodeAt(x, y1, z1)
	b := e.reg.NodeAt(x, y2, z1)
	c := e.reg.NodeAt(x, y2, z2)
	d := e.reg.NodeAt(x, y1, z2)
	return []graph.EdgeID{
		e.reg.RebarEdge(a, b, diameter),
		e.reg.RebarEdge(b, c, diameter),
		e.reg.RebarEdge(c, d, diameter),
		e.reg.RebarEdge(d, a, diameter),
	}
}

// interiorTies spreads count full-height vertical ties inside the web.
func (e *Engine) interiorTies(x, yInner, z1, z2 float64, count int, diameter float64) []graph.EdgeID {
	if count <= 0 || yInner <= eps {
		return nil
	}
	step := 2 * yInner / float64(count+1)
	out := make([]graph.EdgeID, 0, count)
	for i := 1; i <= count; i++ {
		y := -yInner + float64(i)*step
		out = append(out, e.reg.RebarEdge(e.reg.NodeAt(x, y, z1), e.reg.NodeAt(x, y, z2), diameter))
	}
	return out
}

// upperFlangeRing closes the upper flange with a rectangle confined to
// the flange thickness. The cover is inferred back from yInner so the
// ring matches the main ring's setback.
func (e *Engine) upperFlangeRing(x float64, cfg ringConfig) []graph.EdgeID {
	if e.upperRingBlocked(cfg) != "" {
		return nil
	}
	coverEst := e.sec.Tw/2 - cfg.yInner
	yOuterUpper := e.topWidth()/2 - coverEst
	zUpperBottom := e.sec.H - math.Max(e.sec.TfLU, e.sec.TfRU) + coverEst
	return e.rectRing(x, -yOuterUpper, yOuterUpper, zUpperBottom, cfg.zTop, cfg.diameter)
}

// upperRingBlocked returns the reason an upper flange ring cannot be
// generated, or "" when it can.
func (e *Engine) upperRingBlocked(cfg ringConfig) string {
	tfUpper := math.Max(e.sec.TfLU, e.sec.TfRU)
	if e.bfUpper() <= eps || tfUpper <= eps {
		return "section has no upper flange"
	}
	coverEst := e.sec.Tw/2 - cfg.yInner
	if coverEst <= 0 {
		return "ring cover could not be inferred"
	}
	yOuterUpper := e.topWidth()/2 - coverEst
	if yOuterUpper <= cfg.yInner+eps {
		return "upper flange too narrow for an outer ring"
	}
	if cfg.zTop-(e.sec.H-tfUpper+coverEst) <= eps {
		return "upper flange too thin for a closed ring"
	}
	return ""
}
