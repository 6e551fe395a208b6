package rebar

import (
	"math"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// defaultAnchorage is the anchorage extension for opening bars when none
// is configured.
const defaultAnchorage = 300.0

// OpeningResult reports the reinforcement generated around one opening
// and the enhancements that were not configured or had no room.
type OpeningResult struct {
	Groups map[string][]graph.EdgeID
	Skips  []Skip
}

func (r *OpeningResult) tag(reg *graph.Registry, group string, edges []graph.EdgeID) {
	if len(edges) == 0 {
		return
	}
	reg.Tag(group, edges...)
	r.Groups[group] = append(r.Groups[group], edges...)
}

// CreateOpeningReinforcement generates the localized reinforcement for
// one web opening: anchored longitudinal bars above and below, flanged
// stirrup zones on both sides, and the small-beam cages confined to the
// concrete bands over and under the void. Every step that is not
// configured or cannot fit is reported as a skip, never silently
// dropped.
func (e *Engine) CreateOpeningReinforcement(o *params.Opening, cover float64) (*OpeningResult, error) {
	res := &OpeningResult{Groups: make(map[string][]graph.EdgeID)}
	h, tw := e.sec.H, e.sec.Tw
	tfLower := e.tfLower()

	xLeft, xRight, zBottomRaw, zTop := o.Bounds()

	// The effective opening bottom never dips below the lower flange top
	// or the soffit cover; sitting exactly on the flange top is nudged up
	// so the small-beam band keeps positive thickness.
	zBottom := math.Max(zBottomRaw, math.Max(tfLower, cover+1))
	if math.Abs(zBottom-tfLower) <= eps && tfLower > cover+1+eps {
		zBottom++
	}

	// Longitudinal bars above and below the void, anchored past both
	// opening edges and clamped inside the cover envelope.
	topDia, topCnt := o.TopLongSpec()
	botDia, botCnt := o.BottomLongSpec()
	if (topCnt > 0 && topDia > 0) || (botCnt > 0 && botDia > 0) {
		extend := o.ReinfExtendLength
		if extend <= 0 {
			extend = defaultAnchorage
		}
		zTopBar := math.Min(zTop+cover, h-cover)
		zBotBar := math.Max(zBottom-cover, cover)
		avoid := []params.Opening{*o}

		if topCnt > 0 && topDia > 0 {
			ys := e.yPositions(tw, topCnt, cover, 0)
			edges := e.barLine(xLeft-extend, xRight+extend, zTopBar, ys, topDia, openingSegments, avoid)
			res.tag(e.reg, graph.GroupHoleTopBars, edges)
		}
		if botCnt > 0 && botDia > 0 {
			ys := e.yPositions(tw, botCnt, cover, 0)
			edges := e.barLine(xLeft-extend, xRight+extend, zBotBar, ys, botDia, openingSegments, avoid)
			res.tag(e.reg, graph.GroupHoleBottomBars, edges)
		}
	} else {
		res.Skips = append(res.Skips, Skip{Step: "opening longitudinal bars", Reason: "no bar spec configured"})
	}

	// Side stirrup zones share the global ring shape and full height, but
	// both flange tops use the governing lower flange thickness.
	if o.SideStirrupSpacing > 0 && o.SideStirrupDiameter > 0 {
		cfg := e.webRingConfig(cover, o.SideStirrupLegs, o.SideStirrupDiameter)
		zf := math.Max(cover, tfLower-cover)
		cfg.zfLeft, cfg.zfRight = zf, zf

		if o.LeftReinfLength > 0 {
			e.sideRingZone(res, graph.GroupLeftStirrups,
				xLeft-o.LeftReinfLength, xLeft-HoleEdgeClearance, o.SideStirrupSpacing, cfg)
		} else {
			res.Skips = append(res.Skips, Skip{Step: "left side stirrups", Reason: "zone length is zero"})
		}
		if o.RightReinfLength > 0 {
			e.sideRingZone(res, graph.GroupRightStirrups,
				xRight+HoleEdgeClearance, xRight+o.RightReinfLength, o.SideStirrupSpacing, cfg)
		} else {
			res.Skips = append(res.Skips, Skip{Step: "right side stirrups", Reason: "zone length is zero"})
		}
	} else {
		res.Skips = append(res.Skips, Skip{Step: "side stirrups", Reason: "no spacing or diameter configured"})
	}

	// Small-beam cages above and below the void.
	if o.SmallBeamStirrupSpacing > 0 && o.SmallBeamStirrupDiameter > 0 {
		e.smallBeamCages(res, o, cover, zBottom, zTop)
	} else {
		res.Skips = append(res.Skips, Skip{Step: "small-beam stirrups", Reason: "no spacing or diameter configured"})
	}

	return res, nil
}

// sideRingZone places full rings beside the opening at the given pitch.
func (e *Engine) sideRingZone(res *OpeningResult, group string, xStart, xEnd, spacing float64, cfg ringConfig) {
	if xEnd < xStart {
		return
	}
	count := int((xEnd-xStart)/spacing) + 1
	for i := 0; i < count; i++ {
		x := xStart + float64(i)*spacing
		if x > xEnd+eps {
			break
		}
		main, flange := e.buildRing(x, cfg)
		res.tag(e.reg, group, main)
		res.tag(e.reg, graph.GroupFlangeRingAuto, flange)
	}
}

// smallBeamCages builds the stirrup cages for the two small beams formed
// over and under the opening. The top band runs from above the void to
// the beam top; the bottom band from the soffit up to under the void,
// wrapping the lower flange where one exists. No segment ever enters the
// void itself.
func (e *Engine) smallBeamCages(res *OpeningResult, o *params.Opening, cover, zBottom, zTop float64) {
	h, tw := e.sec.H, e.sec.Tw
	spacing := o.SmallBeamStirrupSpacing
	diameter := o.SmallBeamStirrupDiameter
	legsEff := max(2, o.EffectiveSmallBeamLegs())

	xLeft, xRight, _, _ := o.Bounds()
	x0 := xLeft + HoleEdgeClearance
	x1 := xRight - HoleEdgeClearance
	if x1 <= x0+eps {
		// Too narrow for the edge clearance: one cage at center.
		mid := (xLeft + xRight) / 2
		x0, x1 = mid, mid
	}
	var xs []float64
	count := max(1, int((x1-x0)/spacing)+1)
	for i := 0; i < count; i++ {
		x := x0 + float64(i)*spacing
		if x <= x1+eps {
			xs = append(xs, x)
		}
	}
	xs = dedupeSorted(append(xs, x0, x1))

	yWeb := tw/2 - cover
	yOuterBot := yWeb
	if e.bfLower() > eps {
		yOuterBot = (tw+2*e.bfLower())/2 - cover
	}

	topZ2 := h - cover
	topZ1 := math.Max(cover, math.Min(zTop+cover, topZ2))
	topEnabled := topZ2 > topZ1+eps
	if !topEnabled {
		res.Skips = append(res.Skips, Skip{Step: "top small-beam cage", Reason: "no concrete band above the opening"})
	}

	botZ1 := cover
	botZ2 := math.Max(botZ1+1, math.Min(h-cover, zBottom-cover))
	botEnabled := botZ2 > botZ1+eps
	if !botEnabled {
		res.Skips = append(res.Skips, Skip{Step: "bottom small-beam cage", Reason: "no concrete band below the opening"})
	}

	tfLower := e.tfLower()
	for _, x := range xs {
		if topEnabled {
			ring := e.multiLegRing(x, topZ1, topZ2, spreadYs(yWeb, legsEff), diameter)
			res.tag(e.reg, graph.GroupTopBeamStirrups, ring)
		}
		if !botEnabled {
			continue
		}
		// Outer legs reaching the flange faces may only exist inside the
		// flange thickness; above it the web is too narrow for them. The
		// stepped cage keeps the inner legs full-height and stops the
		// outer pair at the flange top.
		zStep := botZ1
		if tfLower > eps {
			zStep = math.Max(botZ1+1, math.Min(botZ2, tfLower-cover))
		}
		stepped := yOuterBot > yWeb+eps && legsEff >= 4 && zStep > botZ1+eps && zStep < botZ2-eps
		if stepped {
			innerLegs := max(2, legsEff-2)
			ring := e.multiLegRing(x, botZ1, botZ2, spreadYs(yWeb, innerLegs), diameter)
			ring = append(ring, e.multiLegRing(x, botZ1, zStep, []float64{-yOuterBot, yOuterBot}, diameter)...)
			res.tag(e.reg, graph.GroupBotBeamStirrups, ring)
		} else {
			ring := e.multiLegRing(x, botZ1, botZ2, spreadYs(yOuterBot, legsEff), diameter)
			res.tag(e.reg, graph.GroupBotBeamStirrups, ring)
		}
	}
}

// spreadYs returns the leg y-positions for a cage of the given half-width:
// both extremes plus legs-2 equally spaced interior legs.
func spreadYs(half float64, legs int) []float64 {
	if legs <= 2 || half <= eps {
		return []float64{-half, half}
	}
	k := legs - 2
	step := 2 * half / float64(k+1)
	ys := make([]float64, 0, legs)
	ys = append(ys, -half)
	for i := 1; i <= k; i++ {
		ys = append(ys, -half+float64(i)*step)
	}
	return append(ys, half)
}

// multiLegRing creates a segmented closed cage in the yz-plane: bottom
// and top chords split at every leg position plus one vertical per leg.
func (e *Engine) multiLegRing(x, z1, z2 float64, ys []float64, diameter float64) []graph.EdgeID {
	ys = dedupeSorted(ys)
	if len(ys) < 2 {
		return nil
	}
	bottom := make([]graph.NodeID, len(ys))
	top := make([]graph.NodeID, len(ys))
	for i, y := range ys {
		bottom[i] = e.reg.NodeAt(x, y, z1)
		top[i] = e.reg.NodeAt(x, y, z2)
	}
	var edges []graph.EdgeID
	for i := 0; i+1 < len(ys); i++ {
		edges = append(edges, e.reg.RebarEdge(bottom[i], bottom[i+1], diameter))
	}
	for i := 0; i+1 < len(ys); i++ {
		edges = append(edges, e.reg.RebarEdge(top[i], top[i+1], diameter))
	}
	for i := range ys {
		edges = append(edges, e.reg.RebarEdge(bottom[i], top[i], diameter))
	}
	return edges
}
