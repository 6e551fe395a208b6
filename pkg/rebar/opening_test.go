package rebar

import (
	"testing"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

func testOpening() *params.Opening {
	return &params.Opening{
		X: 3900, Z: 550, Width: 2500, Height: 400,
		SmallBeamLongDiameter:    16,
		SmallBeamLongCount:       2,
		SmallBeamStirrupDiameter: 8,
		SmallBeamStirrupSpacing:  500,
		ReinfExtendLength:        300,
		LeftReinfLength:          500,
		RightReinfLength:         500,
		SideStirrupSpacing:       50,
		SideStirrupDiameter:      10,
		SideStirrupLegs:          4,
	}
}

func TestOpeningLongBars(t *testing.T) {
	e, _ := testEngine(ibeamSection())
	res, err := e.CreateOpeningReinforcement(testOpening(), 25)
	if err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	// 2 bars, 10 segments each; both bar levels clear the void height so
	// nothing is dropped.
	if got := len(res.Groups[graph.GroupHoleTopBars]); got != 2*openingSegments {
		t.Errorf("top bars = %d edges, want %d", got, 2*openingSegments)
	}
	if got := len(res.Groups[graph.GroupHoleBottomBars]); got != 2*openingSegments {
		t.Errorf("bottom bars = %d edges, want %d", got, 2*openingSegments)
	}
}

func TestOpeningLongBarLevels(t *testing.T) {
	e, reg := testEngine(ibeamSection())
	if _, err := e.CreateOpeningReinforcement(testOpening(), 25); err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	m := reg.Snapshot()
	zOf := func(group string) float64 {
		ids := m.Group(group)
		edge, _ := m.EdgeByID(ids[0])
		n, _ := m.NodeByID(edge.A)
		return n.Pt.Z
	}
	// Top bars sit cover above the void top, bottom bars cover below the
	// void bottom.
	if got := zOf(graph.GroupHoleTopBars); got != 775 {
		t.Errorf("top bar z = %g, want 775", got)
	}
	if got := zOf(graph.GroupHoleBottomBars); got != 325 {
		t.Errorf("bottom bar z = %g, want 325", got)
	}
}

func TestOpeningSideStirrups(t *testing.T) {
	e, _ := testEngine(ibeamSection())
	res, err := e.CreateOpeningReinforcement(testOpening(), 25)
	if err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	// 10 full flanged rings on each side, 13 edges per ring.
	if got := len(res.Groups[graph.GroupLeftStirrups]); got != 10*13 {
		t.Errorf("left stirrups = %d edges, want %d", got, 10*13)
	}
	if got := len(res.Groups[graph.GroupRightStirrups]); got != 10*13 {
		t.Errorf("right stirrups = %d edges, want %d", got, 10*13)
	}
}

func TestOpeningSmallBeamCages(t *testing.T) {
	e, _ := testEngine(ibeamSection())
	res, err := e.CreateOpeningReinforcement(testOpening(), 25)
	if err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	// 5 pitch stations plus the forced far endpoint = 6 stations.
	// Top cage: 4 legs over the web, 10 edges per station.
	if got := len(res.Groups[graph.GroupTopBeamStirrups]); got != 6*10 {
		t.Errorf("top cages = %d edges, want %d", got, 6*10)
	}
	// Bottom cage is stepped: 2-leg inner ring over the full band plus a
	// 2-leg outer ring confined to the flange, 8 edges per station.
	if got := len(res.Groups[graph.GroupBotBeamStirrups]); got != 6*8 {
		t.Errorf("bottom cages = %d edges, want %d", got, 6*8)
	}
}

func TestOpeningSteppedCageStaysInFlange(t *testing.T) {
	e, reg := testEngine(ibeamSection())
	if _, err := e.CreateOpeningReinforcement(testOpening(), 25); err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	// Outer legs (|y| > web half-width) must not rise above the lower
	// flange top minus cover.
	m := reg.Snapshot()
	for _, id := range m.Group(graph.GroupBotBeamStirrups) {
		edge, _ := m.EdgeByID(id)
		for _, nid := range []graph.NodeID{edge.A, edge.B} {
			n, _ := m.NodeByID(nid)
			if n.Pt.Y > 125 || n.Pt.Y < -125 {
				if n.Pt.Z > 125+1e-9 {
					t.Fatalf("outer cage node at y=%g z=%g leaves the flange band", n.Pt.Y, n.Pt.Z)
				}
			}
		}
	}
}

func TestOpeningSkipsWhenUnconfigured(t *testing.T) {
	bare := &params.Opening{X: 3900, Z: 550, Width: 2500, Height: 400}
	e, _ := testEngine(ibeamSection())
	res, err := e.CreateOpeningReinforcement(bare, 25)
	if err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}

	if len(res.Groups) != 0 {
		t.Errorf("unexpected groups: %v", res.Groups)
	}
	steps := make(map[string]bool)
	for _, s := range res.Skips {
		steps[s.Step] = true
	}
	for _, want := range []string{"opening longitudinal bars", "side stirrups", "small-beam stirrups"} {
		if !steps[want] {
			t.Errorf("missing skip %q, got %v", want, res.Skips)
		}
	}
}

func TestOpeningNearTopSkipsTopCage(t *testing.T) {
	o := testOpening()
	o.Z, o.Height = 950, 200 // void top at 1050, no band above it

	e, _ := testEngine(ibeamSection())
	res, err := e.CreateOpeningReinforcement(o, 25)
	if err != nil {
		t.Fatalf("CreateOpeningReinforcement: %v", err)
	}
	if len(res.Groups[graph.GroupTopBeamStirrups]) != 0 {
		t.Error("top cage generated with no concrete band above the opening")
	}
	found := false
	for _, s := range res.Skips {
		if s.Step == "top small-beam cage" {
			found = true
		}
	}
	if !found {
		t.Errorf("no skip for the top cage; skips = %v", res.Skips)
	}
}
