package rebar

import (
	"math"
	"testing"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

func ibeamSection() *params.SectionProfile {
	return &params.SectionProfile{
		L: 7800, H: 1100, Tw: 250,
		BfLU: 125, TfLU: 150, BfRU: 125, TfRU: 150,
		BfLL: 125, TfLL: 150, BfRL: 125, TfRL: 150,
		HPre: 500,
	}
}

func webOnlySection() *params.SectionProfile {
	return &params.SectionProfile{L: 7800, H: 1100, Tw: 250, HPre: 500}
}

func testEngine(sec *params.SectionProfile) (*Engine, *graph.Registry) {
	reg := graph.NewRegistry()
	return NewEngine(sec, reg), reg
}

func TestYPositions(t *testing.T) {
	e, _ := testEngine(ibeamSection())

	if got := e.yPositions(500, 0, 25, 0); got != nil {
		t.Errorf("count 0 = %v, want nil", got)
	}
	if got := e.yPositions(500, 1, 25, 0); len(got) != 1 || got[0] != 0 {
		t.Errorf("single bar = %v, want [0]", got)
	}

	// Two bars over an effective width of 450 sit at the extremes.
	got := e.yPositions(500, 2, 25, 0)
	if len(got) != 2 || got[0] != -225 || got[1] != 225 {
		t.Errorf("two bars = %v, want [-225 225]", got)
	}

	// Four bars are equally spaced.
	got = e.yPositions(500, 4, 25, 0)
	want := []float64{-225, -75, 75, 225}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("four bars = %v, want %v", got, want)
		}
	}
}

func TestYPositionsSupersetExclusion(t *testing.T) {
	e, _ := testEngine(ibeamSection())

	// 2 additional bars among 3 primary bars: combined grid of 5 over the
	// 450 effective width, primary occupying indices 0, 2, 4.
	got := e.yPositions(500, 2, 25, 3)
	want := []float64{-112.5, 112.5}
	if len(got) != 2 {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("position %d = %g, want %g", i, got[i], want[i])
		}
	}

	// The exclusion is deterministic.
	again := e.yPositions(500, 2, 25, 3)
	for i := range got {
		if got[i] != again[i] {
			t.Fatal("superset exclusion is not deterministic")
		}
	}
}

func TestStackedZs(t *testing.T) {
	got := stackedZs(1075, 2, 25, 25, -1)
	if len(got) != 2 || got[0] != 1075 || got[1] != 1025 {
		t.Errorf("downward rows = %v, want [1075 1025]", got)
	}
	got = stackedZs(25, 3, 30, 20, +1)
	if len(got) != 3 || got[2] != 125 {
		t.Errorf("upward rows = %v, want last 125", got)
	}
	if got := stackedZs(100, 0, 0, 0, +1); len(got) != 1 {
		t.Errorf("zero rows = %v, want one row", got)
	}
}

func TestBarLineSegmentsAndHoleAvoidance(t *testing.T) {
	opening := params.Opening{X: 3900, Z: 550, Width: 2500, Height: 400}

	// A bar through the opening height inside the web drops exactly the
	// overlapping segments.
	e, _ := testEngine(ibeamSection())
	edges := e.barLine(0, 7800, 550, []float64{0}, 25, 30, []params.Opening{opening})
	if len(edges) != 20 {
		t.Errorf("got %d segments, want 20 (10 of 30 dropped over the opening)", len(edges))
	}

	// Below the opening nothing is dropped.
	e2, _ := testEngine(ibeamSection())
	edges = e2.barLine(0, 7800, 25, []float64{0}, 25, 30, []params.Opening{opening})
	if len(edges) != 30 {
		t.Errorf("got %d segments, want full 30 below the opening", len(edges))
	}

	// Outside the web band (|y| > Tw/2) the opening does not exist.
	e3, _ := testEngine(ibeamSection())
	edges = e3.barLine(0, 7800, 550, []float64{200}, 25, 30, []params.Opening{opening})
	if len(edges) != 30 {
		t.Errorf("got %d segments, want full 30 outside the web band", len(edges))
	}
}

func validLong() *params.LongitudinalRebar {
	return &params.LongitudinalRebar{
		TopThrough:     params.RebarSpec{Diameter: 25, Count: 2},
		BottomThroughA: params.RebarSpec{Diameter: 25, Count: 4},
		TopRows:        1,
		BottomRows:     1,
	}
}

func TestCreateLongitudinalGroups(t *testing.T) {
	e, reg := testEngine(ibeamSection())
	res, err := e.CreateLongitudinal(validLong(), 25, nil)
	if err != nil {
		t.Fatalf("CreateLongitudinal: %v", err)
	}

	if got := len(res.Groups[graph.GroupTopThrough]); got != 2*primarySegments {
		t.Errorf("top through = %d edges, want %d", got, 2*primarySegments)
	}
	if got := len(res.Groups[graph.GroupBottomThroughA]); got != 4*primarySegments {
		t.Errorf("bottom through = %d edges, want %d", got, 4*primarySegments)
	}
	// Both corner groups exist on the full I-section.
	if len(res.Groups[graph.GroupTopCornerAuto]) != 2*primarySegments {
		t.Errorf("top corner = %d edges, want %d", len(res.Groups[graph.GroupTopCornerAuto]), 2*primarySegments)
	}
	if len(res.Groups[graph.GroupBottomCornerAuto]) != 2*primarySegments {
		t.Errorf("bottom corner = %d edges, want %d", len(res.Groups[graph.GroupBottomCornerAuto]), 2*primarySegments)
	}
	if len(res.Skips) != 0 {
		t.Errorf("unexpected skips: %v", res.Skips)
	}

	// Registry groups mirror the result.
	m := reg.Snapshot()
	if len(m.Group(graph.GroupTopThrough)) != 2*primarySegments {
		t.Error("registry group out of sync with result")
	}
	for _, e := range m.RebarEdges() {
		if e.Diameter != 25 {
			t.Fatalf("rebar edge %d diameter = %g, want 25", e.ID, e.Diameter)
		}
	}
}

func TestCreateLongitudinalSupportGroups(t *testing.T) {
	lr := validLong()
	lr.LeftSupportTopA = &params.RebarSpec{Diameter: 22, Count: 2}
	lr.LeftSupportTopB = &params.RebarSpec{Diameter: 22, Count: 2, ExtendLength: 1000}
	lr.LeftSupportLength = 2600

	e, reg := testEngine(ibeamSection())
	res, err := e.CreateLongitudinal(lr, 25, nil)
	if err != nil {
		t.Fatalf("CreateLongitudinal: %v", err)
	}
	if len(res.Groups[graph.GroupTopLeftA]) != 2*primarySegments {
		t.Errorf("left A = %d edges, want %d", len(res.Groups[graph.GroupTopLeftA]), 2*primarySegments)
	}

	// Group A spans [0, 2600]; group B extends to 3600.
	m := reg.Snapshot()
	maxX := func(group string) float64 {
		out := 0.0
		for _, id := range m.Group(group) {
			edge, _ := m.EdgeByID(id)
			for _, nid := range []graph.NodeID{edge.A, edge.B} {
				n, _ := m.NodeByID(nid)
				out = math.Max(out, n.Pt.X)
			}
		}
		return out
	}
	if got := maxX(graph.GroupTopLeftA); math.Abs(got-2600) > 1e-9 {
		t.Errorf("left A reaches x = %g, want 2600", got)
	}
	if got := maxX(graph.GroupTopLeftB); math.Abs(got-3600) > 1e-9 {
		t.Errorf("left B reaches x = %g, want 3600", got)
	}
}

func TestCreateLongitudinalCornerSkips(t *testing.T) {
	e, _ := testEngine(webOnlySection())
	res, err := e.CreateLongitudinal(validLong(), 25, nil)
	if err != nil {
		t.Fatalf("CreateLongitudinal: %v", err)
	}

	// No lower flange: the bottom corner group must be skipped with a
	// reason, not silently dropped.
	if len(res.Groups[graph.GroupBottomCornerAuto]) != 0 {
		t.Error("bottom corner bars generated without a lower flange")
	}
	found := false
	for _, s := range res.Skips {
		if s.Step == "bottom corner bars" {
			found = true
		}
	}
	if !found {
		t.Errorf("no skip recorded for bottom corner bars; skips = %v", res.Skips)
	}
}
