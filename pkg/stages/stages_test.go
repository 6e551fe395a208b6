package stages

import (
	"testing"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// barAt creates one horizontal rebar edge at height z.
func barAt(reg *graph.Registry, x0, x1, z float64) graph.EdgeID {
	a := reg.NodeAt(x0, 0, z)
	b := reg.NodeAt(x1, 0, z)
	return reg.RebarEdge(a, b, 20)
}

func TestBuildPlanPartition(t *testing.T) {
	reg := graph.NewRegistry()
	below := barAt(reg, 0, 7800, 25)     // midpoint z = 25
	straddle := barAt(reg, 0, 7800, 499) // below hp = 500
	above := barAt(reg, 0, 7800, 1075)
	atSplit := barAt(reg, 0, 7800, 500) // exactly hp goes to service

	plan, err := BuildPlan(reg.Snapshot(), []graph.SolidID{1}, []graph.SolidID{2}, 500, nil, params.BoundaryCondition{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	con, svc := plan.ConstructionStage(), plan.ServiceStage()
	inStage := func(s *Stage, id graph.EdgeID) bool {
		for _, e := range s.Rebar {
			if e == id {
				return true
			}
		}
		return false
	}

	for _, id := range []graph.EdgeID{below, straddle} {
		if !inStage(con, id) {
			t.Errorf("edge %d missing from construction stage", id)
		}
	}
	for _, id := range []graph.EdgeID{above, atSplit} {
		if !inStage(svc, id) {
			t.Errorf("edge %d missing from service stage", id)
		}
	}

	// Exact partition: disjoint and exhaustive.
	if len(con.Rebar)+len(svc.Rebar) != 4 {
		t.Errorf("partition covers %d edges, want 4", len(con.Rebar)+len(svc.Rebar))
	}
	for _, id := range con.Rebar {
		if inStage(svc, id) {
			t.Errorf("edge %d assigned to both stages", id)
		}
	}
}

func TestBuildPlanStageOrder(t *testing.T) {
	reg := graph.NewRegistry()
	barAt(reg, 0, 7800, 25)

	plan, err := BuildPlan(reg.Snapshot(), []graph.SolidID{1}, []graph.SolidID{2}, 500, nil, params.BoundaryCondition{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.Stages) != 2 {
		t.Fatalf("got %d stages, want 2", len(plan.Stages))
	}
	if plan.Stages[0].Name != params.StageConstruction || plan.Stages[1].Name != params.StageService {
		t.Errorf("stage order = %q, %q", plan.Stages[0].Name, plan.Stages[1].Name)
	}
	if plan.Stages[0].InheritState {
		t.Error("construction stage inherits state")
	}
	if !plan.Stages[1].InheritState {
		t.Error("service stage does not inherit state")
	}
}

func TestBuildPlanLoadRouting(t *testing.T) {
	reg := graph.NewRegistry()
	barAt(reg, 0, 7800, 25)
	loads := []params.LoadCase{
		{Name: "self_weight", Stage: params.StageConstruction},
		{Name: "live", Stage: params.StageService},
		{Name: "finishes", Stage: params.StageService},
	}

	plan, err := BuildPlan(reg.Snapshot(), nil, nil, 500, loads, params.BoundaryCondition{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plan.ConstructionStage().Loads) != 1 {
		t.Errorf("construction loads = %d, want 1", len(plan.ConstructionStage().Loads))
	}
	if len(plan.ServiceStage().Loads) != 2 {
		t.Errorf("service loads = %d, want 2", len(plan.ServiceStage().Loads))
	}

	bad := []params.LoadCase{{Name: "x", Stage: "Erection"}}
	if _, err := BuildPlan(reg.Snapshot(), nil, nil, 500, bad, params.BoundaryCondition{}); err == nil {
		t.Error("unknown load stage accepted")
	}
}

func TestBuildPlanEmbedment(t *testing.T) {
	reg := graph.NewRegistry()
	barAt(reg, 0, 7800, 25)

	plan, err := BuildPlan(reg.Snapshot(), []graph.SolidID{1, 2}, []graph.SolidID{3}, 500, nil, params.BoundaryCondition{})
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	emb := plan.ConstructionStage().Embedment
	if emb.Tolerance != DefaultEmbedTolerance {
		t.Errorf("tolerance = %g, want %g", emb.Tolerance, DefaultEmbedTolerance)
	}
	if len(emb.Rebar) != 1 || len(emb.Solids) != 2 {
		t.Errorf("embedment = %d rebar, %d solids, want 1/2", len(emb.Rebar), len(emb.Solids))
	}
}

func TestBuildPlanBadSplit(t *testing.T) {
	reg := graph.NewRegistry()
	if _, err := BuildPlan(reg.Snapshot(), nil, nil, 0, nil, params.BoundaryCondition{}); err == nil {
		t.Error("zero split height accepted")
	}
}
