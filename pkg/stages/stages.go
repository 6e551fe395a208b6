// Package stages derives the two-stage activation plan from a synthesized
// model: the construction stage activates the precast solids and their
// embedded rebar, the service stage adds the cast-in-place solids and the
// remaining rebar while inheriting the construction state.
package stages

import (
	"fmt"

	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// DefaultEmbedTolerance is the rebar-to-concrete embedment search
// tolerance in mm.
const DefaultEmbedTolerance = 5.0

// Embedment declares that a set of rebar edges is bonded into a set of
// concrete solids within the given tolerance.
type Embedment struct {
	Rebar     []graph.EdgeID
	Solids    []graph.SolidID
	Tolerance float64
}

// Stage is one activation step of the staged analysis.
type Stage struct {
	Name         string
	Solids       []graph.SolidID
	Rebar        []graph.EdgeID
	Loads        []params.LoadCase
	Embedment    Embedment
	InheritState bool
}

// Plan is the ordered two-stage activation plan plus the shared boundary
// conditions.
type Plan struct {
	Stages      []Stage
	Boundary    params.BoundaryCondition
	SplitHeight float64
}

// ConstructionStage returns the first stage.
func (p *Plan) ConstructionStage() *Stage { return &p.Stages[0] }

// ServiceStage returns the second stage.
func (p *Plan) ServiceStage() *Stage { return &p.Stages[1] }

// BuildPlan partitions the model's rebar by the layer split height hp and
// assembles the two stages. Every rebar edge lands in exactly one stage:
// representative midpoint z below hp goes to construction, everything
// else to service. Load cases are routed by their declared stage.
func BuildPlan(m *graph.Model, precast, cast []graph.SolidID, hp float64, loads []params.LoadCase, boundary params.BoundaryCondition) (*Plan, error) {
	if hp <= 0 {
		return nil, fmt.Errorf("stages: split height must be positive, got %g", hp)
	}

	var precastRebar, castRebar []graph.EdgeID
	for _, e := range m.RebarEdges() {
		mid, ok := m.EdgeMidpoint(e)
		if !ok {
			return nil, fmt.Errorf("stages: rebar edge %d references missing nodes", e.ID)
		}
		if mid.Z < hp {
			precastRebar = append(precastRebar, e.ID)
		} else {
			castRebar = append(castRebar, e.ID)
		}
	}

	var conLoads, svcLoads []params.LoadCase
	for _, lc := range loads {
		switch lc.Stage {
		case params.StageConstruction:
			conLoads = append(conLoads, lc)
		case params.StageService:
			svcLoads = append(svcLoads, lc)
		default:
			return nil, fmt.Errorf("stages: load case %q has unknown stage %q", lc.Name, lc.Stage)
		}
	}

	return &Plan{
		SplitHeight: hp,
		Boundary:    boundary,
		Stages: []Stage{
			{
				Name:   params.StageConstruction,
				Solids: precast,
				Rebar:  precastRebar,
				Loads:  conLoads,
				Embedment: Embedment{
					Rebar:     precastRebar,
					Solids:    precast,
					Tolerance: DefaultEmbedTolerance,
				},
			},
			{
				Name:         params.StageService,
				Solids:       cast,
				Rebar:        castRebar,
				Loads:        svcLoads,
				InheritState: true,
				Embedment: Embedment{
					Rebar:     castRebar,
					Solids:    cast,
					Tolerance: DefaultEmbedTolerance,
				},
			},
		},
	}, nil
}
