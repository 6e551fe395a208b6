// Package synth runs the full synthesis pipeline in one synchronous pass:
// validated parameters in, an immutable entity graph plus the two-stage
// activation plan out. A run either completes with a full graph or fails
// with none.
package synth

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Dopamine-mania/pkpm-plug/pkg/duct"
	"github.com/Dopamine-mania/pkpm-plug/pkg/fillet"
	"github.com/Dopamine-mania/pkpm-plug/pkg/geometry"
	"github.com/Dopamine-mania/pkpm-plug/pkg/graph"
	"github.com/Dopamine-mania/pkpm-plug/pkg/kernel"
	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
	"github.com/Dopamine-mania/pkpm-plug/pkg/rebar"
	"github.com/Dopamine-mania/pkpm-plug/pkg/stages"
)

// Duct discretization defaults, matching the path generators.
const (
	straightSegments  = 10
	parabolicSegments = 20
)

// Report aggregates the advisory output of a run: validation warnings and
// the enhancement steps that were skipped with their reasons.
type Report struct {
	Warnings []string
	Skips    []rebar.Skip
}

// Result is the immutable output of one synthesis run.
type Result struct {
	Model  *graph.Model
	Plan   *stages.Plan
	Report Report
}

// Options tunes a run. The zero value is usable: logging is discarded and
// no kernel oracle checks run.
type Options struct {
	Logger *slog.Logger
	// Kernel enables the geometric oracle: the precast layer is composed
	// as a kernel solid, duct voids are subtracted and duct containment
	// is spot-checked, downgrading failures to warnings.
	Kernel kernel.Kernel
}

func (o *Options) logger() *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Synthesize builds the entity graph and activation plan for one beam.
// Parameter validation failures abort before anything is created; graph
// validation failures after generation abort the run as a whole.
func Synthesize(p *params.BeamParams, opts *Options) (*Result, error) {
	log := opts.logger()

	// Defaulting works on a copy; the caller's parameters stay untouched.
	bp := *p
	if p.Prestress != nil {
		ps := *p.Prestress
		bp.Prestress = &ps
	}
	bp.ApplyDefaults()

	if errs := validateParams(&bp); len(errs) > 0 {
		return nil, fmt.Errorf("synth: invalid parameters: %w", errors.Join(errs...))
	}

	sec := &bp.Section
	hp := sec.EffectiveSplitHeight()
	reg := graph.NewRegistry()
	report := Report{}

	log.Info("building section solids",
		"length", sec.L, "height", sec.H, "split", hp, "openings", len(bp.Openings))
	layers, err := geometry.BuildSection(reg, sec, bp.Openings)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	segments, ductWarnings, err := buildDuct(sec, bp.Prestress, hp)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}
	report.Warnings = append(report.Warnings, ductWarnings...)

	if opts != nil && opts.Kernel != nil {
		report.Warnings = append(report.Warnings, oracleChecks(opts.Kernel, sec, segments)...)
	}

	cover := bp.Stirrup.EffectiveCover()
	eng := rebar.NewEngine(sec, reg)

	longRes, err := eng.CreateLongitudinal(&bp.LongRebar, cover, bp.Openings)
	if err != nil {
		return nil, fmt.Errorf("synth: longitudinal rebar: %w", err)
	}
	report.Skips = append(report.Skips, longRes.Skips...)

	stirRes, err := eng.CreateStirrups(&bp.Stirrup, bp.Openings)
	if err != nil {
		return nil, fmt.Errorf("synth: stirrups: %w", err)
	}
	report.Skips = append(report.Skips, stirRes.Skips...)

	for i := range bp.Openings {
		openRes, err := eng.CreateOpeningReinforcement(&bp.Openings[i], cover)
		if err != nil {
			return nil, fmt.Errorf("synth: opening %d reinforcement: %w", i+1, err)
		}
		report.Skips = append(report.Skips, openRes.Skips...)
	}

	m := reg.Snapshot()
	log.Info("graph assembled",
		"nodes", len(m.Nodes), "edges", len(m.Edges),
		"surfaces", len(m.Surfaces), "solids", len(m.Solids), "groups", len(m.Groups))

	vres := graph.ValidateAll(m, envelope(sec), voids(bp.Openings), sec.Tw/2, rebar.HoleEdgeClearance)
	for _, w := range vres.Warnings {
		report.Warnings = append(report.Warnings, w.Message)
	}
	if !vres.OK() {
		errs := make([]error, 0, len(vres.Errors))
		for _, f := range vres.Errors {
			errs = append(errs, f)
		}
		return nil, fmt.Errorf("synth: graph validation failed: %w", errors.Join(errs...))
	}

	plan, err := stages.BuildPlan(m, layers.Precast, layers.Cast, hp, bp.Loads, bp.Boundary)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}
	log.Info("activation plan ready",
		"construction_rebar", len(plan.ConstructionStage().Rebar),
		"service_rebar", len(plan.ServiceStage().Rebar))

	return &Result{Model: m, Plan: plan, Report: report}, nil
}

// validateParams runs the cross-field parameter checks plus the fillet
// bound for every opening.
func validateParams(bp *params.BeamParams) []error {
	errs := bp.Validate()
	for i := range bp.Openings {
		o := &bp.Openings[i]
		if !fillet.Validate(o.FilletRadius, o.Width, o.Height) {
			errs = append(errs, fmt.Errorf("opening %d: fillet radius %g invalid for a %gx%g opening",
				i+1, o.FilletRadius, o.Width, o.Height))
		}
	}
	return errs
}

// buildDuct generates and validates the post-tensioning duct segments.
// Pretensioned beams carry no duct void.
func buildDuct(sec *params.SectionProfile, ps *params.PrestressParams, hp float64) ([]duct.Segment, []string, error) {
	if ps == nil || !ps.Enabled || ps.Method != params.MethodPostTension {
		return nil, nil, nil
	}

	// Anchors at both beam ends, mid-height of the precast layer on the
	// web centerline.
	start := graph.Point3D{X: 0, Y: sec.WebOffsetY(), Z: hp / 2}
	end := graph.Point3D{X: sec.L, Y: sec.WebOffsetY(), Z: hp / 2}

	var path []graph.Point3D
	if ps.PathType == params.PathParabolic {
		path = duct.ParabolicPath(start, end, ps.Sag, parabolicSegments)
	} else {
		path = duct.StraightPath(start, end, straightSegments)
	}

	warnings, err := duct.ValidatePath(path, ps.DuctDiameter, sec.L, hp)
	if err != nil {
		return nil, warnings, err
	}
	segments, err := duct.Cylinders(path, ps.DuctDiameter)
	if err != nil {
		return nil, warnings, err
	}
	return segments, warnings, nil
}

// oracleChecks composes the precast layer as a kernel solid, subtracts
// the duct voids and spot-checks that each duct center was removed.
func oracleChecks(k kernel.Kernel, sec *params.SectionProfile, segments []duct.Segment) []string {
	if len(segments) == 0 {
		return nil
	}
	precast, _ := geometry.SectionComponents(sec)
	solid := geometry.ComposeKernel(k, precast)
	cut := geometry.SubtractDucts(k, solid, segments)

	var warnings []string
	for i, s := range segments {
		if cut.Contains(s.Center.X, s.Center.Y, s.Center.Z) {
			warnings = append(warnings,
				fmt.Sprintf("duct segment %d center %s not removed from the precast solid", i+1, s.Center))
		}
	}
	return warnings
}

// envelope derives the validation bounding box from the widest section
// component on either side.
func envelope(sec *params.SectionProfile) graph.Envelope {
	precast, cast := geometry.SectionComponents(sec)
	var halfW float64
	for _, c := range append(precast, cast...) {
		halfW = math.Max(halfW, math.Max(
			math.Abs(c.CenterY-c.DY/2),
			math.Abs(c.CenterY+c.DY/2)))
	}
	return graph.Envelope{Length: sec.L, Width: 2 * halfW, Height: sec.H}
}

func voids(openings []params.Opening) []graph.VoidBox {
	out := make([]graph.VoidBox, 0, len(openings))
	for i := range openings {
		x0, x1, z0, z1 := openings[i].Bounds()
		out = append(out, graph.VoidBox{XMin: x0, XMax: x1, ZMin: z0, ZMax: z1})
	}
	return out
}
