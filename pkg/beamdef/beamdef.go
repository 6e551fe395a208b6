// Package beamdef loads declarative beam definition files written in HCL
// and converts them into the parameter model. The library API takes
// params.BeamParams directly; this package only feeds the CLI.
package beamdef

import (
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"

	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

// Beam is one named beam definition from a file.
type Beam struct {
	Name   string
	Params params.BeamParams
}

// fileSchema is the top-level structure of a beam definition file.
type fileSchema struct {
	Beams []*beamBlock `hcl:"beam,block"`
}

type beamBlock struct {
	Name         string          `hcl:"name,label"`
	Section      sectionBlock    `hcl:"section,block"`
	Longitudinal longBlock       `hcl:"longitudinal,block"`
	Stirrups     stirrupBlock    `hcl:"stirrups,block"`
	Openings     []openingBlock  `hcl:"opening,block"`
	Loads        []loadBlock     `hcl:"load,block"`
	Boundary     *boundaryBlock  `hcl:"boundary,block"`
	Prestress    *prestressBlock `hcl:"prestress,block"`
}

type sectionBlock struct {
	L  float64 `hcl:"l"`
	H  float64 `hcl:"h"`
	Tw float64 `hcl:"tw"`

	BfLU float64 `hcl:"bf_lu,optional"`
	TfLU float64 `hcl:"tf_lu,optional"`
	BfRU float64 `hcl:"bf_ru,optional"`
	TfRU float64 `hcl:"tf_ru,optional"`
	BfLL float64 `hcl:"bf_ll,optional"`
	TfLL float64 `hcl:"tf_ll,optional"`
	BfRL float64 `hcl:"bf_rl,optional"`
	TfRL float64 `hcl:"tf_rl,optional"`

	HPre     float64 `hcl:"h_pre,optional"`
	TCastCap float64 `hcl:"t_cast_cap,optional"`
}

type specBlock struct {
	Diameter     float64 `hcl:"diameter"`
	Count        int     `hcl:"count"`
	ExtendLength float64 `hcl:"extend_length,optional"`
}

func (b *specBlock) toSpec() params.RebarSpec {
	return params.RebarSpec{Diameter: b.Diameter, Count: b.Count, ExtendLength: b.ExtendLength}
}

func optSpec(b *specBlock) *params.RebarSpec {
	if b == nil {
		return nil
	}
	s := b.toSpec()
	return &s
}

type longBlock struct {
	TopThrough     specBlock  `hcl:"top_through,block"`
	BottomThroughA specBlock  `hcl:"bottom_through_a,block"`
	BottomThroughB *specBlock `hcl:"bottom_through_b,block"`

	LeftSupportTopA  *specBlock `hcl:"left_support_top_a,block"`
	LeftSupportTopB  *specBlock `hcl:"left_support_top_b,block"`
	RightSupportTopA *specBlock `hcl:"right_support_top_a,block"`
	RightSupportTopB *specBlock `hcl:"right_support_top_b,block"`

	LeftSupportLength  float64 `hcl:"left_support_length,optional"`
	RightSupportLength float64 `hcl:"right_support_length,optional"`

	TopRows          int     `hcl:"top_rows,optional"`
	TopRowSpacing    float64 `hcl:"top_row_spacing,optional"`
	BottomRows       int     `hcl:"bottom_rows,optional"`
	BottomRowSpacing float64 `hcl:"bottom_row_spacing,optional"`
}

type stirrupBlock struct {
	DenseZoneLength float64 `hcl:"dense_zone_length"`
	DenseSpacing    float64 `hcl:"dense_spacing"`
	DenseLegs       int     `hcl:"dense_legs"`
	DenseDiameter   float64 `hcl:"dense_diameter"`
	NormalSpacing   float64 `hcl:"normal_spacing"`
	NormalLegs      int     `hcl:"normal_legs"`
	NormalDiameter  float64 `hcl:"normal_diameter"`
	Cover           float64 `hcl:"cover,optional"`
}

type openingBlock struct {
	X            float64 `hcl:"x"`
	Z            float64 `hcl:"z"`
	Width        float64 `hcl:"width"`
	Height       float64 `hcl:"height"`
	FilletRadius float64 `hcl:"fillet_radius,optional"`

	SmallBeamLongDiameter       float64 `hcl:"small_beam_long_diameter,optional"`
	SmallBeamLongCount          int     `hcl:"small_beam_long_count,optional"`
	SmallBeamLongTopDiameter    float64 `hcl:"small_beam_long_top_diameter,optional"`
	SmallBeamLongTopCount       int     `hcl:"small_beam_long_top_count,optional"`
	SmallBeamLongBottomDiameter float64 `hcl:"small_beam_long_bottom_diameter,optional"`
	SmallBeamLongBottomCount    int     `hcl:"small_beam_long_bottom_count,optional"`

	SmallBeamStirrupDiameter float64 `hcl:"small_beam_stirrup_diameter,optional"`
	SmallBeamStirrupSpacing  float64 `hcl:"small_beam_stirrup_spacing,optional"`
	SmallBeamStirrupLegs     int     `hcl:"small_beam_stirrup_legs,optional"`

	LeftReinfLength     float64 `hcl:"left_reinf_length,optional"`
	RightReinfLength    float64 `hcl:"right_reinf_length,optional"`
	SideStirrupSpacing  float64 `hcl:"side_stirrup_spacing,optional"`
	SideStirrupDiameter float64 `hcl:"side_stirrup_diameter,optional"`
	SideStirrupLegs     int     `hcl:"side_stirrup_legs,optional"`

	ReinfExtendLength float64 `hcl:"reinf_extend_length,optional"`
}

type concentratedBlock struct {
	X         float64 `hcl:"x"`
	Direction string  `hcl:"direction"`
	Value     float64 `hcl:"value"`
}

type distributedBlock struct {
	X1        float64 `hcl:"x1"`
	X2        float64 `hcl:"x2"`
	Direction string  `hcl:"direction"`
	Value     float64 `hcl:"value"`
}

type loadBlock struct {
	Name         string              `hcl:"name,label"`
	Stage        string              `hcl:"stage"`
	Concentrated []concentratedBlock `hcl:"concentrated,block"`
	Distributed  []distributedBlock  `hcl:"distributed,block"`
}

type boundaryBlock struct {
	LeftEnd        map[string]string  `hcl:"left_end,optional"`
	RightEnd       map[string]string  `hcl:"right_end,optional"`
	LeftEndForces  map[string]float64 `hcl:"left_end_forces,optional"`
	RightEndForces map[string]float64 `hcl:"right_end_forces,optional"`
}

type prestressBlock struct {
	Enabled      bool    `hcl:"enabled,optional"`
	Method       string  `hcl:"method,optional"`
	Force        float64 `hcl:"force,optional"`
	DuctDiameter float64 `hcl:"duct_diameter,optional"`
	PathType     string  `hcl:"path_type,optional"`
	Sag          float64 `hcl:"sag,optional"`
}

// LoadFile parses one beam definition file.
func LoadFile(path string) ([]Beam, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing beam file %s", path)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decoding beam file %s", path)
	}
	return convert(&schema)
}

// Decode parses beam definitions from an in-memory buffer. The filename
// only labels diagnostics.
func Decode(filename string, src []byte) ([]Beam, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", filename)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, errors.Wrapf(diags, "decoding %s", filename)
	}
	return convert(&schema)
}

func convert(schema *fileSchema) ([]Beam, error) {
	if len(schema.Beams) == 0 {
		return nil, errors.New("no beam blocks found")
	}
	beams := make([]Beam, 0, len(schema.Beams))
	for _, b := range schema.Beams {
		beams = append(beams, Beam{Name: b.Name, Params: b.toParams()})
	}
	return beams, nil
}

func (b *beamBlock) toParams() params.BeamParams {
	p := params.BeamParams{
		Section: params.SectionProfile{
			L: b.Section.L, H: b.Section.H, Tw: b.Section.Tw,
			BfLU: b.Section.BfLU, TfLU: b.Section.TfLU,
			BfRU: b.Section.BfRU, TfRU: b.Section.TfRU,
			BfLL: b.Section.BfLL, TfLL: b.Section.TfLL,
			BfRL: b.Section.BfRL, TfRL: b.Section.TfRL,
			HPre: b.Section.HPre, TCastCap: b.Section.TCastCap,
		},
		LongRebar: params.LongitudinalRebar{
			TopThrough:         b.Longitudinal.TopThrough.toSpec(),
			BottomThroughA:     b.Longitudinal.BottomThroughA.toSpec(),
			BottomThroughB:     optSpec(b.Longitudinal.BottomThroughB),
			LeftSupportTopA:    optSpec(b.Longitudinal.LeftSupportTopA),
			LeftSupportTopB:    optSpec(b.Longitudinal.LeftSupportTopB),
			RightSupportTopA:   optSpec(b.Longitudinal.RightSupportTopA),
			RightSupportTopB:   optSpec(b.Longitudinal.RightSupportTopB),
			LeftSupportLength:  b.Longitudinal.LeftSupportLength,
			RightSupportLength: b.Longitudinal.RightSupportLength,
			TopRows:            max(1, b.Longitudinal.TopRows),
			TopRowSpacing:      b.Longitudinal.TopRowSpacing,
			BottomRows:         max(1, b.Longitudinal.BottomRows),
			BottomRowSpacing:   b.Longitudinal.BottomRowSpacing,
		},
		Stirrup: params.StirrupParams{
			DenseZoneLength: b.Stirrups.DenseZoneLength,
			DenseSpacing:    b.Stirrups.DenseSpacing,
			DenseLegs:       b.Stirrups.DenseLegs,
			DenseDiameter:   b.Stirrups.DenseDiameter,
			NormalSpacing:   b.Stirrups.NormalSpacing,
			NormalLegs:      b.Stirrups.NormalLegs,
			NormalDiameter:  b.Stirrups.NormalDiameter,
			Cover:           b.Stirrups.Cover,
		},
	}

	for _, o := range b.Openings {
		p.Openings = append(p.Openings, params.Opening(o))
	}

	for _, l := range b.Loads {
		lc := params.LoadCase{Name: l.Name, Stage: l.Stage}
		for _, c := range l.Concentrated {
			lc.ConcentratedLoads = append(lc.ConcentratedLoads, params.ConcentratedLoad(c))
		}
		for _, d := range l.Distributed {
			lc.DistributedLoads = append(lc.DistributedLoads, params.DistributedLoad(d))
		}
		p.Loads = append(p.Loads, lc)
	}

	if b.Boundary != nil {
		p.Boundary = params.BoundaryCondition{
			LeftEnd:        b.Boundary.LeftEnd,
			RightEnd:       b.Boundary.RightEnd,
			LeftEndForces:  b.Boundary.LeftEndForces,
			RightEndForces: b.Boundary.RightEndForces,
		}
	}
	if b.Prestress != nil {
		p.Prestress = &params.PrestressParams{
			Enabled:      b.Prestress.Enabled,
			Method:       b.Prestress.Method,
			Force:        b.Prestress.Force,
			DuctDiameter: b.Prestress.DuctDiameter,
			PathType:     b.Prestress.PathType,
			Sag:          b.Prestress.Sag,
		}
	}
	return p
}
