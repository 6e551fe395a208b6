// Package params defines the validated beam parameter model consumed by
// the synthesis pipeline: section profile, longitudinal and transverse
// reinforcement rules, web openings, prestress, loads and boundary
// conditions. All dimensions are millimeters.
package params

import (
	"fmt"
	"math"
)

// symTol is the tolerance used when comparing flange dimensions.
const symTol = 1e-6

// ParameterError reports a malformed or out-of-range input parameter.
type ParameterError struct {
	Field   string
	Message string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter %s: %s", e.Field, e.Message)
}

func errf(field, format string, args ...interface{}) error {
	return &ParameterError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// SectionProfile describes the composite beam cross-section. Flanges are
// specified per side and per level and may be asymmetric. Widths are
// measured from the web face outward; a width or thickness of zero omits
// that flange component.
type SectionProfile struct {
	L  float64 `json:"l"`  // beam length
	H  float64 `json:"h"`  // overall height
	Tw float64 `json:"tw"` // web thickness

	BfLU float64 `json:"bf_lu"` // upper-left flange width
	TfLU float64 `json:"tf_lu"` // upper-left flange thickness
	BfRU float64 `json:"bf_ru"` // upper-right flange width
	TfRU float64 `json:"tf_ru"` // upper-right flange thickness

	BfLL float64 `json:"bf_ll"` // lower-left flange width
	TfLL float64 `json:"tf_ll"` // lower-left flange thickness
	BfRL float64 `json:"bf_rl"` // lower-right flange width
	TfRL float64 `json:"tf_rl"` // lower-right flange thickness

	HPre     float64 `json:"h_pre"`      // precast layer height
	TCastCap float64 `json:"t_cast_cap"` // cast cap thickness, 0 = use HPre
}

// Validate checks the profile at construction time. Nothing is partially
// accepted; the first violation is returned.
func (s *SectionProfile) Validate() error {
	if s.L <= 0 {
		return errf("l", "beam length must be positive, got %g", s.L)
	}
	if s.H <= 0 {
		return errf("h", "beam height must be positive, got %g", s.H)
	}
	if s.Tw <= 0 {
		return errf("tw", "web thickness must be positive, got %g", s.Tw)
	}
	if s.HPre < 0 {
		return errf("h_pre", "precast height cannot be negative, got %g", s.HPre)
	}
	if s.TCastCap < 0 {
		return errf("t_cast_cap", "cast cap thickness cannot be negative, got %g", s.TCastCap)
	}

	tfUpper := math.Max(s.TfLU, s.TfRU)
	if s.TCastCap > 0 {
		if tfUpper <= symTol {
			return errf("t_cast_cap", "cast cap requires a top flange")
		}
		if s.TCastCap >= tfUpper {
			return errf("t_cast_cap", "cast cap thickness must be below top flange thickness %g, got %g", tfUpper, s.TCastCap)
		}
		if s.TCastCap >= s.H {
			return errf("t_cast_cap", "cast cap thickness must be below beam height %g, got %g", s.H, s.TCastCap)
		}
	} else if s.HPre <= 0 || s.HPre >= s.H {
		return errf("h_pre", "precast height must be in (0, %g), got %g", s.H, s.HPre)
	}
	return nil
}

// HasTopFlange reports whether any top flange component has real extent.
func (s *SectionProfile) HasTopFlange() bool {
	return math.Max(s.BfLU, s.BfRU) > symTol && math.Max(s.TfLU, s.TfRU) > symTol
}

// HasBottomFlange reports whether any bottom flange component has real extent.
func (s *SectionProfile) HasBottomFlange() bool {
	return math.Max(s.BfLL, s.BfRL) > symTol && math.Max(s.TfLL, s.TfRL) > symTol
}

// IsSymmetricTop reports whether left and right top flanges match.
func (s *SectionProfile) IsSymmetricTop() bool {
	return math.Abs(s.BfLU-s.BfRU) < symTol && math.Abs(s.TfLU-s.TfRU) < symTol
}

// IsSymmetricBottom reports whether left and right bottom flanges match.
func (s *SectionProfile) IsSymmetricBottom() bool {
	return math.Abs(s.BfLL-s.BfRL) < symTol && math.Abs(s.TfLL-s.TfRL) < symTol
}

// IsRectangular reports whether the section degenerates to a rectangle,
// i.e. every flange width equals the web half-thickness.
func (s *SectionProfile) IsRectangular() bool {
	half := s.Tw / 2
	return math.Abs(s.BfLU-half) < symTol &&
		math.Abs(s.BfRU-half) < symTol &&
		math.Abs(s.BfLL-half) < symTol &&
		math.Abs(s.BfRL-half) < symTol
}

// IsTShaped reports whether only the top flanges have real extent.
func (s *SectionProfile) IsTShaped() bool {
	half := s.Tw / 2
	return !s.IsRectangular() &&
		math.Abs(s.BfLL-half) < symTol &&
		math.Abs(s.BfRL-half) < symTol
}

// WebOffsetY returns the y-coordinate of the web centerline. For an
// asymmetric section the web spans -BfLL to +BfRL, so the centerline sits
// at (BfRL - BfLL)/2 rather than zero.
func (s *SectionProfile) WebOffsetY() float64 {
	return (s.BfRL - s.BfLL) / 2
}

// EffectiveSplitHeight returns hp, the z-boundary between the precast and
// cast-in-place layers. When a usable top flange exists and TCastCap is
// set, hp = H - TCastCap with the cap clamped to [1, tfUpper-1]; otherwise
// hp falls back to HPre.
func (s *SectionProfile) EffectiveSplitHeight() float64 {
	bfUpper := math.Max(s.BfLU, s.BfRU)
	tfUpper := math.Max(s.TfLU, s.TfRU)
	if bfUpper > symTol && tfUpper > symTol && s.TCastCap > symTol {
		t := math.Max(1, s.TCastCap)
		t = math.Min(t, tfUpper-1)
		return s.H - t
	}
	return s.HPre
}

// Capabilities is the section feature set that selects rebar and stirrup
// topology branches.
type Capabilities struct {
	HasTopFlange    bool
	HasBottomFlange bool
	Asymmetric      bool
}

// Capabilities derives the topology capability set from the profile.
func (s *SectionProfile) Capabilities() Capabilities {
	return Capabilities{
		HasTopFlange:    s.HasTopFlange(),
		HasBottomFlange: s.HasBottomFlange(),
		Asymmetric:      !s.IsSymmetricTop() || !s.IsSymmetricBottom(),
	}
}

// RebarSpec is one longitudinal bar group: diameter, bar count, and the
// anchorage extension used by additional (cut-off) groups.
type RebarSpec struct {
	Diameter     float64 `json:"diameter"`
	Count        int     `json:"count"`
	ExtendLength float64 `json:"extend_length"`
}

// Validate checks the spec.
func (r *RebarSpec) Validate() error {
	if r.Diameter <= 0 {
		return errf("diameter", "bar diameter must be positive, got %g", r.Diameter)
	}
	if r.Count <= 0 {
		return errf("count", "bar count must be positive, got %d", r.Count)
	}
	if r.ExtendLength < 0 {
		return errf("extend_length", "extend length cannot be negative, got %g", r.ExtendLength)
	}
	return nil
}

// Area returns the cross-section area of one bar in mm².
func (r *RebarSpec) Area() float64 {
	return math.Pi * (r.Diameter / 2) * (r.Diameter / 2)
}

// LongitudinalRebar describes the through bars plus optional support
// additional groups in the classic A/B cut-off pattern: group B extends
// beyond group A's zone by its ExtendLength. Support zone lengths default
// to L/3 when zero. Rows stack bars vertically at a center pitch of
// diameter plus the configured net spacing.
type LongitudinalRebar struct {
	TopThrough     RebarSpec  `json:"top_through"`
	BottomThroughA RebarSpec  `json:"bottom_through_a"`
	BottomThroughB *RebarSpec `json:"bottom_through_b,omitempty"`

	LeftSupportTopA  *RebarSpec `json:"left_support_top_a,omitempty"`
	LeftSupportTopB  *RebarSpec `json:"left_support_top_b,omitempty"`
	RightSupportTopA *RebarSpec `json:"right_support_top_a,omitempty"`
	RightSupportTopB *RebarSpec `json:"right_support_top_b,omitempty"`

	LeftSupportLength  float64 `json:"left_support_length"`  // 0 = L/3
	RightSupportLength float64 `json:"right_support_length"` // 0 = L/3

	TopRows          int     `json:"top_rows"`
	TopRowSpacing    float64 `json:"top_row_spacing"` // net spacing
	BottomRows       int     `json:"bottom_rows"`
	BottomRowSpacing float64 `json:"bottom_row_spacing"`
}

// Validate checks the longitudinal configuration.
func (l *LongitudinalRebar) Validate() error {
	if err := l.TopThrough.Validate(); err != nil {
		return err
	}
	if err := l.BottomThroughA.Validate(); err != nil {
		return err
	}
	for _, opt := range []*RebarSpec{l.BottomThroughB, l.LeftSupportTopA, l.LeftSupportTopB, l.RightSupportTopA, l.RightSupportTopB} {
		if opt == nil {
			continue
		}
		if err := opt.Validate(); err != nil {
			return err
		}
	}
	if l.TopRows < 1 {
		return errf("top_rows", "row count must be >= 1, got %d", l.TopRows)
	}
	if l.BottomRows < 1 {
		return errf("bottom_rows", "row count must be >= 1, got %d", l.BottomRows)
	}
	if l.TopRowSpacing < 0 {
		return errf("top_row_spacing", "row spacing cannot be negative, got %g", l.TopRowSpacing)
	}
	if l.BottomRowSpacing < 0 {
		return errf("bottom_row_spacing", "row spacing cannot be negative, got %g", l.BottomRowSpacing)
	}
	return nil
}

// StirrupParams configures the three stirrup zones: a dense zone at each
// beam end and the normal zone between them.
type StirrupParams struct {
	DenseZoneLength float64 `json:"dense_zone_length"`
	DenseSpacing    float64 `json:"dense_spacing"`
	DenseLegs       int     `json:"dense_legs"`
	DenseDiameter   float64 `json:"dense_diameter"`

	NormalSpacing  float64 `json:"normal_spacing"`
	NormalLegs     int     `json:"normal_legs"`
	NormalDiameter float64 `json:"normal_diameter"`

	Cover float64 `json:"cover"`
}

// DefaultCover is the concrete cover applied when none is configured.
const DefaultCover = 25.0

// Validate checks the stirrup configuration. Leg counts must be even and
// at least 2.
func (s *StirrupParams) Validate() error {
	if s.DenseLegs < 2 {
		return errf("dense_legs", "stirrup leg count must be at least 2, got %d", s.DenseLegs)
	}
	if s.NormalLegs < 2 {
		return errf("normal_legs", "stirrup leg count must be at least 2, got %d", s.NormalLegs)
	}
	if s.DenseLegs%2 != 0 {
		return errf("dense_legs", "stirrup leg count must be even, got %d", s.DenseLegs)
	}
	if s.NormalLegs%2 != 0 {
		return errf("normal_legs", "stirrup leg count must be even, got %d", s.NormalLegs)
	}
	if s.DenseSpacing <= 0 || s.NormalSpacing <= 0 {
		return errf("spacing", "stirrup spacing must be positive")
	}
	if s.DenseDiameter <= 0 || s.NormalDiameter <= 0 {
		return errf("diameter", "stirrup diameter must be positive")
	}
	return nil
}

// EffectiveCover returns the configured cover or the default.
func (s *StirrupParams) EffectiveCover() float64 {
	if s.Cover > 0 {
		return s.Cover
	}
	return DefaultCover
}

// Opening is a rectangular web opening with optional corner fillets and
// its localized reinforcement: small-beam cages above and below, and side
// stirrup reinforcement zones.
type Opening struct {
	X            float64 `json:"x"` // center, from beam start
	Z            float64 `json:"z"` // center, from beam soffit
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	FilletRadius float64 `json:"fillet_radius"`

	// Small-beam longitudinal bars. The shared diameter/count pair is the
	// fallback when the per-band fields are zero.
	SmallBeamLongDiameter       float64 `json:"small_beam_long_diameter"`
	SmallBeamLongCount          int     `json:"small_beam_long_count"`
	SmallBeamLongTopDiameter    float64 `json:"small_beam_long_top_diameter"`
	SmallBeamLongTopCount       int     `json:"small_beam_long_top_count"`
	SmallBeamLongBottomDiameter float64 `json:"small_beam_long_bottom_diameter"`
	SmallBeamLongBottomCount    int     `json:"small_beam_long_bottom_count"`

	SmallBeamStirrupDiameter float64 `json:"small_beam_stirrup_diameter"`
	SmallBeamStirrupSpacing  float64 `json:"small_beam_stirrup_spacing"`
	SmallBeamStirrupLegs     int     `json:"small_beam_stirrup_legs"` // 0 = auto (4)

	LeftReinfLength     float64 `json:"left_reinf_length"`
	RightReinfLength    float64 `json:"right_reinf_length"`
	SideStirrupSpacing  float64 `json:"side_stirrup_spacing"`
	SideStirrupDiameter float64 `json:"side_stirrup_diameter"`
	SideStirrupLegs     int     `json:"side_stirrup_legs"`

	ReinfExtendLength float64 `json:"reinf_extend_length"`
}

// Validate checks the opening's own geometry.
func (o *Opening) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errf("opening", "opening dimensions must be positive")
	}
	if o.FilletRadius < 0 {
		return errf("fillet_radius", "fillet radius cannot be negative, got %g", o.FilletRadius)
	}
	if o.FilletRadius > math.Min(o.Width, o.Height)/2 {
		return errf("fillet_radius", "fillet radius %g exceeds half the shorter opening side", o.FilletRadius)
	}
	return nil
}

// Bounds returns (xMin, xMax, zMin, zMax).
func (o *Opening) Bounds() (xMin, xMax, zMin, zMax float64) {
	return o.X - o.Width/2, o.X + o.Width/2, o.Z - o.Height/2, o.Z + o.Height/2
}

// Overlaps reports whether two openings intersect in both x and z.
func (o *Opening) Overlaps(other *Opening) bool {
	x1min, x1max, z1min, z1max := o.Bounds()
	x2min, x2max, z2min, z2max := other.Bounds()
	xOverlap := !(x1max <= x2min || x2max <= x1min)
	zOverlap := !(z1max <= z2min || z2max <= z1min)
	return xOverlap && zOverlap
}

// TopLongSpec returns the effective top small-beam bar spec, falling back
// to the shared fields when the per-band ones are zero.
func (o *Opening) TopLongSpec() (diameter float64, count int) {
	if o.SmallBeamLongTopDiameter > 0 && o.SmallBeamLongTopCount > 0 {
		return o.SmallBeamLongTopDiameter, o.SmallBeamLongTopCount
	}
	return o.SmallBeamLongDiameter, o.SmallBeamLongCount
}

// BottomLongSpec returns the effective bottom small-beam bar spec.
func (o *Opening) BottomLongSpec() (diameter float64, count int) {
	if o.SmallBeamLongBottomDiameter > 0 && o.SmallBeamLongBottomCount > 0 {
		return o.SmallBeamLongBottomDiameter, o.SmallBeamLongBottomCount
	}
	return o.SmallBeamLongDiameter, o.SmallBeamLongCount
}

// EffectiveSmallBeamLegs resolves the auto (0) leg count to 4.
func (o *Opening) EffectiveSmallBeamLegs() int {
	if o.SmallBeamStirrupLegs <= 0 {
		return 4
	}
	return o.SmallBeamStirrupLegs
}

// Load directions accepted by LoadCase entries.
const (
	DirX  = "X"
	DirY  = "Y"
	DirZ  = "Z"
	DirMX = "MX"
	DirMY = "MY"
	DirMZ = "MZ"
)

// Stage names used by load cases and the activation plan.
const (
	StageConstruction = "Construction"
	StageService      = "Service"
)

// ConcentratedLoad is a point load at position X along the beam.
type ConcentratedLoad struct {
	X         float64 `json:"x"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// DistributedLoad is a uniform load over [X1, X2].
type DistributedLoad struct {
	X1        float64 `json:"x1"`
	X2        float64 `json:"x2"`
	Direction string  `json:"direction"`
	Value     float64 `json:"value"`
}

// LoadCase groups loads under a named case assigned to one stage.
type LoadCase struct {
	Name              string             `json:"name"`
	Stage             string             `json:"stage"`
	ConcentratedLoads []ConcentratedLoad `json:"concentrated_loads,omitempty"`
	DistributedLoads  []DistributedLoad  `json:"distributed_loads,omitempty"`
}

// Validate checks the load case.
func (lc *LoadCase) Validate() error {
	if lc.Stage != StageConstruction && lc.Stage != StageService {
		return errf("stage", "load stage must be %q or %q, got %q", StageConstruction, StageService, lc.Stage)
	}
	return nil
}

// BoundaryCondition holds the end restraints and end forces. Zero-value
// maps are filled with simply-supported defaults by ApplyDefaults.
type BoundaryCondition struct {
	LeftEnd        map[string]string  `json:"left_end,omitempty"`
	RightEnd       map[string]string  `json:"right_end,omitempty"`
	LeftEndForces  map[string]float64 `json:"left_end_forces,omitempty"`
	RightEndForces map[string]float64 `json:"right_end_forces,omitempty"`
}

func defaultRestraints() map[string]string {
	return map[string]string{
		"Dx": "Fixed", "Dy": "Fixed", "Dz": "Fixed",
		"Rx": "Free", "Ry": "Free", "Rz": "Free",
	}
}

func defaultForces() map[string]float64 {
	return map[string]float64{"N": 0, "Vy": 0, "Vz": 0, "Mx": 0, "My": 0, "Mz": 0}
}

// ApplyDefaults fills unset restraint and force maps.
func (b *BoundaryCondition) ApplyDefaults() {
	if len(b.LeftEnd) == 0 {
		b.LeftEnd = defaultRestraints()
	}
	if len(b.RightEnd) == 0 {
		b.RightEnd = defaultRestraints()
	}
	if len(b.LeftEndForces) == 0 {
		b.LeftEndForces = defaultForces()
	}
	if len(b.RightEndForces) == 0 {
		b.RightEndForces = defaultForces()
	}
}

// Prestress methods.
const (
	MethodPostTension = "post_tension"
	MethodPretension  = "pretension"
)

// Duct path types.
const (
	PathStraight  = "straight"
	PathParabolic = "parabolic"
)

// PrestressParams configures post-tensioning. Post-tensioned beams get a
// duct void subtracted from the precast solid; pretensioned beams do not.
type PrestressParams struct {
	Enabled      bool    `json:"enabled"`
	Method       string  `json:"method"`
	Force        float64 `json:"force"` // N
	DuctDiameter float64 `json:"duct_diameter"`
	PathType     string  `json:"path_type"`
	Sag          float64 `json:"sag"` // parabolic midspan offset
}

// ApplyDefaults fills the method and path type when unset.
func (p *PrestressParams) ApplyDefaults() {
	if p.Method == "" {
		p.Method = MethodPostTension
	}
	if p.PathType == "" {
		p.PathType = PathStraight
	}
}

// Validate checks the prestress configuration when enabled. Defaults are
// filled by ApplyDefaults; Validate never writes to the receiver.
func (p *PrestressParams) Validate() error {
	if !p.Enabled {
		return nil
	}
	if p.Force <= 0 {
		return errf("force", "prestress force must be positive, got %g", p.Force)
	}
	if p.Method != MethodPostTension && p.Method != MethodPretension {
		return errf("method", "prestress method must be %q or %q, got %q", MethodPostTension, MethodPretension, p.Method)
	}
	if p.Method == MethodPostTension && p.DuctDiameter <= 0 {
		return errf("duct_diameter", "post-tensioning requires a positive duct diameter, got %g", p.DuctDiameter)
	}
	if p.DuctDiameter < 0 {
		return errf("duct_diameter", "duct diameter cannot be negative, got %g", p.DuctDiameter)
	}
	if p.PathType != PathStraight && p.PathType != PathParabolic {
		return errf("path_type", "duct path type must be %q or %q, got %q", PathStraight, PathParabolic, p.PathType)
	}
	return nil
}

// minEndDistance is the minimum distance between an opening edge and a
// beam end.
const minEndDistance = 200.0

// BeamParams is the top-level parameter container.
type BeamParams struct {
	Section   SectionProfile    `json:"section"`
	LongRebar LongitudinalRebar `json:"long_rebar"`
	Stirrup   StirrupParams     `json:"stirrup"`
	Openings  []Opening         `json:"openings,omitempty"`
	Loads     []LoadCase        `json:"loads,omitempty"`
	Boundary  BoundaryCondition `json:"boundary"`
	Prestress *PrestressParams  `json:"prestress,omitempty"`
}

// ApplyDefaults resolves zero-valued fields to their documented defaults:
// support zone lengths become L/3, prestress method and path type are
// filled, and boundary maps get simply-supported restraints.
func (b *BeamParams) ApplyDefaults() {
	if b.LongRebar.LeftSupportLength == 0 {
		b.LongRebar.LeftSupportLength = b.Section.L / 3
	}
	if b.LongRebar.RightSupportLength == 0 {
		b.LongRebar.RightSupportLength = b.Section.L / 3
	}
	if b.Prestress != nil {
		b.Prestress.ApplyDefaults()
	}
	b.Boundary.ApplyDefaults()
}

// Validate runs the full cross-field check: per-struct validation, opening
// placement against the beam envelope and against each other, and load
// positions against the beam length. All violations are collected so the
// caller can report them together.
func (b *BeamParams) Validate() []error {
	var errs []error

	if err := b.Section.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := b.LongRebar.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := b.Stirrup.Validate(); err != nil {
		errs = append(errs, err)
	}
	if b.Prestress != nil {
		if err := b.Prestress.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	for i := range b.Openings {
		o := &b.Openings[i]
		if err := o.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		xMin, xMax, zMin, zMax := o.Bounds()
		if xMin < 0 || xMax > b.Section.L {
			errs = append(errs, errf("openings", "opening %d x-range (%.1f, %.1f) outside beam length (0, %g)", i+1, xMin, xMax, b.Section.L))
		}
		if zMin < 0 || zMax > b.Section.H {
			errs = append(errs, errf("openings", "opening %d z-range (%.1f, %.1f) outside beam height (0, %g)", i+1, zMin, zMax, b.Section.H))
		}
		if xMin < minEndDistance || xMax > b.Section.L-minEndDistance {
			errs = append(errs, errf("openings", "opening %d too close to a beam end (min %gmm)", i+1, minEndDistance))
		}
		for j := i + 1; j < len(b.Openings); j++ {
			if o.Overlaps(&b.Openings[j]) {
				errs = append(errs, errf("openings", "opening %d overlaps opening %d", i+1, j+1))
			}
		}
	}

	for _, lc := range b.Loads {
		if err := lc.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		for _, cl := range lc.ConcentratedLoads {
			if cl.X < 0 || cl.X > b.Section.L {
				errs = append(errs, errf("loads", "case %q: concentrated load at %g outside beam length", lc.Name, cl.X))
			}
		}
		for _, dl := range lc.DistributedLoads {
			if dl.X1 < 0 || dl.X2 > b.Section.L || dl.X1 >= dl.X2 {
				errs = append(errs, errf("loads", "case %q: distributed load range (%g, %g) invalid", lc.Name, dl.X1, dl.X2))
			}
		}
	}

	return errs
}
