package graph

import "fmt"

// NodeID identifies a point entity.
type NodeID int

// EdgeID identifies an edge entity.
type EdgeID int

// SurfaceID identifies a surface entity.
type SurfaceID int

// SolidID identifies a solid entity.
type SolidID int

// IsZero reports whether the id is the zero value (no entity).
func (id NodeID) IsZero() bool    { return id == 0 }
func (id EdgeID) IsZero() bool    { return id == 0 }
func (id SurfaceID) IsZero() bool { return id == 0 }
func (id SolidID) IsZero() bool   { return id == 0 }

// Point3D is an immutable coordinate triple in mm. X runs along the beam
// axis, Y is transverse, Z is vertical from the beam soffit.
type Point3D struct {
	X, Y, Z float64
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Node is a point entity. Nodes are created on demand and never mutated;
// coincident coordinates from separate creations are never deduplicated.
type Node struct {
	ID NodeID
	Pt Point3D
}

// EdgeKind distinguishes boundary edges from reinforcement segments.
type EdgeKind int

const (
	EdgeBoundary EdgeKind = iota // solid boundary edge
	EdgeRebar                    // reinforcement bar segment
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeBoundary:
		return "boundary"
	case EdgeRebar:
		return "rebar"
	default:
		return "unknown"
	}
}

// Edge is an ordered pair of node ids. Reinforcement edges carry the bar
// diameter in mm; boundary edges leave it zero.
type Edge struct {
	ID       EdgeID
	Kind     EdgeKind
	A, B     NodeID
	Diameter float64
}

// Surface is one outer closed loop of edge ids plus zero or more inner
// loops representing embedded voids (through-holes).
type Surface struct {
	ID    SurfaceID
	Outer []EdgeID
	Inner [][]EdgeID
}

// Solid is a set of surface ids forming a closed volume.
type Solid struct {
	ID    SolidID
	Faces []SurfaceID
}

// Named rebar groups handed to the exporter. Auto-generated enhancement
// bars live in separate *_auto groups so they can be excluded from
// acceptance counts.
const (
	GroupTopThrough       = "top_through"
	GroupTopLeftA         = "top_left_support_a"
	GroupTopLeftB         = "top_left_support_b"
	GroupTopRightA        = "top_right_support_a"
	GroupTopRightB        = "top_right_support_b"
	GroupBottomThroughA   = "bottom_through_a"
	GroupBottomThroughB   = "bottom_through_b"
	GroupTopCornerAuto    = "top_corner_auto"
	GroupBottomCornerAuto = "bottom_corner_auto"
	GroupDenseStirrups    = "dense_stirrups"
	GroupNormalStirrups   = "normal_stirrups"
	GroupFlangeRingAuto   = "flange_ring_auto"
	GroupHoleTopBars      = "hole_top_bars"
	GroupHoleBottomBars   = "hole_bottom_bars"
	GroupLeftStirrups     = "left_stirrups"
	GroupRightStirrups    = "right_stirrups"
	GroupTopBeamStirrups  = "top_beam_stirrups"
	GroupBotBeamStirrups  = "bottom_beam_stirrups"
)
