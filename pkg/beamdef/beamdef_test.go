package beamdef

import (
	"testing"

	"github.com/Dopamine-mania/pkpm-plug/pkg/params"
)

const scenarioHCL = `
beam "B1" {
  section {
    l     = 7800
    h     = 1100
    tw    = 250
    bf_lu = 125
    tf_lu = 150
    bf_ru = 125
    tf_ru = 150
    bf_ll = 125
    tf_ll = 150
    bf_rl = 125
    tf_rl = 150
    h_pre = 500
  }

  longitudinal {
    top_through {
      diameter = 25
      count    = 2
    }
    bottom_through_a {
      diameter = 25
      count    = 4
    }
    left_support_top_a {
      diameter = 22
      count    = 2
    }
    left_support_top_b {
      diameter      = 22
      count         = 2
      extend_length = 1000
    }
  }

  stirrups {
    dense_zone_length = 1500
    dense_spacing     = 100
    dense_legs        = 4
    dense_diameter    = 10
    normal_spacing    = 200
    normal_legs       = 4
    normal_diameter   = 8
  }

  opening {
    x      = 3900
    z      = 550
    width  = 2500
    height = 400

    small_beam_long_diameter    = 16
    small_beam_long_count       = 2
    small_beam_stirrup_diameter = 8
    small_beam_stirrup_spacing  = 100
    left_reinf_length           = 500
    right_reinf_length          = 500
    side_stirrup_spacing        = 50
    side_stirrup_diameter       = 10
    side_stirrup_legs           = 4
  }

  load "self_weight" {
    stage = "Construction"
    distributed {
      x1        = 0
      x2        = 7800
      direction = "Z"
      value     = -10
    }
  }

  load "live" {
    stage = "Service"
    concentrated {
      x         = 3900
      direction = "Z"
      value     = -50
    }
  }

  prestress {
    enabled       = true
    method        = "post_tension"
    force         = 1000000
    duct_diameter = 90
    path_type     = "straight"
  }
}
`

func TestDecodeScenario(t *testing.T) {
	beams, err := Decode("beam.hcl", []byte(scenarioHCL))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(beams) != 1 || beams[0].Name != "B1" {
		t.Fatalf("beams = %+v, want one named B1", beams)
	}

	p := beams[0].Params
	if p.Section.L != 7800 || p.Section.H != 1100 || p.Section.HPre != 500 {
		t.Errorf("section = %+v", p.Section)
	}
	if p.LongRebar.TopThrough.Count != 2 || p.LongRebar.BottomThroughA.Count != 4 {
		t.Errorf("through bars = %+v", p.LongRebar)
	}
	if p.LongRebar.LeftSupportTopB == nil || p.LongRebar.LeftSupportTopB.ExtendLength != 1000 {
		t.Errorf("left support B = %+v", p.LongRebar.LeftSupportTopB)
	}
	// Unset row counts default to one row.
	if p.LongRebar.TopRows != 1 || p.LongRebar.BottomRows != 1 {
		t.Errorf("rows = %d/%d, want 1/1", p.LongRebar.TopRows, p.LongRebar.BottomRows)
	}

	if len(p.Openings) != 1 || p.Openings[0].Width != 2500 {
		t.Fatalf("openings = %+v", p.Openings)
	}
	if p.Openings[0].SideStirrupLegs != 4 {
		t.Errorf("side stirrup legs = %d, want 4", p.Openings[0].SideStirrupLegs)
	}

	if len(p.Loads) != 2 || p.Loads[0].Stage != params.StageConstruction {
		t.Fatalf("loads = %+v", p.Loads)
	}
	if len(p.Loads[1].ConcentratedLoads) != 1 || p.Loads[1].ConcentratedLoads[0].X != 3900 {
		t.Errorf("live load = %+v", p.Loads[1])
	}

	if p.Prestress == nil || !p.Prestress.Enabled || p.Prestress.DuctDiameter != 90 {
		t.Errorf("prestress = %+v", p.Prestress)
	}

	// The decoded parameters pass full validation after defaults.
	p.ApplyDefaults()
	if errs := p.Validate(); len(errs) != 0 {
		t.Errorf("decoded params invalid: %v", errs)
	}
}

func TestDecodeBoundary(t *testing.T) {
	src := `
beam "B2" {
  section {
    l     = 6000
    h     = 800
    tw    = 200
    h_pre = 400
  }
  longitudinal {
    top_through {
      diameter = 20
      count    = 2
    }
    bottom_through_a {
      diameter = 20
      count    = 2
    }
  }
  stirrups {
    dense_zone_length = 1000
    dense_spacing     = 100
    dense_legs        = 2
    dense_diameter    = 8
    normal_spacing    = 200
    normal_legs       = 2
    normal_diameter   = 8
  }
  boundary {
    left_end = {
      Dx = "Fixed"
      Dy = "Fixed"
      Dz = "Fixed"
      Rx = "Fixed"
      Ry = "Free"
      Rz = "Free"
    }
  }
}
`
	beams, err := Decode("beam.hcl", []byte(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p := beams[0].Params
	if p.Boundary.LeftEnd["Rx"] != "Fixed" {
		t.Errorf("left end = %v", p.Boundary.LeftEnd)
	}
	// The unset right end picks up simply-supported defaults.
	p.ApplyDefaults()
	if p.Boundary.RightEnd["Dz"] != "Fixed" || p.Boundary.RightEnd["Rz"] != "Free" {
		t.Errorf("right end defaults = %v", p.Boundary.RightEnd)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode("bad.hcl", []byte(`beam "B" {`)); err == nil {
		t.Error("unterminated block accepted")
	}
	// Missing required section attributes.
	if _, err := Decode("bad.hcl", []byte(`beam "B" { section { l = 1 } }`)); err == nil {
		t.Error("incomplete section accepted")
	}
	if _, err := Decode("empty.hcl", []byte(``)); err == nil {
		t.Error("file without beam blocks accepted")
	}
}
