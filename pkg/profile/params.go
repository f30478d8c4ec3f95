package profile

import (
	"fmt"
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Edge holds the leading or trailing edge construction parameters.
type Edge struct {
	Thickness float64 `json:"thickness"` // wedge width across the tangent line
	Depth     float64 `json:"depth"`     // distance from the nose to the wedge
	Offset    float64 `json:"offset"`    // lateral (Y) offset of the nose
	Angle     float64 `json:"angle"`     // tangent line angle, degrees
}

// Side holds the pressure or suction side parameters.
type Side struct {
	ForwardAngle float64 `json:"forward_angle"` // line angle through the LE wedge, degrees
	RearAngle    float64 `json:"rear_angle"`    // line angle through the TE wedge, degrees
	ForwardAccel float64 `json:"forward_accel"` // handle distance from the LE wedge
	RearAccel    float64 `json:"rear_accel"`    // handle distance from the TE wedge
}

// Params is the complete parameter set of one airfoil profile.
type Params struct {
	Chord  float64 `json:"chord"`
	Origin v2.Vec  `json:"origin"`
	LE     Edge    `json:"le"`
	TE     Edge    `json:"te"`
	PS     Side    `json:"ps"`
	SS     Side    `json:"ss"`
}

// DefaultParams returns a moderately cambered unit-chord profile.
func DefaultParams() Params {
	return Params{
		Chord: 1,
		LE:    Edge{Thickness: 0.06, Depth: 0.04},
		TE:    Edge{Thickness: 0.01, Depth: 0.03},
		PS:    Side{ForwardAngle: -30, RearAngle: 10, ForwardAccel: 0.12, RearAccel: 0.3},
		SS:    Side{ForwardAngle: 35, RearAngle: -12, ForwardAccel: 0.25, RearAccel: 0.35},
	}
}

// Validate checks that the parameters can describe a profile.
func (p Params) Validate() error {
	for _, v := range p.fields() {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("profile: parameter %s is not finite", v.name)
		}
	}
	if p.Chord <= 0 {
		return fmt.Errorf("profile: chord is %.4f, must be positive", p.Chord)
	}
	if p.LE.Thickness < 0 || p.TE.Thickness < 0 {
		return fmt.Errorf("profile: edge thickness must not be negative")
	}
	if p.LE.Depth < 0 || p.TE.Depth < 0 {
		return fmt.Errorf("profile: edge depth must not be negative")
	}
	return nil
}

type field struct {
	name  string
	value float64
}

// fields lists every parameter in reporting order.
func (p Params) fields() []field {
	return []field{
		{"chord", p.Chord}, {"origin.x", p.Origin.X}, {"origin.y", p.Origin.Y},
		{"le.thickness", p.LE.Thickness}, {"le.depth", p.LE.Depth}, {"le.offset", p.LE.Offset}, {"le.angle", p.LE.Angle},
		{"te.thickness", p.TE.Thickness}, {"te.depth", p.TE.Depth}, {"te.offset", p.TE.Offset}, {"te.angle", p.TE.Angle},
		{"ps.forward_angle", p.PS.ForwardAngle}, {"ps.rear_angle", p.PS.RearAngle},
		{"ps.forward_accel", p.PS.ForwardAccel}, {"ps.rear_accel", p.PS.RearAccel},
		{"ss.forward_angle", p.SS.ForwardAngle}, {"ss.rear_angle", p.SS.RearAngle},
		{"ss.forward_accel", p.SS.ForwardAccel}, {"ss.rear_accel", p.SS.RearAccel},
	}
}
