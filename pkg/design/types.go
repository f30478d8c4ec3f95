package design

import (
	"fmt"
	"strings"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/profile"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// AirfoilID addresses an airfoil in the project library.
type AirfoilID int

// ComponentID addresses a component.
type ComponentID int

// WingID addresses a wing.
type WingID int

// SegmentID addresses a segment.
type SegmentID int

// Continuity is the continuity requested between a segment and its span
// neighbours.
type Continuity int

const (
	G0 Continuity = iota // positional
	G1                   // tangent
	G2                   // curvature (approximated, see Bridge.BlendFactor)
)

func (c Continuity) String() string {
	switch c {
	case G0:
		return "G0"
	case G1:
		return "G1"
	case G2:
		return "G2"
	default:
		return fmt.Sprintf("Continuity(%d)", int(c))
	}
}

// Tangent reports whether the tag asks for a span tangent at the segment.
func (c Continuity) Tangent() bool {
	return c == G1 || c == G2
}

// ParseContinuity accepts "g0", "g1", "g2" in any case.
func ParseContinuity(s string) (Continuity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "g0":
		return G0, nil
	case "g1":
		return G1, nil
	case "g2":
		return G2, nil
	}
	return G0, fmt.Errorf("design: unknown continuity %q, expected g0, g1 or g2", s)
}

// Settings are project-wide options consumed by the core.
type Settings struct {
	Performance  bspline.Performance `json:"performance"`
	Author       string              `json:"author,omitempty"`
	Organization string              `json:"organization,omitempty"`
}

// Airfoil is a named entry of the shared profile library.
type Airfoil struct {
	Name   string         `json:"name"`
	Params profile.Params `json:"params"`
}

// Component owns wings and a 3D origin.
type Component struct {
	Name   string   `json:"name"`
	Origin v3.Vec   `json:"origin"`
	Wings  []WingID `json:"wings"`
}

// Wing is an ordered list of segments. Adjacency is defined by list position.
type Wing struct {
	Name      string      `json:"name"`
	Origin    v3.Vec      `json:"origin"`
	Component ComponentID `json:"component"`
	Segments  []SegmentID `json:"segments"`
}

// Placement positions a profile in the wing.
type Placement struct {
	X, Y, Z   float64 // segment origin; Z is the span station
	Incidence float64 // degrees, positive raises the leading edge
	Scale     float64 // uniform chordwise scale
}

// Segment places one library airfoil in 3D.
type Segment struct {
	Airfoil    AirfoilID  `json:"airfoil"`
	Wing       WingID     `json:"wing"`
	Placement  Placement  `json:"placement"`
	Continuity Continuity `json:"continuity"`
	TanAccel   float64    `json:"tan_accel"` // span tangent handle length for G1/G2
}
