// Package wing places airfoil profiles in 3D and stitches consecutive
// segments of a wing together with bridge curves and Coons-blended control
// grids, one per face family.
package wing

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrInvalidPlacement is returned for a non-finite placement value or a
// scale that is not positive.
var ErrInvalidPlacement = errors.New("invalid placement")

// Corners are the four profile wedge points of a placed segment.
type Corners struct {
	LESS, LEPS, TESS, TEPS v3.Vec
}

// SegmentGeometry is the derived 3D geometry of one segment. It is only
// valid for the parameters and parent chain it was computed from.
type SegmentGeometry struct {
	Segment    design.SegmentID
	Continuity design.Continuity
	TanAccel   float64
	Corners    Corners
	Control    [profile.FamilyCount][]v3.Vec
	Curves     [profile.FamilyCount][]v3.Vec
}

// Polygon returns the placed control polygon of family f.
func (g *SegmentGeometry) Polygon(f profile.Family) []v3.Vec { return g.Control[f] }

// Placement returns the transform taking lifted profile points into project
// space: scale X/Y about the origin, translate by the parent chain, then
// rotate X/Y about the wing origin by the incidence angle.
func Placement(pl design.Placement, ctx design.WingContext) sdf.M44 {
	scale := sdf.Scale3d(v3.Vec{X: pl.Scale, Y: pl.Scale, Z: 1})

	parent := ctx.LocalOrigin()
	translate := sdf.Translate3d(v3.Vec{
		X: parent.X + pl.X,
		Y: parent.Y + pl.Y,
		Z: parent.Z,
	})

	pivot := v3.Vec{X: parent.X, Y: parent.Y}
	rotate := sdf.Translate3d(pivot).
		Mul(sdf.RotateZ(-pl.Incidence * math.Pi / 180)).
		Mul(sdf.Translate3d(v3.Vec{X: -pivot.X, Y: -pivot.Y}))

	return rotate.Mul(translate).Mul(scale)
}

// UpdateSegment runs the full transform chain for seg: lift the profile to
// the segment's span station, evaluate 3D curves, then scale, translate and
// rotate every point. Callers must rerun it after any change in the parent
// chain.
func UpdateSegment(id design.SegmentID, seg *design.Segment, prof *profile.Profile, ctx design.WingContext) (*SegmentGeometry, error) {
	if err := checkPlacement(seg, ctx); err != nil {
		return nil, fmt.Errorf("wing: segment %d: %w", id, err)
	}
	m := Placement(seg.Placement, ctx)
	g := &SegmentGeometry{
		Segment:    id,
		Continuity: seg.Continuity,
		TanAccel:   seg.TanAccel,
	}

	for _, f := range profile.Families {
		poly := prof.Polygon(f)
		lifted := make([]v3.Vec, len(poly))
		for i, p := range poly {
			lifted[i] = v3.Vec{X: p.X, Y: p.Y, Z: seg.Placement.Z}
		}

		samples := len(prof.Curve(f))
		curve, err := bspline.SampleCurve(lifted, len(lifted)-1, samples)
		if err != nil {
			return nil, fmt.Errorf("wing: segment %d: %s curve: %w", id, f, err)
		}

		g.Control[f] = transform(m, lifted)
		g.Curves[f] = transform(m, curve)
	}

	g.Corners = Corners{
		LESS: g.Control[profile.LE][0],
		LEPS: g.Control[profile.LE][profile.PolygonSize-1],
		TEPS: g.Control[profile.TE][0],
		TESS: g.Control[profile.TE][profile.PolygonSize-1],
	}
	return g, nil
}

func checkPlacement(seg *design.Segment, ctx design.WingContext) error {
	pl := seg.Placement
	origin := ctx.LocalOrigin()
	for _, v := range []struct {
		name  string
		value float64
	}{
		{"wing origin x", origin.X}, {"wing origin y", origin.Y}, {"wing origin z", origin.Z},
		{"x", pl.X}, {"y", pl.Y}, {"z", pl.Z},
		{"incidence", pl.Incidence}, {"scale", pl.Scale},
		{"tan-accel", seg.TanAccel},
	} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidPlacement, v.name, v.value)
		}
	}
	if pl.Scale <= 0 {
		return fmt.Errorf("%w: scale is %v, must be positive", ErrInvalidPlacement, pl.Scale)
	}
	return nil
}

func transform(m sdf.M44, pts []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[i] = m.MulPosition(p)
	}
	return out
}
