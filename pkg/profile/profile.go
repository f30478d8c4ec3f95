// Package profile constructs 2D airfoil cross-sections from a fixed set of
// scalar design parameters. Each profile is made of four clamped cubic
// B-spline boundaries: leading edge, trailing edge, pressure side and
// suction side.
package profile

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/wingsmith/pkg/bspline"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Family names one of the four boundary curves of a profile.
type Family int

const (
	LE Family = iota // leading edge
	TE               // trailing edge
	PS               // pressure side
	SS               // suction side
)

// FamilyCount is the number of boundary families.
const FamilyCount = 4

// PolygonSize is the fixed number of control points per family.
const PolygonSize = 4

// Families lists every family in canonical order.
var Families = [FamilyCount]Family{LE, TE, PS, SS}

func (f Family) String() string {
	switch f {
	case LE:
		return "le"
	case TE:
		return "te"
	case PS:
		return "ps"
	case SS:
		return "ss"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// Tight reports whether the family covers a high-curvature region.
func (f Family) Tight() bool {
	return f == LE || f == TE
}

var (
	// ErrNonFinite is returned when construction produced NaN or Inf.
	ErrNonFinite = errors.New("non-finite control point")
	// ErrDegenerate is returned when a tangent direction has zero length.
	ErrDegenerate = errors.New("degenerate tangent: handle coincides with wedge")
)

// ConstructionError reports which part of the profile could not be built.
type ConstructionError struct {
	Family Family
	Step   string
	Err    error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("profile: %s: %s: %v", e.Family, e.Step, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Corners are the four wedge points shared between adjacent families.
type Corners struct {
	LESS, LEPS v2.Vec // leading edge suction/pressure wedge
	TESS, TEPS v2.Vec // trailing edge suction/pressure wedge
}

// Profile is the derived geometry of one parameter set.
type Profile struct {
	Params  Params
	Corners Corners
	Control [FamilyCount][]v2.Vec
	Curves  [FamilyCount][]v2.Vec
}

// Polygon returns the control polygon of family f.
func (p *Profile) Polygon(f Family) []v2.Vec { return p.Control[f] }

// Curve returns the sampled polyline of family f.
func (p *Profile) Curve(f Family) []v2.Vec { return p.Curves[f] }

// edgeFrame is the intermediate result of one end's wedge construction.
type edgeFrame struct {
	ssWedge, psWedge   v2.Vec
	ssHandle, psHandle v2.Vec
}

// Generate builds the control polygons and sampled curves for params. It is
// pure: equal parameters always produce equal geometry.
func Generate(params Params, perf bspline.Performance) (*Profile, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	leNose := v2.Vec{X: params.Origin.X, Y: params.Origin.Y + params.LE.Offset}
	le, err := buildEdge(LE, leNose, params.LE, 1, params.SS.ForwardAngle, params.PS.ForwardAngle)
	if err != nil {
		return nil, err
	}
	teNose := v2.Vec{X: params.Origin.X + params.Chord, Y: params.Origin.Y + params.TE.Offset}
	te, err := buildEdge(TE, teNose, params.TE, -1, params.SS.RearAngle, params.PS.RearAngle)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Params: params,
		Corners: Corners{
			LESS: le.ssWedge, LEPS: le.psWedge,
			TESS: te.ssWedge, TEPS: te.psWedge,
		},
	}
	p.Control[LE] = []v2.Vec{le.ssWedge, le.ssHandle, le.psHandle, le.psWedge}
	p.Control[TE] = []v2.Vec{te.psWedge, te.psHandle, te.ssHandle, te.ssWedge}

	if p.Control[PS], err = buildSide(PS, le.psWedge, le.psHandle, te.psWedge, te.psHandle, params.PS); err != nil {
		return nil, err
	}
	if p.Control[SS], err = buildSide(SS, le.ssWedge, le.ssHandle, te.ssWedge, te.ssHandle, params.SS); err != nil {
		return nil, err
	}

	for _, f := range Families {
		for i, pt := range p.Control[f] {
			if !finite(pt) {
				return nil, &ConstructionError{Family: f, Step: fmt.Sprintf("control point %d", i), Err: ErrNonFinite}
			}
		}
		samples := bspline.CurveSamples(perf, f.Tight())
		curve, err := bspline.SampleCurve(p.Control[f], bspline.CurveDegree(PolygonSize), samples)
		if err != nil {
			return nil, &ConstructionError{Family: f, Step: "sample", Err: err}
		}
		p.Curves[f] = curve
	}
	return p, nil
}

// buildEdge places the wedge points of one end and intersects the side lines
// through them with the edge's own tangent line. dir is +1 when the wedge
// lies behind the nose (leading edge) and -1 when it lies ahead of it.
func buildEdge(f Family, nose v2.Vec, e Edge, dir, ssAngle, psAngle float64) (edgeFrame, error) {
	rad := e.Angle * math.Pi / 180
	tangent := v2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
	normal := v2.Vec{X: -tangent.Y, Y: tangent.X}

	centre := nose.Add(tangent.MulScalar(dir * e.Depth))
	half := normal.MulScalar(e.Thickness / 2)

	var fr edgeFrame
	fr.ssWedge = centre.Add(half)
	fr.psWedge = centre.Sub(half)

	edgeLine := LineThrough(nose, e.Angle)
	var err error
	if fr.ssHandle, err = LineThrough(fr.ssWedge, ssAngle).Intersect(edgeLine); err != nil {
		return fr, &ConstructionError{Family: f, Step: "suction side line", Err: err}
	}
	if fr.psHandle, err = LineThrough(fr.psWedge, psAngle).Intersect(edgeLine); err != nil {
		return fr, &ConstructionError{Family: f, Step: "pressure side line", Err: err}
	}
	return fr, nil
}

// buildSide places one interior point per end along the tangent running from
// that end's handle through its wedge.
func buildSide(f Family, leWedge, leHandle, teWedge, teHandle v2.Vec, s Side) ([]v2.Vec, error) {
	leDir, ok := unit(leWedge.Sub(leHandle))
	if !ok {
		return nil, &ConstructionError{Family: f, Step: "forward tangent", Err: ErrDegenerate}
	}
	teDir, ok := unit(teWedge.Sub(teHandle))
	if !ok {
		return nil, &ConstructionError{Family: f, Step: "rear tangent", Err: ErrDegenerate}
	}
	return []v2.Vec{
		leWedge,
		leWedge.Add(leDir.MulScalar(s.ForwardAccel)),
		teWedge.Add(teDir.MulScalar(s.RearAccel)),
		teWedge,
	}, nil
}

func unit(v v2.Vec) (v2.Vec, bool) {
	l := math.Hypot(v.X, v.Y)
	if l < 1e-15 {
		return v2.Vec{}, false
	}
	return v2.Vec{X: v.X / l, Y: v.Y / l}, true
}

func finite(v v2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
