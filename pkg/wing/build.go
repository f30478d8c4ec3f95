package wing

import (
	"fmt"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ConnectivityError reports a failure to connect a segment pair.
type ConnectivityError struct {
	Wing   string
	Pair   int    // index of the lower segment of the pair
	Family string // bridge or face family, empty if pair-level
	Err    error
}

func (e *ConnectivityError) Error() string {
	if e.Family == "" {
		return fmt.Sprintf("wing %q pair %d: %v", e.Wing, e.Pair, e.Err)
	}
	return fmt.Sprintf("wing %q pair %d %s: %v", e.Wing, e.Pair, e.Family, e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Pair is the connective geometry between segment Index and Index+1.
type Pair struct {
	Index   int
	Bridges [BridgeCount]*Bridge
	Grids   [profile.FamilyCount][][]v3.Vec // [u][v] per face family

	// Outward is true for faces whose du x dv normal points out of the
	// wing. Profiles run LE, PS, TE one way round and SS the other, and a
	// span running towards -Z flips every face.
	Outward [profile.FamilyCount]bool
}

// Grid returns the control grid of face family f.
func (p *Pair) Grid(f profile.Family) [][]v3.Vec { return p.Grids[f] }

// Geometry is the computed state of one wing.
type Geometry struct {
	Wing     design.WingID
	Name     string
	Segments []*SegmentGeometry
	Pairs    []*Pair
}

// Connect builds the bridges and face grids between two consecutive
// segment geometries.
func Connect(index int, lower, upper *SegmentGeometry, perf bspline.Performance) (*Pair, error) {
	p := &Pair{Index: index}
	samples := bspline.CurveSamples(perf, false)
	for _, b := range BridgeFamilies {
		br, err := buildBridge(b, lower, upper, samples)
		if err != nil {
			return nil, &ConnectivityError{Pair: index, Family: b.String(), Err: err}
		}
		p.Bridges[b] = br
	}
	for _, f := range profile.Families {
		v0, v1 := FaceBridges(f)
		grid, err := Coons(lower.Polygon(f), upper.Polygon(f), p.Bridges[v0].Control, p.Bridges[v1].Control)
		if err != nil {
			return nil, &ConnectivityError{Pair: index, Family: f.String(), Err: err}
		}
		p.Grids[f] = grid
	}

	towardsNegZ := upper.Corners.LESS.Z < lower.Corners.LESS.Z
	for _, f := range profile.Families {
		p.Outward[f] = (f == profile.SS) != towardsNegZ
	}
	return p, nil
}

// Build regenerates every profile and segment of wing w and connects each
// adjacent pair. A single-segment wing yields no pairs.
func Build(p *design.Project, w design.WingID) (*Geometry, error) {
	wing, err := p.Wing(w)
	if err != nil {
		return nil, err
	}
	ctx, err := p.WingContext(w)
	if err != nil {
		return nil, err
	}

	perf := p.Settings.Performance
	profiles := make(map[design.AirfoilID]*profile.Profile)
	g := &Geometry{Wing: w, Name: wing.Name}

	for i, sid := range wing.Segments {
		seg, err := p.Segment(sid)
		if err != nil {
			return nil, err
		}
		prof, ok := profiles[seg.Airfoil]
		if !ok {
			af, err := p.Airfoil(seg.Airfoil)
			if err != nil {
				return nil, err
			}
			prof, err = profile.Generate(af.Params, perf)
			if err != nil {
				return nil, fmt.Errorf("wing %q segment %d airfoil %q: %w", wing.Name, i, af.Name, err)
			}
			profiles[seg.Airfoil] = prof
		}
		sg, err := UpdateSegment(sid, seg, prof, ctx)
		if err != nil {
			return nil, fmt.Errorf("wing %q segment %d: %w", wing.Name, i, err)
		}
		g.Segments = append(g.Segments, sg)
	}

	for i := 0; i+1 < len(g.Segments); i++ {
		pair, err := Connect(i, g.Segments[i], g.Segments[i+1], perf)
		if err != nil {
			if ce, ok := err.(*ConnectivityError); ok {
				ce.Wing = wing.Name
			}
			return nil, err
		}
		g.Pairs = append(g.Pairs, pair)
	}
	return g, nil
}

// BuildAll builds every wing of p in creation order.
func BuildAll(p *design.Project) ([]*Geometry, error) {
	var out []*Geometry
	for _, w := range p.Wings() {
		g, err := Build(p, w)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
