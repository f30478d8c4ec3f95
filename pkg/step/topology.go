package step

import (
	"fmt"
	"math"

	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	"github.com/chazu/wingsmith/pkg/wing"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// coincidentTol is the distance under which two points holding the same
// topology key must agree.
const coincidentTol = 1e-9

type pointKind uint8

const (
	cornerPoint   pointKind = iota // profile corner of a segment
	profilePoint                   // interior control point of a profile polygon
	bridgePoint                    // interior control point of a bridge
	interiorPoint                  // face interior
)

// pointKey identifies a control point independent of the face that reaches
// it. Unused fields stay zero.
type pointKey struct {
	kind    pointKind
	segment design.SegmentID
	wing    int
	pair    int
	family  int // profile.Family, or wing.BridgeFamily for corners and bridges
	i, j    int
}

func cornerKey(seg design.SegmentID, c wing.BridgeFamily) pointKey {
	return pointKey{kind: cornerPoint, segment: seg, family: int(c)}
}

// profileKey maps index j of family f's polygon on seg to its canonical
// key. The end points are corners shared with the neighbouring families.
func profileKey(seg design.SegmentID, f profile.Family, j, n int) pointKey {
	first, last := wing.FaceBridges(f)
	switch j {
	case 0:
		return cornerKey(seg, first)
	case n - 1:
		return cornerKey(seg, last)
	}
	return pointKey{kind: profilePoint, segment: seg, family: int(f), j: j}
}

// edgeKey identifies a boundary curve: a profile of a segment, or a bridge
// of a segment pair.
type edgeKey struct {
	bridge  bool
	segment design.SegmentID
	wing    int
	pair    int
	family  int
}

func profileEdge(seg design.SegmentID, f profile.Family) edgeKey {
	return edgeKey{segment: seg, family: int(f)}
}

func bridgeEdge(wingIdx, pair int, b wing.BridgeFamily) edgeKey {
	return edgeKey{bridge: true, wing: wingIdx, pair: pair, family: int(b)}
}

func (k edgeKey) String() string {
	if k.bridge {
		return fmt.Sprintf("wing %d pair %d bridge %s", k.wing, k.pair, wing.BridgeFamily(k.family))
	}
	return fmt.Sprintf("segment %d profile %s", k.segment, profile.Family(k.family))
}

type point struct {
	ref Ref
	pos v3.Vec
}

type vertex struct {
	ref   Ref
	point Ref
	pos   v3.Vec
}

type edge struct {
	key        edgeKey
	ref        Ref
	start, end Ref    // vertex refs
	senses     []bool // one per face loop using the edge
}

func (e *edge) uses() int { return len(e.senses) }

// orientedEdge is an edge traversed start to end when sense is true.
type orientedEdge struct {
	edge  *edge
	sense bool
}

func (o orientedEdge) head() Ref {
	if o.sense {
		return o.edge.start
	}
	return o.edge.end
}

func (o orientedEdge) tail() Ref {
	if o.sense {
		return o.edge.end
	}
	return o.edge.start
}

// checkLoop verifies that each edge ends where the next begins and the last
// returns to the first.
func checkLoop(loop []orientedEdge) error {
	if len(loop) == 0 {
		return ErrLoopNotClosed
	}
	for i, oe := range loop {
		next := loop[(i+1)%len(loop)]
		if oe.tail() != next.head() {
			return fmt.Errorf("%w: %s ends at #%d, %s starts at #%d",
				ErrLoopNotClosed, oe.edge.key, oe.tail(), next.edge.key, next.head())
		}
	}
	return nil
}

// topology is the shared-entity arena of one export. Lookups are keyed,
// emission order is creation order.
type topology struct {
	w        *Writer
	points   map[pointKey]*point
	vertices map[pointKey]*vertex
	edges    map[edgeKey]*edge
	order    []*edge
	vorder   []*vertex
}

func newTopology(w *Writer) *topology {
	return &topology{
		w:        w,
		points:   make(map[pointKey]*point),
		vertices: make(map[pointKey]*vertex),
		edges:    make(map[edgeKey]*edge),
	}
}

// point returns the CARTESIAN_POINT for k, creating it at pos on first use.
// A later lookup with a different position is a boundary mismatch.
func (t *topology) point(k pointKey, pos v3.Vec) (Ref, error) {
	if p, ok := t.points[k]; ok {
		d := p.pos.Sub(pos)
		if !(math.Abs(d.X) <= coincidentTol && math.Abs(d.Y) <= coincidentTol && math.Abs(d.Z) <= coincidentTol) {
			return 0, fmt.Errorf("%w: shared point #%d at %v, face expects %v", ErrExtentMismatch, p.ref, p.pos, pos)
		}
		return p.ref, nil
	}
	ref := t.w.Add("CARTESIAN_POINT", String(""), Coords(pos))
	t.points[k] = &point{ref: ref, pos: pos}
	return ref, nil
}

// vertex returns the VERTEX_POINT on corner k.
func (t *topology) vertex(k pointKey) (Ref, error) {
	if v, ok := t.vertices[k]; ok {
		return v.ref, nil
	}
	p, ok := t.points[k]
	if !ok {
		return 0, fmt.Errorf("step: vertex without point")
	}
	v := &vertex{ref: t.w.Add("VERTEX_POINT", String(""), p.ref), point: p.ref, pos: p.pos}
	t.vertices[k] = v
	t.vorder = append(t.vorder, v)
	return v.ref, nil
}

// edge returns the EDGE_CURVE for k running from the first to the last of
// pts, emitting its B-spline curve on first use.
func (t *topology) edge(k edgeKey, first, last pointKey, pts []Ref) (*edge, error) {
	if e, ok := t.edges[k]; ok {
		return e, nil
	}
	start, err := t.vertex(first)
	if err != nil {
		return nil, err
	}
	end, err := t.vertex(last)
	if err != nil {
		return nil, err
	}
	curve, err := t.curve(pts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", k, err)
	}
	e := &edge{
		key:   k,
		ref:   t.w.Add("EDGE_CURVE", String(""), start, end, curve, Bool(true)),
		start: start,
		end:   end,
	}
	t.edges[k] = e
	t.order = append(t.order, e)
	return e, nil
}

// curve emits a Bezier-form B_SPLINE_CURVE_WITH_KNOTS over pts.
func (t *topology) curve(pts []Ref) (Ref, error) {
	n := len(pts)
	if n < 2 {
		return 0, fmt.Errorf("%w: curve with %d points", ErrGridTooSmall, n)
	}
	mults, knots, err := knotParams(n, n-1)
	if err != nil {
		return 0, err
	}
	return t.w.Add("B_SPLINE_CURVE_WITH_KNOTS",
		String(""), Int(n-1), Refs(pts),
		Enum("UNSPECIFIED"), Bool(false), Bool(false),
		mults, knots, Enum("UNSPECIFIED"),
	), nil
}
