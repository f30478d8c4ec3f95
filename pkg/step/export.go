package step

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	"github.com/chazu/wingsmith/pkg/wing"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrNoFaces is returned when there is no connected face to export.
	ErrNoFaces = errors.New("no connected faces to export")
	// ErrGridTooSmall is returned for a grid direction with fewer than 2 points.
	ErrGridTooSmall = errors.New("grid has fewer than 2 points in a direction")
	// ErrExtentMismatch is returned when grids disagree along a shared boundary.
	ErrExtentMismatch = errors.New("grid extents mismatch along shared boundary")
	// ErrLoopNotClosed is returned when an edge loop does not close head to tail.
	ErrLoopNotClosed = errors.New("edge loop not closed")
	// ErrNonFinite is returned for a NaN or infinite value bound for the file.
	ErrNonFinite = errors.New("non-finite real")
)

// ExportError reports which wing, pair and face an export failed on.
type ExportError struct {
	Wing   string
	Pair   int    // -1 when the failure is not tied to a pair
	Family string // face family, empty when not tied to a face
	Err    error
}

func (e *ExportError) Error() string {
	switch {
	case e.Pair < 0:
		return fmt.Sprintf("step: wing %q: %v", e.Wing, e.Err)
	case e.Family == "":
		return fmt.Sprintf("step: wing %q pair %d: %v", e.Wing, e.Pair, e.Err)
	}
	return fmt.Sprintf("step: wing %q pair %d face %s: %v", e.Wing, e.Pair, e.Family, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// Options control header fields and the product name of an export.
type Options struct {
	Name         string // product and file name, defaults to the project name
	Author       string
	Organization string
	Now          func() time.Time // defaults to time.Now
}

const system = "wingsmith"

func (o Options) header(description string) Header {
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	return Header{
		Description:  description,
		Name:         o.Name,
		Timestamp:    now(),
		Author:       o.Author,
		Organization: o.Organization,
		System:       system,
	}
}

// WithProject fills unset options from the project.
func (o Options) WithProject(p *design.Project) Options {
	if o.Name == "" {
		o.Name = p.Name
	}
	if o.Author == "" {
		o.Author = p.Settings.Author
	}
	if o.Organization == "" {
		o.Organization = p.Settings.Organization
	}
	return o
}

// Export builds every wing of p and writes its faces as an open-shell
// surface model.
func Export(ctx context.Context, p *design.Project, opts Options) ([]byte, error) {
	geoms, err := wing.BuildAll(p)
	if err != nil {
		return nil, err
	}
	return ExportGeometry(ctx, geoms, opts.WithProject(p))
}

// ExportGeometry writes already built wings. Single-segment wings are
// skipped; if no wing has a face the export fails with ErrNoFaces.
func ExportGeometry(ctx context.Context, geoms []*wing.Geometry, opts Options) ([]byte, error) {
	x, err := buildSurfaces(ctx, geoms, opts)
	if err != nil {
		return nil, err
	}
	return x.w.Bytes(opts.header("wingsmith wing surfaces"))
}

// ExportProfiles writes the placed profile polygons of every segment, and
// the bridges of every connected pair, as a wireframe. Unlike surface export
// it accepts wings with a single segment.
func ExportProfiles(ctx context.Context, p *design.Project, opts Options) ([]byte, error) {
	geoms, err := wing.BuildAll(p)
	if err != nil {
		return nil, err
	}
	opts = opts.WithProject(p)

	x := newExporter()
	var curves []Ref
	for wi, g := range geoms {
		for _, sg := range g.Segments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			for _, f := range profile.Families {
				ref, err := x.profileCurve(sg, f)
				if err != nil {
					return nil, &ExportError{Wing: g.Name, Pair: -1, Family: f.String(), Err: err}
				}
				curves = append(curves, ref)
			}
		}
		for _, pair := range g.Pairs {
			for _, b := range wing.BridgeFamilies {
				ref, err := x.bridgeCurve(wi, g, pair, b)
				if err != nil {
					return nil, &ExportError{Wing: g.Name, Pair: pair.Index, Family: b.String(), Err: err}
				}
				curves = append(curves, ref)
			}
		}
	}
	if len(curves) == 0 {
		return nil, &ExportError{Pair: -1, Err: fmt.Errorf("no segments: %w", ErrNoFaces)}
	}

	set := x.w.Add("GEOMETRIC_CURVE_SET", String(""), Refs(curves))
	rc := x.context()
	axis := x.axis()
	rep := x.w.Add("GEOMETRICALLY_BOUNDED_WIREFRAME_SHAPE_REPRESENTATION", String(opts.Name), List{axis, set}, rc)
	x.product(opts.Name, rep)
	return x.w.Bytes(opts.header("wingsmith wing profiles"))
}

// exporter holds the per-call entity list and topology arena. It is
// discarded once the file bytes exist.
type exporter struct {
	w     *Writer
	topo  *topology
	faces int
}

func newExporter() *exporter {
	w := NewWriter()
	return &exporter{w: w, topo: newTopology(w)}
}

func buildSurfaces(ctx context.Context, geoms []*wing.Geometry, opts Options) (*exporter, error) {
	x := newExporter()
	var shells []Ref
	for wi, g := range geoms {
		if len(g.Pairs) == 0 {
			continue
		}
		var faces []Ref
		for _, pair := range g.Pairs {
			if pair == nil {
				return nil, &ExportError{Wing: g.Name, Pair: -1, Err: ErrNoFaces}
			}
			if err := x.checkExtents(g, pair); err != nil {
				return nil, &ExportError{Wing: g.Name, Pair: pair.Index, Err: err}
			}
			for _, f := range profile.Families {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				face, err := x.face(wi, g, pair, f)
				if err != nil {
					return nil, &ExportError{Wing: g.Name, Pair: pair.Index, Family: f.String(), Err: err}
				}
				faces = append(faces, face)
			}
		}
		shells = append(shells, x.w.Add("OPEN_SHELL", String(g.Name), Refs(faces)))
	}
	if len(shells) == 0 {
		return nil, &ExportError{Pair: -1, Err: ErrNoFaces}
	}

	model := x.w.Add("SHELL_BASED_SURFACE_MODEL", String(""), Refs(shells))
	rc := x.context()
	axis := x.axis()
	rep := x.w.Add("MANIFOLD_SURFACE_SHAPE_REPRESENTATION", String(opts.Name), List{axis, model}, rc)
	x.product(opts.Name, rep)
	return x, nil
}

// checkExtents requires every face grid of pair to be rectangular, at
// least 2x2, and to agree with its neighbours on the span extent and with
// the segment polygons on the profile extent.
func (x *exporter) checkExtents(g *wing.Geometry, pair *wing.Pair) error {
	if pair.Index < 0 || pair.Index+1 >= len(g.Segments) {
		return fmt.Errorf("%w: pair %d of %d segments", ErrExtentMismatch, pair.Index, len(g.Segments))
	}
	nu := -1
	for _, f := range profile.Families {
		grid := pair.Grid(f)
		if len(grid) == 0 {
			return fmt.Errorf("face %s: %w", f, ErrNoFaces)
		}
		if _, _, err := bspline.GridSize(grid); err != nil {
			if errors.Is(err, bspline.ErrTooFewPoints) {
				return fmt.Errorf("face %s: %w", f, ErrGridTooSmall)
			}
			return fmt.Errorf("face %s: %w: %v", f, ErrExtentMismatch, err)
		}
		if nu >= 0 && len(grid) != nu {
			return fmt.Errorf("face %s: %w: %d span rows, neighbours have %d", f, ErrExtentMismatch, len(grid), nu)
		}
		nu = len(grid)
		for _, sg := range []*wing.SegmentGeometry{g.Segments[pair.Index], g.Segments[pair.Index+1]} {
			if n := len(sg.Polygon(f)); n != len(grid[0]) {
				return fmt.Errorf("face %s: %w: %d profile columns, segment polygon has %d", f, ErrExtentMismatch, len(grid[0]), n)
			}
		}
	}
	return nil
}

// face emits one ADVANCED_FACE over the grid of family f. Grid corners are
// A=(0,0), B=(1,0), C=(1,1), D=(0,1) in (u,v); for an outward grid the
// outer loop runs A->B along the v=0 bridge, B->C along the upper profile,
// C->D back along the v=1 bridge and D->A back along the lower profile.
// Every edge shared by two faces is walked once in each direction.
func (x *exporter) face(wi int, g *wing.Geometry, pair *wing.Pair, f profile.Family) (Ref, error) {
	grid := pair.Grid(f)
	nu, nv := len(grid), len(grid[0])
	lower, upper := g.Segments[pair.Index].Segment, g.Segments[pair.Index+1].Segment
	v0, v1 := wing.FaceBridges(f)

	keyAt := func(i, j int) pointKey {
		switch {
		case i == 0:
			return profileKey(lower, f, j, nv)
		case i == nu-1:
			return profileKey(upper, f, j, nv)
		case j == 0:
			return pointKey{kind: bridgePoint, wing: wi, pair: pair.Index, family: int(v0), i: i}
		case j == nv-1:
			return pointKey{kind: bridgePoint, wing: wi, pair: pair.Index, family: int(v1), i: i}
		}
		return pointKey{kind: interiorPoint, wing: wi, pair: pair.Index, family: int(f), i: i, j: j}
	}

	ctrl := make([][]Ref, nu)
	for i := range grid {
		ctrl[i] = make([]Ref, nv)
		for j, pos := range grid[i] {
			ref, err := x.topo.point(keyAt(i, j), pos)
			if err != nil {
				return 0, err
			}
			ctrl[i][j] = ref
		}
	}

	column := func(j int) []Ref {
		out := make([]Ref, nu)
		for i := range ctrl {
			out[i] = ctrl[i][j]
		}
		return out
	}

	a, b, c, d := keyAt(0, 0), keyAt(nu-1, 0), keyAt(nu-1, nv-1), keyAt(0, nv-1)
	bridge0, err := x.topo.edge(bridgeEdge(wi, pair.Index, v0), a, b, column(0))
	if err != nil {
		return 0, err
	}
	upperEdge, err := x.topo.edge(profileEdge(upper, f), b, c, ctrl[nu-1])
	if err != nil {
		return 0, err
	}
	bridge1, err := x.topo.edge(bridgeEdge(wi, pair.Index, v1), d, c, column(nv-1))
	if err != nil {
		return 0, err
	}
	lowerEdge, err := x.topo.edge(profileEdge(lower, f), a, d, ctrl[0])
	if err != nil {
		return 0, err
	}

	// The loop runs counter-clockwise about the outward normal, so faces
	// whose du x dv points inwards walk it backwards and flip same_sense.
	outward := pair.Outward[f]
	loop := []orientedEdge{
		{bridge0, true},
		{upperEdge, true},
		{bridge1, false},
		{lowerEdge, false},
	}
	if !outward {
		loop = []orientedEdge{
			{lowerEdge, true},
			{bridge1, true},
			{upperEdge, false},
			{bridge0, false},
		}
	}
	if err := checkLoop(loop); err != nil {
		return 0, err
	}
	for _, oe := range loop {
		oe.edge.senses = append(oe.edge.senses, oe.sense)
	}
	oriented := make([]Ref, len(loop))
	for i, oe := range loop {
		oriented[i] = x.w.Add("ORIENTED_EDGE", String(""), Derived, Derived, oe.edge.ref, Bool(oe.sense))
	}
	edgeLoop := x.w.Add("EDGE_LOOP", String(""), Refs(oriented))
	bound := x.w.Add("FACE_OUTER_BOUND", String(""), edgeLoop, Bool(true))

	surf, err := x.surface(ctrl)
	if err != nil {
		return 0, err
	}
	x.faces++
	return x.w.Add("ADVANCED_FACE", String(""), List{bound}, surf, Bool(outward)), nil
}

// surface emits a B_SPLINE_SURFACE_WITH_KNOTS of degree min(3, n-1) in each
// direction over the [u][v] control refs.
func (x *exporter) surface(ctrl [][]Ref) (Ref, error) {
	nu, nv := len(ctrl), len(ctrl[0])
	du, dv := bspline.CurveDegree(nu), bspline.CurveDegree(nv)
	multsU, knotsU, err := knotParams(nu, du)
	if err != nil {
		return 0, err
	}
	multsV, knotsV, err := knotParams(nv, dv)
	if err != nil {
		return 0, err
	}
	rows := make(List, nu)
	for i, row := range ctrl {
		rows[i] = Refs(row)
	}
	return x.w.Add("B_SPLINE_SURFACE_WITH_KNOTS",
		String(""), Int(du), Int(dv), rows,
		Enum("UNSPECIFIED"), Bool(false), Bool(false), Bool(false),
		multsU, multsV, knotsU, knotsV, Enum("UNSPECIFIED"),
	), nil
}

// profileCurve emits the wireframe curve of seg's family f polygon.
func (x *exporter) profileCurve(sg *wing.SegmentGeometry, f profile.Family) (Ref, error) {
	poly := sg.Polygon(f)
	refs := make([]Ref, len(poly))
	for j, pos := range poly {
		ref, err := x.topo.point(profileKey(sg.Segment, f, j, len(poly)), pos)
		if err != nil {
			return 0, err
		}
		refs[j] = ref
	}
	return x.topo.curve(refs)
}

// bridgeCurve emits the wireframe curve of one bridge of pair.
func (x *exporter) bridgeCurve(wi int, g *wing.Geometry, pair *wing.Pair, b wing.BridgeFamily) (Ref, error) {
	br := pair.Bridges[b]
	if br == nil {
		return 0, ErrNoFaces
	}
	n := len(br.Control)
	refs := make([]Ref, n)
	for i, pos := range br.Control {
		var key pointKey
		switch i {
		case 0:
			key = cornerKey(g.Segments[pair.Index].Segment, b)
		case n - 1:
			key = cornerKey(g.Segments[pair.Index+1].Segment, b)
		default:
			key = pointKey{kind: bridgePoint, wing: wi, pair: pair.Index, family: int(b), i: i}
		}
		ref, err := x.topo.point(key, pos)
		if err != nil {
			return 0, err
		}
		refs[i] = ref
	}
	return x.topo.curve(refs)
}

// context emits the millimetre representation context.
func (x *exporter) context() Ref {
	length := x.w.AddComplex(
		Instance{Type: "LENGTH_UNIT"},
		Instance{Type: "NAMED_UNIT", Params: []Param{Derived}},
		Instance{Type: "SI_UNIT", Params: []Param{Enum("MILLI"), Enum("METRE")}},
	)
	angle := x.w.AddComplex(
		Instance{Type: "NAMED_UNIT", Params: []Param{Derived}},
		Instance{Type: "PLANE_ANGLE_UNIT"},
		Instance{Type: "SI_UNIT", Params: []Param{Omitted, Enum("RADIAN")}},
	)
	solid := x.w.AddComplex(
		Instance{Type: "NAMED_UNIT", Params: []Param{Derived}},
		Instance{Type: "SI_UNIT", Params: []Param{Omitted, Enum("STERADIAN")}},
		Instance{Type: "SOLID_ANGLE_UNIT"},
	)
	uncertainty := x.w.Add("UNCERTAINTY_MEASURE_WITH_UNIT",
		Typed{Type: "LENGTH_MEASURE", Value: Real(1e-7)}, length,
		String("distance_accuracy_value"), String("confusion accuracy"))
	return x.w.AddComplex(
		Instance{Type: "GEOMETRIC_REPRESENTATION_CONTEXT", Params: []Param{Int(3)}},
		Instance{Type: "GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT", Params: []Param{List{uncertainty}}},
		Instance{Type: "GLOBAL_UNIT_ASSIGNED_CONTEXT", Params: []Param{List{length, angle, solid}}},
		Instance{Type: "REPRESENTATION_CONTEXT", Params: []Param{String("Context #1"), String("3D Context with UNIT and UNCERTAINTY")}},
	)
}

// axis emits the world placement of the representation.
func (x *exporter) axis() Ref {
	origin := x.w.Add("CARTESIAN_POINT", String(""), Coords(v3.Vec{}))
	z := x.w.Add("DIRECTION", String(""), Reals(0, 0, 1))
	xd := x.w.Add("DIRECTION", String(""), Reals(1, 0, 0))
	return x.w.Add("AXIS2_PLACEMENT_3D", String(""), origin, z, xd)
}

// product emits the AP203 product graph and ties rep to it.
func (x *exporter) product(name string, rep Ref) {
	app := x.w.Add("APPLICATION_CONTEXT", String("configuration controlled 3D designs of mechanical parts and assemblies"))
	x.w.Add("APPLICATION_PROTOCOL_DEFINITION", String("international standard"), String("config_control_design"), Int(1994), app)
	mech := x.w.Add("MECHANICAL_CONTEXT", String(""), app, String("mechanical"))
	prod := x.w.Add("PRODUCT", String(name), String(name), String(""), List{mech})
	dctx := x.w.Add("DESIGN_CONTEXT", String(""), app, String("design"))
	formation := x.w.Add("PRODUCT_DEFINITION_FORMATION_WITH_SPECIFIED_SOURCE", String(""), String(""), prod, Enum("NOT_KNOWN"))
	def := x.w.Add("PRODUCT_DEFINITION", String("design"), String(""), formation, dctx)
	shape := x.w.Add("PRODUCT_DEFINITION_SHAPE", String(""), String(""), def)
	x.w.Add("SHAPE_DEFINITION_REPRESENTATION", shape, rep)
	x.w.Add("PRODUCT_RELATED_PRODUCT_CATEGORY", String("part"), Omitted, List{prod})
}

// knotParams returns the compressed clamped knot vector for n points of
// the given degree as (multiplicities, knots) lists.
func knotParams(n, degree int) (List, List, error) {
	knots, err := bspline.ClampedKnots(n, degree)
	if err != nil {
		return nil, nil, err
	}
	values, mults := bspline.CompressKnots(knots)
	return Ints(mults), Reals(values...), nil
}
