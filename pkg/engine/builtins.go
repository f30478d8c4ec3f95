package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpAirfoil refers to an airfoil already added to the library.
type sexpAirfoil struct {
	id   design.AirfoilID
	name string
}

func (a *sexpAirfoil) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(airfoil %q)", a.name)
}
func (a *sexpAirfoil) Type() *zygo.RegisteredType { return nil }

// sexpSegment is a segment waiting for its wing. Arguments are evaluated
// before the enclosing form, so segments and wings are attached when the
// component that owns them is built.
type sexpSegment struct {
	airfoil string
	seg     design.Segment
}

func (s *sexpSegment) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(segment :airfoil %q :z %g)", s.airfoil, s.seg.Placement.Z)
}
func (s *sexpSegment) Type() *zygo.RegisteredType { return nil }

// sexpWing is a wing waiting for its component.
type sexpWing struct {
	name     string
	origin   v3.Vec
	segments []*sexpSegment
}

func (w *sexpWing) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(wing %q, %d segments)", w.name, len(w.segments))
}
func (w *sexpWing) Type() *zygo.RegisteredType { return nil }

// sexpComponent refers to a component added to the project.
type sexpComponent struct {
	id   design.ComponentID
	name string
}

func (c *sexpComponent) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(component %q)", c.name)
}
func (c *sexpComponent) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// unknown returns the first keyword, in sorted order, not in allowed.
func (a kwArgs) unknown(allowed ...string) (string, bool) {
	for _, k := range slices.Sorted(maps.Keys(a.kw)) {
		if !slices.Contains(allowed, k) {
			return k, true
		}
	}
	return "", false
}

// float sets *dst from keyword key when present.
func (a kwArgs) float(key string, dst *float64) error {
	v, ok := a.kw[key]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_g1) and plain strings ("g1").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toAirfoilName accepts an airfoil value or its library name.
func toAirfoilName(s zygo.Sexp) (string, error) {
	if a, ok := s.(*sexpAirfoil); ok {
		return a.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("expected airfoil or airfoil name: %w", err)
	}
	return name, nil
}

// airfoilFields maps script keywords onto the fields of p.
func airfoilFields(p *profile.Params) map[string]*float64 {
	return map[string]*float64{
		"chord":            &p.Chord,
		"origin-x":         &p.Origin.X,
		"origin-y":         &p.Origin.Y,
		"le-thickness":     &p.LE.Thickness,
		"le-depth":         &p.LE.Depth,
		"le-offset":        &p.LE.Offset,
		"le-angle":         &p.LE.Angle,
		"te-thickness":     &p.TE.Thickness,
		"te-depth":         &p.TE.Depth,
		"te-offset":        &p.TE.Offset,
		"te-angle":         &p.TE.Angle,
		"ps-forward-angle": &p.PS.ForwardAngle,
		"ps-rear-angle":    &p.PS.RearAngle,
		"ps-forward-accel": &p.PS.ForwardAccel,
		"ps-rear-accel":    &p.PS.RearAccel,
		"ss-forward-angle": &p.SS.ForwardAngle,
		"ss-rear-angle":    &p.SS.RearAngle,
		"ss-forward-accel": &p.SS.ForwardAccel,
		"ss-rear-accel":    &p.SS.RearAccel,
	}
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the design script builtins into a zygomys
// environment. The builtins populate p during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *design.Project) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (performance :fine)
	// -----------------------------------------------------------------------
	env.AddFunction("performance", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("performance requires exactly 1 argument, got %d", len(args))
		}
		s, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("performance: %w", err)
		}
		perf, err := bspline.ParsePerformance(s)
		if err != nil {
			return zygo.SexpNull, err
		}
		p.Settings.Performance = perf
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (airfoil "root" :chord 1 :le-thickness 0.06 ... )
	// Unset parameters keep profile.DefaultParams values.
	// -----------------------------------------------------------------------
	env.AddFunction("airfoil", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("airfoil requires a name argument")
		}
		afName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("airfoil: name: %w", err)
		}

		params := profile.DefaultParams()
		fields := airfoilFields(&params)
		for _, key := range slices.Sorted(maps.Keys(pa.kw)) {
			dst, ok := fields[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("airfoil %q: unknown parameter %q", afName, key)
			}
			if err := pa.float(key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("airfoil %q: %w", afName, err)
			}
		}

		id, err := p.AddAirfoil(design.Airfoil{Name: afName, Params: params})
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpAirfoil{id: id, name: afName}, nil
	})

	// -----------------------------------------------------------------------
	// (segment :airfoil "root" :x 0 :y 0 :z 2 :incidence 1.5 :scale 0.8
	//          :continuity :g1 :tan-accel 0.1)
	// -----------------------------------------------------------------------
	env.AddFunction("segment", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("segment takes keyword arguments only")
		}
		if k, bad := pa.unknown("airfoil", "x", "y", "z", "incidence", "scale", "continuity", "tan-accel"); bad {
			return zygo.SexpNull, fmt.Errorf("segment: unknown parameter %q", k)
		}

		v, ok := pa.kw["airfoil"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("segment requires :airfoil")
		}
		afName, err := toAirfoilName(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("segment: airfoil: %w", err)
		}

		s := &sexpSegment{airfoil: afName, seg: design.Segment{Placement: design.Placement{Scale: 1}}}
		pl := &s.seg.Placement
		fields := []struct {
			key string
			dst *float64
		}{
			{"x", &pl.X}, {"y", &pl.Y}, {"z", &pl.Z},
			{"incidence", &pl.Incidence}, {"scale", &pl.Scale},
			{"tan-accel", &s.seg.TanAccel},
		}
		for _, f := range fields {
			if err := pa.float(f.key, f.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: %w", err)
			}
		}
		if v, ok := pa.kw["continuity"]; ok {
			c, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: continuity: %w", err)
			}
			if s.seg.Continuity, err = design.ParseContinuity(c); err != nil {
				return zygo.SexpNull, fmt.Errorf("segment: %w", err)
			}
		}
		return s, nil
	})

	// -----------------------------------------------------------------------
	// (wing "right" :origin (vec3 0 0 0) (segment ...) (segment ...))
	// -----------------------------------------------------------------------
	env.AddFunction("wing", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("wing requires a name argument")
		}
		if k, bad := pa.unknown("origin"); bad {
			return zygo.SexpNull, fmt.Errorf("wing: unknown parameter %q", k)
		}
		wingName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wing: name: %w", err)
		}

		w := &sexpWing{name: wingName}
		if v, ok := pa.kw["origin"]; ok {
			if w.origin, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wing %q: origin: %w", wingName, err)
			}
		}
		for i, arg := range pa.positional[1:] {
			seg, ok := arg.(*sexpSegment)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("wing %q: child %d: expected segment, got %T (%s)",
					wingName, i+1, arg, arg.SexpString(nil))
			}
			w.segments = append(w.segments, seg)
		}
		return w, nil
	})

	// -----------------------------------------------------------------------
	// (component "main" :origin (vec3 0 0 0) (wing ...) (wing ...))
	// -----------------------------------------------------------------------
	env.AddFunction("component", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("component requires a name argument")
		}
		if k, bad := pa.unknown("origin"); bad {
			return zygo.SexpNull, fmt.Errorf("component: unknown parameter %q", k)
		}
		compName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("component: name: %w", err)
		}
		var origin v3.Vec
		if v, ok := pa.kw["origin"]; ok {
			if origin, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("component %q: origin: %w", compName, err)
			}
		}

		var wings []*sexpWing
		for i, arg := range pa.positional[1:] {
			w, ok := arg.(*sexpWing)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("component %q: child %d: expected wing, got %T (%s)",
					compName, i+1, arg, arg.SexpString(nil))
			}
			wings = append(wings, w)
		}

		cid := p.AddComponent(compName, origin)
		for _, w := range wings {
			wid, err := p.AddWing(cid, w.name, w.origin)
			if err != nil {
				return zygo.SexpNull, err
			}
			for i, s := range w.segments {
				af, ok := p.LookupAirfoil(s.airfoil)
				if !ok {
					return zygo.SexpNull, fmt.Errorf("wing %q segment %d: no airfoil named %q", w.name, i, s.airfoil)
				}
				seg := s.seg
				seg.Airfoil = af
				if _, err := p.AddSegment(wid, seg); err != nil {
					return zygo.SexpNull, err
				}
			}
		}
		return &sexpComponent{id: cid, name: compName}, nil
	})
}
