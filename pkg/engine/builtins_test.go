package engine

import (
	"strings"
	"testing"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(segment :airfoil "root")`,
			expect: `(segment "__kw_airfoil" "root")`,
		},
		{
			name:   "multiple keywords",
			input:  `(segment :z 2 :scale 0.5)`,
			expect: `(segment "__kw_z" 2 "__kw_scale" 0.5)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def root-chord 1.2)`,
			expect: `(def root_chord 1.2)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "negative literal preserved",
			input:  `(airfoil "a" :ps-forward-angle -30)`,
			expect: `(airfoil "a" "__kw_ps-forward-angle" -30)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:tan-accel`,
			expect: `"__kw_tan-accel"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Script tests
// ---------------------------------------------------------------------------

const twoSegmentScript = `
; library
(performance :fine)
(airfoil "root" :chord 1.2 :le-thickness 0.08 :ss-forward-angle 40)
(airfoil "tip" :chord 0.7)

(component "main" :origin (vec3 1 0 0)
  (wing "right" :origin (vec3 0 0.5 0)
    (segment :airfoil "root" :z 0 :continuity :g0)
    (segment :airfoil "tip" :z 2 :scale 0.6 :incidence 2 :continuity :g1 :tan-accel 0.1)))
`

func mustEvaluate(t *testing.T, source string) *design.Project {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	return p
}

func TestTwoSegmentScript(t *testing.T) {
	p := mustEvaluate(t, twoSegmentScript)

	if p.Settings.Performance != bspline.Fine {
		t.Errorf("performance = %s, want fine", p.Settings.Performance)
	}
	if p.AirfoilCount() != 2 {
		t.Fatalf("airfoils = %d, want 2", p.AirfoilCount())
	}
	rootID, ok := p.LookupAirfoil("root")
	if !ok {
		t.Fatal("root airfoil missing")
	}
	root, _ := p.Airfoil(rootID)
	if root.Params.Chord != 1.2 || root.Params.LE.Thickness != 0.08 || root.Params.SS.ForwardAngle != 40 {
		t.Errorf("root params = %+v", root.Params)
	}
	if want := profile.DefaultParams().TE; root.Params.TE != want {
		t.Errorf("unset TE params = %+v, want defaults %+v", root.Params.TE, want)
	}

	comps := p.Components()
	if len(comps) != 1 {
		t.Fatalf("components = %d, want 1", len(comps))
	}
	comp, _ := p.Component(comps[0])
	if comp.Name != "main" || comp.Origin.X != 1 || len(comp.Wings) != 1 {
		t.Errorf("component = %+v", comp)
	}
	w, _ := p.Wing(comp.Wings[0])
	if w.Name != "right" || w.Origin.Y != 0.5 || len(w.Segments) != 2 {
		t.Fatalf("wing = %+v", w)
	}

	tip, _ := p.Segment(w.Segments[1])
	tipID, _ := p.LookupAirfoil("tip")
	if tip.Airfoil != tipID {
		t.Errorf("tip airfoil = %d, want %d", tip.Airfoil, tipID)
	}
	want := design.Placement{Z: 2, Scale: 0.6, Incidence: 2}
	if tip.Placement != want {
		t.Errorf("tip placement = %+v, want %+v", tip.Placement, want)
	}
	if tip.Continuity != design.G1 || tip.TanAccel != 0.1 {
		t.Errorf("tip continuity = %s %g, want G1 0.1", tip.Continuity, tip.TanAccel)
	}
	rootSeg, _ := p.Segment(w.Segments[0])
	if rootSeg.Placement.Scale != 1 {
		t.Errorf("default scale = %g, want 1", rootSeg.Placement.Scale)
	}
}

func TestAirfoilVariableReference(t *testing.T) {
	p := mustEvaluate(t, `
(def root-foil (airfoil "root"))
(component "c"
  (wing "w"
    (segment :airfoil root-foil :z 0)
    (segment :airfoil root-foil :z 1)))
`)
	if p.SegmentCount() != 2 {
		t.Errorf("segments = %d, want 2", p.SegmentCount())
	}
}

func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unknown airfoil param", `(airfoil "a" :wingspan 3)`, "unknown parameter"},
		{"duplicate airfoil", `(airfoil "a") (airfoil "a")`, "already defined"},
		{"segment without airfoil", `(segment :z 1)`, "requires :airfoil"},
		{"unknown segment param", `(segment :airfoil "a" :sweep 3)`, "unknown parameter"},
		{"bad continuity", `(segment :airfoil "a" :continuity :g3)`, "unknown continuity"},
		{"missing airfoil", `(component "c" (wing "w" (segment :airfoil "nope")))`, "no airfoil named"},
		{"wing child", `(component "c" (wing "w" 42))`, "expected segment"},
		{"component child", `(airfoil "a") (component "c" (segment :airfoil "a"))`, "expected wing"},
		{"vec3 arity", `(vec3 1 2)`, "exactly 3"},
		{"bad performance", `(performance :ultra)`, "unknown performance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, evalErrs, err := NewEngine().Evaluate(tt.source)
			if err != nil {
				t.Fatalf("fatal error: %v", err)
			}
			if p != nil {
				t.Error("expected nil project")
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval errors")
			}
			if !strings.Contains(evalErrs[0].Message, tt.want) {
				t.Errorf("error = %q, want containing %q", evalErrs[0].Message, tt.want)
			}
		})
	}
}

func TestRunValidates(t *testing.T) {
	res, err := NewEngine().Run(twoSegmentScript)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() {
		t.Fatalf("errors: %v", res.Errors)
	}

	res, err = NewEngine().Run(`
(airfoil "a")
(component "c" (wing "w" (segment :airfoil "a" :scale 0)))
`)
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() || res.Project != nil {
		t.Fatal("expected validation to reject zero scale")
	}
	if len(res.Warnings) == 0 {
		t.Error("expected a single-segment warning")
	}
}

func TestArithmeticStillWorks(t *testing.T) {
	p := mustEvaluate(t, `
(def total 3)
(airfoil "a")
(component "c"
  (wing "w"
    (segment :airfoil "a" :z 0)
    (segment :airfoil "a" :z (* total 0.5))))
`)
	w, _ := p.Wing(0)
	s, _ := p.Segment(w.Segments[1])
	if s.Placement.Z != 1.5 {
		t.Errorf("z = %g, want 1.5", s.Placement.Z)
	}
}
