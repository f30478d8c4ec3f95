package bspline

import (
	"errors"
	"math"
	"testing"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestClampedKnots(t *testing.T) {
	tests := []struct {
		name   string
		n, deg int
		want   []float64
	}{
		{"line", 2, 1, []float64{0, 0, 1, 1}},
		{"quadratic bezier", 3, 2, []float64{0, 0, 0, 1, 1, 1}},
		{"cubic bezier", 4, 3, []float64{0, 0, 0, 0, 1, 1, 1, 1}},
		{"cubic with interior", 6, 3, []float64{0, 0, 0, 0, 1.0 / 3, 2.0 / 3, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClampedKnots(tt.n, tt.deg)
			if err != nil {
				t.Fatalf("ClampedKnots() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("ClampedKnots() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClampedKnotsErrors(t *testing.T) {
	if _, err := ClampedKnots(3, 3); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("ClampedKnots(3, 3) error = %v, want ErrTooFewPoints", err)
	}
	if _, err := ClampedKnots(1, 1); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("ClampedKnots(1, 1) error = %v, want ErrTooFewPoints", err)
	}
	if _, err := ClampedKnots(4, 0); !errors.Is(err, ErrDegree) {
		t.Errorf("ClampedKnots(4, 0) error = %v, want ErrDegree", err)
	}
}

func TestCompressKnots(t *testing.T) {
	values, mults := CompressKnots([]float64{0, 0, 0, 0.5, 1, 1, 1})
	if diff := cmp.Diff([]float64{0, 0.5, 1}, values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 1, 3}, mults); diff != "" {
		t.Errorf("mults mismatch (-want +got):\n%s", diff)
	}
}

func TestCurveEndpointsExact(t *testing.T) {
	ctrl := []v2.Vec{{X: 0.1, Y: 0.3}, {X: 0.7, Y: 1.9}, {X: 2.3, Y: -0.4}, {X: 3.7, Y: 0.05}}
	samples, err := SampleCurve(ctrl, 3, 17)
	if err != nil {
		t.Fatal(err)
	}
	if samples[0] != ctrl[0] {
		t.Errorf("first sample = %v, want %v", samples[0], ctrl[0])
	}
	if samples[len(samples)-1] != ctrl[3] {
		t.Errorf("last sample = %v, want %v", samples[len(samples)-1], ctrl[3])
	}
}

func TestCubicMatchesBezier(t *testing.T) {
	ctrl := []v2.Vec{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 0}}
	c, err := NewCurve(ctrl, 3)
	if err != nil {
		t.Fatal(err)
	}
	for _, u := range []float64{0.1, 0.25, 0.5, 0.9} {
		m := 1 - u
		want := v2.Vec{
			X: m*m*m*ctrl[0].X + 3*m*m*u*ctrl[1].X + 3*m*u*u*ctrl[2].X + u*u*u*ctrl[3].X,
			Y: m*m*m*ctrl[0].Y + 3*m*m*u*ctrl[1].Y + 3*m*u*u*ctrl[2].Y + u*u*u*ctrl[3].Y,
		}
		got := c.Eval(u)
		if math.Abs(got.X-want.X) > 1e-12 || math.Abs(got.Y-want.Y) > 1e-12 {
			t.Errorf("Eval(%g) = %v, want %v", u, got, want)
		}
	}
}

func TestLinearCurveMidpoint(t *testing.T) {
	ctrl := []v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 2, Y: 4, Z: 6}}
	c, err := NewCurve(ctrl, 1)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Eval(0.5)
	want := v3.Vec{X: 1, Y: 2, Z: 3}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Eval(0.5) mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceCornersAndEdges(t *testing.T) {
	grid := [][]v3.Vec{
		{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0.5, Z: 0}, {X: 2, Y: 0.5, Z: 0}, {X: 3, Y: 0, Z: 0}},
		{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0.7, Z: 1}, {X: 2, Y: 0.7, Z: 1}, {X: 3, Y: 0, Z: 1}},
		{{X: 0, Y: 0, Z: 2}, {X: 1, Y: 0.6, Z: 2}, {X: 2, Y: 0.6, Z: 2}, {X: 3, Y: 0, Z: 2}},
	}
	s, err := NewSurface(grid)
	if err != nil {
		t.Fatal(err)
	}
	if s.DegreeU != 2 || s.DegreeV != 3 {
		t.Fatalf("degrees = (%d, %d), want (2, 3)", s.DegreeU, s.DegreeV)
	}
	for _, c := range []struct {
		u, v float64
		want v3.Vec
	}{
		{0, 0, grid[0][0]},
		{0, 1, grid[0][3]},
		{1, 0, grid[2][0]},
		{1, 1, grid[2][3]},
	} {
		if got := s.Eval(c.u, c.v); got != c.want {
			t.Errorf("Eval(%g, %g) = %v, want %v", c.u, c.v, got, c.want)
		}
	}

	pts, err := s.Sample(5, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != 5 || len(pts[0]) != 7 {
		t.Fatalf("Sample size = %dx%d, want 5x7", len(pts), len(pts[0]))
	}
}

func TestGridSizeErrors(t *testing.T) {
	tests := []struct {
		name string
		grid [][]v3.Vec
	}{
		{"empty", nil},
		{"one row", [][]v3.Vec{{{}, {}}}},
		{"one column", [][]v3.Vec{{{}}, {{}}}},
		{"ragged", [][]v3.Vec{{{}, {}}, {{}, {}, {}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := GridSize(tt.grid); err == nil {
				t.Error("GridSize() error = nil, want error")
			}
		})
	}
}

func TestCurveSamplesFloor(t *testing.T) {
	for _, p := range []Performance{Coarse, Normal, Fine} {
		if got := CurveSamples(p, true); got < MinTightSamples {
			t.Errorf("CurveSamples(%s, tight) = %d, want >= %d", p, got, MinTightSamples)
		}
	}
	if CurveSamples(Coarse, false) >= CurveSamples(Fine, false) {
		t.Error("coarse curves should use fewer samples than fine curves")
	}
	if SurfaceSamples(Coarse) >= SurfaceSamples(Fine) {
		t.Error("coarse surfaces should use fewer samples than fine surfaces")
	}
}

func TestParsePerformance(t *testing.T) {
	tests := []struct {
		in      string
		want    Performance
		wantErr bool
	}{
		{"coarse", Coarse, false},
		{"Fine", Fine, false},
		{" normal ", Normal, false},
		{"", Normal, false},
		{"ultra", Normal, true},
	}
	for _, tt := range tests {
		got, err := ParsePerformance(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePerformance(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParsePerformance(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
