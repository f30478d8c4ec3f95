package step

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0."},
		{-0.0, "0."},
		{1, "1."},
		{-2, "-2."},
		{0.25, "0.25"},
		{-3.5, "-3.5"},
		{1e-7, "0.0000001"},
		{1234.5, "1234.5"},
	}
	for _, tt := range tests {
		got, err := FormatReal(tt.in)
		if err != nil {
			t.Errorf("FormatReal(%g) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatReal(%g) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRealNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if s, err := FormatReal(f); !errors.Is(err, ErrNonFinite) {
			t.Errorf("FormatReal(%v) = %q, %v; want ErrNonFinite", f, s, err)
		}
	}
}

func TestWriterRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		params []Param
	}{
		{"coordinate", []Param{String(""), Coords(v3.Vec{X: 1, Y: math.NaN()})}},
		{"nested list", []Param{List{List{Real(math.Inf(1))}}}},
		{"typed", []Param{Typed{Type: "LENGTH_MEASURE", Value: Real(math.NaN())}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			w.Add("CARTESIAN_POINT", String(""), Coords(v3.Vec{X: 1}))
			w.Add("THING", tt.params...)
			w.Add("CARTESIAN_POINT", String(""), Coords(v3.Vec{Z: 2}))
			if !errors.Is(w.Err(), ErrNonFinite) {
				t.Fatalf("Err() = %v, want ErrNonFinite", w.Err())
			}
			if !strings.Contains(w.Err().Error(), "#2 THING") {
				t.Errorf("Err() = %v, want it to name #2 THING", w.Err())
			}
			data, err := w.Bytes(Header{})
			if !errors.Is(err, ErrNonFinite) || data != nil {
				t.Errorf("Bytes() = %d bytes, %v; want nothing and ErrNonFinite", len(data), err)
			}
		})
	}
}

func TestParamEncoding(t *testing.T) {
	tests := []struct {
		name string
		p    Param
		want string
	}{
		{"ref", Ref(12), "#12"},
		{"int", Int(-3), "-3"},
		{"string", String("it's"), "'it''s'"},
		{"enum", Enum("UNSPECIFIED"), ".UNSPECIFIED."},
		{"true", Bool(true), ".T."},
		{"false", Bool(false), ".F."},
		{"omitted", Omitted, "$"},
		{"derived", Derived, "*"},
		{"empty list", List{}, "()"},
		{"nested", List{Refs([]Ref{1, 2}), Ints([]int{4, 4})}, "((#1,#2),(4,4))"},
		{"typed", Typed{Type: "LENGTH_MEASURE", Value: Real(0.5)}, "LENGTH_MEASURE(0.5)"},
		{"coords", Coords(v3.Vec{X: 1, Y: -0.5}), "(1.,-0.5,0.)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			tt.p.appendTo(&b)
			if got := b.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriterIDs(t *testing.T) {
	w := NewWriter()
	a := w.Add("CARTESIAN_POINT", String(""), Coords(v3.Vec{}))
	b := w.AddComplex(Instance{Type: "LENGTH_UNIT"}, Instance{Type: "NAMED_UNIT", Params: []Param{Derived}})
	c := w.Add("VERTEX_POINT", String(""), a)
	if a != 1 || b != 2 || c != 3 {
		t.Fatalf("ids = %d, %d, %d; want 1, 2, 3", a, b, c)
	}
	if w.Len() != 3 {
		t.Errorf("Len() = %d, want 3", w.Len())
	}
	if e, ok := w.Entity(c); !ok || e.Type() != "VERTEX_POINT" {
		t.Errorf("Entity(3) = %v, %v", e, ok)
	}
	if _, ok := w.Entity(4); ok {
		t.Error("Entity(4) should not exist")
	}
	if e, _ := w.Entity(b); e.Type() != "" || e.Params() != nil {
		t.Error("complex entity should have no simple type")
	}
	if n := w.Count("CARTESIAN_POINT"); n != 1 {
		t.Errorf("Count(CARTESIAN_POINT) = %d, want 1", n)
	}
}

func TestWriterBytes(t *testing.T) {
	w := NewWriter()
	p := w.Add("CARTESIAN_POINT", String(""), Coords(v3.Vec{X: 1}))
	w.AddComplex(
		Instance{Type: "LENGTH_UNIT"},
		Instance{Type: "NAMED_UNIT", Params: []Param{Derived}},
		Instance{Type: "SI_UNIT", Params: []Param{Enum("MILLI"), Enum("METRE")}},
	)
	w.Add("VERTEX_POINT", String(""), p)

	data, err := w.Bytes(Header{
		Description:  "test",
		Name:         "part.stp",
		Timestamp:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Author:       "O'Neil",
		Organization: "shop",
		System:       "wingsmith",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	want := `ISO-10303-21;
HEADER;
FILE_DESCRIPTION ( ('test'), '2;1' );
FILE_NAME ( 'part.stp', '2026-01-02T03:04:05', ('O''Neil'), ('shop'), 'wingsmith', 'wingsmith', '' );
FILE_SCHEMA ( ('CONFIG_CONTROL_DESIGN') );
ENDSEC;
DATA;
#1 = CARTESIAN_POINT ( '', (1.,0.,0.) ) ;
#2 = ( LENGTH_UNIT () NAMED_UNIT ( * ) SI_UNIT ( .MILLI., .METRE. ) ) ;
#3 = VERTEX_POINT ( '', #1 ) ;
ENDSEC;
END-ISO-10303-21;
`
	if got != want {
		t.Errorf("Bytes() mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
