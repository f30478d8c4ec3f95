package step

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Param is one argument of an entity instance.
type Param interface {
	appendTo(b *strings.Builder)
}

// Ref is an entity instance id, written #id.
type Ref int

func (r Ref) appendTo(b *strings.Builder) {
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(int(r)))
}

// Real is a REAL value. It always carries a decimal point.
type Real float64

func (r Real) appendTo(b *strings.Builder) {
	b.WriteString(formatReal(float64(r)))
}

// FormatReal renders f as a plain decimal STEP real: "1.", "0.25", "-3.5".
// The exchange format has no NaN or infinity, so those are ErrNonFinite.
func FormatReal(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	return formatReal(f), nil
}

func formatReal(f float64) string {
	if f == 0 {
		return "0."
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}

// firstNonFinite returns the first NaN or infinite Real inside params.
func firstNonFinite(params []Param) (float64, bool) {
	for _, p := range params {
		switch v := p.(type) {
		case Real:
			if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
				return f, true
			}
		case List:
			if f, ok := firstNonFinite(v); ok {
				return f, true
			}
		case Typed:
			if f, ok := firstNonFinite([]Param{v.Value}); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// Int is an INTEGER value.
type Int int

func (i Int) appendTo(b *strings.Builder) {
	b.WriteString(strconv.Itoa(int(i)))
}

// String is a STRING value. Apostrophes are doubled.
type String string

func (s String) appendTo(b *strings.Builder) {
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(string(s), "'", "''"))
	b.WriteByte('\'')
}

// Enum is an enumeration value written between dots, e.g. .UNSPECIFIED.
type Enum string

func (e Enum) appendTo(b *strings.Builder) {
	b.WriteByte('.')
	b.WriteString(string(e))
	b.WriteByte('.')
}

// Bool is a BOOLEAN written .T. or .F.
type Bool bool

func (v Bool) appendTo(b *strings.Builder) {
	if v {
		b.WriteString(".T.")
	} else {
		b.WriteString(".F.")
	}
}

// List is an aggregate written (a,b,c).
type List []Param

func (l List) appendTo(b *strings.Builder) {
	b.WriteByte('(')
	for i, p := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		p.appendTo(b)
	}
	b.WriteByte(')')
}

// Typed is a typed parameter such as LENGTH_MEASURE(1.E-07).
type Typed struct {
	Type  string
	Value Param
}

func (t Typed) appendTo(b *strings.Builder) {
	b.WriteString(t.Type)
	b.WriteByte('(')
	t.Value.appendTo(b)
	b.WriteByte(')')
}

type special byte

func (s special) appendTo(b *strings.Builder) { b.WriteByte(byte(s)) }

var (
	// Omitted is an unset optional attribute ($).
	Omitted Param = special('$')
	// Derived is a redeclared derived attribute (*).
	Derived Param = special('*')
)

// Reals builds a list of reals.
func Reals(fs ...float64) List {
	l := make(List, len(fs))
	for i, f := range fs {
		l[i] = Real(f)
	}
	return l
}

// Ints builds a list of integers.
func Ints(ns []int) List {
	l := make(List, len(ns))
	for i, n := range ns {
		l[i] = Int(n)
	}
	return l
}

// Refs builds a list of entity references.
func Refs(rs []Ref) List {
	l := make(List, len(rs))
	for i, r := range rs {
		l[i] = r
	}
	return l
}

// Coords is the coordinate list of a CARTESIAN_POINT.
func Coords(v v3.Vec) List {
	return Reals(v.X, v.Y, v.Z)
}
