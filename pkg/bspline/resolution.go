package bspline

import (
	"fmt"
	"strings"
)

// Performance is the user's quality/cost trade-off for sampled geometry.
type Performance int

const (
	Coarse Performance = iota
	Normal
	Fine
)

// MinTightSamples is the floor applied to leading and trailing edge curves so
// the nose and tail never render visibly faceted.
const MinTightSamples = 32

func (p Performance) String() string {
	switch p {
	case Coarse:
		return "coarse"
	case Normal:
		return "normal"
	case Fine:
		return "fine"
	default:
		return fmt.Sprintf("Performance(%d)", int(p))
	}
}

// ParsePerformance converts "coarse", "normal" or "fine" to a Performance.
func ParsePerformance(s string) (Performance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "coarse":
		return Coarse, nil
	case "normal", "":
		return Normal, nil
	case "fine":
		return Fine, nil
	}
	return Normal, fmt.Errorf("bspline: unknown performance %q, expected coarse, normal or fine", s)
}

// CurveSamples returns the number of samples for a profile curve. Tight
// curves (leading and trailing edges) never drop below MinTightSamples.
func CurveSamples(p Performance, tight bool) int {
	var n int
	switch p {
	case Coarse:
		n = 16
	case Fine:
		n = 64
	default:
		n = 32
	}
	if tight && n < MinTightSamples {
		n = MinTightSamples
	}
	return n
}

// SurfaceSamples returns the per-direction sample count for surfaces.
func SurfaceSamples(p Performance) int {
	switch p {
	case Coarse:
		return 8
	case Fine:
		return 32
	default:
		return 16
	}
}
