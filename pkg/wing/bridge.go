package wing

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/wingsmith/pkg/bspline"
	"github.com/chazu/wingsmith/pkg/design"
	"github.com/chazu/wingsmith/pkg/profile"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BridgeFamily names a spanwise bridge between matching profile corners.
type BridgeFamily int

const (
	BridgeLEPS BridgeFamily = iota
	BridgeTEPS
	BridgeLESS
	BridgeTESS
)

// BridgeCount is the number of bridge families.
const BridgeCount = 4

// BridgeFamilies lists every bridge family in canonical order.
var BridgeFamilies = [BridgeCount]BridgeFamily{BridgeLEPS, BridgeTEPS, BridgeLESS, BridgeTESS}

func (b BridgeFamily) String() string {
	switch b {
	case BridgeLEPS:
		return "le_ps"
	case BridgeTEPS:
		return "te_ps"
	case BridgeLESS:
		return "le_ss"
	case BridgeTESS:
		return "te_ss"
	default:
		return fmt.Sprintf("BridgeFamily(%d)", int(b))
	}
}

// Corner returns the corner of g that bridge family b starts or ends on.
func (b BridgeFamily) Corner(g *SegmentGeometry) v3.Vec {
	switch b {
	case BridgeLEPS:
		return g.Corners.LEPS
	case BridgeTEPS:
		return g.Corners.TEPS
	case BridgeLESS:
		return g.Corners.LESS
	default:
		return g.Corners.TESS
	}
}

// FaceBridges returns the bridges bounding face family f at v=0 and v=1,
// following the point order of f's control polygon.
func FaceBridges(f profile.Family) (v0, v1 BridgeFamily) {
	switch f {
	case profile.LE:
		return BridgeLESS, BridgeLEPS
	case profile.PS:
		return BridgeLEPS, BridgeTEPS
	case profile.SS:
		return BridgeLESS, BridgeTESS
	default:
		return BridgeTEPS, BridgeTESS
	}
}

// ErrCoincident is returned when two consecutive sections share a corner.
var ErrCoincident = errors.New("consecutive sections have coincident corners")

// Bridge is a spanwise curve joining one corner of two adjacent segments.
type Bridge struct {
	Family  BridgeFamily
	Degree  int
	Control []v3.Vec
	Curve   []v3.Vec

	// BlendFactor is derived for G2 pairs from the corner separation. It is
	// recorded for inspection and does not shape the bridge.
	BlendFactor float64
}

// buildBridge joins the b corners of lower and upper. Tangent-tagged ends get
// one extra point offset along the span direction by their tan_accel.
func buildBridge(b BridgeFamily, lower, upper *SegmentGeometry, samples int) (*Bridge, error) {
	start, end := b.Corner(lower), b.Corner(upper)
	sep := end.Sub(start).Length()
	if sep == 0 {
		return nil, ErrCoincident
	}
	dir := 1.0
	if end.Z < start.Z {
		dir = -1
	}

	ctrl := []v3.Vec{start}
	if lower.Continuity.Tangent() {
		ctrl = append(ctrl, start.Add(v3.Vec{Z: dir * lower.TanAccel}))
	}
	if upper.Continuity.Tangent() {
		ctrl = append(ctrl, end.Sub(v3.Vec{Z: dir * upper.TanAccel}))
	}
	ctrl = append(ctrl, end)

	br := &Bridge{Family: b, Degree: len(ctrl) - 1, Control: ctrl}
	if lower.Continuity == design.G2 || upper.Continuity == design.G2 {
		br.BlendFactor = math.Min(1, math.Max(lower.TanAccel, upper.TanAccel)/sep)
	}

	curve, err := bspline.SampleCurve(ctrl, br.Degree, samples)
	if err != nil {
		return nil, err
	}
	br.Curve = curve
	return br, nil
}
