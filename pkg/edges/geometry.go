package edges

import (
	"fmt"
	"math"

	"github.com/aretw0/canvas/pkg/domain"
)

// Geometry constants.
const (
	MaxControlOffset = 100.0
	ArrowT           = 0.5
	TangentT         = 0.55
)

// Bezier is a cubic bezier curve in canvas space.
type Bezier struct {
	P0 domain.Point `json:"p0"`
	P1 domain.Point `json:"p1"`
	P2 domain.Point `json:"p2"`
	P3 domain.Point `json:"p3"`
}

// Curve builds the edge curve between two anchors. The control points are
// pulled horizontally away from each end by half the horizontal distance,
// capped at MaxControlOffset.
func Curve(from, to domain.Point) Bezier {
	off := math.Min(math.Abs(to.X-from.X)*0.5, MaxControlOffset)
	return Bezier{
		P0: from,
		P1: domain.Point{X: from.X + off, Y: from.Y},
		P2: domain.Point{X: to.X - off, Y: to.Y},
		P3: to,
	}
}

// At evaluates the curve at parameter t in [0,1].
func (b Bezier) At(t float64) domain.Point {
	u := 1 - t
	a, c, d, e := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return domain.Point{
		X: a*b.P0.X + c*b.P1.X + d*b.P2.X + e*b.P3.X,
		Y: a*b.P0.Y + c*b.P1.Y + d*b.P2.Y + e*b.P3.Y,
	}
}

// Path renders the curve as SVG path data.
func (b Bezier) Path() string {
	return fmt.Sprintf("M %g %g C %g %g, %g %g, %g %g",
		b.P0.X, b.P0.Y, b.P1.X, b.P1.Y, b.P2.X, b.P2.Y, b.P3.X, b.P3.Y)
}

// Arrow is the placement of the direction glyph on an edge.
type Arrow struct {
	Position domain.Point `json:"position"`
	// Angle is in degrees, clockwise from the positive x axis (y grows down).
	Angle float64 `json:"angle"`
}

// ArrowOf places the arrow at the curve midpoint, rotated along the tangent
// sampled slightly ahead of it.
func ArrowOf(b Bezier) Arrow {
	at := b.At(ArrowT)
	ahead := b.At(TangentT)
	return Arrow{
		Position: at,
		Angle:    math.Atan2(ahead.Y-at.Y, ahead.X-at.X) * 180 / math.Pi,
	}
}

// PortAnchor returns where an edge attaches to n. Outputs sit on the right
// side and inputs on the left, spread evenly by port order. Unknown ports
// attach at the middle of the side.
func PortAnchor(n domain.Node, portID string, output bool) domain.Point {
	r := n.Bounds()
	ports := n.Ports.Inputs
	x := r.X
	if output {
		ports = n.Ports.Outputs
		x = r.X + r.Width
	}

	y := r.Y + r.Height/2
	for i, p := range ports {
		if p.ID == portID {
			y = r.Y + r.Height*float64(i+1)/float64(len(ports)+1)
			break
		}
	}
	return domain.Point{X: x, Y: y}
}

// PortAnchors returns the source and target anchors of an edge.
func PortAnchors(source, target domain.Node, e domain.Edge) (from, to domain.Point) {
	return PortAnchor(source, e.SourcePortID, true), PortAnchor(target, e.TargetPortID, false)
}
