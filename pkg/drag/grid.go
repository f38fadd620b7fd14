package drag

import (
	"math"

	"github.com/aretw0/canvas/pkg/domain"
)

// DefaultGridSize is the grid spacing in canvas units.
const DefaultGridSize = 20.0

// Grid is the snapping policy shared by dragging and paste placement.
type Grid struct {
	Size    float64 `json:"size" mapstructure:"size"`
	Enabled bool    `json:"enabled" mapstructure:"enabled"`
}

// Snap rounds each axis independently to the nearest grid line. A disabled or
// zero-sized grid returns p unchanged.
func (g Grid) Snap(p domain.Point) domain.Point {
	if !g.Enabled || g.Size <= 0 {
		return p
	}
	return domain.Point{
		X: math.Round(p.X/g.Size) * g.Size,
		Y: math.Round(p.Y/g.Size) * g.Size,
	}
}
