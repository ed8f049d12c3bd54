package geom

import (
	"fmt"
	"math"
)

// PrecisionModel snaps coordinates to a grid. The zero value is the floating
// model, which leaves coordinates untouched.
type PrecisionModel struct {
	scale float64
}

// Floating returns the full-precision model.
func Floating() PrecisionModel { return PrecisionModel{} }

// Fixed returns a model that rounds ordinates to multiples of 1/scale.
// Non-positive or non-finite scales yield the floating model.
func Fixed(scale float64) PrecisionModel {
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		return Floating()
	}
	return PrecisionModel{scale: scale}
}

// IsFloating reports whether the model performs no rounding.
func (pm PrecisionModel) IsFloating() bool { return pm.scale == 0 }

// Scale returns the grid scale, or 0 for the floating model.
func (pm PrecisionModel) Scale() float64 { return pm.scale }

// MakePreciseValue rounds a single ordinate to the grid.
func (pm PrecisionModel) MakePreciseValue(v float64) float64 {
	if pm.scale == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	if pm.scale < 1 {
		// Dividing by the grid size keeps large grids exact.
		grid := 1 / pm.scale
		return math.Floor(v/grid+0.5) * grid
	}
	return math.Floor(v*pm.scale+0.5) / pm.scale
}

// MakePrecise rounds both ordinates of c to the grid.
func (pm PrecisionModel) MakePrecise(c Coord) Coord {
	if pm.scale == 0 {
		return c
	}
	return Coord{X: pm.MakePreciseValue(c.X), Y: pm.MakePreciseValue(c.Y)}
}

func (pm PrecisionModel) String() string {
	if pm.IsFloating() {
		return "floating"
	}
	return fmt.Sprintf("fixed(scale=%g)", pm.scale)
}
