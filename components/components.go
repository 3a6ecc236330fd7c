// Package components defines ECS components for the simulation.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Position represents an entity's arena position.
type Position struct {
	X, Y float64
}

// Vec returns the position as a gonum vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// PositionOf converts a gonum vector back into a Position.
func PositionOf(v r2.Vec) Position {
	return Position{X: v.X, Y: v.Y}
}

// LightKey identifies a light by its position. Positions are unique
// across lights (enforced by config validation).
type LightKey Position

// Light is a static light source. Weight lives in the WeightTable,
// not here, so the component never changes after creation.
type Light struct {
	Key       LightKey
	Index     int     // Registry order; also the selection tie-break order
	Intensity float64 // Radius, reward magnitude and arrival threshold
	Color     color.RGBA
}

// Pos returns the light's position.
func (l Light) Pos() Position {
	return Position(l.Key)
}
