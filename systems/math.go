package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/phototaxis/components"
)

// distanceSq returns the squared distance between two points.
func distanceSq(a, b components.Position) float64 {
	return r2.Norm2(r2.Sub(b.Vec(), a.Vec()))
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b components.Position) float64 {
	return r2.Norm(r2.Sub(b.Vec(), a.Vec()))
}

// clampByte clamps v to [0, 255] and truncates it to a byte.
func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
