package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/phototaxis/components"
)

// Decision is the outcome of one select-and-step.
type Decision struct {
	Light    int     // Index into the lights slice; -1 if there were none
	Score    float64 // Weighted score of the chosen light
	Distance float64 // Distance to the chosen light before stepping
	Moved    bool    // Distance was non-zero and a step was taken
	From, To components.Position
}

// WeightedScore is squared distance divided by weight. Lower is preferred,
// so heavier lights look closer.
func WeightedScore(pos components.Position, light components.Light, weight float64) float64 {
	return distanceSq(pos, light.Pos()) / weight
}

// SelectLight returns the index and score of the light with the lowest
// weighted score. Ties keep the earliest light. Returns -1 for no lights.
func SelectLight(pos components.Position, lights []components.Light, weights *WeightTable) (int, float64) {
	best := -1
	bestScore := math.Inf(1)
	for i, l := range lights {
		score := WeightedScore(pos, l, weights.Get(l.Key))
		if best < 0 || score < bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}

// StepToward moves pos by speed along the unit direction to target.
// It returns the new position, the distance before moving, and whether a
// step happened. A zero distance leaves pos untouched.
func StepToward(pos, target components.Position, speed float64) (components.Position, float64, bool) {
	delta := r2.Sub(target.Vec(), pos.Vec())
	dist := r2.Norm(delta)
	if dist == 0 {
		return pos, 0, false
	}
	dir := r2.Scale(1/dist, delta)
	return components.PositionOf(r2.Add(pos.Vec(), r2.Scale(speed, dir))), dist, true
}

// SelectAndStep picks the preferred light and advances one step toward it.
func SelectAndStep(pos components.Position, speed float64, lights []components.Light, weights *WeightTable) Decision {
	idx, score := SelectLight(pos, lights, weights)
	d := Decision{Light: idx, Score: score, From: pos, To: pos}
	if idx < 0 {
		return d
	}
	d.To, d.Distance, d.Moved = StepToward(pos, lights[idx].Pos(), speed)
	return d
}
