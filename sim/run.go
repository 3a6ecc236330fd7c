package sim

import (
	"math/rand"

	"github.com/pthm-cable/phototaxis/config"
)

// HaltReason says why an open-ended run should stop.
type HaltReason string

const (
	HaltNone     HaltReason = ""
	HaltMaxTicks HaltReason = "max_ticks"
	HaltDepleted HaltReason = "depleted"
)

// Halted reports whether a driver stepping the world should stop. A
// positive maxTicks caps the run and depleted ticks are still recorded up
// to the cap. Without a cap the run ends at depletion, since every later
// tick repeats the frozen state.
func (w *World) Halted(maxTicks int) HaltReason {
	if maxTicks > 0 {
		if w.tick >= maxTicks {
			return HaltMaxTicks
		}
		return HaltNone
	}
	if _, org := w.Organism(); org.Depleted() {
		return HaltDepleted
	}
	return HaltNone
}

// Run builds a world from cfg and steps it until maxTicks or until the
// organism is depleted, whichever comes first.
func Run(cfg *config.Config, seed int64, maxTicks int) (*World, error) {
	w, err := New(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}
	for w.Tick() < maxTicks {
		w.Step()
		if w.Halted(0) == HaltDepleted {
			break
		}
	}
	return w, nil
}
