package components

import "fmt"

// State is the organism lifecycle state.
type State uint8

const (
	StateActive   State = iota // Moving, deciding, learning
	StateDepleted              // Energy hit zero; terminal
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDepleted:
		return "depleted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Organism holds the mutable organism state.
type Organism struct {
	Energy float64 // Never negative
	Speed  float64 // Forced to 0 on depletion
	Size   float64 // Drawn diameter
	State  State
}

// Depleted reports whether the organism has run out of energy.
func (o *Organism) Depleted() bool {
	return o.State == StateDepleted
}
