package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phototaxis/ui"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.Slower()
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.Faster()
	}
}

// applyAction handles a HUD button click.
func (g *Game) applyAction(a ui.Action) {
	switch a {
	case ui.ActionTogglePause:
		g.TogglePause()
	case ui.ActionSlower:
		g.Slower()
	case ui.ActionFaster:
		g.Faster()
	}
}
