package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phototaxis/sim"
	"github.com/pthm-cable/phototaxis/ui"
)

const controlsText = "SPACE: Pause | < >: Speed | ESC: Quit"

// Draw renders the game state.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()
	v := g.world.View()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	for _, l := range v.Lights {
		rl.DrawCircle(int32(l.Pos.X), int32(l.Pos.Y), float32(l.Intensity), l.Color)
	}

	r := float32(v.Size / 2)
	rl.DrawEllipse(int32(v.Organism.X), int32(v.Organism.Y), r, r, v.Color)

	g.drawUI(v)

	rl.EndDrawing()
}

// drawUI draws the HUD and the control buttons.
func (g *Game) drawUI(v sim.View) {
	arrivals := g.world.History().Arrivals
	rows := make([]ui.LightRow, len(v.Lights))
	for i, l := range v.Lights {
		rows[i] = ui.LightRow{
			Label:     fmt.Sprintf("(%g,%g)", l.Pos.X, l.Pos.Y),
			Intensity: l.Intensity,
			Weight:    l.Weight,
			Arrivals:  arrivals[i],
			Chosen:    i == v.Chosen,
			Color:     l.Color,
		}
	}

	data := ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Tick:         v.Tick,
		Steps:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Energy:       v.Energy,
		State:        v.State.String(),
		Lights:       rows,
		ScreenWidth:  int32(rl.GetScreenWidth()),
		ScreenHeight: int32(rl.GetScreenHeight()),
	}

	g.hud.Draw(data)
	g.applyAction(g.hud.DrawControls(data, controlsText))
}
