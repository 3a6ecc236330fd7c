// Package ui draws the heads-up display and on-screen controls.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// LightRow is one line of the weight table panel.
type LightRow struct {
	Label     string
	Intensity float64
	Weight    float64
	Arrivals  int
	Chosen    bool
	Color     rl.Color
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int
	Steps        int
	FPS          int32
	Paused       bool
	Energy       float64
	State        string
	Lights       []LightRow
	ScreenWidth  int32
	ScreenHeight int32
}

// Action is a control requested through the HUD buttons.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionSlower
	ActionFaster
)

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Steps/frame: %d | FPS: %d", data.Tick, data.Steps, data.FPS),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Energy: %.1f | %s", data.Energy, data.State),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	h.drawWeights(data)
}

// drawWeights renders the per-light weight table in the top-right corner.
func (h *HUD) drawWeights(data HUDData) {
	const rowH = 18
	x := data.ScreenWidth - 260
	y := int32(10)

	rl.DrawText("Light        I     W    Hits", x, y, 14, rl.White)
	y += rowH
	for _, row := range data.Lights {
		rl.DrawRectangle(x-14, y+2, 10, 10, row.Color)
		col := rl.LightGray
		if row.Chosen {
			col = rl.Yellow
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %4.0f %6.1f %5d", row.Label, row.Intensity, row.Weight, row.Arrivals),
			x, y, 14, col,
		)
		y += rowH
	}
}

// DrawControls renders the control legend and buttons at the bottom of
// the screen and returns the action clicked this frame, if any.
func (h *HUD) DrawControls(data HUDData, controls string) Action {
	rl.DrawText(controls, 10, data.ScreenHeight-25, 14, rl.Gray)

	action := ActionNone
	y := float32(data.ScreenHeight - 60)
	pauseText := "Pause"
	if data.Paused {
		pauseText = "Resume"
	}
	if gui.Button(rl.Rectangle{X: 10, Y: y, Width: 80, Height: 26}, pauseText) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: 100, Y: y, Width: 40, Height: 26}, "<") {
		action = ActionSlower
	}
	if gui.Button(rl.Rectangle{X: 150, Y: y, Width: 40, Height: 26}, ">") {
		action = ActionFaster
	}
	return action
}
