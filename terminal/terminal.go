// Package terminal renders the simulation on a character grid with tcell.
package terminal

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/phototaxis/sim"
)

// frameInterval is the redraw and advance period (~60 FPS).
const frameInterval = 16 * time.Millisecond

// Driver is the simulation side of the terminal frontend.
type Driver interface {
	Advance()
	View() sim.View
	Tick() int
	TogglePause()
	Paused() bool
	Faster()
	Slower()
	StepsPerUpdate() int
}

// Frontend owns a tcell screen and maps arena coordinates onto it.
type Frontend struct {
	screen tcell.Screen
	driver Driver

	arenaW, arenaH float64
	width, height  int

	// MaxTicks stops the loop once reached (0 = unlimited).
	MaxTicks int
}

// New opens the terminal screen.
func New(driver Driver, arenaW, arenaH float64) (*Frontend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	return NewWithScreen(screen, driver, arenaW, arenaH)
}

// NewWithScreen initializes the given screen and wraps it in a frontend.
func NewWithScreen(screen tcell.Screen, driver Driver, arenaW, arenaH float64) (*Frontend, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()

	f := &Frontend{
		screen: screen,
		driver: driver,
		arenaW: arenaW,
		arenaH: arenaH,
	}
	f.width, f.height = screen.Size()
	return f, nil
}

// Run advances and redraws until quit, ctx cancellation or MaxTicks.
func (f *Frontend) Run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go f.pollEvents(eventChan, done)

	f.draw()
	for {
		select {
		case <-ctx.Done():
			return

		case ev := <-eventChan:
			if !f.handleInput(ev) {
				return
			}

		case <-ticker.C:
			f.driver.Advance()
			f.draw()
			if f.MaxTicks > 0 && f.driver.Tick() >= f.MaxTicks {
				return
			}
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func (f *Frontend) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := f.screen.PollEvent()
		// nil after Fini
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// Close restores the terminal.
func (f *Frontend) Close() {
	f.screen.Fini()
}

// handleInput returns false when the user asked to quit.
func (f *Frontend) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				f.driver.TogglePause()
			case ',':
				f.driver.Slower()
			case '.':
				f.driver.Faster()
			}
		}

	case *tcell.EventResize:
		f.screen.Sync()
		f.width, f.height = f.screen.Size()
	}
	return true
}

// rows returns the grid rows available to the arena; the last row is the
// status line.
func (f *Frontend) rows() int {
	if f.height > 1 {
		return f.height - 1
	}
	return f.height
}

// draw renders one frame.
func (f *Frontend) draw() {
	f.screen.Clear()
	v := f.driver.View()
	cols, rows := f.width, f.rows()

	for _, l := range v.Lights {
		f.drawDisc(l.Pos.X, l.Pos.Y, l.Intensity, cols, rows, style(l.Color))
	}
	for _, l := range v.Lights {
		x, y := Cell(l.Pos.X, l.Pos.Y, f.arenaW, f.arenaH, cols, rows)
		f.screen.SetContent(x, y, '*', nil, style(l.Color).Bold(true))
	}

	x, y := Cell(v.Organism.X, v.Organism.Y, f.arenaW, f.arenaH, cols, rows)
	f.screen.SetContent(x, y, '@', nil, style(v.Color).Bold(true))

	f.drawStatus(v)
	f.screen.Show()
}

// drawDisc shades the cells covered by a circle of the given arena radius.
func (f *Frontend) drawDisc(cx, cy, radius float64, cols, rows int, st tcell.Style) {
	if cols <= 0 || rows <= 0 || f.arenaW <= 0 || f.arenaH <= 0 {
		return
	}
	cellW := f.arenaW / float64(cols)
	cellH := f.arenaH / float64(rows)
	x0, y0 := Cell(cx-radius, cy-radius, f.arenaW, f.arenaH, cols, rows)
	x1, y1 := Cell(cx+radius, cy+radius, f.arenaW, f.arenaH, cols, rows)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			// Cell centre back in arena units
			ax := (float64(x) + 0.5) * cellW
			ay := (float64(y) + 0.5) * cellH
			dx, dy := ax-cx, ay-cy
			if dx*dx+dy*dy <= radius*radius {
				f.screen.SetContent(x, y, '░', nil, st)
			}
		}
	}
}

// drawStatus writes the bottom status line.
func (f *Frontend) drawStatus(v sim.View) {
	state := v.State.String()
	if f.driver.Paused() {
		state += " (paused)"
	}
	line := fmt.Sprintf(" tick %d | energy %.1f | %s | x%d | SPACE pause  , . speed  q quit",
		v.Tick, v.Energy, state, f.driver.StepsPerUpdate())

	y := f.height - 1
	st := tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	for x := 0; x < f.width; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		f.screen.SetContent(x, y, r, nil, st)
	}
}

// Cell maps an arena point onto a cols x rows grid, clamped to the grid.
func Cell(x, y, arenaW, arenaH float64, cols, rows int) (int, int) {
	return scale(x, arenaW, cols), scale(y, arenaH, rows)
}

func scale(v, extent float64, n int) int {
	if n <= 0 || extent <= 0 {
		return 0
	}
	i := int(v / extent * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func style(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}
