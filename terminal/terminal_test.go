package terminal

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/phototaxis/components"
	"github.com/pthm-cable/phototaxis/sim"
)

type fakeDriver struct {
	tick   int
	paused bool
	steps  int
}

func (d *fakeDriver) Advance() {
	if !d.paused {
		d.tick++
	}
}

func (d *fakeDriver) View() sim.View {
	return sim.View{
		Tick:     d.tick,
		Organism: components.Position{X: 400, Y: 300},
		Size:     15,
		Energy:   80,
		Color:    color.RGBA{R: 51, G: 204, A: 255},
		State:    components.StateActive,
		Chosen:   0,
		Lights: []sim.LightView{
			{Pos: components.Position{X: 100, Y: 150}, Intensity: 40, Color: color.RGBA{R: 80, G: 80, A: 255}},
		},
	}
}

func (d *fakeDriver) Tick() int { return d.tick }
func (d *fakeDriver) TogglePause() { d.paused = !d.paused }
func (d *fakeDriver) Paused() bool { return d.paused }
func (d *fakeDriver) Faster() { d.steps++ }
func (d *fakeDriver) Slower() { d.steps-- }
func (d *fakeDriver) StepsPerUpdate() int { return d.steps }

func newTestFrontend(t *testing.T, d Driver) (*Frontend, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	f, err := NewWithScreen(screen, d, 800, 600)
	if err != nil {
		t.Fatalf("NewWithScreen: %v", err)
	}
	screen.SetSize(80, 25)
	f.width, f.height = screen.Size()
	t.Cleanup(f.Close)
	return f, screen
}

func TestCell(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY int
	}{
		{"origin", 0, 0, 0, 0},
		{"centre", 400, 300, 40, 12},
		{"far edge clamps", 800, 600, 79, 23},
		{"negative clamps", -10, -10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Cell(tt.x, tt.y, 800, 600, 80, 24)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("Cell(%v, %v) = (%d, %d), want (%d, %d)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}

	if x, y := Cell(10, 10, 800, 600, 0, 0); x != 0 || y != 0 {
		t.Errorf("empty grid = (%d, %d), want (0, 0)", x, y)
	}
}

func TestDraw(t *testing.T) {
	f, screen := newTestFrontend(t, &fakeDriver{steps: 1})
	f.draw()

	if r, _, _, _ := screen.GetContent(40, 12); r != '@' {
		t.Errorf("organism cell = %q, want '@'", r)
	}
	if r, _, _, _ := screen.GetContent(10, 6); r != '*' {
		t.Errorf("light cell = %q, want '*'", r)
	}
	// Radius 40 covers neighbouring cells (10 arena units per column)
	if r, _, _, _ := screen.GetContent(12, 6); r != '░' {
		t.Errorf("light disc cell = %q, want shade", r)
	}
	if r, _, _, _ := screen.GetContent(1, 24); r != 't' {
		t.Errorf("status line starts with %q, want 't'", r)
	}
}

func TestHandleInput(t *testing.T) {
	d := &fakeDriver{steps: 1}
	f, _ := newTestFrontend(t, d)

	if !f.handleInput(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)) || !d.paused {
		t.Error("space should pause and keep running")
	}
	f.handleInput(tcell.NewEventKey(tcell.KeyRune, '.', tcell.ModNone))
	if d.steps != 2 {
		t.Errorf("steps = %d, want 2", d.steps)
	}
	f.handleInput(tcell.NewEventKey(tcell.KeyRune, ',', tcell.ModNone))
	if d.steps != 1 {
		t.Errorf("steps = %d, want 1", d.steps)
	}

	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone),
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		if f.handleInput(ev) {
			t.Errorf("key %v should quit", ev.Name())
		}
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	d := &fakeDriver{steps: 1}
	f, _ := newTestFrontend(t, d)
	f.MaxTicks = 3

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f.Run(ctx)

	if d.tick != 3 {
		t.Errorf("tick = %d, want 3", d.tick)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	d := &fakeDriver{steps: 1}
	f, _ := newTestFrontend(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.Run(ctx)

	if d.tick > 1 {
		t.Errorf("tick = %d after cancelled run", d.tick)
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	f, screen := newTestFrontend(t, &fakeDriver{})

	// Nobody reads events, as after Run has returned.
	events := make(chan tcell.Event)
	done := make(chan struct{})
	close(done)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	exited := make(chan struct{})
	go func() {
		f.pollEvents(events, done)
		close(exited)
	}()

	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("pollEvents blocked after done was closed")
	}
}
