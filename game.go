package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/prefabs"
	"github.com/milk9111/rover/sandbox"
	"github.com/rs/zerolog"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	// shotLifetime is how long a fire event stays on the debug view.
	shotLifetime = 0.4
)

type shot struct {
	event ecs.FireEvent
	age   float64
}

type Game struct {
	frames int

	sb      *sandbox.Sandbox
	input   *InputSystem
	watcher *prefabs.Watcher
	logger  zerolog.Logger

	pauseUI *ebitenui.UI
	shots   []shot
	view    *topDownView
	lastErr string

	quitting bool
}

type GameOptions struct {
	Sandbox sandbox.Options
	Watch   bool
}

func NewGame(opts GameOptions) (*Game, error) {
	input := NewInputSystem()
	opts.Sandbox.Input = input

	sb, err := sandbox.New(opts.Sandbox)
	if err != nil {
		return nil, err
	}

	g := &Game{
		sb:     sb,
		input:  input,
		logger: opts.Sandbox.Logger,
		view:   newTopDownView(),
	}
	g.pauseUI = NewPauseUI(g)

	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			g.logger.Warn().Err(err).Str("dir", prefabs.Dir).Msg("prefab watch disabled")
		} else {
			g.watcher = watcher
		}
	}
	return g, nil
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	if g.quitting {
		return ebiten.Termination
	}
	g.frames++
	g.applyReloads()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.setPaused(!g.sb.Paused())
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter) && g.sb.State.Mode() == component.GameModeMenu:
		g.sb.SetMode(component.GameModeGameplay)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.toggleMenu()
	}

	if g.sb.Paused() {
		g.pauseUI.Update()
	}

	dt := 1.0 / float64(ebiten.TPS())
	for _, evt := range g.sb.Step(dt) {
		if fire, ok := evt.(ecs.FireEvent); ok {
			g.shots = append(g.shots, shot{event: fire})
		}
	}
	g.ageShots(dt)
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.sb.SetPaused(paused)
	g.input.Captured = !paused
	if paused {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	}
}

func (g *Game) toggleMenu() {
	if g.sb.State.Mode() == component.GameModeMenu {
		g.sb.SetMode(component.GameModeGameplay)
		return
	}
	g.sb.SetMode(component.GameModeMenu)
}

func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.sb.Reload(change.Path); err != nil {
				g.lastErr = err.Error()
				g.logger.Error().Err(err).Str("name", change.Name).Stringer("kind", change.Kind).Msg("reload rejected")
				continue
			}
			g.lastErr = ""
		case err, ok := <-g.watcher.Errors:
			if ok {
				g.logger.Warn().Err(err).Msg("prefab watch")
			}
		default:
			return
		}
	}
}

func (g *Game) ageShots(dt float64) {
	kept := g.shots[:0]
	for _, s := range g.shots {
		s.age += dt
		if s.age < shotLifetime {
			kept = append(kept, s)
		}
	}
	g.shots = kept
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.view.draw(screen, g.sb, g.shots)

	stats := g.sb.Stats()
	hud := fmt.Sprintf("Frames: %d    FPS: %.2f    Mode: %s\nTicks: %d  Dropped: %d  Shots: %d  Engagements: %d",
		g.frames, ebiten.ActualFPS(), g.sb.State.Mode(), stats.Ticks, stats.Dropped, stats.Fires, stats.Attacks)
	if g.sb.State.Mode() == component.GameModeMenu {
		hud += "\nPress Enter to drive"
	}
	if g.lastErr != "" {
		hud += "\nReload: " + g.lastErr
	}
	ebitenutil.DebugPrint(screen, hud)

	if g.sb.Paused() {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// quit is handed to the pause menu.
func (g *Game) quit() {
	g.logger.Info().Dur("uptime", time.Duration(g.frames)*time.Second/time.Duration(ebiten.TPS())).Msg("quit")
	g.quitting = true
}
