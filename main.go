package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/rover/config"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/logging"
	"github.com/milk9111/rover/prefabs"
	"github.com/milk9111/rover/sandbox"
)

func main() {
	host, err := config.LoadHost()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	arena := flag.String("arena", sandbox.DefaultArena, "arena prefab to load")
	autopilot := flag.String("autopilot", host.Autopilot, "tengo script that drives the rover (name in prefabs/scripts)")
	prefabDir := flag.String("prefabs", host.PrefabDir, "directory whose prefabs shadow the embedded ones")
	watch := flag.Bool("watch", host.Watch, "hot reload prefabs and scripts from the prefab directory")
	logLevel := flag.String("log-level", host.LogLevel, "log level")
	menu := flag.Bool("menu", false, "start in the menu orbit")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger, err := logging.New(*logLevel, host.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *prefabDir != "" {
		prefabs.Dir = *prefabDir
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	mode := component.GameModeGameplay
	if *menu {
		mode = component.GameModeMenu
	}

	game, err := NewGame(GameOptions{
		Sandbox: sandbox.Options{
			Arena:         *arena,
			FixedStep:     host.FixedStep,
			MaxFixedSteps: host.MaxFixedSteps,
			Autopilot:     *autopilot,
			Mode:          mode,
			Logger:        logger,
		},
		Watch: *watch,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("start sandbox")
	}
	defer game.Close()

	ebiten.SetTPS(host.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("rover")
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error().Err(err).Msg("run")
	}
}
