package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/milk9111/rover/config"
	"github.com/milk9111/rover/ecs"
	"github.com/milk9111/rover/ecs/component"
	"github.com/milk9111/rover/logging"
	"github.com/milk9111/rover/prefabs"
	"github.com/milk9111/rover/sandbox"
	"github.com/rs/zerolog"
)

func main() {
	host, err := config.LoadHost()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	autopilotDefault := host.Autopilot
	if autopilotDefault == "" {
		autopilotDefault = "patrol"
	}

	arena := flag.String("arena", sandbox.DefaultArena, "arena prefab to load")
	autopilot := flag.String("autopilot", autopilotDefault, "tengo script that drives the rover")
	duration := flag.Duration("duration", 30*time.Second, "simulated time to run")
	menuFor := flag.Duration("menu", 0, "simulated time to spend in the menu orbit before gameplay")
	realtime := flag.Bool("realtime", false, "pace frames to the wall clock")
	prefabDir := flag.String("prefabs", host.PrefabDir, "directory whose prefabs shadow the embedded ones")
	logLevel := flag.String("log-level", host.LogLevel, "log level")
	flag.Parse()

	logger, err := logging.New(*logLevel, host.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *prefabDir != "" {
		prefabs.Dir = *prefabDir
	}

	mode := component.GameModeGameplay
	if *menuFor > 0 {
		mode = component.GameModeMenu
	}

	sb, err := sandbox.New(sandbox.Options{
		Arena:         *arena,
		FixedStep:     host.FixedStep,
		MaxFixedSteps: host.MaxFixedSteps,
		Autopilot:     *autopilot,
		Mode:          mode,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("start sandbox")
	}

	run(sb, logger, host.TPS, *duration, *menuFor, *realtime)
}

func run(sb *sandbox.Sandbox, logger zerolog.Logger, tps int, duration, menuFor time.Duration, realtime bool) {
	frame := time.Second / time.Duration(tps)
	dt := frame.Seconds()

	var ticker *time.Ticker
	if realtime {
		ticker = time.NewTicker(frame)
		defer ticker.Stop()
	}

	var elapsed time.Duration
	for elapsed < duration {
		if sb.State.Mode() == component.GameModeMenu && elapsed >= menuFor {
			sb.SetMode(component.GameModeGameplay)
		}

		for _, evt := range sb.Step(dt) {
			if fire, ok := evt.(ecs.FireEvent); ok {
				logger.Info().
					Stringer("source", fire.Source).
					Str("position", fmt.Sprintf("%.2f", fire.Position)).
					Str("direction", fmt.Sprintf("%.2f", fire.Direction())).
					Float64("speed", fire.Speed).
					Msg("fire")
			}
		}

		elapsed += frame
		if ticker != nil {
			<-ticker.C
		}
	}

	stats := sb.Stats()
	if tr, ok := ecs.Get(sb.World, sb.Arena.Rover, component.TransformComponent.Kind()); ok {
		logger.Info().Str("position", fmt.Sprintf("%.2f", tr.Position)).Float64("yaw", tr.Yaw).Msg("rover final pose")
	}
	logger.Info().
		Dur("simulated", elapsed).
		Int("ticks", stats.Ticks).
		Int("dropped", stats.Dropped).
		Int("fires", stats.Fires).
		Int("engagements", stats.Attacks).
		Msg("headless run finished")
}
