package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Host holds the settings shared by the sandbox hosts. Command line flags
// override the environment.
type Host struct {
	TPS           int     `env:"ROVER_TPS" envDefault:"60"`
	FixedStep     float64 `env:"ROVER_FIXED_STEP" envDefault:"0.02"`
	MaxFixedSteps int     `env:"ROVER_MAX_FIXED_STEPS" envDefault:"5"`
	LogLevel      string  `env:"ROVER_LOG_LEVEL" envDefault:"info"`
	LogFormat     string  `env:"ROVER_LOG_FORMAT" envDefault:"console"`
	PrefabDir     string  `env:"ROVER_PREFAB_DIR"`
	Watch         bool    `env:"ROVER_WATCH" envDefault:"false"`
	Autopilot     string  `env:"ROVER_AUTOPILOT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadHost reads Host from the environment and validates it.
func LoadHost() (Host, error) {
	var h Host
	if err := ParseEnv(&h); err != nil {
		return Host{}, err
	}
	if err := h.Validate(); err != nil {
		return Host{}, err
	}
	return h, nil
}

func (h Host) Validate() error {
	if h.TPS <= 0 {
		return fmt.Errorf("config: tps %d must be positive", h.TPS)
	}
	if !(h.FixedStep > 0) {
		return fmt.Errorf("config: fixed step %v must be positive", h.FixedStep)
	}
	if h.MaxFixedSteps <= 0 {
		return fmt.Errorf("config: max fixed steps %d must be positive", h.MaxFixedSteps)
	}
	return nil
}
