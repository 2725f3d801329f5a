package config

import "testing"

func TestLoadHostDefaults(t *testing.T) {
	h, err := LoadHost()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if h.TPS != 60 || h.FixedStep != 0.02 || h.MaxFixedSteps != 5 || h.LogLevel != "info" || h.Watch {
		t.Fatalf("unexpected defaults %+v", h)
	}
}

func TestLoadHostFromEnv(t *testing.T) {
	t.Setenv("ROVER_TPS", "30")
	t.Setenv("ROVER_FIXED_STEP", "0.01")
	t.Setenv("ROVER_LOG_FORMAT", "json")
	t.Setenv("ROVER_PREFAB_DIR", "/tmp/prefabs")
	t.Setenv("ROVER_WATCH", "true")
	t.Setenv("ROVER_AUTOPILOT", "circle")

	h, err := LoadHost()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if h.TPS != 30 || h.FixedStep != 0.01 || h.LogFormat != "json" || h.PrefabDir != "/tmp/prefabs" || !h.Watch || h.Autopilot != "circle" {
		t.Fatalf("unexpected host %+v", h)
	}
}

func TestLoadHostRejects(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"bad_int", "ROVER_TPS", "fast"},
		{"zero_tps", "ROVER_TPS", "0"},
		{"negative_step", "ROVER_FIXED_STEP", "-0.1"},
		{"zero_max_steps", "ROVER_MAX_FIXED_STEPS", "0"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Setenv(c.key, c.value)
			if _, err := LoadHost(); err == nil {
				t.Fatalf("expected error for %s=%s", c.key, c.value)
			}
		})
	}
}
