package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rate != 1 {
		t.Errorf("expected rate 1, got %f", cfg.Rate)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if !cfg.RestoreOnStop {
		t.Error("restore on stop should default on")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("loop")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if !cfg.Loop {
		t.Error("expected loop preset to loop")
	}

	cfg.Rate = 99
	if Presets["loop"].Rate == 99 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for i := 1; i < len(presets); i++ {
		if presets[i-1] > presets[i] {
			t.Errorf("presets not sorted: %v", presets)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := DefaultConfig()
	cfg.Rate = 2
	cfg.Loop = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Rate != 2 || !got.Loop {
		t.Errorf("expected rate 2 and loop, got %+v", got)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("loop: true\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Lookahead != DefaultLookahead {
		t.Errorf("expected lookahead %f, got %f", DefaultLookahead, got.Lookahead)
	}
}

func TestLoadLayered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("rate: 2\nboundary_epsilon: 0.05\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SEQSIM_RATE", "3")
	t.Setenv("SEQSIM_LOOP", "true")

	cfg, err := LoadLayered(path)
	if err != nil {
		t.Fatalf("load layered: %v", err)
	}
	if cfg.Rate != 3 {
		t.Errorf("expected env rate 3, got %f", cfg.Rate)
	}
	if !cfg.Loop {
		t.Error("expected env loop")
	}
	if cfg.BoundaryEpsilon != 0.05 {
		t.Errorf("expected file epsilon 0.05, got %f", cfg.BoundaryEpsilon)
	}
	if cfg.Lookahead != DefaultLookahead {
		t.Errorf("expected default lookahead, got %f", cfg.Lookahead)
	}
}

func TestLoadLayered_MissingFile(t *testing.T) {
	if _, err := LoadLayered(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPlayback(t *testing.T) {
	cfg := GetPreset("scrub")
	s := cfg.Playback()
	if !s.AllowTriggersWhileJumping {
		t.Error("expected triggers while jumping")
	}
	if s.RestoreOnStop {
		t.Error("scrub preset keeps scrubbed state")
	}
	if s.BoundaryEpsilon != DefaultEpsilon {
		t.Errorf("expected epsilon %f, got %f", DefaultEpsilon, s.BoundaryEpsilon)
	}
}

func TestBakeDuration(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		length float64
		want   float64
	}{
		{"sequence length", Config{}, 8, 8},
		{"override", Config{DurationOverride: 3}, 8, 3},
		{"loops", Config{Loop: true, Loops: 3}, 8, 24},
		{"loops without loop", Config{Loops: 3}, 8, 8},
	}
	for _, tt := range tests {
		if got := tt.cfg.BakeDuration(tt.length); got != tt.want {
			t.Errorf("%s: expected %f, got %f", tt.name, tt.want, got)
		}
	}
}
