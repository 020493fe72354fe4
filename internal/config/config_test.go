package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Bodies <= 0 {
		t.Error("bodies should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Softening <= 0 {
		t.Error("softening should be positive")
	}
	if cfg.InitState.Kind != "cluster" {
		t.Errorf("expected cluster init, got %s", cfg.InitState.Kind)
	}

	if err := cfg.Core().Validate(); err != nil {
		t.Errorf("default config should convert to a valid core config: %v", err)
	}
}

func TestCoreConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies = 42
	cfg.TotalMass = 7.5
	cfg.Workers = 3

	core := cfg.Core()
	if core.Bodies != 42 || core.TotalMass != 7.5 || core.Workers != 3 {
		t.Errorf("core conversion dropped fields: %+v", core)
	}
	if core.Dt != cfg.Dt || core.Steps != cfg.Steps || core.Softening != cfg.Softening {
		t.Errorf("core conversion dropped fields: %+v", core)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Bodies = 17
	cfg.Seed = 99
	cfg.InitState.Kind = "binary"
	cfg.InitState.Separation = 3.0

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Bodies != 17 || loaded.Seed != 99 {
		t.Errorf("roundtrip lost fields: %+v", loaded)
	}
	if loaded.InitState.Kind != "binary" || loaded.InitState.Separation != 3.0 {
		t.Errorf("roundtrip lost init state: %+v", loaded.InitState)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Bodies != 2 {
		t.Errorf("binary preset bodies = %d, want 2", cfg.Bodies)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) == 0 {
		t.Error("expected presets")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for name, cfg := range Presets {
		if err := cfg.Core().Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
