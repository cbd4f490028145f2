package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/galaxy/internal/galaxy"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Galaxy.Count != 1000 {
		t.Errorf("expected 1000 particles, got %d", cfg.Galaxy.Count)
	}
	if cfg.Camera.Fov != 75 || cfg.Camera.Near != 1 || cfg.Camera.Far != 100 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.yaml")
	data := "galaxy:\n  branches: 5\n  spin: -2\nwindow:\n  width: 800\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Galaxy.Branches != 5 || cfg.Galaxy.Spin != -2 {
		t.Errorf("file values not applied: %+v", cfg.Galaxy)
	}
	if cfg.Galaxy.Radius != galaxy.DefaultRadius {
		t.Errorf("expected default radius, got %f", cfg.Galaxy.Radius)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != DefaultHeight {
		t.Errorf("unexpected window %+v", cfg.Window)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("galaxy:\n  branches: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, galaxy.ErrParameterBounds) {
		t.Errorf("expected parameter bounds error, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.yaml")
	cfg := DefaultConfig()
	cfg.Galaxy.Colored = true
	cfg.Galaxy.Seed = 99
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !got.HasGalaxy() {
		t.Error("saved config should carry a galaxy section")
	}
	got.galaxy = nil
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestApplyGalaxyOverlaysFileKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.yaml")
	if err := os.WriteFile(path, []byte("galaxy:\n  branches: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cfg.HasGalaxy() {
		t.Fatal("expected galaxy section")
	}

	p, err := Preset("colored")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyGalaxy(&p); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if p.Branches != 7 {
		t.Errorf("expected branches from file, got %d", p.Branches)
	}
	if !p.Colored || p.Count != 100000 {
		t.Errorf("preset values lost: %+v", p)
	}
}

func TestApplyGalaxyWithoutSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.yaml")
	if err := os.WriteFile(path, []byte("window:\n  width: 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.HasGalaxy() {
		t.Error("file has no galaxy section")
	}

	p, _ := Preset("colored")
	want := p
	if err := cfg.ApplyGalaxy(&p); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if p != want {
		t.Errorf("params changed without a galaxy section: %+v", p)
	}
	if DefaultConfig().HasGalaxy() {
		t.Error("defaults have no file section")
	}
}

func TestGetPreset(t *testing.T) {
	p := GetPreset("whirlpool")
	if p == nil {
		t.Fatal("expected preset, got nil")
	}
	if p.Branches != 2 {
		t.Errorf("expected 2 branches, got %d", p.Branches)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if _, err := Preset("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestPixelRatio(t *testing.T) {
	tests := []struct {
		limit, device, expected float64
	}{
		{2, 1, 1},
		{2, 3, 2},
		{2, 0, 1},
		{0, 4, DefaultMaxPixelRatio},
		{3, 2.5, 2.5},
	}
	for _, tt := range tests {
		w := WindowConfig{MaxPixelRatio: tt.limit}
		if got := w.PixelRatio(tt.device); got != tt.expected {
			t.Errorf("PixelRatio(%v) with limit %v: expected %v, got %v", tt.device, tt.limit, tt.expected, got)
		}
	}
}
