package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Logging.MaxSizeMB != 50 {
		t.Errorf("expected max size 50, got %d", cfg.Logging.MaxSizeMB)
	}

	if cfg.Device.Kind != DeviceCPU {
		t.Errorf("expected device cpu, got %s", cfg.Device.Kind)
	}
	if cfg.Normals.Weighting != "uniform" {
		t.Errorf("expected uniform weighting, got %s", cfg.Normals.Weighting)
	}

	if cfg.Textures.ColorKey {
		t.Error("expected color key to be off by default")
	}
	if cfg.Textures.Key != [3]uint8{255, 0, 255} {
		t.Errorf("expected magenta key, got %v", cfg.Textures.Key)
	}

	if cfg.Primitive.Cells != 64 {
		t.Errorf("expected 64 cells, got %d", cfg.Primitive.Cells)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
logging:
  level: "debug"
  format: "json"
  log_file: "meshtool.log"

device:
  kind: "sim"

normals:
  weighting: "angle"

textures:
  color_key: true
  key: [0, 255, 0]
  tolerance: 2
  max_size: 2048
  flip_y: true

primitive:
  shape: "box"
  size: 2.5
  cells: 32
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Logging.LogFile != "meshtool.log" {
		t.Errorf("expected log file 'meshtool.log', got %s", cfg.Logging.LogFile)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Logging.MaxBackups != 3 {
		t.Errorf("expected default max backups 3, got %d", cfg.Logging.MaxBackups)
	}
	if cfg.Device.Kind != DeviceSim {
		t.Errorf("expected device sim, got %s", cfg.Device.Kind)
	}
	if cfg.Normals.Weighting != "angle" {
		t.Errorf("expected angle weighting, got %s", cfg.Normals.Weighting)
	}
	if !cfg.Textures.ColorKey || cfg.Textures.Key != [3]uint8{0, 255, 0} || cfg.Textures.Tolerance != 2 {
		t.Errorf("textures = %+v", cfg.Textures)
	}
	if cfg.Textures.MaxSize != 2048 || !cfg.Textures.FlipY {
		t.Errorf("textures = %+v", cfg.Textures)
	}
	if cfg.Primitive.Shape != "box" || cfg.Primitive.Size != 2.5 || cfg.Primitive.Cells != 32 {
		t.Errorf("primitive = %+v", cfg.Primitive)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
primitive:
  cells: not a number
  invalid syntax here
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileUnknownField(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("device:\n  knd: gl\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for misspelled field, got nil")
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("empty file should load, got %v", err)
	}
	if cfg.Device.Kind != DeviceCPU {
		t.Errorf("expected defaults to survive, got device %s", cfg.Device.Kind)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/meshtool.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"device", func(c *Config) { c.Device.Kind = "tpu" }},
		{"weighting", func(c *Config) { c.Normals.Weighting = "cotangent" }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
		{"cells", func(c *Config) { c.Primitive.Cells = 0 }},
		{"size", func(c *Config) { c.Primitive.Size = -1 }},
		{"max size", func(c *Config) { c.Textures.MaxSize = -8 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want %v", err, ErrInvalid)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("primitive:\n  cells: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "device flag",
			setup: func() { *flagDevice = DeviceGL },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Device.Kind != DeviceGL {
					t.Errorf("expected device gl, got %s", cfg.Device.Kind)
				}
			},
			teardown: func() { *flagDevice = "" },
		},
		{
			name:  "weighting flag",
			setup: func() { *flagWeighting = "area" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Normals.Weighting != "area" {
					t.Errorf("expected area weighting, got %s", cfg.Normals.Weighting)
				}
			},
			teardown: func() { *flagWeighting = "" },
		},
		{
			name:  "cells flag",
			setup: func() { *flagCells = 12 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Primitive.Cells != 12 {
					t.Errorf("expected 12 cells, got %d", cfg.Primitive.Cells)
				}
			},
			teardown: func() { *flagCells = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	yamlContent := `
device:
  kind: sim
primitive:
  cells: 16
  size: 3
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagCells = 48
	defer func() {
		*flagConfig = ""
		*flagCells = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Primitive.Cells != 48 {
		t.Errorf("expected 48 cells from flag, got %d", cfg.Primitive.Cells)
	}
	if cfg.Primitive.Size != 3 {
		t.Errorf("expected size 3 from file, got %g", cfg.Primitive.Size)
	}
	if cfg.Device.Kind != DeviceSim {
		t.Errorf("expected device sim from file, got %s", cfg.Device.Kind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	*flagDevice = "quantum"
	defer func() { *flagDevice = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalid)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Device.Kind = DeviceSim
	cfg.Textures.Key = [3]uint8{1, 2, 3}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveToWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := Default().SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if !strings.HasPrefix(string(data), header) {
		t.Errorf("saved config does not start with header:\n%s", data)
	}
	if !strings.Contains(string(data), "\n  kind: cpu\n") {
		t.Errorf("expected two-space indented device kind:\n%s", data)
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("device:\n  kind: sim\n"), 0644); err != nil {
		t.Fatalf("failed to write existing config: %v", err)
	}

	cfg := Default()
	cfg.Primitive.Cells = 0
	if err := cfg.SaveTo(path); !errors.Is(err, ErrInvalid) {
		t.Fatalf("SaveTo() error = %v, want %v", err, ErrInvalid)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("existing config disappeared: %v", err)
	}
	if string(data) != "device:\n  kind: sim\n" {
		t.Errorf("existing config was modified: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the existing config in %s, found %d entries", dir, len(entries))
	}
}

func TestSaveUsesConfigDir(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and others")
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	want := filepath.Join(xdg, "meshkit", FileName)
	if got := UserPath(); got != want {
		t.Fatalf("UserPath() = %s, want %s", got, want)
	}

	cfg := Default()
	cfg.Normals.Weighting = "angle"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded := Default()
	if err := loadFromFile(loaded, want); err != nil {
		t.Fatalf("loadFromFile() error = %v", err)
	}
	if loaded.Normals.Weighting != "angle" {
		t.Errorf("Weighting = %s, want angle", loaded.Normals.Weighting)
	}
}
