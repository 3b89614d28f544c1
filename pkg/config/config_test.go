package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.PacketBudget != 8 {
		t.Errorf("expected budget 8, got %d", cfg.PacketBudget)
	}
	if cfg.BaseName != "frame" || cfg.OutputDir != "." || cfg.Backend != BackendAuto {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "framegrab.yaml")
	content := "packet_budget: 3\noutput_dir: frames\nbackend: mkv\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.PacketBudget != 3 || cfg.OutputDir != "frames" || cfg.Backend != BackendMKV {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Keys absent from the file keep their defaults.
	if cfg.BaseName != "frame" || cfg.LogLevel != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(os.TempDir(), "does-not-exist.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	dir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("packet_budget: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadEnv(t *testing.T) {
	cfg := Defaults()
	err := LoadEnv(&cfg, map[string]string{
		"FRAMEGRAB_PACKET_BUDGET": "12",
		"FRAMEGRAB_BASE_NAME":     "still",
		"PACKET_BUDGET":           "99",
	})
	if err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if cfg.PacketBudget != 12 {
		t.Errorf("expected budget 12, got %d", cfg.PacketBudget)
	}
	if cfg.BaseName != "still" {
		t.Errorf("expected base name still, got %s", cfg.BaseName)
	}
	if cfg.OutputDir != "." {
		t.Errorf("unset variable changed output dir to %q", cfg.OutputDir)
	}
}

func TestLoadEnv_InvalidNumber(t *testing.T) {
	cfg := Defaults()
	if err := LoadEnv(&cfg, map[string]string{"FRAMEGRAB_PACKET_BUDGET": "eight"}); err == nil {
		t.Error("expected error for non-numeric budget")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero budget", func(c *Config) { c.PacketBudget = 0 }},
		{"empty base name", func(c *Config) { c.BaseName = "" }},
		{"unknown backend", func(c *Config) { c.Backend = "gstreamer" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.PacketBudget = 4
	cfg.OutputDir = "out"

	oc := cfg.ToOrchestratorConfig("movie.mkv")
	if oc.InputPath != "movie.mkv" || oc.PacketBudget != 4 || oc.OutputDir != "out" || oc.BaseName != "frame" {
		t.Errorf("unexpected orchestrator config: %+v", oc)
	}
}
