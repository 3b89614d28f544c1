// Package config loads framegrab settings from defaults, an optional YAML
// file and FRAMEGRAB_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/ports"
)

// EnvPrefix prefixes every environment variable read by LoadEnv.
const EnvPrefix = "FRAMEGRAB_"

// Backends accepted by the Backend setting.
const (
	BackendAuto  = "auto"
	BackendLibav = "libav"
	BackendMP4   = "mp4"
	BackendMKV   = "mkv"
)

// Config represents the full configuration for framegrab.
type Config struct {
	PacketBudget int    `yaml:"packet_budget" env:"PACKET_BUDGET"`
	OutputDir    string `yaml:"output_dir"    env:"OUTPUT_DIR"`
	BaseName     string `yaml:"base_name"     env:"BASE_NAME"`
	Backend      string `yaml:"backend"       env:"BACKEND"`
	LogLevel     string `yaml:"log_level"     env:"LOG_LEVEL"`

	// Summary is an optional path for a Markdown run summary.
	Summary string `yaml:"summary" env:"SUMMARY"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		PacketBudget: orchestrator.DefaultPacketBudget,
		OutputDir:    ".",
		BaseName:     "frame",
		Backend:      BackendAuto,
		LogLevel:     "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadEnv overrides cfg with FRAMEGRAB_* variables from environ. A nil
// environ reads the process environment. Unset variables leave cfg as is.
func LoadEnv(cfg *Config, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Validate checks settings that would make a run meaningless.
func (c Config) Validate() error {
	if c.PacketBudget < 1 {
		return fmt.Errorf("packet_budget must be at least 1, got %d", c.PacketBudget)
	}
	if c.BaseName == "" {
		return fmt.Errorf("base_name must not be empty")
	}
	switch c.Backend {
	case BackendAuto, BackendLibav, BackendMP4, BackendMKV:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig(inputPath string) orchestrator.Config {
	return orchestrator.Config{
		InputPath:    inputPath,
		OutputDir:    c.OutputDir,
		BaseName:     c.BaseName,
		PacketBudget: c.PacketBudget,
	}
}
