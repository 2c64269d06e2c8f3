package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aguakit/mdkit/internal/config"
)

// envPrefix starts every variable mdkit reads.
const envPrefix = "MDKIT_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDKIT_CONFIG: config file name or path
	Format     string        // MDKIT_FORMAT: export format
	Engine     string        // MDKIT_ENGINE: lite or gfm
	Timeout    time.Duration // MDKIT_TIMEOUT: PDF generation timeout
	Workers    int           // MDKIT_WORKERS: parallel workers
	InputDir   string        // MDKIT_INPUT_DIR: default input directory
	OutputDir  string        // MDKIT_OUTPUT_DIR: default output directory
	PageSize   string        // MDKIT_PAGE_SIZE: letter, a4, legal
	Addr       string        // MDKIT_ADDR: preview listen address
}

// knownEnvVars lists valid MDKIT_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDKIT_CONFIG":     true,
	"MDKIT_FORMAT":     true,
	"MDKIT_ENGINE":     true,
	"MDKIT_TIMEOUT":    true,
	"MDKIT_WORKERS":    true,
	"MDKIT_INPUT_DIR":  true,
	"MDKIT_OUTPUT_DIR": true,
	"MDKIT_PAGE_SIZE":  true,
	"MDKIT_ADDR":       true,
	"MDKIT_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDKIT_CONFIG"),
		Format:     os.Getenv("MDKIT_FORMAT"),
		Engine:     os.Getenv("MDKIT_ENGINE"),
		InputDir:   os.Getenv("MDKIT_INPUT_DIR"),
		OutputDir:  os.Getenv("MDKIT_OUTPUT_DIR"),
		PageSize:   os.Getenv("MDKIT_PAGE_SIZE"),
		Addr:       os.Getenv("MDKIT_ADDR"),
	}

	if timeout := os.Getenv("MDKIT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDKIT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDKIT_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills config values that are still at their defaults.
// This ensures: CLI flags > config file > env vars > defaults
// (CLI flags are applied later by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	def := config.DefaultConfig()

	if env.Format != "" && cfg.Export.Format == def.Export.Format {
		cfg.Export.Format = env.Format
	}
	if env.Engine != "" && cfg.Export.Engine == def.Export.Engine {
		cfg.Export.Engine = env.Engine
	}
	if env.Workers != 0 && cfg.Export.Workers == 0 {
		cfg.Export.Workers = env.Workers
	}
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.PageSize != "" && cfg.Page.Size == "" {
		cfg.Page.Size = env.PageSize
	}
	if env.Addr != "" && cfg.Preview.Addr == "" {
		cfg.Preview.Addr = env.Addr
	}
}

// loadConfig resolves the configuration for a command: the named or
// MDKIT_CONFIG file, else env.Config, else mdkit.yaml if present, then
// the MDKIT_* overrides.
func loadConfig(name string, env *Environment) (*config.Config, *envConfig, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	if name == "" {
		name = envCfg.ConfigPath
	}

	var (
		cfg *config.Config
		err error
	)
	switch {
	case name != "":
		cfg, err = config.LoadConfig(name)
	case env.Config != nil:
		copied := *env.Config
		cfg = &copied
	default:
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, envCfg, nil
}

// resolveTimeout picks the PDF timeout: flag > MDKIT_TIMEOUT > library
// default (zero).
func resolveTimeout(flagValue string, env *envConfig) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: invalid timeout %q (e.g. 30s, 2m)", ErrUsage, flagValue)
		}
		return d, nil
	}
	return env.Timeout, nil
}
