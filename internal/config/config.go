// Package config loads mdkit.yaml files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/aguakit/mdkit"
	"github.com/aguakit/mdkit/internal/export"
	"github.com/aguakit/mdkit/internal/fileutil"
	"github.com/aguakit/mdkit/internal/pipeline"
	"github.com/aguakit/mdkit/internal/random"
	"github.com/aguakit/mdkit/internal/yamlutil"
)

// DefaultName is the config looked up when none is given.
const DefaultName = "mdkit"

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxTitleLength = 200
	MaxPathLength  = 4096
	MaxAddrLength  = 255
	MaxGlobLength  = 256
	MaxExcludes    = 64
)

// Config holds all configuration for the CLI.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Export  ExportConfig  `yaml:"export"`
	Page    PageConfig    `yaml:"page"`
	Assets  AssetsConfig  `yaml:"assets"`
	Preview PreviewConfig `yaml:"preview"`
	Random  RandomConfig  `yaml:"random"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string   `yaml:"defaultDir"` // used when convert gets no argument
	Exclude    []string `yaml:"exclude"`    // glob patterns skipped in batch mode
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// ExportConfig defines conversion defaults.
type ExportConfig struct {
	Format  string `yaml:"format"`  // md, html, doc, print, pdf (default: html)
	Engine  string `yaml:"engine"`  // lite or gfm (default: lite)
	CSS     string `yaml:"css"`     // path to an extra stylesheet
	Title   string `yaml:"title"`   // empty = file name
	Workers int    `yaml:"workers"` // 0 = auto
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "letter")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// PreviewConfig defines preview server options.
type PreviewConfig struct {
	Addr   string `yaml:"addr"`   // default 127.0.0.1:3000
	NoOpen bool   `yaml:"noOpen"` // do not launch a browser
}

// RandomConfig defines defaults for the rand command.
type RandomConfig struct {
	Min    int64 `yaml:"min"`
	Max    int64 `yaml:"max"`
	Count  int   `yaml:"count"`
	Unique bool  `yaml:"unique"`
	Sort   bool  `yaml:"sort"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{Format: string(mdkit.FormatHTML), Engine: mdkit.EngineLite},
		Random: RandomConfig{Min: 1, Max: 100, Count: 1},
	}
}

// Settings returns the page settings with defaults filled in.
func (p PageConfig) Settings() *mdkit.PageSettings {
	s := mdkit.DefaultPageSettings()
	if p.Size != "" {
		s.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		s.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		s.Margin = p.Margin
	}
	return s
}

// Request returns the random defaults as a request.
func (r RandomConfig) Request() random.Request {
	return random.Request{Min: r.Min, Max: r.Max, Count: r.Count, Unique: r.Unique, Sort: r.Sort}
}

// Validate checks values and field lengths. Called by LoadConfig, but
// available for configs built in code.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if len(c.Input.Exclude) > MaxExcludes {
		return fmt.Errorf("%w: input.exclude has %d patterns (max %d)", ErrInvalidValue, len(c.Input.Exclude), MaxExcludes)
	}
	for i, pattern := range c.Input.Exclude {
		field := fmt.Sprintf("input.exclude[%d]", i)
		if err := validateFieldLength(field, pattern, MaxGlobLength); err != nil {
			return err
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
		}
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}

	if c.Export.Format != "" {
		if _, err := export.ParseFormat(c.Export.Format); err != nil {
			return fmt.Errorf("export.format: %w", err)
		}
	}
	if _, err := pipeline.NewHTMLConverter(c.Export.Engine); err != nil {
		return fmt.Errorf("export.engine: %w", err)
	}
	if err := validateFieldLength("export.css", c.Export.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("export.title", c.Export.Title, MaxTitleLength); err != nil {
		return err
	}
	if c.Export.Workers < 0 || c.Export.Workers > mdkit.MaxPoolSize {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d", ErrInvalidValue, mdkit.MaxPoolSize, c.Export.Workers)
	}

	if err := c.Page.Settings().Validate(); err != nil {
		return fmt.Errorf("page: %w", err)
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("preview.addr", c.Preview.Addr, MaxAddrLength); err != nil {
		return err
	}

	if c.Random != (RandomConfig{}) {
		if err := c.Random.Request().Validate(); err != nil {
			return fmt.Errorf("random: %w", err)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is read as a path; anything else is
// searched for by name in the current directory, then in
// os.UserConfigDir()/mdkit. Unset fields keep their DefaultConfig values.
// A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = ResolvePath(nameOrPath); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the DefaultName config if one exists and returns
// DefaultConfig otherwise. Parse and validation errors are still returned.
func LoadDefault() (*Config, error) {
	cfg, err := LoadConfig(DefaultName)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// ResolvePath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, os.UserConfigDir()/mdkit/
func ResolvePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "mdkit", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
