package mdkit

import (
	"fmt"
	"strings"
	"time"

	"github.com/aguakit/mdkit/internal/pipeline"
)

// Format names an export target.
type Format string

// Export formats.
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatWord     Format = "doc"
	FormatPrint    Format = "print"
	FormatPDF      Format = "pdf"
)

// Markdown engines.
const (
	EngineLite = pipeline.EngineLite
	EngineGFM  = pipeline.EngineGFM
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Input contains conversion parameters.
type Input struct {
	Markdown  string        // Markdown source; may be empty
	Title     string        // document title, "document" when empty
	Format    Format        // export target, FormatHTML when empty
	CSS       string        // extra CSS injected after the built-in styles
	SourceDir string        // base for relative image paths in PDF output
	Page      *PageSettings // PDF page settings, nil = defaults
}

// Result is one exported document.
type Result struct {
	Data      []byte // file contents
	HTML      string // wrapped HTML document, empty for FormatMarkdown
	MIMEType  string
	Extension string // with leading dot
	Filename  string // title + extension, safe as a single path element
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout   time.Duration
	engine    string
	assetPath string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF page-load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdkit: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithEngine selects the Markdown engine, EngineLite (default) or EngineGFM.
// An unknown name makes NewConverter fail with ErrUnknownEngine.
func WithEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.engine = engine
	}
}

// WithAssetLoader sets a custom loader for styles and templates.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}

// WithAssetPath loads styles and templates from a directory, falling back
// to the built-in assets. Ignored when WithAssetLoader is also given.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}
