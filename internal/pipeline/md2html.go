package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/aguakit/mdkit/internal/markdown"
)

// Engine names accepted by NewHTMLConverter.
const (
	EngineLite = "lite"
	EngineGFM  = "gfm"
)

// Sentinel errors for HTML conversion.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownEngine  = errors.New("unknown markdown engine")
)

// HTMLConverter converts Markdown into an HTML body fragment.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// Compile-time interface checks.
var (
	_ HTMLConverter = (*LiteConverter)(nil)
	_ HTMLConverter = (*GoldmarkConverter)(nil)
)

// NewHTMLConverter returns the converter for the named engine.
// An empty name selects the lite engine.
func NewHTMLConverter(engine string) (HTMLConverter, error) {
	switch strings.ToLower(engine) {
	case "", EngineLite:
		return &LiteConverter{}, nil
	case EngineGFM:
		return NewGoldmarkConverter(), nil
	}
	return nil, fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownEngine, engine, EngineLite, EngineGFM)
}

// LiteConverter renders with the in-house line-oriented renderer. Its output
// carries the math-* and markdown-table classes the stylesheets expect.
type LiteConverter struct{}

// ToHTML renders content. The renderer is total, so the only error is a
// cancelled context.
func (c *LiteConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return markdown.RenderDocument(content), nil
}

// GoldmarkConverter renders CommonMark with GFM extensions through goldmark.
// Raw HTML is let through the parser and then filtered by a UGC policy.
type GoldmarkConverter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes and
// class-based chroma highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Globally()
	policy.AllowAttrs("id").Globally()
	policy.AllowAttrs("target", "rel").OnElements("a")

	return &GoldmarkConverter{md: md, policy: policy}
}

// ToHTML converts content. goldmark has no context support, so conversion
// runs in a goroutine and the caller stops waiting on cancellation.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: string(c.policy.SanitizeBytes(buf.Bytes()))}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
