package mdkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/aguakit/mdkit/internal/assets"
	"github.com/aguakit/mdkit/internal/export"
	"github.com/aguakit/mdkit/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.SourcePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.LiteConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter runs the Markdown export pipeline.
// Create with NewConverter, use Convert, and Close when done.
// A Converter is safe for concurrent use.
type Converter struct {
	cfg               converterConfig
	publicAssetLoader AssetLoader
	assetLoader       assets.AssetLoader
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	exporter          *export.Exporter
	pdfConverter      pdfConverter
}

// NewConverter creates a Converter. The browser used for PDF export is
// started on first use, not here.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout, engine: EngineLite},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.SourcePreprocessor{},
	}

	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.publicAssetLoader != nil:
		c.assetLoader = c.publicAssetLoader
	case c.cfg.assetPath != "":
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if c.htmlConverter == nil {
		conv, err := pipeline.NewHTMLConverter(c.cfg.engine)
		if err != nil {
			return nil, err
		}
		c.htmlConverter = conv
	}

	c.exporter = export.NewExporter(c.assetLoader)

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert exports input in input.Format. The context is checked between
// stages and bounds the PDF render. Internal panics are recovered and
// reported as ErrHTMLConversion.
func (c *Converter) Convert(ctx context.Context, input Input) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, r)
		}
	}()

	format, err := parseFormat(input.Format)
	if err != nil {
		return nil, err
	}
	if err := input.Page.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := export.Document{Title: input.Title, Markdown: input.Markdown, CSS: input.CSS}
	if format == export.FormatMarkdown {
		return c.export(ctx, format, doc)
	}

	source := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := c.htmlConverter.ToHTML(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	doc.Body = body

	if !format.NeedsBrowser() {
		return c.export(ctx, format, doc)
	}
	return c.exportPDF(ctx, doc, input)
}

// RenderHTML runs preprocessing and the engine only, returning the body
// fragment. The preview server uses it for live rendering.
func (c *Converter) RenderHTML(ctx context.Context, markdown string) (string, error) {
	body, err := c.htmlConverter.ToHTML(ctx, c.preprocessor.PreprocessMarkdown(ctx, markdown))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return body, nil
}

func (c *Converter) export(ctx context.Context, format export.Format, doc export.Document) (*Result, error) {
	out, err := c.exporter.Export(ctx, format, doc)
	if err != nil {
		return nil, convertAssetError(err)
	}
	res := &Result{
		Data:      out.Data,
		MIMEType:  out.MIMEType,
		Extension: out.Extension,
		Filename:  out.Filename,
	}
	if format != export.FormatMarkdown {
		res.HTML = string(out.Data)
	}
	return res, nil
}

func (c *Converter) exportPDF(ctx context.Context, doc export.Document, input Input) (*Result, error) {
	rw, err := pipeline.NewFileURLRewriter(input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}
	if doc.Body, err = rw.Rewrite(doc.Body); err != nil {
		return nil, fmt.Errorf("rewriting relative paths: %w", err)
	}

	htmlDoc, err := c.exporter.Wrap(ctx, export.FormatPDF, doc)
	if err != nil {
		return nil, convertAssetError(err)
	}

	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	pdf, err := c.pdfConverter.ToPDF(ctx, htmlDoc, page)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:      pdf,
		HTML:      htmlDoc,
		MIMEType:  export.FormatPDF.MIMEType(),
		Extension: export.FormatPDF.Extension(),
		Filename:  export.Filename(doc.Title, export.FormatPDF),
	}, nil
}

// Close releases the headless browser, if one was started.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// parseFormat validates a public Format. Empty means HTML.
func parseFormat(f Format) (export.Format, error) {
	if strings.TrimSpace(string(f)) == "" {
		return export.FormatHTML, nil
	}
	return export.ParseFormat(string(f))
}

// ParseFormat maps a user-supplied name ("md", "markdown", "html", "doc",
// "word", "print", "pdf") to a Format.
func ParseFormat(s string) (Format, error) {
	f, err := export.ParseFormat(s)
	if err != nil {
		return "", err
	}
	return Format(f), nil
}

// Formats lists every export format.
func Formats() []Format {
	all := export.Formats()
	out := make([]Format, len(all))
	for i, f := range all {
		out[i] = Format(f)
	}
	return out
}

// Extension returns the file extension for f, dot included.
func (f Format) Extension() string {
	return export.Format(f).Extension()
}

// MIMEType returns the content type for f.
func (f Format) MIMEType() string {
	return export.Format(f).MIMEType()
}
