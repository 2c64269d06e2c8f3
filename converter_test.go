package mdkit

// Notes:
// - Convert is tested with mocked pipeline stages so no browser starts; the
//   real PDF path is covered by the integration-tagged tests.
// - Internal test options (withPreprocessor, ...) inject the mocks.
// - The lite engine's rendering rules live in internal/markdown; here we only
//   check that its output reaches the exported document.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aguakit/mdkit/internal/pipeline"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockPreprocessor struct {
	called bool
	input  string
}

func (m *mockPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	m.called = true
	m.input = content
	return content
}

type mockHTMLConverter struct {
	called bool
	output string
	err    error
	panics bool
}

func (m *mockHTMLConverter) ToHTML(ctx context.Context, content string) (string, error) {
	m.called = true
	if m.panics {
		panic("boom")
	}
	if m.err != nil {
		return "", m.err
	}
	if m.output != "" {
		return m.output, nil
	}
	return "<p>" + content + "</p>", nil
}

type mockPDFConverter struct {
	called    bool
	inputHTML string
	inputPage *PageSettings
	output    []byte
	err       error
	closed    bool
}

func (m *mockPDFConverter) ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	m.called = true
	m.inputHTML = htmlContent
	m.inputPage = page
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return []byte("%PDF-1.4"), nil
}

func (m *mockPDFConverter) Close() error {
	m.closed = true
	return nil
}

func withPreprocessor(p pipeline.MarkdownPreprocessor) Option {
	return func(c *Converter) {
		c.preprocessor = p
	}
}

func withHTMLConverter(h pipeline.HTMLConverter) Option {
	return func(c *Converter) {
		c.htmlConverter = h
	}
}

func withPDFConverter(p pdfConverter) Option {
	return func(c *Converter) {
		c.pdfConverter = p
	}
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	t.Cleanup(func() { _ = conv.Close() })
	return conv
}

// ---------------------------------------------------------------------------
// TestNewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t)
		if conv.cfg.timeout != defaultTimeout {
			t.Errorf("timeout = %v, want %v", conv.cfg.timeout, defaultTimeout)
		}
		if _, ok := conv.htmlConverter.(*pipeline.LiteConverter); !ok {
			t.Errorf("htmlConverter = %T, want *pipeline.LiteConverter", conv.htmlConverter)
		}
	})

	t.Run("gfm engine", func(t *testing.T) {
		t.Parallel()

		conv := newTestConverter(t, WithEngine(EngineGFM))
		if _, ok := conv.htmlConverter.(*pipeline.GoldmarkConverter); !ok {
			t.Errorf("htmlConverter = %T, want *pipeline.GoldmarkConverter", conv.htmlConverter)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithEngine("pandoc"))
		if !errors.Is(err, ErrUnknownEngine) {
			t.Errorf("NewConverter() error = %v, want ErrUnknownEngine", err)
		}
	})

	t.Run("invalid asset path", func(t *testing.T) {
		t.Parallel()

		_, err := NewConverter(WithAssetPath(filepath.Join(t.TempDir(), "missing")))
		if !errors.Is(err, ErrInvalidAssetPath) {
			t.Errorf("NewConverter() error = %v, want ErrInvalidAssetPath", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestConvert
// ---------------------------------------------------------------------------

func TestConvert_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   Format
		mime     string
		filename string
		contains string
	}{
		{FormatMarkdown, "text/markdown", "notes.md", "$x^2$"},
		{FormatHTML, "text/html", "notes.html", `<span class="math-inline">x<sup>2</sup></span>`},
		{FormatWord, "application/msword", "notes.doc", "urn:schemas-microsoft-com:office:word"},
		{FormatPrint, "text/html", "notes.html", "window.print()"},
		{"", "text/html", "notes.html", "<h1>Notes</h1>"},
	}

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			res, err := conv.Convert(context.Background(), Input{
				Markdown: "# Notes\n\n$x^2$",
				Title:    "notes",
				Format:   tt.format,
			})
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if !strings.HasPrefix(res.MIMEType, tt.mime) {
				t.Errorf("MIMEType = %q, want %q", res.MIMEType, tt.mime)
			}
			if res.Filename != tt.filename {
				t.Errorf("Filename = %q, want %q", res.Filename, tt.filename)
			}
			if !strings.Contains(string(res.Data), tt.contains) {
				t.Errorf("Data missing %q:\n%s", tt.contains, res.Data)
			}
		})
	}
}

func TestConvert_MarkdownSkipsPipeline(t *testing.T) {
	t.Parallel()

	pre := &mockPreprocessor{}
	html := &mockHTMLConverter{}
	conv := newTestConverter(t, withPreprocessor(pre), withHTMLConverter(html), withPDFConverter(&mockPDFConverter{}))

	src := "\ufeffraw\r\n"
	res, err := conv.Convert(context.Background(), Input{Markdown: src, Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(res.Data) != src {
		t.Errorf("Data = %q, want source unchanged", res.Data)
	}
	if pre.called || html.called {
		t.Error("markdown export should not run the pipeline")
	}
	if res.HTML != "" {
		t.Errorf("HTML = %q, want empty", res.HTML)
	}
}

func TestConvert_PDF(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	pdf := &mockPDFConverter{output: []byte("%PDF-mock")}
	conv := newTestConverter(t, withPDFConverter(pdf))

	page := &PageSettings{Size: PageSizeA4, Orientation: OrientationLandscape, Margin: 1}
	res, err := conv.Convert(context.Background(), Input{
		Markdown:  "![logo](a.png)",
		Format:    FormatPDF,
		SourceDir: dir,
		Page:      page,
	})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if string(res.Data) != "%PDF-mock" {
		t.Errorf("Data = %q", res.Data)
	}
	if res.Filename != "document.pdf" || res.MIMEType != "application/pdf" {
		t.Errorf("Result = %q %q", res.Filename, res.MIMEType)
	}
	if !strings.Contains(pdf.inputHTML, `src="file://`) {
		t.Errorf("image path not rewritten:\n%s", pdf.inputHTML)
	}
	if strings.Contains(pdf.inputHTML, "window.print()") {
		t.Error("pdf document should not auto-print")
	}
	if pdf.inputPage != page {
		t.Errorf("page settings not forwarded: %+v", pdf.inputPage)
	}
}

func TestConvert_PDFDefaultPage(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdf))

	if _, err := conv.Convert(context.Background(), Input{Markdown: "x", Format: FormatPDF}); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if pdf.inputPage == nil || pdf.inputPage.Size != PageSizeLetter {
		t.Errorf("inputPage = %+v, want defaults", pdf.inputPage)
	}
}

func TestConvert_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		input   Input
		wantErr error
	}{
		{
			name:    "unknown format",
			input:   Input{Markdown: "x", Format: "docx"},
			wantErr: ErrUnknownFormat,
		},
		{
			name:    "invalid page size",
			input:   Input{Markdown: "x", Format: FormatPDF, Page: &PageSettings{Size: "a5", Orientation: OrientationPortrait, Margin: 1}},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "html converter failure",
			opts:    []Option{withHTMLConverter(&mockHTMLConverter{err: errors.New("bad")})},
			input:   Input{Markdown: "x"},
			wantErr: ErrHTMLConversion,
		},
		{
			name:    "panic recovered",
			opts:    []Option{withHTMLConverter(&mockHTMLConverter{panics: true})},
			input:   Input{Markdown: "x"},
			wantErr: ErrHTMLConversion,
		},
		{
			name:    "pdf failure",
			opts:    []Option{withPDFConverter(&mockPDFConverter{err: ErrBrowserConnect})},
			input:   Input{Markdown: "x", Format: FormatPDF},
			wantErr: ErrBrowserConnect,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{withPDFConverter(&mockPDFConverter{})}, tt.opts...)
			conv := newTestConverter(t, opts...)

			_, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvert_CancelledContext(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv := newTestConverter(t, withPDFConverter(pdf))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.Convert(ctx, Input{Markdown: "x", Format: FormatPDF})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
	if pdf.called {
		t.Error("pdf converter called after cancellation")
	}
}

func TestConvert_EmptyMarkdown(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))
	res, err := conv.Convert(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(res.HTML, "<title>document</title>") {
		t.Errorf("HTML missing default title:\n%s", res.HTML)
	}
}

func TestConvert_CustomAssets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatal(err)
	}
	tmpl := "<html><head><title>{{.Title}}</title></head><body class=\"custom\">{{.Body}}</body></html>"
	if err := os.WriteFile(filepath.Join(dir, "templates", "document.html"), []byte(tmpl), 0o644); err != nil {
		t.Fatal(err)
	}

	loader, err := NewAssetLoader(dir)
	if err != nil {
		t.Fatalf("NewAssetLoader() error = %v", err)
	}
	conv := newTestConverter(t, WithAssetLoader(loader), withPDFConverter(&mockPDFConverter{}))

	res, err := conv.Convert(context.Background(), Input{Markdown: "hi", Format: FormatHTML})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(res.HTML, `<body class="custom">`) {
		t.Errorf("custom template not used:\n%s", res.HTML)
	}
	if !strings.Contains(res.HTML, ".math-display") {
		t.Error("built-in base style should still be injected")
	}
}

// ---------------------------------------------------------------------------
// TestRenderHTML
// ---------------------------------------------------------------------------

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, withPDFConverter(&mockPDFConverter{}))
	got, err := conv.RenderHTML(context.Background(), "# T\r\n\r\n**b**")
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	for _, want := range []string{"<h1>T</h1>", "<strong>b</strong>"} {
		if !strings.Contains(got, want) {
			t.Errorf("RenderHTML() = %q, want %q", got, want)
		}
	}
	if strings.Contains(got, "<html") {
		t.Error("RenderHTML() should return a fragment")
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	pdf := &mockPDFConverter{}
	conv, err := NewConverter(withPDFConverter(pdf))
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !pdf.closed {
		t.Error("Close() did not close the pdf converter")
	}
}

// ---------------------------------------------------------------------------
// TestParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		got, err := ParseFormat(string(f))
		if err != nil || got != f {
			t.Errorf("ParseFormat(%q) = %q, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("rtf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(rtf) error = %v, want ErrUnknownFormat", err)
	}
	if FormatWord.Extension() != ".doc" || FormatPDF.MIMEType() != "application/pdf" {
		t.Error("format metadata mismatch")
	}
}
