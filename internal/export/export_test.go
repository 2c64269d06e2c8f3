package export

// Notes:
// - Layout tests parse the output with goquery instead of matching whole
//   documents, so whitespace changes in the templates do not break them.
// - Custom CSS ordering is checked by byte offset: the user stylesheet has to
//   come after the built-in ones to win the cascade.

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestParseFormat
// ---------------------------------------------------------------------------

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"doc", FormatWord, false},
		{"word", FormatWord, false},
		{"PRINT", FormatPrint, false},
		{" pdf ", FormatPDF, false},
		{"docx", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestFormat_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  Format
		mime    string
		ext     string
		browser bool
	}{
		{FormatMarkdown, "text/markdown", ".md", false},
		{FormatHTML, "text/html", ".html", false},
		{FormatWord, "application/msword", ".doc", false},
		{FormatPrint, "text/html", ".html", false},
		{FormatPDF, "application/pdf", ".pdf", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.format.MIMEType(), tt.mime) {
				t.Errorf("MIMEType() = %q, want prefix %q", tt.format.MIMEType(), tt.mime)
			}
			if tt.format.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", tt.format.Extension(), tt.ext)
			}
			if tt.format.NeedsBrowser() != tt.browser {
				t.Errorf("NeedsBrowser() = %v, want %v", tt.format.NeedsBrowser(), tt.browser)
			}
		})
	}

	if len(Formats()) != 5 {
		t.Errorf("Formats() = %v, want 5 entries", Formats())
	}
}

// ---------------------------------------------------------------------------
// TestExport
// ---------------------------------------------------------------------------

func TestExport_Markdown(t *testing.T) {
	t.Parallel()

	src := "# Title\n\n$x^2$ stays raw"
	out, err := NewExporter(nil).Export(context.Background(), FormatMarkdown, Document{Title: "notes", Markdown: src, Body: "<h1>ignored</h1>"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(out.Data) != src {
		t.Errorf("Data = %q, want source passthrough", out.Data)
	}
	if out.Filename != "notes.md" {
		t.Errorf("Filename = %q, want notes.md", out.Filename)
	}
}

func TestExport_HTMLLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		format     Format
		wantScript string
		wantNoText string
		wantAttr   string
	}{
		{name: "html loads mathjax", format: FormatHTML, wantScript: "cdnjs.cloudflare.com", wantNoText: "window.print()"},
		{name: "word declares office namespaces", format: FormatWord, wantAttr: "xmlns:w"},
		{name: "print prints on load", format: FormatPrint, wantScript: "window.print()"},
	}

	body := `<h1>Hello</h1><p><span class="math-inline">x</span></p>`
	exp := NewExporter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := exp.Export(context.Background(), tt.format, Document{Title: "Report", Body: body})
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			raw := string(out.Data)
			doc := parseDoc(t, strings.TrimPrefix(raw, wordBOM))

			if got := doc.Find("title").Text(); got != "Report" {
				t.Errorf("title = %q, want Report", got)
			}
			if doc.Find("body h1").Text() != "Hello" {
				t.Error("body content missing")
			}
			if doc.Find("head style").Length() == 0 {
				t.Error("no stylesheet injected in head")
			}
			if !strings.Contains(doc.Find("head style").Text(), ".math-inline") {
				t.Error("base stylesheet missing")
			}
			if tt.wantScript != "" && !strings.Contains(raw, tt.wantScript) {
				t.Errorf("output missing %q", tt.wantScript)
			}
			if tt.wantNoText != "" && strings.Contains(raw, tt.wantNoText) {
				t.Errorf("output should not contain %q", tt.wantNoText)
			}
			if tt.wantAttr != "" && !strings.Contains(raw, tt.wantAttr) {
				t.Errorf("output missing attribute %q", tt.wantAttr)
			}
		})
	}
}

func TestExport_WordBOM(t *testing.T) {
	t.Parallel()

	out, err := NewExporter(nil).Export(context.Background(), FormatWord, Document{Body: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(string(out.Data), wordBOM) {
		t.Error("doc export missing UTF-8 BOM")
	}
	if out.MIMEType != "application/msword" || out.Filename != "document.doc" {
		t.Errorf("Output = %q %q", out.MIMEType, out.Filename)
	}
}

func TestExport_PDFNeedsRenderer(t *testing.T) {
	t.Parallel()

	_, err := NewExporter(nil).Export(context.Background(), FormatPDF, Document{Body: "<p>x</p>"})
	if !errors.Is(err, ErrPDFNotWrapped) {
		t.Errorf("Export(pdf) error = %v, want ErrPDFNotWrapped", err)
	}
}

func TestExport_TitleEscaped(t *testing.T) {
	t.Parallel()

	out, err := NewExporter(nil).Export(context.Background(), FormatHTML, Document{Title: "<script>x</script>", Body: "<p>y</p>"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.Contains(string(out.Data), "<title><script>") {
		t.Error("title was not escaped")
	}
}

// ---------------------------------------------------------------------------
// TestWrap
// ---------------------------------------------------------------------------

func TestWrap_PDFHasNoAutoPrint(t *testing.T) {
	t.Parallel()

	got, err := NewExporter(nil).Wrap(context.Background(), FormatPDF, Document{Body: "<p>x</p>"})
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	if strings.Contains(got, "window.print()") {
		t.Error("pdf document should not print on load")
	}
	if !strings.Contains(got, "@media print") {
		t.Error("pdf document missing print stylesheet")
	}
}

func TestWrap_CustomCSSAfterBuiltin(t *testing.T) {
	t.Parallel()

	got, err := NewExporter(nil).Wrap(context.Background(), FormatHTML, Document{Body: "<p>x</p>", CSS: "p { color: #123456; }"})
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	builtin := strings.Index(got, ".math-display")
	custom := strings.Index(got, "#123456")
	head := strings.Index(got, "</head>")
	if builtin < 0 || custom < 0 || custom < builtin || custom > head {
		t.Errorf("custom css at %d, builtin at %d, </head> at %d", custom, builtin, head)
	}
}

func TestWrap_MarkdownHasNoLayout(t *testing.T) {
	t.Parallel()

	if _, err := NewExporter(nil).Wrap(context.Background(), FormatMarkdown, Document{}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Wrap(md) error = %v, want ErrUnknownFormat", err)
	}
}

func TestWrap_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewExporter(nil).Wrap(ctx, FormatHTML, Document{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Wrap() error = %v, want context.Canceled", err)
	}
}

type brokenLoader struct{}

func (brokenLoader) LoadStyle(string) (string, error)    { return "", nil }
func (brokenLoader) LoadTemplate(string) (string, error) { return "{{.Missing", nil }

func TestWrap_BadTemplate(t *testing.T) {
	t.Parallel()

	_, err := NewExporter(brokenLoader{}).Wrap(context.Background(), FormatHTML, Document{})
	if !errors.Is(err, ErrTemplate) {
		t.Errorf("Wrap() error = %v, want ErrTemplate", err)
	}
}

// ---------------------------------------------------------------------------
// TestFilename
// ---------------------------------------------------------------------------

func TestFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title  string
		format Format
		want   string
	}{
		{"", FormatHTML, "document.html"},
		{"   ", FormatPDF, "document.pdf"},
		{"notes", FormatMarkdown, "notes.md"},
		{"a/b\\c", FormatWord, "a_b_c.doc"},
		{"../..", FormatHTML, "_.html"},
		{"..", FormatHTML, "document.html"},
		{"tab\there", FormatPrint, "tabhere.html"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := Filename(tt.title, tt.format); got != tt.want {
				t.Errorf("Filename(%q, %q) = %q, want %q", tt.title, tt.format, got, tt.want)
			}
		})
	}
}
