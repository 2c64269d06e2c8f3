package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/aguakit/mdkit/internal/assets"
	"github.com/aguakit/mdkit/internal/pipeline"
)

// DefaultTitle is used when a document has no title.
const DefaultTitle = "document"

// wordBOM makes Word detect UTF-8 in HTML saved as .doc.
const wordBOM = "\ufeff"

var (
	// ErrTemplate indicates a layout template failed to parse or execute.
	ErrTemplate = errors.New("export template failed")

	// ErrPDFNotWrapped is returned by Export for FormatPDF, whose bytes come
	// from a browser rather than from the template alone.
	ErrPDFNotWrapped = errors.New("pdf export requires a renderer")
)

// Document is the content handed to an exporter.
type Document struct {
	Title    string // defaults to DefaultTitle
	Markdown string // source, used by FormatMarkdown
	Body     string // rendered HTML fragment
	CSS      string // user stylesheet injected after the built-in ones
}

// Output is an exported file.
type Output struct {
	Data      []byte
	MIMEType  string
	Extension string
	Filename  string
}

// layout binds a format to its template and stylesheets.
type layout struct {
	template  string
	styles    []string
	autoPrint bool
}

var layouts = map[Format]layout{
	FormatHTML:  {template: assets.TemplateDocument, styles: []string{assets.StyleBase, assets.StyleHTML}},
	FormatWord:  {template: assets.TemplateWord, styles: []string{assets.StyleBase, assets.StyleWord}},
	FormatPrint: {template: assets.TemplatePrint, styles: []string{assets.StyleBase, assets.StylePrint}, autoPrint: true},
	FormatPDF:   {template: assets.TemplatePrint, styles: []string{assets.StyleBase, assets.StylePrint}},
}

// templateData is what the layout templates see.
type templateData struct {
	Title     string
	Body      template.HTML
	AutoPrint bool
}

// Exporter wraps HTML bodies into full documents.
type Exporter struct {
	loader   assets.AssetLoader
	injector pipeline.CSSInjector
}

// NewExporter creates an Exporter reading templates and styles from loader.
// A nil loader uses the embedded assets.
func NewExporter(loader assets.AssetLoader) *Exporter {
	if loader == nil {
		loader = assets.NewEmbeddedLoader()
	}
	return &Exporter{loader: loader, injector: &pipeline.CSSInjection{}}
}

// Wrap returns the full HTML document for format. FormatPDF yields the
// print document without the auto-print script, ready for a renderer.
// FormatMarkdown has no HTML form and returns ErrUnknownFormat.
func (e *Exporter) Wrap(ctx context.Context, format Format, doc Document) (string, error) {
	l, ok := layouts[format]
	if !ok {
		return "", fmt.Errorf("%w: %q has no HTML layout", ErrUnknownFormat, format)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := e.loader.LoadTemplate(l.template)
	if err != nil {
		return "", err
	}
	tmpl, err := template.New(l.template).Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, l.template, err)
	}

	var buf bytes.Buffer
	data := templateData{
		Title:     titleOrDefault(doc.Title),
		Body:      template.HTML(doc.Body), // #nosec G203 -- body is renderer output
		AutoPrint: l.autoPrint,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplate, l.template, err)
	}

	css, err := assets.ComposeStyles(e.loader, l.styles...)
	if err != nil {
		return "", err
	}
	out := e.injector.InjectCSS(ctx, buf.String(), css)
	if doc.CSS != "" {
		out = e.injector.InjectCSS(ctx, out, doc.CSS)
	}
	return out, ctx.Err()
}

// Export produces the downloadable file for every format except FormatPDF.
func (e *Exporter) Export(ctx context.Context, format Format, doc Document) (*Output, error) {
	out := &Output{
		MIMEType:  format.MIMEType(),
		Extension: format.Extension(),
		Filename:  Filename(doc.Title, format),
	}

	switch format {
	case FormatMarkdown:
		out.Data = []byte(doc.Markdown)
		return out, nil
	case FormatPDF:
		return nil, ErrPDFNotWrapped
	}

	html, err := e.Wrap(ctx, format, doc)
	if err != nil {
		return nil, err
	}
	if format == FormatWord {
		html = wordBOM + html
	}
	out.Data = []byte(html)
	return out, nil
}

// Filename builds a download name from title and the format's extension.
// Path separators and control characters are replaced so the result is
// always a single path element.
func Filename(title string, format Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '"' || r == '<' || r == '>' || r == '|' || r == '?' || r == '*':
			return '_'
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, titleOrDefault(title))

	name = strings.Trim(name, ". ")
	if name == "" {
		name = DefaultTitle
	}
	return name + format.Extension()
}

func titleOrDefault(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return DefaultTitle
}
