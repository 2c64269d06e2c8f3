package export

import (
	"errors"
	"fmt"
	"strings"
)

// Format identifies an export target.
type Format string

// Supported export formats.
const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatWord     Format = "doc"
	FormatPrint    Format = "print"
	FormatPDF      Format = "pdf"
)

// ErrUnknownFormat is returned for a format name outside Formats().
var ErrUnknownFormat = errors.New("unknown export format")

// Formats returns every supported format in display order.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatHTML, FormatWord, FormatPrint, FormatPDF}
}

// ParseFormat maps a case-insensitive name to a Format. "markdown" and
// "word" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "doc", "word":
		return FormatWord, nil
	case "print":
		return FormatPrint, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// MIMEType returns the content type served for the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatWord:
		return "application/msword"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

// Extension returns the file extension, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatWord:
		return ".doc"
	case FormatPDF:
		return ".pdf"
	default:
		return ".html"
	}
}

// NeedsBrowser reports whether the format is rendered by headless Chrome.
func (f Format) NeedsBrowser() bool {
	return f == FormatPDF
}

func (f Format) String() string {
	return string(f)
}
