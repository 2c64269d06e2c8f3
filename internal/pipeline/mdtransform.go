package pipeline

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\ufeff"

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// MarkdownPreprocessor prepares raw Markdown for conversion.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

var _ MarkdownPreprocessor = (*SourcePreprocessor)(nil)

// SourcePreprocessor normalizes text the way editors disagree on: line
// endings, a leading byte order mark and composed versus decomposed
// characters. It never changes Markdown structure.
type SourcePreprocessor struct{}

// PreprocessMarkdown returns content unchanged if ctx is already done.
func (p *SourcePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, byteOrderMark)
	content = normalizeLineEndings(content)
	return norm.NFC.String(content)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
