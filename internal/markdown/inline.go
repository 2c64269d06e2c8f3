package markdown

import (
	"regexp"
	"strings"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var (
	codeSpanRe   = regexp.MustCompile("`([^`]+)`")
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	inlineMathRe = regexp.MustCompile(`\$([^$\n]+?)\$`)
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldItalicRe = regexp.MustCompile(`\*\*\*([^*]+?)\*\*\*`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+?)\*\*`)
)

// FormatInline converts the inline spans of a single line into HTML.
//
// Rules apply in a fixed order: escaping, code spans, images, inline math,
// links, bold+italic, bold, italic. Code spans are not shielded from the
// rules that follow them. Overlapping or unbalanced markers produce
// best-effort output.
func FormatInline(line string) string {
	s := htmlEscaper.Replace(line)
	s = codeSpanRe.ReplaceAllString(s, "<code>${1}</code>")
	s = imageRe.ReplaceAllString(s, `<img src="${2}" alt="${1}">`)
	s = inlineMathRe.ReplaceAllStringFunc(s, func(m string) string {
		return RenderMath(m[1:len(m)-1], false)
	})
	s = linkRe.ReplaceAllString(s, `<a href="${2}" target="_blank" rel="noopener noreferrer">${1}</a>`)
	s = boldItalicRe.ReplaceAllString(s, "<strong><em>${1}</em></strong>")
	s = boldRe.ReplaceAllString(s, "<strong>${1}</strong>")
	return replaceItalic(s)
}

// replaceItalic turns *text* into <em>text</em> when neither delimiter
// touches another asterisk. RE2 has no lookaround, so the boundary check
// is done by hand.
func replaceItalic(s string) string {
	if strings.IndexByte(s, '*') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); {
		if s[i] == '*' && (i == 0 || s[i-1] != '*') {
			if j := strings.IndexByte(s[i+1:], '*'); j > 0 {
				end := i + 1 + j
				if end+1 >= len(s) || s[end+1] != '*' {
					b.WriteString("<em>")
					b.WriteString(s[i+1 : end])
					b.WriteString("</em>")
					i = end + 1
					continue
				}
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
