package markdown

import (
	"regexp"
	"strings"
)

// CSS classes wrapping rendered math. The stylesheets depend on these names.
const (
	classMathDisplay = "math-display"
	classMathInline  = "math-inline"
)

// group matches a one-level brace group or a single non-space, non-brace character.
const group = `(\{[^}]+\}|[^\s{}])`

var (
	supRe       = regexp.MustCompile(`\^` + group)
	subRe       = regexp.MustCompile(`_` + group)
	fracRe      = regexp.MustCompile(`\\frac\{([^}]+)\}\{([^}]+)\}`)
	sqrtRe      = regexp.MustCompile(`\\sqrt\s*` + group)
	vecBraceRe  = regexp.MustCompile(`\\vec\{([^}]+)\}`)
	vecSpaceRe  = regexp.MustCompile(`\\vec\s+([^\s{]+)`)
	overlineRe  = regexp.MustCompile(`\\overline\{([^}]+)\}`)
	underlineRe = regexp.MustCompile(`\\underline\{([^}]+)\}`)

	// Brace labels arrive either raw or already converted by the sup/sub pass.
	overbraceRe  = regexp.MustCompile(`\\overbrace\{([^}]+)\}(?:<sup>(.*?)</sup>|\^` + group + `)`)
	underbraceRe = regexp.MustCompile(`\\underbrace\{([^}]+)\}(?:<sub>(.*?)</sub>|_` + group + `)`)

	matrixRe = regexp.MustCompile(`(?s)\\begin\{matrix\}(.*?)\\end\{matrix\}`)
	arrayRe  = regexp.MustCompile(`(?s)\\begin\{array\}.*?\\\\(.*?)\\end\{array\}`)
	cellSep  = regexp.MustCompile(`&(?:amp;)?`)

	// Bounds on ∫ and ∑ are put in subscript-then-superscript order.
	boundsRe = regexp.MustCompile(`([∫∑])(<sup>[^<]*</sup>)(<sub>[^<]*</sub>)`)

	strayBackslashRe = regexp.MustCompile(`\\([^\s{}])`)
)

// RenderMath converts LaTeX-like notation into an HTML fragment wrapped in a
// math-display or math-inline span. It never fails: unrecognized commands
// lose their backslash and pass through. Only one level of braces is
// understood.
func RenderMath(src string, display bool) string {
	s := strings.TrimSpace(src)

	s = replaceSymbols(s)
	s = supRe.ReplaceAllStringFunc(s, func(m string) string {
		return "<sup>" + unbrace(m[1:]) + "</sup>"
	})
	s = subRe.ReplaceAllStringFunc(s, func(m string) string {
		return "<sub>" + unbrace(m[1:]) + "</sub>"
	})
	s = fracRe.ReplaceAllString(s,
		`<span class="math-fraction"><span class="math-numerator">${1}</span><span class="math-denominator">${2}</span></span>`)
	s = replaceSubmatch(sqrtRe, s, func(sm []string) string {
		return `<span class="math-sqrt"><span class="math-sqrt-symbol">√</span><span class="math-sqrt-content">` +
			unbrace(sm[1]) + `</span></span>`
	})
	s = vecBraceRe.ReplaceAllString(s, `<span class="math-vector">${1}&#x2192;</span>`)
	s = vecSpaceRe.ReplaceAllString(s, `<span class="math-vector">${1}&#x2192;</span>`)
	s = overlineRe.ReplaceAllString(s, `<span class="math-overline">${1}</span>`)
	s = underlineRe.ReplaceAllString(s, `<span class="math-underline">${1}</span>`)
	s = replaceSubmatch(overbraceRe, s, func(sm []string) string {
		return braceLabel("math-overbrace", sm)
	})
	s = replaceSubmatch(underbraceRe, s, func(sm []string) string {
		return braceLabel("math-underbrace", sm)
	})
	s = replaceSubmatch(matrixRe, s, func(sm []string) string { return matrixTable(sm[1]) })
	s = replaceSubmatch(arrayRe, s, func(sm []string) string { return matrixTable(sm[1]) })
	s = boundsRe.ReplaceAllString(s, "${1}${3}${2}")
	s = strayBackslashRe.ReplaceAllString(s, "${1}")

	class := classMathInline
	if display {
		class = classMathDisplay
	}
	return `<span class="` + class + `">` + s + `</span>`
}

// unbrace strips one surrounding pair of braces, if present.
func unbrace(s string) string {
	if len(s) >= 2 && s[0] == '{' && s[len(s)-1] == '}' {
		return s[1 : len(s)-1]
	}
	return s
}

func braceLabel(class string, sm []string) string {
	label := sm[2]
	if label == "" {
		label = unbrace(sm[3])
	}
	return `<span class="` + class + `"><span class="math-brace-content">` + sm[1] +
		`</span><span class="math-brace-label">` + label + `</span></span>`
}

// matrixTable lays out rows separated by \\ and cells separated by &.
// Inline math has been HTML-escaped already, so &amp; also separates cells.
func matrixTable(body string) string {
	var b strings.Builder
	b.WriteString(`<div class="math-matrix"><table><tbody>`)
	for _, row := range strings.Split(body, `\\`) {
		if strings.TrimSpace(row) == "" {
			continue
		}
		b.WriteString("<tr>")
		for _, cell := range cellSep.Split(row, -1) {
			b.WriteString("<td>")
			b.WriteString(strings.TrimSpace(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div>")
	return b.String()
}

// replaceSubmatch is ReplaceAllStringFunc with access to capture groups.
// Unmatched optional groups are passed as empty strings.
func replaceSubmatch(re *regexp.Regexp, s string, fn func([]string) string) string {
	idx := re.FindAllStringSubmatchIndex(s, -1)
	if idx == nil {
		return s
	}

	var b strings.Builder
	last := 0
	for _, loc := range idx {
		b.WriteString(s[last:loc[0]])
		sm := make([]string, len(loc)/2)
		for i := range sm {
			if loc[2*i] >= 0 {
				sm[i] = s[loc[2*i]:loc[2*i+1]]
			}
		}
		b.WriteString(fn(sm))
		last = loc[1]
	}
	b.WriteString(s[last:])
	return b.String()
}
