package markdown

import (
	"regexp"
	"strings"
)

var formatRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`^(#{1,6})([^#\s])`), "${1} ${2}"},     // #Title
	{regexp.MustCompile(`^(\s*[-+])([^-+\s\d])`), "${1} ${2}"}, // -item
	{regexp.MustCompile(`^(\s*\d+\.)([^\s\d])`), "${1} ${2}"},  // 1.item
	{regexp.MustCompile(`^(\s*>)([^>\s])`), "${1} ${2}"},       // >quote
}

// Format tidies Markdown source. It trims trailing whitespace, collapses
// runs of blank lines and inserts the missing space after heading, list and
// quote markers. Code fences are copied untouched. Non-empty output ends
// with a single newline.
//
// Asterisk bullets are left alone since "*word" is usually emphasis.
func Format(src string) string {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	inCode := false

	for _, line := range lines {
		if codeFenceRe.MatchString(strings.TrimSpace(line)) {
			inCode = !inCode
			out = append(out, strings.TrimRight(line, " \t"))
			continue
		}
		if inCode {
			out = append(out, line)
			continue
		}

		line = strings.TrimRight(line, " \t")
		if line == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		for _, rule := range formatRules {
			line = rule.re.ReplaceAllString(line, rule.repl)
		}
		out = append(out, line)
	}

	for len(out) > 0 && out[len(out)-1] == "" && !inCode {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
