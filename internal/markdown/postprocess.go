package markdown

import (
	"regexp"
	"strings"
)

type fragmentKind int

const (
	fragBlank fragmentKind = iota // empty line, paragraph boundary
	fragText                      // inline-formatted paragraph line
	fragBlock                     // complete block-level HTML
	fragItem                      // list item content, merged later
)

type listKind int

const (
	listBullet listKind = iota
	listOrdered
)

func (k listKind) tag() string {
	if k == listOrdered {
		return "ol"
	}
	return "ul"
}

// fragment is one output line of the block scan.
type fragment struct {
	kind fragmentKind
	list listKind
	html string
}

func blockFragment(html string) fragment {
	return fragment{kind: fragBlock, html: html}
}

// mergeLists turns runs of adjacent same-kind list items into a single list.
// The first item opens the list and the last one closes it.
func mergeLists(in []fragment) []fragment {
	out := make([]fragment, 0, len(in))
	for i := 0; i < len(in); i++ {
		f := in[i]
		if f.kind != fragItem {
			out = append(out, f)
			continue
		}

		tag := f.list.tag()
		j := i
		for j+1 < len(in) && in[j+1].kind == fragItem && in[j+1].list == f.list {
			j++
		}
		for k := i; k <= j; k++ {
			html := "<li>" + in[k].html + "</li>"
			if k == i {
				html = "<" + tag + ">" + html
			}
			if k == j {
				html += "</" + tag + ">"
			}
			out = append(out, blockFragment(html))
		}
		i = j
	}
	return out
}

// wrapParagraphs renders fragments to lines. Consecutive text lines form one
// paragraph: the first opens it, the last closes it and interior lines end
// with a hard break.
func wrapParagraphs(frags []fragment) []string {
	lines := make([]string, len(frags))
	for i, f := range frags {
		if f.kind != fragText {
			lines[i] = f.html
			continue
		}

		opens := i == 0 || frags[i-1].kind != fragText
		closes := i == len(frags)-1 || frags[i+1].kind != fragText

		var b strings.Builder
		if opens {
			b.WriteString("<p>")
		}
		b.WriteString(f.html)
		if closes {
			b.WriteString("</p>")
		} else {
			b.WriteString("<br>")
		}
		lines[i] = b.String()
	}
	return lines
}

// cleanupRules strip paragraph tags that ended up around block elements and
// remove empty paragraphs.
var cleanupRules = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`<p>\s*</p>`), ""},
	{regexp.MustCompile(`<p>(<h[1-6]>)`), "${1}"},
	{regexp.MustCompile(`(</h[1-6]>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<pre>)`), "${1}"},
	{regexp.MustCompile(`(</pre>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<ul>)`), "${1}"},
	{regexp.MustCompile(`(</ul>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<ol>)`), "${1}"},
	{regexp.MustCompile(`(</ol>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<blockquote>)`), "${1}"},
	{regexp.MustCompile(`(</blockquote>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<hr>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(<table)`), "${1}"},
	{regexp.MustCompile(`(</table>)</p>`), "${1}"},
	{regexp.MustCompile(`<p>(\$\$)`), "${1}"},
	{regexp.MustCompile(`(\$\$)</p>`), "${1}"},
}

func cleanup(lines []string) string {
	html := strings.Join(lines, "\n")
	for _, rule := range cleanupRules {
		html = rule.re.ReplaceAllString(html, rule.repl)
	}
	return html
}
