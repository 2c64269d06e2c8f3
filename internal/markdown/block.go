package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	codeFenceRe = regexp.MustCompile("^```")
	headingRe   = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	ruleRe      = regexp.MustCompile(`^[-*]{3,}$`)
	quoteRe     = regexp.MustCompile(`^>\s+(.+)$`)
	bulletRe    = regexp.MustCompile(`^\s*[-*+]\s+(.+)$`)
	orderedRe   = regexp.MustCompile(`^\s*\d+\.\s+(.+)$`)
)

// codeEscaper escapes code block contents. Ampersands are kept as written.
var codeEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

const mathFence = "$$"

// RenderDocument converts a Markdown document into an HTML fragment.
//
// Lines are classified in priority order: code fence, math fence, table row,
// heading, rule, blockquote, list items, blank, paragraph. Unterminated
// fences and tables are flushed at end of input, so no buffered line is
// dropped. A fence line ends an open table.
func RenderDocument(src string) string {
	r := &renderer{}
	var st parseState = defaultState{}
	for _, line := range strings.Split(src, "\n") {
		st = st.feed(r, strings.TrimSuffix(line, "\r"))
	}
	st.flush(r)

	return cleanup(wrapParagraphs(mergeLists(r.out)))
}

// renderer collects the fragments emitted while scanning.
type renderer struct {
	out []fragment
}

func (r *renderer) emit(f fragment) { r.out = append(r.out, f) }

// parseState is the scanner mode. Exactly one mode is active at a time:
// defaultState, codeFenceState, mathFenceState or tableState.
type parseState interface {
	// feed consumes one line and returns the state for the next line.
	feed(r *renderer, line string) parseState
	// flush emits whatever the state has buffered.
	flush(r *renderer)
}

// ---------------------------------------------------------------------------
// Default
// ---------------------------------------------------------------------------

type defaultState struct{}

func (defaultState) feed(r *renderer, line string) parseState {
	trimmed := strings.TrimSpace(line)

	if codeFenceRe.MatchString(trimmed) {
		return &codeFenceState{}
	}

	if strings.HasPrefix(trimmed, mathFence) {
		rest := strings.TrimSpace(trimmed[len(mathFence):])
		if body, ok := strings.CutSuffix(rest, mathFence); ok {
			r.emit(blockFragment(RenderMath(body, true)))
			return defaultState{}
		}
		m := &mathFenceState{}
		if rest != "" {
			m.lines = append(m.lines, rest)
		}
		return m
	}

	if strings.HasPrefix(trimmed, "|") {
		return (&tableState{}).feed(r, line)
	}

	classifyLine(r, line, trimmed)
	return defaultState{}
}

func (defaultState) flush(*renderer) {}

// classifyLine emits the fragment for a line outside fences and tables.
func classifyLine(r *renderer, line, trimmed string) {
	if m := headingRe.FindStringSubmatch(line); m != nil {
		level := strconv.Itoa(len(m[1]))
		r.emit(blockFragment("<h" + level + ">" + FormatInline(m[2]) + "</h" + level + ">"))
		return
	}
	if ruleRe.MatchString(trimmed) {
		r.emit(blockFragment("<hr>"))
		return
	}
	if m := quoteRe.FindStringSubmatch(line); m != nil {
		// Blockquote content is emitted as written.
		r.emit(blockFragment("<blockquote>" + m[1] + "</blockquote>"))
		return
	}
	// List item content is emitted as written, like blockquotes.
	if m := bulletRe.FindStringSubmatch(line); m != nil {
		r.emit(fragment{kind: fragItem, list: listBullet, html: m[1]})
		return
	}
	if m := orderedRe.FindStringSubmatch(line); m != nil {
		r.emit(fragment{kind: fragItem, list: listOrdered, html: m[1]})
		return
	}
	if trimmed == "" {
		r.emit(fragment{kind: fragBlank})
		return
	}
	r.emit(fragment{kind: fragText, html: FormatInline(line)})
}

// ---------------------------------------------------------------------------
// Code fence
// ---------------------------------------------------------------------------

type codeFenceState struct {
	lines []string
}

func (s *codeFenceState) feed(r *renderer, line string) parseState {
	if codeFenceRe.MatchString(strings.TrimSpace(line)) {
		s.flush(r)
		return defaultState{}
	}
	s.lines = append(s.lines, line)
	return s
}

func (s *codeFenceState) flush(r *renderer) {
	r.emit(blockFragment("<pre><code>" + codeEscaper.Replace(strings.Join(s.lines, "\n")) + "</code></pre>"))
}

// ---------------------------------------------------------------------------
// Math fence
// ---------------------------------------------------------------------------

type mathFenceState struct {
	lines []string
}

func (s *mathFenceState) feed(r *renderer, line string) parseState {
	if strings.HasPrefix(strings.TrimSpace(line), mathFence) {
		s.flush(r)
		return defaultState{}
	}
	s.lines = append(s.lines, line)
	return s
}

func (s *mathFenceState) flush(r *renderer) {
	r.emit(blockFragment(RenderMath(strings.Join(s.lines, "\n"), true)))
}

// ---------------------------------------------------------------------------
// Table
// ---------------------------------------------------------------------------

type tableState struct {
	rows [][]string
	// headerRows is the number of rows seen before the separator (at
	// least one), or -1 while no separator has been seen.
	headerRows int
	started    bool
}

func (s *tableState) feed(r *renderer, line string) parseState {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "|") {
		s.flush(r)
		return defaultState{}.feed(r, line)
	}
	if !s.started {
		s.started = true
		s.headerRows = -1
	}

	cells := splitCells(trimmed)
	if isSeparatorRow(cells) {
		if s.headerRows < 0 {
			// A leading separator makes the next row the header.
			s.headerRows = max(len(s.rows), 1)
		}
		return s
	}
	s.rows = append(s.rows, cells)
	return s
}

func (s *tableState) flush(r *renderer) {
	if len(s.rows) == 0 {
		return
	}

	header := s.headerRows
	if header < 0 {
		header = 1
	}

	var b strings.Builder
	b.WriteString(`<table class="markdown-table">`)
	if header > 0 {
		b.WriteString("\n<thead>")
		writeRows(&b, s.rows[:header], "th")
		b.WriteString("</thead>")
	}
	if header < len(s.rows) {
		b.WriteString("\n<tbody>")
		writeRows(&b, s.rows[header:], "td")
		b.WriteString("</tbody>")
	}
	b.WriteString("\n</table>")
	r.emit(blockFragment(b.String()))
}

func writeRows(b *strings.Builder, rows [][]string, cellTag string) {
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			b.WriteString("<" + cellTag + ">")
			b.WriteString(FormatInline(cell))
			b.WriteString("</" + cellTag + ">")
		}
		b.WriteString("</tr>")
	}
}

// splitCells splits a trimmed table line on pipes and drops the empty outer
// cells produced by the leading and trailing pipe.
func splitCells(trimmed string) []string {
	parts := strings.Split(trimmed, "|")[1:]
	if strings.HasSuffix(trimmed, "|") && len(parts) > 0 {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// isSeparatorRow reports whether every cell is an alignment marker like
// ---, :--, --: or :-:.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		if c == "" || strings.Trim(c, "-:") != "" || !strings.Contains(c, "-") {
			return false
		}
	}
	return true
}
