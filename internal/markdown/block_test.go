package markdown

// Notes:
// - Structural assertions (how many tables, rows, cells) parse the output
//   with goquery rather than matching substrings; exact strings are used
//   where the output shape itself is the behavior under test.
// - Totality is checked over a fixed set of awkward inputs; there is no
//   fuzz target since the block scanner has no recursion to explore.

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing rendered HTML: %v", err)
	}
	return doc
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Headings, Rules, Quotes
// ---------------------------------------------------------------------------

func TestRenderDocument_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"h3", "### Title", "<h3>Title</h3>"},
		{"h1 inline", "# **Big** idea", "<h1><strong>Big</strong> idea</h1>"},
		{"h6", "###### six", "<h6>six</h6>"},
		{"seven hashes is text", "####### seven", "<p>####### seven</p>"},
		{"rule dashes", "---", "<hr>"},
		{"rule stars", "*****", "<hr>"},
		{"blockquote raw", "> keep **this**", "<blockquote>keep **this**</blockquote>"},
		{"single paragraph", "hello", "<p>hello</p>"},
		{"empty document", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderDocument(tt.input); got != tt.want {
				t.Errorf("RenderDocument(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Paragraphs
// ---------------------------------------------------------------------------

func TestRenderDocument_Paragraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "hard breaks inside paragraph",
			input: "one\ntwo\nthree",
			want:  "<p>one<br>\ntwo<br>\nthree</p>",
		},
		{
			name:  "blank line separates paragraphs",
			input: "one\n\ntwo",
			want:  "<p>one</p>\n\n<p>two</p>",
		},
		{
			name:  "paragraph after heading",
			input: "# T\ntext",
			want:  "<h1>T</h1>\n<p>text</p>",
		},
		{
			name:  "paragraph before list",
			input: "intro\n- a",
			want:  "<p>intro</p>\n<ul><li>a</li></ul>",
		},
		{
			name:  "paragraph starting with markup",
			input: "**bold** start",
			want:  "<p><strong>bold</strong> start</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderDocument(tt.input); got != tt.want {
				t.Errorf("RenderDocument(%q) =\n%q\nwant\n%q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Lists
// ---------------------------------------------------------------------------

func TestRenderDocument_ListGrouping(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, RenderDocument("- a\n- b\n- c"))

	if n := doc.Find("ul").Length(); n != 1 {
		t.Fatalf("got %d <ul>, want 1", n)
	}
	if n := doc.Find("ul > li").Length(); n != 3 {
		t.Errorf("got %d <li>, want 3", n)
	}
}

func TestRenderDocument_Lists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ordered",
			input: "1. one\n2. two",
			want:  "<ol><li>one</li>\n<li>two</li></ol>",
		},
		{
			name:  "mixed markers same list",
			input: "- a\n* b\n+ c",
			want:  "<ul><li>a</li>\n<li>b</li>\n<li>c</li></ul>",
		},
		{
			name:  "ul then ol stay separate",
			input: "- a\n1. b",
			want:  "<ul><li>a</li></ul>\n<ol><li>b</li></ol>",
		},
		{
			name:  "blank line splits list",
			input: "- a\n\n- b",
			want:  "<ul><li>a</li></ul>\n\n<ul><li>b</li></ul>",
		},
		{
			name:  "bullet content is emitted as written",
			input: "- a <b>x</b> & **y**",
			want:  "<ul><li>a <b>x</b> & **y**</li></ul>",
		},
		{
			name:  "ordered content is emitted as written",
			input: "1. a <b>x</b> & **y**",
			want:  "<ol><li>a <b>x</b> & **y**</li></ol>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderDocument(tt.input); got != tt.want {
				t.Errorf("RenderDocument(%q) =\n%q\nwant\n%q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Code Fences
// ---------------------------------------------------------------------------

func TestRenderDocument_CodeFence(t *testing.T) {
	t.Parallel()

	got := RenderDocument("```go\nif a < b && c > d {\n  **x**\n}\n```")
	want := "<pre><code>if a &lt; b && c &gt; d {\n  **x**\n}</code></pre>"
	if got != want {
		t.Errorf("RenderDocument() =\n%q\nwant\n%q", got, want)
	}
}

func TestRenderDocument_UnterminatedCodeFence(t *testing.T) {
	t.Parallel()

	lines := []string{"first <line>", "# not a heading", "- not a list", "", "last"}
	got := RenderDocument("```\n" + strings.Join(lines, "\n"))

	if n := strings.Count(got, "<pre><code>"); n != 1 {
		t.Fatalf("got %d code blocks, want 1: %q", n, got)
	}
	for _, line := range lines {
		escaped := codeEscaper.Replace(line)
		if !strings.Contains(got, escaped) {
			t.Errorf("output lost line %q: %q", line, got)
		}
	}
	if strings.Contains(got, "<h1>") || strings.Contains(got, "<li>") {
		t.Errorf("fenced lines were classified: %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Math Fences
// ---------------------------------------------------------------------------

func TestRenderDocument_MathFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multi line",
			input: "$$\n\\alpha^2\n$$",
			want:  `<span class="math-display">α<sup>2</sup></span>`,
		},
		{
			name:  "single line",
			input: "$$ x_1 $$",
			want:  `<span class="math-display">x<sub>1</sub></span>`,
		},
		{
			name:  "unterminated",
			input: "$$\n\\beta",
			want:  `<span class="math-display">β</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderDocument(tt.input); got != tt.want {
				t.Errorf("RenderDocument(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Tables
// ---------------------------------------------------------------------------

func TestRenderDocument_TableStructure(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, RenderDocument("| A | B |\n|---|---|\n| 1 | 2 |"))

	if n := doc.Find("table.markdown-table").Length(); n != 1 {
		t.Fatalf("got %d tables, want 1", n)
	}

	var header []string
	doc.Find("thead tr th").Each(func(_ int, s *goquery.Selection) {
		header = append(header, s.Text())
	})
	if strings.Join(header, ",") != "A,B" {
		t.Errorf("header cells = %v, want [A B]", header)
	}

	if n := doc.Find("tbody tr").Length(); n != 1 {
		t.Fatalf("got %d body rows, want 1", n)
	}
	var body []string
	doc.Find("tbody tr td").Each(func(_ int, s *goquery.Selection) {
		body = append(body, s.Text())
	})
	if strings.Join(body, ",") != "1,2" {
		t.Errorf("body cells = %v, want [1 2]", body)
	}

	if n := doc.Find("tr").Length(); n != 2 {
		t.Errorf("got %d rows, separator should produce none", n)
	}
}

func TestRenderDocument_TableVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		headerRows int
		bodyRows   int
	}{
		{"no separator", "| a |\n| b |\n| c |", 1, 2},
		{"alignment markers", "| a | b |\n|:--|--:|\n| 1 | 2 |\n| 3 | 4 |", 1, 2},
		{"header only", "| a | b |", 1, 0},
		{"separator first", "|---|\n| 1 |", 1, 0},
		{"separator first then body", "|---|\n| 1 |\n| 2 |\n| 3 |", 1, 2},
		{"no trailing pipe", "| a | b\n|---|---\n| 1 | 2", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := parseHTML(t, RenderDocument(tt.input))
			if n := doc.Find("thead tr").Length(); n != tt.headerRows {
				t.Errorf("header rows = %d, want %d", n, tt.headerRows)
			}
			if n := doc.Find("tbody tr").Length(); n != tt.bodyRows {
				t.Errorf("body rows = %d, want %d", n, tt.bodyRows)
			}
		})
	}
}

func TestRenderDocument_TableCellsInlineFormatted(t *testing.T) {
	t.Parallel()

	got := RenderDocument("| **x** | `y` |")
	if !strings.Contains(got, "<th><strong>x</strong></th><th><code>y</code></th>") {
		t.Errorf("RenderDocument() = %q", got)
	}
}

func TestRenderDocument_TableThenParagraph(t *testing.T) {
	t.Parallel()

	got := RenderDocument("| a |\nafter")
	if !strings.HasSuffix(got, "</table>\n<p>after</p>") {
		t.Errorf("RenderDocument() = %q, want table flushed before paragraph", got)
	}
}

func TestRenderDocument_FenceEndsTable(t *testing.T) {
	t.Parallel()

	got := RenderDocument("| a |\n$$\nx\n$$\n| b |")
	tableEnd := strings.Index(got, "</table>")
	mathStart := strings.Index(got, "math-display")
	if tableEnd < 0 || mathStart < 0 || tableEnd > mathStart {
		t.Fatalf("RenderDocument() = %q, want first table closed before math", got)
	}
	if n := strings.Count(got, "<table"); n != 2 {
		t.Errorf("got %d tables, want 2", n)
	}
}

// ---------------------------------------------------------------------------
// TestRenderDocument - Totality
// ---------------------------------------------------------------------------

func TestRenderDocument_Total(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"\n",
		"\r\n\r\n",
		"```",
		"$$",
		"|",
		"||||",
		"# ",
		"#",
		">",
		"- ",
		"1.",
		"***",
		"\x00",
		"\xff\xfe",
		strings.Repeat("| a ", 100),
		strings.Repeat("*", 1000),
	}
	for _, in := range inputs {
		_ = RenderDocument(in)
	}
}

func TestRenderDocument_CRLF(t *testing.T) {
	t.Parallel()

	got := RenderDocument("# Title\r\ntext\r\n")
	if strings.Contains(got, "\r") {
		t.Errorf("RenderDocument() = %q, carriage return leaked", got)
	}
	if !strings.HasPrefix(got, "<h1>Title</h1>") {
		t.Errorf("RenderDocument() = %q", got)
	}
}
