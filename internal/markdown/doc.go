// Package markdown implements the lightweight Markdown renderer used by the
// editor preview and the "lite" export engine.
//
// The renderer has three stages, each a pure function from string to string:
//   - RenderDocument scans the document line by line and emits block HTML
//   - FormatInline resolves inline spans within a single line
//   - RenderMath converts a small LaTeX-like notation into HTML and Unicode
//
// All stages are total: any UTF-8 input yields output and none of them return
// errors. Malformed syntax degrades to best-effort markup. Rules are ordered
// substitution passes and the order is significant, since later rules rely
// on earlier ones having consumed conflicting syntax.
//
// Output references a fixed set of CSS classes (math-display, math-fraction,
// markdown-table, ...) that the stylesheets in internal/assets provide.
package markdown
