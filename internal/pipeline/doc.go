// Package pipeline implements the stages between Markdown source and an
// exportable HTML body.
//
// Stages:
//   - Preprocessing (line endings, byte order mark, Unicode normalization)
//   - Markdown to HTML conversion with one of two engines: "lite", the
//     in-house renderer from internal/markdown, or "gfm", goldmark with
//     syntax highlighting and a sanitizing policy
//   - CSS injection into finished HTML documents
//   - Relative path rewriting for images and links
//
// Document wrapping (MathJax loader, Word and print variants) lives in
// internal/export; PDF rendering lives in the root mdkit package.
package pipeline
