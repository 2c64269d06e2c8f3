package pipeline

import (
	"errors"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrEmptyPrefix is returned when a URL-prefix rewriter has no prefix.
var ErrEmptyPrefix = errors.New("path rewrite prefix cannot be empty")

// PathRewriter rewrites relative img[src] and a[href] values. Anchors, URLs
// with a scheme, protocol-relative URLs and absolute paths are left alone,
// as is any path that would escape its base.
type PathRewriter struct {
	resolve func(rel string) (string, bool)
}

// NewFileURLRewriter resolves relative paths against sourceDir and emits
// file:// URLs, which is what headless Chrome needs to load local images
// from a temp file. An empty sourceDir yields a rewriter that changes nothing.
func NewFileURLRewriter(sourceDir string) (*PathRewriter, error) {
	if sourceDir == "" {
		return &PathRewriter{}, nil
	}
	base, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, err
	}

	return &PathRewriter{resolve: func(rel string) (string, bool) {
		abs := filepath.Join(base, filepath.FromSlash(rel))
		if !isPathUnderDir(abs, base) {
			return "", false
		}
		u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
		return u.String(), true
	}}, nil
}

// NewPrefixRewriter maps relative paths under a URL prefix, as used by the
// preview server to serve files next to the document.
func NewPrefixRewriter(prefix string) (*PathRewriter, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	prefix = strings.TrimSuffix(prefix, "/")

	return &PathRewriter{resolve: func(rel string) (string, bool) {
		cleaned := path.Clean(strings.ReplaceAll(rel, `\`, "/"))
		if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
			return "", false
		}
		return prefix + "/" + cleaned, true
	}}, nil
}

// Rewrite applies the rewriter to an HTML fragment or full document and
// re-renders it. A rewriter without a base returns htmlContent as is.
func (p *PathRewriter) Rewrite(htmlContent string) (string, error) {
	if p == nil || p.resolve == nil {
		return htmlContent, nil
	}

	root, fragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}
	p.walk(root)
	return renderHTML(root, fragment)
}

func (p *PathRewriter) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Img:
			p.rewriteAttr(n, "src")
		case atom.A:
			p.rewriteAttr(n, "href")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *PathRewriter) rewriteAttr(n *html.Node, key string) {
	for i, attr := range n.Attr {
		if attr.Key != key || !isRelativePath(attr.Val) {
			continue
		}
		if v, ok := p.resolve(attr.Val); ok {
			n.Attr[i].Val = v
		}
	}
}

// parseHTML parses a full document or, failing a doctype/html prefix, a
// body fragment wrapped in a synthetic document node.
func parseHTML(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, true, nil
}

func renderHTML(root *html.Node, fragment bool) (string, error) {
	var buf strings.Builder
	if !fragment {
		err := html.Render(&buf, root)
		return buf.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// isRelativePath reports whether p is a plain relative path.
func isRelativePath(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	if u, err := url.Parse(p); err != nil || u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

func isPathUnderDir(absPath, dir string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(absPath))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
