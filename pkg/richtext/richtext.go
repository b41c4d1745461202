// Package richtext projects the content model's rich text fragments into
// the shapes the viewer needs: an extracted overlay title, searchable plain
// text, clipboard text, and wrapped terminal output.
package richtext

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/devForYou1/prat/pkg/content"
)

// SplitTitle extracts the first heading of a fragment as the overlay title
// and returns the remainder as the body. When the fragment has no heading,
// title is empty and the body is returned unchanged; the caller supplies
// its own fallback title.
func SplitTitle(rt content.RichText) (title string, body content.RichText) {
	if rt.IsZero() {
		return "", rt
	}
	switch rt.EffectiveFormat() {
	case content.FormatMarkdown:
		return splitMarkdownTitle(rt)
	default:
		return splitHTMLTitle(rt)
	}
}

func splitMarkdownTitle(rt content.RichText) (string, content.RichText) {
	lines := strings.Split(rt.Raw, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			return "", rt
		}
		title := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		rest := append(append([]string{}, lines[:i]...), lines[i+1:]...)
		rt.Raw = strings.TrimLeft(strings.Join(rest, "\n"), "\n")
		return title, rt
	}
	return "", rt
}

func splitHTMLTitle(rt content.RichText) (string, content.RichText) {
	root, err := parseFragment(rt.Raw)
	if err != nil {
		return "", rt
	}

	heading := findFirst(root, isHeading)
	if heading == nil {
		return "", rt
	}
	title := strings.TrimSpace(nodeText(heading))
	heading.Parent.RemoveChild(heading)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return title, rt
		}
	}
	rt.Raw = buf.String()
	return title, rt
}

// PlainText flattens a fragment into a single searchable string: markup
// stripped, whitespace collapsed. Markdown is rendered to HTML first so
// both formats flatten identically.
func PlainText(rt content.RichText) string {
	if rt.IsZero() {
		return ""
	}
	raw := rt.Raw
	if rt.EffectiveFormat() == content.FormatMarkdown {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(raw), &buf); err == nil {
			raw = buf.String()
		}
	}
	root, err := parseFragment(raw)
	if err != nil {
		return collapseSpace(raw)
	}
	return collapseSpace(nodeText(root))
}

// CopyText assembles the clipboard payload for a fragment: paragraph and
// heading text joined with newlines, list items prefixed with a bullet.
func CopyText(rt content.RichText) string {
	if rt.IsZero() {
		return ""
	}
	raw := rt.Raw
	if rt.EffectiveFormat() == content.FormatMarkdown {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(raw), &buf); err == nil {
			raw = buf.String()
		}
	}
	root, err := parseFragment(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "h1", "h2", "h3", "h4", "h5", "h6":
				if text := collapseSpace(nodeText(n)); text != "" {
					lines = append(lines, text)
				}
				return
			case "li":
				if text := collapseSpace(nodeText(n)); text != "" {
					lines = append(lines, "• "+text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(lines) == 0 {
		// Fragment with no block elements, e.g. bare text.
		return collapseSpace(nodeText(root))
	}
	return strings.Join(lines, "\n")
}

// parseFragment parses a fragment and returns the implied <body> node.
func parseFragment(raw string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if body := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	}); body != nil {
		return body, nil
	}
	return doc, nil
}

func isHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "h1", "h2", "h3", "h4":
		return true
	}
	return false
}

func findFirst(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, pred); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		// Block boundaries separate words even without whitespace text nodes.
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "ul", "ol", "br", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "tr":
				sb.WriteString(" ")
			}
		}
	}
	walk(n)
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
