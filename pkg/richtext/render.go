package richtext

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
	"golang.org/x/net/html"

	"github.com/devForYou1/prat/pkg/content"
)

// Renderer converts rich text fragments to wrapped terminal text.
// HTML is walked directly; markdown goes through glamour with the
// auto-detected style, matching how issue bodies render elsewhere in the
// charm ecosystem.
type Renderer struct {
	width int
	md    *glamour.TermRenderer
}

// NewRenderer creates a renderer wrapping at the given width.
// A glamour failure is tolerated: markdown then falls back to the HTML
// pipeline after a goldmark conversion inside PlainText-style flattening.
func NewRenderer(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		md = nil
	}
	return &Renderer{width: width, md: md}
}

// Width returns the wrap width the renderer was built with.
func (r *Renderer) Width() int { return r.width }

// Render produces terminal text for a fragment.
func (r *Renderer) Render(rt content.RichText) string {
	if rt.IsZero() {
		return ""
	}
	if rt.EffectiveFormat() == content.FormatMarkdown && r.md != nil {
		out, err := r.md.Render(rt.Raw)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return r.renderHTML(rt.Raw)
}

// renderHTML walks the fragment and emits one text block per block-level
// element: headings set off by blank lines, list items bulleted and
// indented, paragraphs word-wrapped.
func (r *Renderer) renderHTML(raw string) string {
	root, err := parseFragment(raw)
	if err != nil {
		return wrapText(collapseSpace(raw), r.width)
	}

	var blocks []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if text := collapseSpace(nodeText(n)); text != "" {
					blocks = append(blocks, wrapText(text, r.width))
				}
				return
			case "p", "blockquote":
				if text := collapseSpace(nodeText(n)); text != "" {
					blocks = append(blocks, wrapText(text, r.width))
				}
				return
			case "ul", "ol":
				var items []string
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.Data == "li" {
						if text := collapseSpace(nodeText(c)); text != "" {
							items = append(items, bulletWrap(text, r.width))
						}
					}
				}
				if len(items) > 0 {
					blocks = append(blocks, strings.Join(items, "\n"))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if len(blocks) == 0 {
		return wrapText(collapseSpace(nodeText(root)), r.width)
	}
	return strings.Join(blocks, "\n\n")
}

// wrapText word-wraps text to a visual width using cell widths, so wide
// characters and Hebrew render without overflowing the panel.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	lineWidth := runewidth.StringWidth(line)
	for _, word := range words[1:] {
		w := runewidth.StringWidth(word)
		if lineWidth+1+w > width {
			lines = append(lines, line)
			line = word
			lineWidth = w
			continue
		}
		line += " " + word
		lineWidth += 1 + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// bulletWrap renders a list item with a bullet on the first line and a
// hanging indent on continuation lines.
func bulletWrap(text string, width int) string {
	wrapped := wrapText(text, width-2)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = "• " + lines[i]
		} else {
			lines[i] = "  " + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
