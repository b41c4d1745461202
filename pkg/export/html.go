// Package export renders a content pack as a standalone static HTML page:
// a details/summary accordion that mirrors the terminal view, suitable for
// publishing on an intranet without any runtime.
package export

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/richtext"
)

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("dir").Globally()
	return p
}()

// HTMLOptions controls rendering of the static page.
type HTMLOptions struct {
	// OpenSections lists the section IDs rendered expanded.
	OpenSections []string
}

// WriteHTMLFile renders the page and writes it to path.
func WriteHTMLFile(page *content.Page, path string, opts HTMLOptions) error {
	out, err := GenerateHTML(page, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing HTML export: %w", err)
	}
	return nil
}

// GenerateHTML renders the page as a self-contained HTML document.
func GenerateHTML(page *content.Page, opts HTMLOptions) (string, error) {
	open := make(map[string]bool, len(opts.OpenSections))
	for _, id := range opts.OpenSections {
		open[id] = true
	}

	dir := "rtl"
	lang := "he"
	if !page.RTL() {
		dir = "ltr"
		lang = "en"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=%q dir=%q>\n<head>\n", lang, dir)
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(page.Title))
	b.WriteString("<style>\n" + exportCSS + "</style>\n")
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<header><h1>%s</h1></header>\n<main>\n", html.EscapeString(page.Title))

	for _, sec := range page.Sections {
		openAttr := ""
		if open[sec.ID] {
			openAttr = " open"
		}
		fmt.Fprintf(&b, "<details id=%q%s>\n", html.EscapeString(sec.ID), openAttr)
		fmt.Fprintf(&b, "<summary><span class=\"title\">%s</span>", html.EscapeString(sec.Title))
		if sec.Summary != "" {
			fmt.Fprintf(&b, " <span class=\"summary\">%s</span>", html.EscapeString(sec.Summary))
		}
		b.WriteString("</summary>\n")

		switch sec.Kind {
		case content.KindDirectContent:
			body, err := richTextHTML(sec.Body)
			if err != nil {
				return "", fmt.Errorf("section %s: %w", sec.ID, err)
			}
			fmt.Fprintf(&b, "<div class=\"body\">%s</div>\n", body)

		case content.KindWithSubItems:
			b.WriteString("<ul class=\"subitems\">\n")
			for _, sub := range sec.SubItems {
				// A promoted heading leaves the body, as in the modal.
				title, rest := richtext.SplitTitle(sub.Content)
				if title == "" {
					title = sub.Title
					rest = sub.Content
				}
				body, err := richTextHTML(rest)
				if err != nil {
					return "", fmt.Errorf("sub-item %s: %w", sub.ID, err)
				}
				fmt.Fprintf(&b, "<li id=%q>\n", html.EscapeString(sub.ID))
				if title != "" {
					fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(title))
				}
				fmt.Fprintf(&b, "<div class=\"body\">%s</div>\n</li>\n", body)
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</details>\n")
	}

	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String(), nil
}

// richTextHTML converts rich text to sanitized HTML. Markdown is rendered
// with goldmark; HTML passes through the sanitizer as-is.
func richTextHTML(rt content.RichText) (string, error) {
	raw := rt.Raw
	if rt.EffectiveFormat() == content.FormatMarkdown {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(rt.Raw), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		raw = buf.String()
	}
	return htmlPolicy.Sanitize(raw), nil
}

const exportCSS = `
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 0 auto; padding: 1rem; line-height: 1.6; }
header h1 { border-bottom: 2px solid #6b47d9; padding-bottom: .5rem; }
details { border: 1px solid #ddd; border-radius: 8px; margin: .75rem 0; padding: .5rem 1rem; }
details[open] { border-color: #6b47d9; }
summary { cursor: pointer; font-weight: 600; padding: .25rem 0; }
summary .summary { font-weight: 400; color: #666; font-size: .9em; }
ul.subitems { list-style: none; padding: 0; }
ul.subitems li { border-top: 1px solid #eee; padding: .5rem 0; }
ul.subitems h3 { margin: 0 0 .25rem; font-size: 1em; }
.body { color: #222; }
`
