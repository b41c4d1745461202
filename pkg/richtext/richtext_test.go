package richtext

import (
	"strings"
	"testing"

	"github.com/devForYou1/prat/pkg/content"
)

func md(raw string) content.RichText {
	return content.RichText{Format: content.FormatMarkdown, Raw: raw}
}

func htm(raw string) content.RichText {
	return content.RichText{Format: content.FormatHTML, Raw: raw}
}

func TestSplitTitle_Markdown(t *testing.T) {
	title, body := SplitTitle(md("# חופשת לידה\n\nזכאות של 15 שבועות."))
	if title != "חופשת לידה" {
		t.Errorf("expected heading extracted, got %q", title)
	}
	if strings.Contains(body.Raw, "#") {
		t.Errorf("expected heading removed from body, got %q", body.Raw)
	}
	if !strings.Contains(body.Raw, "15 שבועות") {
		t.Errorf("expected body text preserved, got %q", body.Raw)
	}
}

func TestSplitTitle_MarkdownNoHeading(t *testing.T) {
	rt := md("טקסט בלי כותרת.")
	title, body := SplitTitle(rt)
	if title != "" {
		t.Errorf("expected no title, got %q", title)
	}
	if body.Raw != rt.Raw {
		t.Errorf("expected body unchanged, got %q", body.Raw)
	}
}

func TestSplitTitle_MarkdownBodyBeforeHeading(t *testing.T) {
	// A heading that is not the first content line is not a title.
	title, _ := SplitTitle(md("הקדמה.\n\n# כותרת באמצע"))
	if title != "" {
		t.Errorf("expected no title when text precedes heading, got %q", title)
	}
}

func TestSplitTitle_HTML(t *testing.T) {
	title, body := SplitTitle(htm("<h2>ימי מחלה</h2><p>צבירה של 1.5 ימים.</p>"))
	if title != "ימי מחלה" {
		t.Errorf("expected h2 text, got %q", title)
	}
	if strings.Contains(body.Raw, "<h2>") {
		t.Errorf("expected heading removed, got %q", body.Raw)
	}
	if !strings.Contains(body.Raw, "1.5 ימים") {
		t.Errorf("expected paragraph preserved, got %q", body.Raw)
	}
}

func TestSplitTitle_HTMLNoHeading(t *testing.T) {
	rt := htm("<p>רק פסקה.</p>")
	title, body := SplitTitle(rt)
	if title != "" {
		t.Errorf("expected no title, got %q", title)
	}
	if !strings.Contains(body.Raw, "רק פסקה") {
		t.Errorf("expected body preserved, got %q", body.Raw)
	}
}

func TestSplitTitle_Empty(t *testing.T) {
	title, body := SplitTitle(content.RichText{})
	if title != "" || !body.IsZero() {
		t.Error("expected empty results for zero rich text")
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		rt   content.RichText
		want string
	}{
		{
			"html markup stripped",
			htm("<h2>כותרת</h2><p>שורה <strong>ראשונה</strong>.</p>"),
			"כותרת שורה ראשונה.",
		},
		{
			"markdown rendered then stripped",
			md("# כותרת\n\nשורה **מודגשת** אחת."),
			"כותרת שורה מודגשת אחת.",
		},
		{
			"whitespace collapsed",
			htm("<p>  הרבה \n רווחים  </p>"),
			"הרבה רווחים",
		},
		{
			"empty",
			content.RichText{},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.rt); got != tt.want {
				t.Errorf("PlainText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyText_BlocksAndBullets(t *testing.T) {
	got := CopyText(htm("<h2>הטבות</h2><p>פסקה.</p><ul><li>ראשון</li><li>שני</li></ul>"))
	want := "הטבות\nפסקה.\n• ראשון\n• שני"
	if got != want {
		t.Errorf("CopyText = %q, want %q", got, want)
	}
}

func TestCopyText_Markdown(t *testing.T) {
	got := CopyText(md("# הטבות\n\n- ראשון\n- שני"))
	if !strings.HasPrefix(got, "הטבות\n") {
		t.Errorf("expected heading first, got %q", got)
	}
	if !strings.Contains(got, "• ראשון") || !strings.Contains(got, "• שני") {
		t.Errorf("expected bulleted items, got %q", got)
	}
}

func TestCopyText_BareText(t *testing.T) {
	if got := CopyText(htm("טקסט חופשי")); got != "טקסט חופשי" {
		t.Errorf("expected bare text passthrough, got %q", got)
	}
}

func TestRenderer_HTMLBlocks(t *testing.T) {
	r := NewRenderer(40)
	out := r.Render(htm("<h2>כותרת</h2><p>פסקה קצרה.</p><ul><li>פריט</li></ul>"))

	if !strings.Contains(out, "כותרת") {
		t.Errorf("expected heading in output, got %q", out)
	}
	if !strings.Contains(out, "• פריט") {
		t.Errorf("expected bulleted item, got %q", out)
	}
	if strings.Contains(out, "<") {
		t.Errorf("expected no markup in terminal output, got %q", out)
	}
}

func TestRenderer_WrapsLongLines(t *testing.T) {
	r := NewRenderer(20)
	out := r.Render(htm("<p>" + strings.Repeat("מילה ", 20) + "</p>"))

	for _, line := range strings.Split(out, "\n") {
		if len([]rune(line)) > 20 {
			t.Errorf("line exceeds wrap width: %q", line)
		}
	}
}

func TestRenderer_EmptyFragment(t *testing.T) {
	r := NewRenderer(40)
	if out := r.Render(content.RichText{}); out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestWrapText_HangingBullet(t *testing.T) {
	out := bulletWrap("one two three four five six seven", 12)
	lines := strings.Split(out, "\n")
	if len(lines) < 2 {
		t.Fatalf("expected wrapped bullet, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "• ") {
		t.Errorf("expected bullet prefix, got %q", lines[0])
	}
	for _, l := range lines[1:] {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("expected hanging indent, got %q", l)
		}
	}
}
