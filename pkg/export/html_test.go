package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devForYou1/prat/pkg/content"
)

func testPage() *content.Page {
	return &content.Page{
		ID:        "benefits",
		Title:     "זכויות ורווחה",
		Direction: "rtl",
		Sections: []content.Section{
			{
				ID:    "leave",
				Title: "חופשות",
				Kind:  content.KindWithSubItems,
				SubItems: []content.SubItem{
					{
						ID:      "maternity",
						Title:   "חופשת לידה",
						Content: content.RichText{Format: content.FormatMarkdown, Raw: "זכאות של **15 שבועות**."},
					},
					{
						ID:      "sick",
						Content: content.RichText{Format: content.FormatHTML, Raw: "<h2>ימי מחלה</h2><p>צבירה של 1.5 ימים בחודש.</p>"},
					},
				},
			},
			{
				ID:      "parking",
				Title:   "חניה",
				Summary: "הסדרי חניה לעובדים",
				Kind:    content.KindDirectContent,
				Body:    content.RichText{Format: content.FormatMarkdown, Raw: "חניון העובדים פתוח בין 6:00 ל-22:00."},
			},
		},
	}
}

func TestGenerateHTML_Structure(t *testing.T) {
	out, err := GenerateHTML(testPage(), HTMLOptions{OpenSections: []string{"leave"}})
	if err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	checks := []string{
		`<html lang="he" dir="rtl">`,
		`<title>זכויות ורווחה</title>`,
		`<details id="leave" open>`,
		`<details id="parking">`,
		`<span class="summary">הסדרי חניה לעובדים</span>`,
		`<li id="maternity">`,
		`<h3>חופשת לידה</h3>`,
		`<strong>15 שבועות</strong>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerateHTML_TitleFromContentHeading(t *testing.T) {
	out, err := GenerateHTML(testPage(), HTMLOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// Untitled sub-item uses its content's first heading
	if !strings.Contains(out, "<h3>ימי מחלה</h3>") {
		t.Error("expected sub-item title extracted from content heading")
	}
	// The promoted heading leaves the body, so it appears exactly once.
	if got := strings.Count(out, "ימי מחלה"); got != 1 {
		t.Errorf("heading appears %d times, want 1", got)
	}
	if strings.Contains(out, "<h2>") {
		t.Error("expected original content heading removed from the body")
	}
}

func TestGenerateHTML_TitledSubItemHeadingNotDuplicated(t *testing.T) {
	page := testPage()
	page.Sections[0].SubItems[0].Content = content.RichText{
		Format: content.FormatMarkdown,
		Raw:    "# פרטי חופשת לידה\n\nזכאות של 15 שבועות.",
	}

	out, err := GenerateHTML(page, HTMLOptions{})
	if err != nil {
		t.Fatal(err)
	}
	// The content heading wins over the sub-item title.
	if !strings.Contains(out, "<h3>פרטי חופשת לידה</h3>") {
		t.Error("expected promoted content heading as the item title")
	}
	if got := strings.Count(out, "פרטי חופשת לידה"); got != 1 {
		t.Errorf("heading appears %d times, want 1", got)
	}
}

func TestGenerateHTML_SanitizesScript(t *testing.T) {
	page := &content.Page{
		ID:    "p",
		Title: "Docs",
		Sections: []content.Section{
			{
				ID:    "s",
				Title: "Section",
				Kind:  content.KindDirectContent,
				Body: content.RichText{
					Format: content.FormatHTML,
					Raw:    `<p>ok</p><script>alert("xss")</script>`,
				},
			},
		},
	}

	out, err := GenerateHTML(page, HTMLOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected script tags stripped")
	}
	if !strings.Contains(out, "<p>ok</p>") {
		t.Error("expected safe markup preserved")
	}
}

func TestGenerateHTML_LTRPage(t *testing.T) {
	page := &content.Page{
		ID:        "p",
		Title:     "Handbook",
		Direction: "ltr",
		Sections: []content.Section{
			{
				ID:    "s",
				Title: "Intro",
				Kind:  content.KindDirectContent,
				Body:  content.RichText{Format: content.FormatMarkdown, Raw: "Welcome."},
			},
		},
	}

	out, err := GenerateHTML(page, HTMLOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<html lang="en" dir="ltr">`) {
		t.Error("expected ltr document")
	}
}

func TestWriteHTMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")

	if err := WriteHTMLFile(testPage(), path, HTMLOptions{}); err != nil {
		t.Fatalf("WriteHTMLFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("expected HTML doctype in written file")
	}
}
