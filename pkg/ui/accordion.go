package ui

import (
	"strings"

	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/richtext"
	"github.com/devForYou1/prat/pkg/viewstate"
)

// rowKind identifies what a selectable accordion row points at.
type rowKind int

const (
	rowSection rowKind = iota
	rowSubItem
)

// Row is a selectable line in the accordion: a section header or a
// sub-item entry under an open section.
type Row struct {
	Kind      rowKind
	SectionID string
	SubItemID string
}

// IsSection reports whether the row is a section header.
func (r Row) IsSection() bool { return r.Kind == rowSection }

// Accordion renders the filtered section list with expand/collapse state.
// Navigation moves over selectable rows; scrolling is line-based so long
// section bodies stay readable.
type Accordion struct {
	page     *content.Page
	view     viewstate.View
	renderer *richtext.Renderer
	theme    Theme

	width  int
	height int

	rows     []Row
	cursor   int
	offset   int // first visible display line
	rowLines []int

	scrollTopThreshold int
}

// NewAccordion creates an accordion over the given page.
func NewAccordion(page *content.Page, theme Theme, scrollTopThreshold int) *Accordion {
	if scrollTopThreshold <= 0 {
		scrollTopThreshold = 10
	}
	a := &Accordion{
		page:               page,
		theme:              theme,
		width:              80,
		height:             24,
		scrollTopThreshold: scrollTopThreshold,
	}
	a.renderer = richtext.NewRenderer(a.contentWidth())
	return a
}

// SetSize updates the accordion viewport dimensions.
func (a *Accordion) SetSize(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 1 {
		height = 1
	}
	a.width = width
	a.height = height
	a.renderer = richtext.NewRenderer(a.contentWidth())
}

func (a *Accordion) contentWidth() int {
	w := a.width - 4
	if w < 16 {
		w = 16
	}
	return w
}

// SetView replaces the derived view state and rebuilds the row list.
// The cursor is clamped and, when the previously selected row survives,
// kept on it.
func (a *Accordion) SetView(v viewstate.View) {
	var prev Row
	if a.cursor >= 0 && a.cursor < len(a.rows) {
		prev = a.rows[a.cursor]
	}

	a.view = v
	a.rebuildRows()

	a.cursor = 0
	for i, r := range a.rows {
		if r.SectionID == prev.SectionID && r.SubItemID == prev.SubItemID {
			a.cursor = i
			break
		}
	}
	if a.cursor >= len(a.rows) {
		a.cursor = 0
	}
	a.ensureCursorVisible()
}

func (a *Accordion) rebuildRows() {
	a.rows = a.rows[:0]
	for _, sec := range a.page.Sections {
		sv, ok := a.view.Sections[sec.ID]
		if !ok || !sv.Visible {
			continue
		}
		a.rows = append(a.rows, Row{Kind: rowSection, SectionID: sec.ID})
		if !sv.Open || sec.Kind != content.KindWithSubItems {
			continue
		}
		for _, sub := range sec.SubItems {
			if sv.SubItems[sub.ID] {
				a.rows = append(a.rows, Row{Kind: rowSubItem, SectionID: sec.ID, SubItemID: sub.ID})
			}
		}
	}
}

// SubItemTitle returns the display label for a sub-item row: its title,
// else its content's first heading, else the fallback title.
func SubItemTitle(sub content.SubItem) string {
	if sub.Title != "" {
		return sub.Title
	}
	if title, _ := richtext.SplitTitle(sub.Content); title != "" {
		return title
	}
	return FallbackTitle
}

// CursorRow returns the currently selected row and whether one exists.
func (a *Accordion) CursorRow() (Row, bool) {
	if a.cursor < 0 || a.cursor >= len(a.rows) {
		return Row{}, false
	}
	return a.rows[a.cursor], true
}

// MoveDown moves the cursor to the next selectable row.
func (a *Accordion) MoveDown() {
	if a.cursor < len(a.rows)-1 {
		a.cursor++
		a.ensureCursorVisible()
	}
}

// MoveUp moves the cursor to the previous selectable row.
func (a *Accordion) MoveUp() {
	if a.cursor > 0 {
		a.cursor--
		a.ensureCursorVisible()
	}
}

// ScrollToTop jumps the viewport and cursor back to the first row.
func (a *Accordion) ScrollToTop() {
	a.cursor = 0
	a.offset = 0
}

// ScrollDown scrolls the viewport one line without moving the cursor.
func (a *Accordion) ScrollDown() {
	a.offset++
}

// ScrollUp scrolls the viewport one line without moving the cursor.
func (a *Accordion) ScrollUp() {
	if a.offset > 0 {
		a.offset--
	}
}

// Scrolled reports whether the viewport has scrolled past the
// back-to-top threshold.
func (a *Accordion) Scrolled() bool {
	return a.offset > a.scrollTopThreshold
}

// Offset returns the current scroll offset in display lines.
func (a *Accordion) Offset() int {
	return a.offset
}

// ensureCursorVisible adjusts the scroll offset so the cursor's display
// line falls inside the viewport.
func (a *Accordion) ensureCursorVisible() {
	lines := a.buildLines()
	if a.cursor < 0 || a.cursor >= len(a.rowLines) {
		return
	}
	line := a.rowLines[a.cursor]
	if line < a.offset {
		a.offset = line
	} else if line >= a.offset+a.height {
		a.offset = line - a.height + 1
	}
	if max := len(lines) - a.height; a.offset > max {
		a.offset = max
	}
	if a.offset < 0 {
		a.offset = 0
	}
}

// View renders the visible window of the accordion.
func (a *Accordion) View() string {
	lines := a.buildLines()
	if len(lines) == 0 {
		return ""
	}

	start := a.offset
	if start > len(lines) {
		start = len(lines)
	}
	end := start + a.height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// buildLines renders every visible section into display lines and records
// the line index of each selectable row.
func (a *Accordion) buildLines() []string {
	rtl := a.page.RTL()
	var lines []string
	a.rowLines = a.rowLines[:0]
	rowIdx := 0

	appendRowLine := func(text string, selected bool) {
		if selected {
			text = a.theme.Selected.Render(text)
		} else {
			text = " " + text
		}
		a.rowLines = append(a.rowLines, len(lines))
		lines = append(lines, alignLine(text, a.width, rtl))
	}

	for _, sec := range a.page.Sections {
		sv, ok := a.view.Sections[sec.ID]
		if !ok || !sv.Visible {
			continue
		}

		chevron := "▸"
		titleStyle := a.theme.SectionTitle
		if sv.Open {
			chevron = "▾"
			titleStyle = a.theme.SectionOpen
		}
		title := truncate(sec.Title, a.contentWidth())
		header := titleStyle.Render(title) + " " + chevron
		if !rtl {
			header = chevron + " " + titleStyle.Render(title)
		}
		appendRowLine(header, rowIdx == a.cursor)
		rowIdx++

		if sec.Summary != "" && !sv.Open {
			summary := a.theme.SummaryText.Render(truncate(sec.Summary, a.contentWidth()))
			lines = append(lines, alignLine("  "+summary, a.width, rtl))
		}

		if !sv.Open {
			lines = append(lines, "")
			continue
		}

		switch sec.Kind {
		case content.KindDirectContent:
			body := a.renderer.Render(sec.Body)
			for _, l := range strings.Split(strings.TrimRight(body, "\n"), "\n") {
				lines = append(lines, alignLine("  "+l, a.width, rtl))
			}

		case content.KindWithSubItems:
			for _, sub := range sec.SubItems {
				if !sv.SubItems[sub.ID] {
					continue
				}
				subTitle := SubItemTitle(sub)
				entry := a.theme.SubItemText.Render(truncate(subTitle, a.contentWidth()-2)) + " •"
				if !rtl {
					entry = "• " + a.theme.SubItemText.Render(truncate(subTitle, a.contentWidth()-2))
				}
				selected := rowIdx == a.cursor
				if selected {
					entry = a.theme.Selected.Render(" " + entry)
				} else {
					entry = "   " + entry
				}
				a.rowLines = append(a.rowLines, len(lines))
				lines = append(lines, alignLine(entry, a.width, rtl))
				rowIdx++
			}
		}
		lines = append(lines, "")
	}

	return lines
}
