package ui

import (
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/richtext"
)

// FallbackTitle is shown when a sub-item's content carries no heading.
const FallbackTitle = "מידע נוסף"

// modalExitDuration is how long the modal lingers in its closing state
// before teardown completes.
const modalExitDuration = 200 * time.Millisecond

// modalState tracks the modal lifecycle.
type modalState int

const (
	modalClosed modalState = iota
	modalOpen
	modalClosing
)

// modalExitMsg finishes a modal close. It carries the generation of the
// close that scheduled it; a reopen bumps the generation so a stale exit
// cannot tear down the new content.
type modalExitMsg struct {
	gen uint64
}

// ContentModal displays a single sub-item's full content over the
// accordion. There is one modal instance per model; Open replaces its
// content rather than stacking.
type ContentModal struct {
	state modalState
	gen   uint64

	sectionID string
	subItemID string
	title     string
	body      content.RichText

	renderer *richtext.Renderer
	theme    Theme
	rtl      bool
	width    int
	height   int
	offset   int // scroll offset within rendered body

	copied   bool      // Flash feedback for clipboard copy
	copiedAt time.Time // When copy happened
}

// NewContentModal creates a closed modal.
func NewContentModal(theme Theme, rtl bool) ContentModal {
	m := ContentModal{
		theme:  theme,
		rtl:    rtl,
		width:  70,
		height: 20,
	}
	m.renderer = richtext.NewRenderer(m.width - 6)
	return m
}

// Open shows the modal for the given sub-item, replacing any current
// content. Opening while a close is in flight invalidates that close.
func (m *ContentModal) Open(sectionID string, sub content.SubItem) {
	m.gen++
	m.state = modalOpen
	m.sectionID = sectionID
	m.subItemID = sub.ID
	m.offset = 0
	m.copied = false

	// The first content heading is the modal title and leaves the body.
	// The row label is only a fallback for heading-less content.
	title, body := richtext.SplitTitle(sub.Content)
	if title == "" {
		title = sub.Title
		body = sub.Content
	}
	if title == "" {
		title = FallbackTitle
	}
	m.title = title
	m.body = body
}

// Close begins the exit transition and returns the command that completes
// it. Teardown happens only when the returned command's message arrives
// with a matching generation.
func (m *ContentModal) Close() tea.Cmd {
	if m.state != modalOpen {
		return nil
	}
	m.state = modalClosing
	gen := m.gen
	return tea.Tick(modalExitDuration, func(time.Time) tea.Msg {
		return modalExitMsg{gen: gen}
	})
}

// HandleExit completes a close if the exit message is current. Stale
// messages from a superseded close are dropped.
func (m *ContentModal) HandleExit(msg modalExitMsg) {
	if msg.gen != m.gen || m.state != modalClosing {
		return
	}
	m.state = modalClosed
	m.sectionID = ""
	m.subItemID = ""
	m.title = ""
	m.body = content.RichText{}
	m.offset = 0
}

// Visible reports whether the modal occupies the screen (open or mid-exit).
func (m ContentModal) Visible() bool {
	return m.state != modalClosed
}

// IsOpen reports whether the modal is fully open and accepting input.
func (m ContentModal) IsOpen() bool {
	return m.state == modalOpen
}

// SectionID returns the section the displayed sub-item belongs to.
func (m ContentModal) SectionID() string { return m.sectionID }

// SubItemID returns the displayed sub-item's ID.
func (m ContentModal) SubItemID() string { return m.subItemID }

// Title returns the displayed title.
func (m ContentModal) Title() string { return m.title }

// SetSize sets the modal dimensions based on terminal size.
func (m *ContentModal) SetSize(width, height int) {
	maxWidth := width - 10
	if maxWidth < 40 {
		maxWidth = 40
	}
	if maxWidth > 90 {
		maxWidth = 90
	}
	m.width = maxWidth

	maxHeight := height - 6
	if maxHeight < 8 {
		maxHeight = 8
	}
	m.height = maxHeight
	m.renderer = richtext.NewRenderer(m.width - 6)
}

// Update handles input for an open modal.
func (m ContentModal) Update(msg tea.Msg) (ContentModal, tea.Cmd) {
	if m.state != modalOpen {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			m.offset++
		case "k", "up":
			if m.offset > 0 {
				m.offset--
			}
		case "g", "home":
			m.offset = 0
		case "y", "c":
			if err := clipboard.WriteAll(richtext.CopyText(m.body)); err == nil {
				m.copied = true
				m.copiedAt = time.Now()
			}
		}
	}
	return m, nil
}

// View renders the modal.
func (m ContentModal) View() string {
	if m.state == modalClosed {
		return ""
	}
	r := m.theme.Renderer

	// Copy flash is shown within 2 seconds of the copy
	showCopied := m.copied && time.Since(m.copiedAt) <= 2*time.Second

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Primary).
		Padding(1, 2).
		Width(m.width)

	headerStyle := r.NewStyle().
		Bold(true).
		Foreground(m.theme.Primary)

	footerStyle := r.NewStyle().
		Foreground(m.theme.Subtext).
		Italic(true)

	innerWidth := m.width - 6

	var b strings.Builder
	b.WriteString(alignLine(headerStyle.Render(truncate(m.title, innerWidth)), innerWidth, m.rtl))
	b.WriteString("\n\n")

	body := strings.TrimRight(m.renderer.Render(m.body), "\n")
	bodyLines := strings.Split(body, "\n")

	// Window the body by the scroll offset
	maxBody := m.height - 6
	if maxBody < 3 {
		maxBody = 3
	}
	offset := m.offset
	if offset > len(bodyLines)-1 {
		offset = len(bodyLines) - 1
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + maxBody
	if end > len(bodyLines) {
		end = len(bodyLines)
	}
	for _, l := range bodyLines[offset:end] {
		b.WriteString(alignLine(l, innerWidth, m.rtl))
		b.WriteString("\n")
	}
	if end < len(bodyLines) {
		b.WriteString(m.theme.MutedText.Render("↓"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	footerText := "[j/k] גלילה    [y] העתקה    [Esc] סגירה"
	if showCopied {
		footerText = "[j/k] גלילה    ✓ הועתק!    [Esc] סגירה"
	}
	if !m.rtl {
		footerText = "[j/k] Scroll    [y] Copy    [Esc] Close"
		if showCopied {
			footerText = "[j/k] Scroll    ✓ Copied!    [Esc] Close"
		}
	}
	b.WriteString(alignLine(footerStyle.Render(footerText), innerWidth, m.rtl))

	return modalStyle.Render(b.String())
}

// CenterModal returns the modal view centered in the given dimensions.
func (m ContentModal) CenterModal(termWidth, termHeight int) string {
	modal := m.View()
	if modal == "" {
		return ""
	}

	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)

	padTop := (termHeight - modalHeight) / 2
	padLeft := (termWidth - modalWidth) / 2
	if padTop < 0 {
		padTop = 0
	}
	if padLeft < 0 {
		padLeft = 0
	}

	r := m.theme.Renderer
	return r.NewStyle().
		MarginTop(padTop).
		MarginLeft(padLeft).
		Render(modal)
}
