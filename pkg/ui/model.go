// Package ui implements the terminal interface: an accordion of document
// sections with debounced search, a content modal for sub-items, and live
// reload of the content pack.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devForYou1/prat/pkg/config"
	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/debug"
	"github.com/devForYou1/prat/pkg/richtext"
	"github.com/devForYou1/prat/pkg/viewstate"
	"github.com/devForYou1/prat/pkg/watcher"
)

// focusArea identifies which component receives keystrokes.
type focusArea int

const (
	focusList focusArea = iota
	focusSearch
)

// Messages produced by background work.
type (
	// fileChangedMsg arrives when the watched content pack changed on disk.
	fileChangedMsg struct{}

	// contentReloadedMsg carries a freshly loaded page.
	contentReloadedMsg struct {
		page *content.Page
	}

	// reloadErrMsg reports a failed reload; the current page stays up.
	reloadErrMsg struct {
		err error
	}

	// copyDoneMsg reports a finished clipboard write.
	copyDoneMsg struct {
		ok bool
	}
)

// ViewedRecorder persists which sub-items the user opened. Implemented by
// the state store; nil disables persistence.
type ViewedRecorder interface {
	RecordViewed(pageID, sectionID, subItemID string, at time.Time) error
	SaveOpenSections(pageID string, open map[string]bool) error
}

// LoadFunc reloads the content pack from disk.
type LoadFunc func() (*content.Page, error)

// Model is the root Bubble Tea model.
type Model struct {
	cfg   config.Config
	theme Theme

	page  *content.Page
	index *viewstate.Index
	view  viewstate.View
	open  map[string]bool

	accordion *Accordion
	search    SearchBar
	modal     ContentModal
	focus     focusArea

	watcher *watcher.Watcher
	load    LoadFunc
	store   ViewedRecorder
	recent  []string

	width  int
	height int
	status string
	err    error

	showHelp    bool
	confirmQuit bool
	quitting    bool
}

// NewModel builds the root model for a loaded page.
func NewModel(page *content.Page, cfg config.Config, theme Theme) Model {
	rtl := page.RTL()
	debounce := time.Duration(cfg.Search.DebounceMs) * time.Millisecond

	open := make(map[string]bool, len(cfg.Content.DefaultOpenSections))
	for _, id := range cfg.Content.DefaultOpenSections {
		if page.Section(id) != nil {
			open[id] = true
		}
	}

	m := Model{
		cfg:       cfg,
		theme:     theme,
		page:      page,
		index:     viewstate.NewIndex(page),
		open:      open,
		accordion: NewAccordion(page, theme, cfg.UI.ScrollTopThreshold),
		search:    NewSearchBar(theme, rtl, debounce),
		modal:     NewContentModal(theme, rtl),
	}
	m.applyFilter()
	return m
}

// SetWatcher attaches a running file watcher so edits reload the page.
func (m *Model) SetWatcher(w *watcher.Watcher, load LoadFunc) {
	m.watcher = w
	m.load = load
}

// SetStore attaches view-state persistence.
func (m *Model) SetStore(s ViewedRecorder) {
	m.store = s
}

// SetRecentlyViewed supplies the persisted recently-viewed sub-item titles
// shown on the help overlay.
func (m *Model) SetRecentlyViewed(titles []string) {
	m.recent = titles
}

// RestoreOpenSections merges persisted open state over the configured
// defaults. Unknown section IDs are dropped.
func (m *Model) RestoreOpenSections(open map[string]bool) {
	for id, isOpen := range open {
		if m.page.Section(id) != nil {
			m.open[id] = isOpen
		}
	}
	m.applyFilter()
}

// Init starts background subscriptions.
func (m Model) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForChange(m.watcher)
}

// waitForChange blocks on the watcher and resolves to fileChangedMsg.
func waitForChange(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return fileChangedMsg{}
	}
}

// reloadContent re-reads the content pack off the UI goroutine.
func reloadContent(load LoadFunc) tea.Cmd {
	return func() tea.Msg {
		page, err := load()
		if err != nil {
			return reloadErrMsg{err: err}
		}
		return contentReloadedMsg{page: page}
	}
}

// applyFilter re-derives the visible view from the applied query and the
// current open state.
func (m *Model) applyFilter() {
	m.view = m.index.Derive(m.search.Query(), m.open)
	m.accordion.SetView(m.view)
}

// Update routes messages to the focused component.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.accordion.SetSize(msg.Width, m.listHeight())
		m.modal.SetSize(msg.Width, msg.Height)
		return m, nil

	case modalExitMsg:
		m.modal.HandleExit(msg)
		return m, nil

	case searchDebounceMsg:
		if m.search.HandleDebounce(msg) {
			debug.Log("search applied: %q", m.search.Query())
			m.applyFilter()
		}
		return m, nil

	case fileChangedMsg:
		if m.load == nil {
			return m, nil
		}
		return m, tea.Batch(reloadContent(m.load), waitForChange(m.watcher))

	case contentReloadedMsg:
		return m.handleReload(msg.page), nil

	case reloadErrMsg:
		m.err = msg.err
		m.status = fmt.Sprintf("reload failed: %v", msg.err)
		return m, nil

	case copyDoneMsg:
		if msg.ok {
			m.status = "הועתק!"
			if !m.page.RTL() {
				m.status = "Copied!"
			}
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusSearch {
		before := m.search.Query()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Query() != before {
			m.applyFilter()
		}
		return m, cmd
	}
	return m, nil
}

// handleReload swaps in a freshly loaded page, keeping whatever open state
// still applies.
func (m Model) handleReload(page *content.Page) Model {
	m.page = page
	m.index = viewstate.NewIndex(page)
	m.err = nil
	m.status = "הדף נטען מחדש"
	if !page.RTL() {
		m.status = "content reloaded"
	}

	open := make(map[string]bool, len(m.open))
	for id, isOpen := range m.open {
		if page.Section(id) != nil {
			open[id] = isOpen
		}
	}
	m.open = open

	m.accordion = NewAccordion(page, m.theme, m.cfg.UI.ScrollTopThreshold)
	m.accordion.SetSize(m.width, m.listHeight())
	m.applyFilter()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		switch msg.String() {
		case "y", "enter":
			m.quitting = true
			return m, tea.Quit
		default:
			m.confirmQuit = false
			return m, nil
		}
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	// The modal captures all input while open.
	if m.modal.IsOpen() {
		switch msg.String() {
		case "esc", "q", "enter":
			return m, m.modal.Close()
		default:
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.search.Clear() {
			m.applyFilter()
		}
		m.search.Blur()
		m.focus = focusList
		return m, nil
	case "enter":
		m.search.Blur()
		m.focus = focusList
		return m, nil
	}

	before := m.search.Query()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Query() != before {
		m.applyFilter()
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "q":
		m.confirmQuit = true
		return m, nil

	case "?":
		m.showHelp = true
		return m, nil

	case "y":
		return m, m.copyCursorCmd()

	case "/":
		m.focus = focusSearch
		return m, m.search.Focus()

	case "esc":
		if m.search.Clear() {
			m.applyFilter()
		}
		return m, nil

	case "j", "down":
		m.accordion.MoveDown()
		return m, nil

	case "k", "up":
		m.accordion.MoveUp()
		return m, nil

	case "ctrl+d":
		m.accordion.ScrollDown()
		return m, nil

	case "ctrl+u":
		m.accordion.ScrollUp()
		return m, nil

	case "t", "g", "home":
		m.accordion.ScrollToTop()
		return m, nil

	case "enter", " ":
		return m.activateCursor()
	}
	return m, nil
}

// activateCursor toggles the selected section or opens the selected
// sub-item in the modal.
func (m Model) activateCursor() (tea.Model, tea.Cmd) {
	row, ok := m.accordion.CursorRow()
	if !ok {
		return m, nil
	}

	if row.IsSection() {
		nowOpen := !m.open[row.SectionID]
		if m.cfg.UI.ExclusiveSections && nowOpen {
			for id := range m.open {
				m.open[id] = false
			}
		}
		m.open[row.SectionID] = nowOpen
		m.applyFilter()
		return m, m.persistOpenCmd()
	}

	sec := m.page.Section(row.SectionID)
	if sec == nil {
		return m, nil
	}
	sub := sec.SubItem(row.SubItemID)
	if sub == nil {
		return m, nil
	}
	m.modal.Open(sec.ID, *sub)
	m.modal.SetSize(m.width, m.height)
	return m, m.recordViewedCmd(sec.ID, sub.ID)
}

// copyCursorCmd copies the selected row's content to the clipboard.
// Section headers copy only direct bodies; sub-item rows copy their content.
func (m Model) copyCursorCmd() tea.Cmd {
	row, ok := m.accordion.CursorRow()
	if !ok {
		return nil
	}
	sec := m.page.Section(row.SectionID)
	if sec == nil {
		return nil
	}

	var rt content.RichText
	if row.IsSection() {
		if sec.Kind != content.KindDirectContent {
			return nil
		}
		rt = sec.Body
	} else {
		sub := sec.SubItem(row.SubItemID)
		if sub == nil {
			return nil
		}
		rt = sub.Content
	}

	text := richtext.CopyText(rt)
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			debug.Log("clipboard write: %v", err)
			return copyDoneMsg{ok: false}
		}
		return copyDoneMsg{ok: true}
	}
}

func (m Model) persistOpenCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, pageID := m.store, m.page.ID
	open := make(map[string]bool, len(m.open))
	for id, isOpen := range m.open {
		open[id] = isOpen
	}
	return func() tea.Msg {
		if err := store.SaveOpenSections(pageID, open); err != nil {
			debug.Log("persist open sections: %v", err)
		}
		return nil
	}
}

func (m Model) recordViewedCmd(sectionID, subItemID string) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store, pageID := m.store, m.page.ID
	return func() tea.Msg {
		if err := store.RecordViewed(pageID, sectionID, subItemID, time.Now()); err != nil {
			debug.Log("record viewed: %v", err)
		}
		return nil
	}
}

// listHeight is the number of rows available to the accordion.
func (m Model) listHeight() int {
	// header + search + divider + status
	chrome := 4
	if m.cfg.UI.Headless {
		chrome = 3
	}
	h := m.height - chrome
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the full screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	rtl := m.page.RTL()

	searchLine := m.search.View(m.width)

	var body string
	if m.confirmQuit {
		prompt := "לצאת? (y)"
		if !rtl {
			prompt = "Quit? (y)"
		}
		body = lipgloss.Place(m.width, m.listHeight(),
			lipgloss.Center, lipgloss.Center,
			m.theme.Banner.Render(prompt))
	} else if m.showHelp {
		body = lipgloss.Place(m.width, m.listHeight(),
			lipgloss.Center, lipgloss.Center,
			m.helpView())
	} else if m.modal.Visible() {
		body = m.modal.CenterModal(m.width, m.listHeight())
	} else if m.view.NoResults {
		banner := "לא נמצאו תוצאות"
		if !rtl {
			banner = "no results"
		}
		body = lipgloss.Place(m.width, m.listHeight(),
			lipgloss.Center, lipgloss.Center,
			m.theme.Banner.Render(banner))
	} else {
		body = m.accordion.View()
	}

	chrome := searchLine + "\n" + RenderDivider(m.width) + "\n" + body + "\n" + m.statusLine()
	if m.cfg.UI.Headless {
		return chrome
	}
	header := m.theme.Header.Render(truncate(m.page.Title, m.width-2))
	return alignLine(header, m.width, rtl) + "\n" + chrome
}

// helpView renders the key binding overlay.
func (m Model) helpView() string {
	rtl := m.page.RTL()

	keys := [][2]string{
		{"j/k", "ניווט"},
		{"Enter", "פתיחה / בחירה"},
		{"/", "חיפוש"},
		{"y", "העתקה"},
		{"t", "לראש הדף"},
		{"q", "יציאה"},
	}
	if !rtl {
		keys = [][2]string{
			{"j/k", "navigate"},
			{"Enter", "open / select"},
			{"/", "search"},
			{"y", "copy"},
			{"t", "scroll to top"},
			{"q", "quit"},
		}
	}

	r := m.theme.Renderer
	keyStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary)

	var b strings.Builder
	for i, kv := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		line := keyStyle.Render(kv[0]) + "  " + kv[1]
		if rtl {
			line = kv[1] + "  " + keyStyle.Render(kv[0])
		}
		b.WriteString(line)
	}

	if len(m.recent) > 0 {
		header := "Recently viewed:"
		if rtl {
			header = "נצפו לאחרונה:"
		}
		b.WriteString("\n\n" + m.theme.MutedText.Render(header))
		for _, title := range m.recent {
			b.WriteString("\n" + m.theme.SummaryText.Render(truncate(title, 40)))
		}
	}

	panel := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 3)
	return panel.Render(b.String())
}

// statusLine renders counts, hints, and transient messages.
func (m Model) statusLine() string {
	rtl := m.page.RTL()

	visible := len(m.index.VisibleSectionIDs(m.view))
	var counts string
	if rtl {
		counts = fmt.Sprintf("%d סעיפים", visible)
	} else {
		counts = fmt.Sprintf("%d sections", visible)
	}

	parts := []string{counts}
	if m.accordion.Scrolled() {
		if rtl {
			parts = append(parts, "t ↑ לראש הדף")
		} else {
			parts = append(parts, "t ↑ top")
		}
	}
	if m.status != "" {
		style := m.theme.InfoText
		if m.err != nil {
			style = m.theme.DangerText
		}
		parts = append(parts, style.Render(m.status))
	}

	line := parts[0]
	for _, p := range parts[1:] {
		line += "  ·  " + p
	}
	return alignLine(m.theme.SecondaryText.Render(line), m.width, rtl)
}
