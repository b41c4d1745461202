package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultSearchDebounce is the delay between the last keystroke and the
// query being applied to the accordion.
const DefaultSearchDebounce = 300 * time.Millisecond

// searchDebounceMsg fires after the debounce window. It carries the input
// sequence at scheduling time; only the message matching the latest
// sequence applies the query, so earlier keystrokes never clobber later
// ones.
type searchDebounceMsg struct {
	seq uint64
}

// SearchBar wraps a text input with debounced query application.
// The raw input value and the applied query differ while a debounce tick
// is pending.
type SearchBar struct {
	input    textinput.Model
	debounce time.Duration
	seq      uint64
	applied  string
	theme    Theme
	rtl      bool
}

// NewSearchBar creates an unfocused search bar.
func NewSearchBar(theme Theme, rtl bool, debounce time.Duration) SearchBar {
	if debounce < 0 {
		debounce = DefaultSearchDebounce
	}
	ti := textinput.New()
	ti.Prompt = "/ "
	if rtl {
		ti.Placeholder = "חיפוש..."
	} else {
		ti.Placeholder = "search..."
	}
	ti.CharLimit = 128
	ti.PromptStyle = theme.SecondaryText
	return SearchBar{
		input:    ti,
		debounce: debounce,
		theme:    theme,
		rtl:      rtl,
	}
}

// Focus puts the bar into typing mode.
func (s *SearchBar) Focus() tea.Cmd {
	return s.input.Focus()
}

// Blur leaves typing mode; the applied query stays in effect.
func (s *SearchBar) Blur() {
	s.input.Blur()
}

// Focused reports whether the bar is accepting keystrokes.
func (s SearchBar) Focused() bool {
	return s.input.Focused()
}

// Query returns the currently applied (debounced) query.
func (s SearchBar) Query() string {
	return s.applied
}

// Value returns the raw input text, which may be ahead of Query.
func (s SearchBar) Value() string {
	return s.input.Value()
}

// Clear resets both the input and the applied query. It returns true when
// an applied query was actually dropped.
func (s *SearchBar) Clear() bool {
	s.seq++
	s.input.SetValue("")
	had := s.applied != ""
	s.applied = ""
	return had
}

// Update feeds a message to the text input. Each edit bumps the sequence
// and schedules a debounce tick; with zero debounce the query applies
// immediately.
func (s SearchBar) Update(msg tea.Msg) (SearchBar, tea.Cmd) {
	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if s.input.Value() == before {
		return s, cmd
	}

	s.seq++
	if s.debounce == 0 {
		s.applied = s.input.Value()
		return s, cmd
	}

	seq := s.seq
	tick := tea.Tick(s.debounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return s, tea.Batch(cmd, tick)
}

// HandleDebounce applies the pending query if the tick is the latest.
// It returns true when the applied query changed.
func (s *SearchBar) HandleDebounce(msg searchDebounceMsg) bool {
	if msg.seq != s.seq {
		return false
	}
	v := s.input.Value()
	if v == s.applied {
		return false
	}
	s.applied = v
	return true
}

// View renders the search bar.
func (s SearchBar) View(width int) string {
	bar := s.input.View()
	if !s.Focused() && s.applied == "" {
		hint := "/ חיפוש"
		if !s.rtl {
			hint = "/ search"
		}
		bar = s.theme.MutedText.Render(hint)
	}
	return alignLine(bar, width, s.rtl)
}
