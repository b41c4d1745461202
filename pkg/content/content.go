// Package content defines the static content model rendered by the viewer:
// a Page holds ordered Sections, and a Section either carries an inline rich
// text body or a list of SubItems opened in the detail overlay.
//
// The model is read-only after Load. Everything that changes at runtime
// (open panels, search visibility, the active overlay) lives in the
// viewstate and ui packages.
package content

import (
	"fmt"
	"strings"
)

// Format identifies how a RichText payload is encoded.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// RichText is an HTML-safe or markdown fragment supplied by a content pack.
// HTML payloads are sanitized during Load; Raw is safe to render afterwards.
type RichText struct {
	Format Format `json:"format" yaml:"format"`
	Raw    string `json:"raw" yaml:"raw"`
}

// IsZero reports whether the rich text carries no payload.
func (rt RichText) IsZero() bool {
	return strings.TrimSpace(rt.Raw) == ""
}

// SectionKind is the tagged-union discriminator for Section.
// Exactly one of Body/SubItems is populated, consistent with the kind.
type SectionKind string

const (
	// KindDirectContent sections render Body inline inside the open panel.
	KindDirectContent SectionKind = "direct"
	// KindWithSubItems sections render one row per SubItem; selecting a
	// row opens its content in the overlay.
	KindWithSubItems SectionKind = "subitems"
)

// SubItem is a leaf content entry within a Section. By convention the first
// heading of Content becomes the overlay title (see richtext.SplitTitle).
type SubItem struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Content RichText `json:"content" yaml:"content"`
}

// Section is one accordion panel.
type Section struct {
	ID       string      `json:"id" yaml:"id"`
	Title    string      `json:"title" yaml:"title"`
	Summary  string      `json:"summary,omitempty" yaml:"summary,omitempty"`
	Kind     SectionKind `json:"kind" yaml:"kind"`
	Body     RichText    `json:"body,omitempty" yaml:"body,omitempty"`
	SubItems []SubItem   `json:"subItems,omitempty" yaml:"subItems,omitempty"`
}

// Page is a complete content pack for one informational page.
type Page struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Direction string    `json:"direction,omitempty" yaml:"direction,omitempty"` // "rtl" (default) or "ltr"
	Sections  []Section `json:"sections" yaml:"sections"`
}

// RTL reports whether the page renders right-to-left. Hebrew content packs
// omit the field, so empty means RTL.
func (p *Page) RTL() bool {
	return p.Direction == "" || p.Direction == "rtl"
}

// Section returns the section with the given ID, or nil.
func (p *Page) Section(id string) *Section {
	for i := range p.Sections {
		if p.Sections[i].ID == id {
			return &p.Sections[i]
		}
	}
	return nil
}

// SubItem returns the sub-item with the given ID, or nil.
func (s *Section) SubItem(id string) *SubItem {
	for i := range s.SubItems {
		if s.SubItems[i].ID == id {
			return &s.SubItems[i]
		}
	}
	return nil
}

// Validate checks the structural invariants of a page:
// non-empty IDs and titles, section IDs unique within the page, sub-item
// IDs unique within their section, and the Kind/Body/SubItems consistency
// of the tagged union.
func (p *Page) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("page: missing id")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("page %s: missing title", p.ID)
	}
	if p.Direction != "" && p.Direction != "rtl" && p.Direction != "ltr" {
		return fmt.Errorf("page %s: invalid direction %q", p.ID, p.Direction)
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("page %s: no sections", p.ID)
	}

	seen := make(map[string]bool, len(p.Sections))
	for i := range p.Sections {
		sec := &p.Sections[i]
		if err := sec.validate(); err != nil {
			return fmt.Errorf("page %s: %w", p.ID, err)
		}
		if seen[sec.ID] {
			return fmt.Errorf("page %s: duplicate section id %q", p.ID, sec.ID)
		}
		seen[sec.ID] = true
	}
	return nil
}

func (s *Section) validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("section: missing id")
	}
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("section %s: missing title", s.ID)
	}

	switch s.Kind {
	case KindDirectContent:
		if s.Body.IsZero() {
			return fmt.Errorf("section %s: direct section has no body", s.ID)
		}
		if len(s.SubItems) > 0 {
			return fmt.Errorf("section %s: direct section declares sub-items", s.ID)
		}
	case KindWithSubItems:
		if len(s.SubItems) == 0 {
			return fmt.Errorf("section %s: sub-item section has no sub-items", s.ID)
		}
		if !s.Body.IsZero() {
			return fmt.Errorf("section %s: sub-item section declares a body", s.ID)
		}
	default:
		return fmt.Errorf("section %s: invalid kind %q", s.ID, s.Kind)
	}

	if err := validateFormat(s.Body); err != nil {
		return fmt.Errorf("section %s: %w", s.ID, err)
	}

	seen := make(map[string]bool, len(s.SubItems))
	for i := range s.SubItems {
		sub := &s.SubItems[i]
		if strings.TrimSpace(sub.ID) == "" {
			return fmt.Errorf("section %s: sub-item %d: missing id", s.ID, i)
		}
		// Title may be empty: the first heading of Content, or a fallback,
		// stands in for it.
		if sub.Content.IsZero() {
			return fmt.Errorf("section %s: sub-item %s: missing content", s.ID, sub.ID)
		}
		if err := validateFormat(sub.Content); err != nil {
			return fmt.Errorf("section %s: sub-item %s: %w", s.ID, sub.ID, err)
		}
		if seen[sub.ID] {
			return fmt.Errorf("section %s: duplicate sub-item id %q", s.ID, sub.ID)
		}
		seen[sub.ID] = true
	}
	return nil
}

func validateFormat(rt RichText) error {
	if rt.IsZero() {
		return nil
	}
	switch rt.Format {
	case FormatHTML, FormatMarkdown:
		return nil
	case "":
		// Legacy packs omit the format field for HTML fragments.
		return nil
	default:
		return fmt.Errorf("invalid rich text format %q", rt.Format)
	}
}

// EffectiveFormat resolves an omitted format field to FormatHTML, the
// encoding the legacy content packs used.
func (rt RichText) EffectiveFormat() Format {
	if rt.Format == "" {
		return FormatHTML
	}
	return rt.Format
}
