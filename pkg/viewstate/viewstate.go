// Package viewstate derives the rendered projection of a page — which
// sections are visible and open, which sub-item rows are shown — from the
// immutable content model, the current search query, and the open-state
// the user had before searching. The derivation is pure, so the search
// semantics are testable without a terminal.
package viewstate

import (
	"strings"

	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/richtext"
)

// SectionView is the derived projection of one section.
type SectionView struct {
	Visible bool
	Open    bool
	// SubItems maps sub-item ID to visibility. Empty for direct sections.
	SubItems map[string]bool
}

// View is the derived projection of a whole page.
type View struct {
	Query     string
	NoResults bool
	Sections  map[string]SectionView
}

// Index precomputes the lowercase search haystacks for a page so a derive
// per keystroke does no rich text parsing.
type Index struct {
	page     *content.Page
	sections []sectionIndex
}

type sectionIndex struct {
	id string
	// own covers the section's title, summary and inline body.
	own  string
	subs []subIndex
}

type subIndex struct {
	id   string
	text string
}

// NewIndex builds the search index for a page.
func NewIndex(page *content.Page) *Index {
	ix := &Index{page: page, sections: make([]sectionIndex, 0, len(page.Sections))}
	for i := range page.Sections {
		sec := &page.Sections[i]
		si := sectionIndex{
			id:  sec.ID,
			own: strings.ToLower(sec.Title + " " + sec.Summary + " " + richtext.PlainText(sec.Body)),
		}
		for j := range sec.SubItems {
			sub := &sec.SubItems[j]
			si.subs = append(si.subs, subIndex{
				id:   sub.ID,
				text: strings.ToLower(sub.Title + " " + richtext.PlainText(sub.Content)),
			})
		}
		ix.sections = append(ix.sections, si)
	}
	return ix
}

// Page returns the page the index was built for.
func (ix *Index) Page() *content.Page { return ix.page }

// Derive computes the view for a query. priorOpen is the open-state map
// from before the search began (user toggles plus configured always-open
// sections); an empty query restores exactly that state.
//
// Matching is a case-insensitive substring test over section title,
// summary, inline body, sub-item titles and sub-item content. A section is
// visible iff its own text or any sub-item matches; visible sections are
// forced open while a query is active. Sub-items that don't match are
// hidden outright unless the section's own text matched, in which case the
// whole section is relevant and all rows stay shown.
func (ix *Index) Derive(query string, priorOpen map[string]bool) View {
	v := View{
		Query:    query,
		Sections: make(map[string]SectionView, len(ix.sections)),
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		for _, si := range ix.sections {
			sv := SectionView{Visible: true, Open: priorOpen[si.id]}
			if len(si.subs) > 0 {
				sv.SubItems = make(map[string]bool, len(si.subs))
				for _, sub := range si.subs {
					sv.SubItems[sub.id] = true
				}
			}
			v.Sections[si.id] = sv
		}
		return v
	}

	anyVisible := false
	for _, si := range ix.sections {
		ownMatch := strings.Contains(si.own, q)
		childMatch := false
		subVisible := make(map[string]bool, len(si.subs))
		for _, sub := range si.subs {
			match := strings.Contains(sub.text, q)
			if match {
				childMatch = true
			}
			subVisible[sub.id] = match || ownMatch
		}

		visible := ownMatch || childMatch
		sv := SectionView{Visible: visible, Open: visible}
		if len(si.subs) > 0 {
			if !visible {
				for id := range subVisible {
					subVisible[id] = false
				}
			}
			sv.SubItems = subVisible
		}
		v.Sections[si.id] = sv
		if visible {
			anyVisible = true
		}
	}

	v.NoResults = !anyVisible
	return v
}

// VisibleSectionIDs returns the IDs of visible sections in page order.
func (ix *Index) VisibleSectionIDs(v View) []string {
	var ids []string
	for _, si := range ix.sections {
		if v.Sections[si.id].Visible {
			ids = append(ids, si.id)
		}
	}
	return ids
}
