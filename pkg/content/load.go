package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// sanitizer strips anything a hostile content pack could smuggle into an
// HTML fragment. UGCPolicy keeps the formatting elements the viewer
// renders (headings, paragraphs, lists, emphasis, links).
var sanitizer = newSanitizer()

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("dir").Globally()
	return p
}

// Load reads a single page from a .json, .yaml or .yml content pack,
// sanitizes its HTML rich text, and validates it.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content pack: %w", err)
	}

	var page Page
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported content pack format: %s", filepath.Ext(path))
	}

	page.sanitize()
	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content pack %s: %w", filepath.Base(path), err)
	}
	return &page, nil
}

// LoadBundle loads every content pack in a directory, in parallel.
// Pages are returned sorted by file name so the page order is stable.
// A directory with no content packs is an error: the viewer has nothing
// to show and should fail before the UI starts.
func LoadBundle(dir string) ([]*Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no content packs found in %s", dir)
	}
	sort.Strings(paths)

	pages := make([]*Page, len(paths))
	var g errgroup.Group
	var mu sync.Mutex
	ids := make(map[string]string, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			page, err := Load(path)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if prev, dup := ids[page.ID]; dup {
				return fmt.Errorf("duplicate page id %q in %s and %s", page.ID, prev, filepath.Base(path))
			}
			ids[page.ID] = filepath.Base(path)
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// sanitize runs every HTML rich text fragment through the shared policy.
// Markdown fragments are left alone; they are sanitized after rendering
// by the exporter, and the terminal renderer never emits markup.
func (p *Page) sanitize() {
	for i := range p.Sections {
		sec := &p.Sections[i]
		sec.Body = sanitizeRichText(sec.Body)
		for j := range sec.SubItems {
			sec.SubItems[j].Content = sanitizeRichText(sec.SubItems[j].Content)
		}
	}
}

func sanitizeRichText(rt RichText) RichText {
	if rt.IsZero() || rt.EffectiveFormat() != FormatHTML {
		return rt
	}
	rt.Raw = sanitizer.Sanitize(rt.Raw)
	return rt
}
