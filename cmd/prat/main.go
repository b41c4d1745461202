package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devForYou1/prat/internal/store"
	"github.com/devForYou1/prat/pkg/config"
	"github.com/devForYou1/prat/pkg/content"
	"github.com/devForYou1/prat/pkg/export"
	"github.com/devForYou1/prat/pkg/ui"
	"github.com/devForYou1/prat/pkg/version"
	"github.com/devForYou1/prat/pkg/watcher"
)

func main() {
	contentPath := flag.String("content", "", "Content pack file (JSON or YAML), or a directory of packs")
	pageID := flag.String("page", "", "Page ID to show when the content path is a directory")
	exportPath := flag.String("export", "", "Write a static HTML page to this path instead of launching the viewer")
	configPath := flag.String("config", "", "Config file (default: XDG config dir)")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on content changes")
	noState := flag.Bool("no-state", false, "Do not persist view state between runs")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: prat [options]")
		fmt.Println("\nA terminal viewer for sectioned HR documentation.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("prat %s\n", version.Version)
		os.Exit(0)
	}

	// Load config; missing file means defaults.
	var cfg config.Config
	var cfgErr error
	if *configPath != "" {
		cfg, cfgErr = config.LoadFrom(*configPath)
	} else {
		cfg, cfgErr = config.Load()
	}
	if cfgErr != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", cfgErr)
		os.Exit(1)
	}

	// CLI flag overrides config.
	path := cfg.Content.Path
	if *contentPath != "" {
		path = *contentPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "Error: no content pack given.")
		fmt.Fprintln(os.Stderr, "Pass --content <file> or set content.path in the config.")
		os.Exit(2)
	}

	page, err := loadPage(path, *pageID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}

	// Export mode: render and exit without the TUI.
	if *exportPath != "" {
		opts := export.HTMLOptions{OpenSections: cfg.Content.DefaultOpenSections}
		if err := export.WriteHTMLFile(page, *exportPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportPath)
		os.Exit(0)
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout))
	m := ui.NewModel(page, cfg, theme)

	// View state persistence.
	if !*noState {
		if dir := config.StateDir(); dir != "" {
			st, err := store.Open(filepath.Join(dir, "state.db"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: view state disabled: %v\n", err)
			} else {
				defer st.Close()
				m.SetStore(st)
				if open, err := st.LoadOpenSections(page.ID); err == nil && len(open) > 0 {
					m.RestoreOpenSections(open)
				}
				if entries, err := st.RecentlyViewed(page.ID, 5); err == nil {
					m.SetRecentlyViewed(recentTitles(page, entries))
				}
			}
		}
	}

	// Live reload.
	if cfg.WatchEnabled() && !*noWatch {
		w, err := watcher.New(path)
		if err == nil && w.Start() == nil {
			defer w.Stop()
			m.SetWatcher(w, func() (*content.Page, error) {
				return loadPage(path, page.ID)
			})
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running viewer: %v\n", err)
		os.Exit(1)
	}
}

// recentTitles resolves viewed-log entries to display titles, dropping
// entries whose sub-items no longer exist in the page.
func recentTitles(page *content.Page, entries []store.ViewedEntry) []string {
	var titles []string
	for _, e := range entries {
		sec := page.Section(e.SectionID)
		if sec == nil {
			continue
		}
		sub := sec.SubItem(e.SubItemID)
		if sub == nil {
			continue
		}
		titles = append(titles, ui.SubItemTitle(*sub))
	}
	return titles
}

// loadPage loads a single pack file, or picks one page out of a directory
// of packs. An empty pageID selects the first page in filename order.
func loadPage(path, pageID string) (*content.Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return content.Load(path)
	}

	pages, err := content.LoadBundle(path)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no content packs in %s", path)
	}
	if pageID == "" {
		return pages[0], nil
	}
	for _, p := range pages {
		if p.ID == pageID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no page %q in %s", pageID, path)
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set PRAT_TUI_AUTOCLOSE_MS.
	if v := strings.TrimSpace(os.Getenv("PRAT_TUI_AUTOCLOSE_MS")); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
