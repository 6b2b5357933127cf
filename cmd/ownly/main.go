package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ownlyhq/ownly/internal/datasource"
	"github.com/ownlyhq/ownly/pkg/config"
	"github.com/ownlyhq/ownly/pkg/debug"
	"github.com/ownlyhq/ownly/pkg/export"
	"github.com/ownlyhq/ownly/pkg/model"
	"github.com/ownlyhq/ownly/pkg/ui"
	"github.com/ownlyhq/ownly/pkg/version"
	"github.com/ownlyhq/ownly/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dirFlag := flag.String("dir", "", "Inventory directory (default: $OWNLY_DIR or ./.ownly)")
	exportSVG := flag.String("export-svg", "", "Write the location tree as SVG to the given path and exit")
	debugFlag := flag.Bool("debug", false, "Enable debug logging (same as OWNLY_DEBUG=1)")
	flag.Parse()

	if *debugFlag {
		debug.SetEnabled(true)
	}

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
		fmt.Println("Usage: ownly [options]")
		fmt.Println("\nA TUI viewer for your home inventory.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("ownly %s\n", version.Version)
		os.Exit(0)
	}

	inv, err := datasource.LoadInventory(*dirFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading inventory: %v\n", err)
		fmt.Fprintln(os.Stderr, "Make sure an .ownly directory with ownly.db or a .jsonl export exists.")
		os.Exit(1)
	}

	if *exportSVG != "" {
		counts := model.CountItemsByLocation(inv.Items)
		opts := export.TreeSVGOptions{Path: *exportSVG}
		if err := export.WriteTreeSVG(inv.Locations, counts, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing SVG: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportSVG)
		os.Exit(0)
	}

	appCfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		appCfg = config.DefaultConfig()
	}

	theme := ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout))
	m := ui.NewModel(inv, appCfg, theme)

	sourceDir := *dirFlag
	m.SetReloadFn(func() (*datasource.Inventory, error) {
		return datasource.LoadInventory(sourceDir)
	})

	// Live reload: watch the source file that was actually loaded.
	w, werr := watcher.New(inv.SourcePath,
		watcher.WithOnError(func(err error) {
			debug.Log("watcher: %v", err)
		}),
	)
	if werr == nil {
		if err := w.Start(); err == nil {
			m.SetChangeChannel(w.Changed())
			defer w.Stop()
		} else {
			debug.Log("watcher start failed: %v", err)
		}
	}

	if resolved, err := datasource.ResolveDir(*dirFlag); err == nil {
		appCfg.RememberRecent(resolved)
		if err := config.Save(appCfg); err != nil {
			debug.Log("config save failed: %v", err)
		}
	}

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running ownly: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.InventoryModel) error {
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

	// Optional auto-quit for automated tests: set OWNLY_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("OWNLY_TUI_AUTOCLOSE_MS"); v != "" {
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
