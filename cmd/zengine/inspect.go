package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/zengine/internal/platform/tui"
	"github.com/vovakirdan/zengine/internal/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Browse managers and resources interactively",
	Long: `Open the resource inspector on the loaded scene.

Controls:
  Tab/S-Tab  - Next/previous manager
  Up/Down    - Select entry
  Space      - Run/pause the scene
  N          - Step one frame
  S          - Toggle screen view
  X          - Destroy the selected game object
  P          - Play the selected game object's sound
  Q/Ctrl+C   - Quit`,
	Run: runInspect,
}

func runInspect(cmd *cobra.Command, _ []string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fatal("inspect needs a terminal; use 'zengine run' for headless output")
	}

	cfg, st, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	a, err := newApp(cfg, st)
	if err != nil {
		fatal("%v", err)
	}

	runErr := tui.Run(a, width, height)
	report := a.Shutdown()
	if runErr != nil {
		fatal("%v", runErr)
	}

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: session not saved: %v\n", err)
		return
	}
	defer store.Close()
	//nolint:errcheck // Best-effort save
	store.SaveSession(report.Session())

	if len(report.Leaks) > 0 {
		fmt.Printf("%d leaked reference(s) at shutdown; see 'zengine sessions'.\n", len(report.Leaks))
	}
}
