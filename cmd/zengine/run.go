package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/zengine/internal/app"
	"github.com/vovakirdan/zengine/internal/storage"
)

var (
	flagFrames      int
	flagPrintScreen bool
	flagNoSave      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Step a scene headless and report",
	Long: `Load the scene, step it for a number of frames without a terminal UI,
then shut down and print the manager counters and any leaked references.
The report is stored in the session database unless --no-save is given.

Examples:
  zengine run
  zengine run --frames 3600 --seed 42
  zengine run --print-screen --no-save`,
	Run: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 600, "Number of frames to step")
	runCmd.Flags().BoolVar(&flagPrintScreen, "print-screen", false, "Print the final frame")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store the session report")
}

func runRun(cmd *cobra.Command, _ []string) {
	cfg, st, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}
	a, err := newApp(cfg, st)
	if err != nil {
		fatal("%v", err)
	}

	a.Run(flagFrames)
	if flagPrintScreen {
		fmt.Println(a.Screen().String())
		fmt.Println()
	}

	report := a.Shutdown()
	printReport(report)

	if flagNoSave {
		return
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatal("opening session database: %v", err)
	}
	defer store.Close()

	id, err := store.SaveSession(report.Session())
	if err != nil {
		fatal("saving session: %v", err)
	}
	fmt.Printf("\nSaved as session %d.\n", id)
}

// printReport writes the counters and leaks of a finished session.
func printReport(r app.Report) {
	fmt.Printf("Scene %s: %d frames, %s simulated\n\n", r.Scene, r.Frames, r.Elapsed)

	fmt.Printf("  %-11s  %5s  %5s  %6s  %7s  %6s  %8s\n",
		"Manager", "Live", "Peak", "Added", "Removed", "Clones", "Failures")
	fmt.Printf("  %-11s  %5s  %5s  %6s  %7s  %6s  %8s\n",
		"-------", "----", "----", "-----", "-------", "------", "--------")
	for _, m := range r.Managers {
		fmt.Printf("  %-11s  %5d  %5d  %6d  %7d  %6d  %8d\n",
			m.Kind, m.Live, m.Peak, m.Added, m.Removed, m.Clones, m.Failures)
	}

	fmt.Println()
	if len(r.Leaks) == 0 {
		fmt.Println("No leaked references.")
		return
	}
	fmt.Printf("%d leaked reference(s):\n", len(r.Leaks))
	for _, l := range r.Leaks {
		fmt.Printf("  %-11s  %-16s  refs %d\n", l.Kind, l.Name, l.RefCount)
	}
}
