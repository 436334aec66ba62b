package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/zengine/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [id]",
	Short: "Show stored session reports",
	Long: `Without an argument, list the most recent sessions. With a session ID,
show its manager counters and leaked references.

Examples:
  zengine sessions
  zengine sessions --limit 50
  zengine sessions 12
  zengine sessions --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to list")
	sessionsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all stored sessions")
}

func runSessions(cmd *cobra.Command, args []string) {
	cfg, _, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fatal("opening session database: %v", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearSessions(); err != nil {
			fatal("%v", err)
		}
		fmt.Println("Sessions cleared.")
	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fatal("invalid session id %q", args[0])
		}
		showSession(store, id)
	default:
		listSessions(store)
	}
}

func listSessions(store *storage.Store) {
	sessions, err := store.RecentSessions(flagLimit)
	if err != nil {
		fatal("%v", err)
	}
	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'zengine run' to record one.")
		return
	}

	fmt.Printf("  %-5s  %-16s  %8s  %10s  %5s  %s\n", "ID", "Date", "Frames", "Elapsed", "Leaks", "Scene")
	fmt.Printf("  %-5s  %-16s  %8s  %10s  %5s  %s\n", "--", "----", "------", "-------", "-----", "-----")
	for _, s := range sessions {
		fmt.Printf("  %-5d  %-16s  %8d  %10s  %5d  %s\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.Frames, s.Elapsed, s.LeakCount, s.Scene)
	}
}

func showSession(store *storage.Store, id int64) {
	managers, err := store.SessionManagers(id)
	if err != nil {
		fatal("%v", err)
	}
	if len(managers) == 0 {
		fatal("no session %d", id)
	}
	leaks, err := store.SessionLeaks(id)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Session %d\n\n", id)
	fmt.Printf("  %-11s  %5s  %5s  %6s  %7s  %6s  %8s\n",
		"Manager", "Live", "Peak", "Added", "Removed", "Clones", "Failures")
	for _, m := range managers {
		fmt.Printf("  %-11s  %5d  %5d  %6d  %7d  %6d  %8d\n",
			m.Kind, m.Live, m.Peak, m.Added, m.Removed, m.Clones, m.Failures)
	}

	fmt.Println()
	if len(leaks) == 0 {
		fmt.Println("No leaked references.")
		return
	}
	for _, l := range leaks {
		fmt.Printf("  leak  %-11s  %-16s  handle %d:%d  refs %d\n",
			l.Kind, l.Name, l.Handle>>16, l.Handle&0xffff, l.RefCount)
	}
}
