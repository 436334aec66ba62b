package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/zengine/internal/app"
	"github.com/vovakirdan/zengine/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List loaded resources and registered behaviors",
	Long: `Load the scene and show every manager's entries with their handles and
reference counts, followed by the registered behaviors. A kind limits the
listing to one manager (texture, sprite, sound, animation, layer, gameobject).`,
	Args: cobra.MaximumNArgs(1),
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg, st, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}
	a, err := newApp(cfg, st)
	if err != nil {
		fatal("%v", err)
	}
	defer a.Shutdown()

	managers := a.Managers()
	if len(args) == 1 {
		m, ok := a.Manager(args[0])
		if !ok {
			fatal("unknown manager %q", args[0])
		}
		managers = []app.Inspectable{m}
	}

	fmt.Printf("Scene: %s\n", st.Source())
	for _, m := range managers {
		entries := m.Entries()
		fmt.Printf("\n%s (%d)\n", m.Kind(), len(entries))

		nameLen := 4 // "Name" header
		for _, e := range entries {
			nameLen = max(nameLen, len(e.Name))
		}
		fmt.Printf("  %-*s  %-12s  %-6s  %s\n", nameLen, "Name", "Handle", "ID", "Refs")
		for _, e := range entries {
			fmt.Printf("  %-*s  %-12s  %-6s  %d\n", nameLen, e.Name,
				fmt.Sprintf("%d:%d", e.Handle>>16, e.Handle&0xffff), e.ID, e.RefCount)
		}
	}

	if len(args) == 1 {
		return
	}
	fmt.Println("\nBehaviors:")
	for _, b := range registry.List() {
		fmt.Printf("  %-8s  %s\n", b.ID, b.Description)
	}
}
