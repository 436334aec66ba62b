package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var propsCmd = &cobra.Command{
	Use:   "props",
	Short: "List the declared property sets",
	Long: `Show the properties each resource kind exposes to animations and
behaviors, with their value types. Read-only properties are marked.`,
	Run: runProps,
}

func runProps(cmd *cobra.Command, _ []string) {
	cfg, st, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}
	a, err := newApp(cfg, st)
	if err != nil {
		fatal("%v", err)
	}
	defer a.Shutdown()

	for _, m := range a.Managers() {
		desc := m.Describe()
		fmt.Printf("%s\n", m.Kind())
		if len(desc) == 0 {
			fmt.Println("  (none)")
		}
		for _, d := range desc {
			ro := ""
			if d.ReadOnly {
				ro = "  read-only"
			}
			fmt.Printf("  %-10s  %-6s%s\n", d.Name, d.Type, ro)
		}
		fmt.Println()
	}
}
