// zengine runs and inspects engine scenes from the terminal.
//
// Usage:
//
//	zengine run              - Step a scene headless and report manager stats
//	zengine inspect          - Browse managers and resources interactively
//	zengine serve            - Serve the inspector over SSH
//	zengine list             - List loaded resources and registered behaviors
//	zengine props            - List the declared property sets
//	zengine sessions [id]    - Show stored session reports
//
// Global flags:
//
//	--config <path>  - Engine config YAML
//	--scene <path>   - Scene YAML (default: search order, then embedded)
//	--fps <rate>     - Tick rate
//	--seed <value>   - RNG seed for handle tokens
//	--db <path>      - Session database path
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/zengine/internal/app"
	"github.com/vovakirdan/zengine/internal/config"
	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/settings"
)

var (
	// Global flags
	flagConfig   string
	flagScene    string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagDebug    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zengine",
	Short: "Z Engine - resource managers you can watch",
	Long: `Z Engine loads a scene of textures, sprites, sounds, animations, layers
and game objects into handle-based resource managers and lets you step,
inspect and report on them.

Available commands:
  run       - Step a scene headless and print manager stats
  inspect   - Interactive resource inspector
  serve     - SSH server for the inspector
  list      - Loaded resources and registered behaviors
  props     - Declared property sets
  sessions  - Stored session reports

Examples:
  zengine run --frames 600
  zengine inspect --scene ./scene.yaml
  zengine serve --ssh :2323
  zengine sessions 12`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	pf.StringVar(&flagScene, "scene", "", "Path to scene YAML")
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "", "Path to session database (default from config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagDebug, "debug", false, "Panic on debug traps")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(propsCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// loadEnv loads the engine config, applies flag overrides, configures
// logging and traps, and loads the scene.
func loadEnv(cmd *cobra.Command) (config.EngineConfig, *settings.Settings, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.Engine.TickRate = flagFPS
	}
	if flags.Changed("seed") {
		cfg.Engine.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Engine.LogLevel = flagLogLevel
	}
	if flagDebug {
		cfg.Engine.DebugTraps = true
	}
	if flagScene != "" {
		cfg.Engine.Scene = flagScene
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	// Timestamps only when stderr is not a terminal.
	logging.SetTimestamps(!term.IsTerminal(int(os.Stderr.Fd())))
	if err := logging.Configure(os.Stderr, cfg.Engine.LogLevel); err != nil {
		return cfg, nil, fmt.Errorf("log level: %w", err)
	}
	if cfg.Engine.DebugTraps {
		debug.Enable(true)
	}

	st, err := settings.Load(cfg.Engine.Scene)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, st, nil
}

// newApp builds and initializes an App for one command.
func newApp(cfg config.EngineConfig, st *settings.Settings) (*app.App, error) {
	a := app.New(cfg.Runtime(), st, logging.New("app"))
	if err := a.Init(); err != nil {
		a.Shutdown()
		return nil, err
	}
	return a, nil
}

// fatal prints err and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
