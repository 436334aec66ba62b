package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/zengine/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the inspector SSH server",
	Long: `Start an SSH server that opens the inspector for every connection.

Each SSH connection gets its own engine instance built from the same scene.
When the connection closes, the session report is stored in the database.

Host key handling:
  - If --host-key (or server.host_key_path) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.zengine/host_key

Examples:
  zengine serve                      # Listen on the configured address
  zengine serve --ssh :2222          # Listen on port 2222
  zengine serve --host-key ./hostkey # Use specific host key

Users can connect with:
  ssh localhost -p 2323`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, st, err := loadEnv(cmd)
	if err != nil {
		fatal("%v", err)
	}

	srvCfg := tui.SSHServerConfig{
		Address:     cfg.Server.Address(),
		HostKeyPath: cfg.Server.HostKeyPath,
		DBPath:      cfg.Storage.DBPath,
		IdleTimeout: cfg.Server.IdleTimeout,
		Runtime:     cfg.Runtime(),
		Scene:       st,
	}
	if flagSSHAddr != "" {
		srvCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting zengine SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fatal("server: %v", err)
	}
}
