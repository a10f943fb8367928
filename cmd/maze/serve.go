package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the maze SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the level picker. Statistics
are kept per SSH user; the run log is shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.maze/host_key

Examples:
  maze serve                           # Listen on :23234 with auto-generated key
  maze serve --ssh :2222               # Listen on port 2222
  maze serve --host-key ./my_host_key  # Use specific host key
  maze serve --levels-dir ./levels     # Serve custom levels, reloaded on change

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config: :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting (default from config: 30)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagSSHAddr != "" {
		cfg.SSH.Addr = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.SSH.IdleTimeout = minutes(flagIdleTimeout)
	}

	logger, logCloser, err := newLogger(cfg, "maze-ssh", true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	ctx, stop := signalContext()
	defer stop()

	svc, err := openServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	live := levels.NewLive(svc.catalog)
	watchLevels(ctx, cfg, live, logger)

	sshCfg := tui.DefaultSSHServerConfig()
	if cfg.SSH.Addr != "" {
		sshCfg.Address = cfg.SSH.Addr
	}
	sshCfg.HostKeyPath = cfg.SSH.HostKey
	if cfg.SSH.IdleTimeout > 0 {
		sshCfg.IdleTimeout = cfg.SSH.IdleTimeout
	}
	sshCfg.Runtime = cfg.Runtime()

	server, err := tui.NewSSHServer(sshCfg, live.Get, svc.stats, svc.runs, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting maze SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe(ctx)
}
