package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/maze-escape/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play in the terminal",
	Long: `Open the level picker and play. With a level number the picker is
skipped and the game opens on that level.

Controls:
  WASD / Arrows  - Move
  Enter          - Start, or next level after a win
  Space / P      - Pause
  R              - Restart level
  X              - Stop run
  B / Esc        - Back to menu
  Ctrl+S         - Screenshot
  Q              - Quit

Examples:
  maze play
  maze play 4 --seed 42`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := newLogger(cfg, "maze", false)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	svc, err := openServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	startLevel := 0
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || svc.catalog.Get(n) == nil {
			return fmt.Errorf("unknown level %q (have 1-%d)", args[0], svc.catalog.Count())
		}
		startLevel = n
	}

	rc := cfg.Runtime()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}
	rc.Seed = rc.ResolveSeed()

	return tui.Run(tui.Deps{
		Catalog: svc.catalog,
		Stats:   svc.stats,
		Runs:    svc.runs,
		Config:  rc,
		Logger:  logger,
	}, startLevel)
}
