package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/levels"
	"github.com/vovakirdan/maze-escape/internal/maze"
	"github.com/vovakirdan/maze-escape/internal/render"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/session"
)

var (
	flagLevelPNG   string
	flagLevelCells int
)

var levelsCmd = &cobra.Command{
	Use:   "levels [n]",
	Short: "List levels or preview one",
	Long: `Without arguments, lists every level in play order.
With a level number, prints the level's board. --png also writes the
board as an image.

Examples:
  maze levels
  maze levels 3
  maze levels 5 --png level5.png --cell 32
  maze levels --levels-dir ./my-levels`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

func init() {
	levelsCmd.Flags().StringVar(&flagLevelPNG, "png", "", "Write the level preview to this PNG file")
	levelsCmd.Flags().IntVar(&flagLevelCells, "cell", render.DefaultCellPx, "Pixel size of one cell in the PNG")
}

func runLevels(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := newLogger(cfg, "maze", true)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	svc, err := openServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if len(args) == 0 {
		printLevels(svc.catalog)
		return nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid level number %q", args[0])
	}
	lvl, err := svc.catalog.Lookup(n)
	if err != nil {
		return err
	}
	return previewLevel(svc.catalog, lvl)
}

func printLevels(catalog *levels.Catalog) {
	if catalog.Count() == 0 {
		fmt.Println("No levels available.")
		return
	}

	maxNameLen := 4 // "Name" header
	for _, l := range catalog.All() {
		if len(l.Name) > maxNameLen {
			maxNameLen = len(l.Name)
		}
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %-3s %-*s  %-6s %-5s %-6s %s\n", "#", maxNameLen, "Name", "Size", "Time", "$/♦", "Snakes")
	fmt.Printf("  %-3s %-*s  %-6s %-5s %-6s %s\n", "-", maxNameLen, "----", "----", "----", "---", "------")

	for _, l := range catalog.All() {
		limit := "-"
		if l.TimeLimit > 0 {
			limit = scoring.FormatTime(l.TimeLimit)
		}
		snakes := "static"
		if l.RoamingSnakes {
			snakes = "roaming"
		}
		if l.Grid.Count(maze.Snake) == 0 {
			snakes = "-"
		}
		fmt.Printf("  %-3d %-*s  %-6s %-5s %-6s %s\n",
			l.Number, maxNameLen, l.Name,
			fmt.Sprintf("%dx%d", l.Grid.Width(), l.Grid.Height()),
			limit,
			fmt.Sprintf("%d/%d", l.Grid.Count(maze.Coin), l.Grid.Count(maze.Gem)),
			snakes)
	}

	fmt.Println()
	fmt.Println("Run 'maze play <n>' to play a level.")
}

func previewLevel(catalog *levels.Catalog, lvl *levels.Level) error {
	fmt.Printf("Level %d: %s\n", lvl.Number, lvl.Name)
	if lvl.Description != "" {
		fmt.Println(lvl.Description)
	}
	fmt.Println()
	fmt.Println(render.Preview(lvl.Grid).String())
	fmt.Println(render.Legend)

	if flagLevelPNG == "" {
		return nil
	}
	if flagLevelCells < 2 || flagLevelCells > 128 {
		return fmt.Errorf("--cell must be between 2 and 128")
	}

	snap := session.New(catalog, nil, session.WithLevel(lvl.Number)).Snapshot()
	f, err := os.Create(flagLevelPNG)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", flagLevelPNG, err)
	}
	if err := render.WritePNG(f, snap, flagLevelCells, 0); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("\nWrote %s\n", flagLevelPNG)
	return nil
}
