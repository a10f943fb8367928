package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/maze-escape/internal/platform/tui"
	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/storage"
)

var (
	flagScoresTUI    bool
	flagScoresLimit  int
	flagScoresRecent bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show best runs",
	Long: `Display the best winning runs from the run log, for one level or
across all levels.

Examples:
  maze scores
  maze scores 2
  maze scores --recent --limit 5
  maze scores --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Open the interactive scoreboard")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the latest runs instead of the best")
}

func runScores(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, logCloser, err := newLogger(cfg, "maze", !flagScoresTUI)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	svc, err := openServices(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if svc.runs == nil {
		return errors.New("run log is unavailable (check --db)")
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(svc.catalog, svc.runs, width, height)
	}

	level := 0
	title := "All levels"
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid level number %q", args[0])
		}
		lvl, err := svc.catalog.Lookup(n)
		if err != nil {
			return err
		}
		level = n
		title = fmt.Sprintf("Level %d - %s", lvl.Number, lvl.Name)
	}

	if flagScoresRecent && level != 0 {
		return errors.New("--recent lists all levels; drop the level argument")
	}

	heading := "Best Runs"
	fetch := func() ([]storage.Run, error) { return svc.runs.TopRuns(level, flagScoresLimit) }
	if flagScoresRecent {
		heading = "Recent Runs"
		fetch = func() ([]storage.Run, error) { return svc.runs.RecentRuns(flagScoresLimit) }
	}
	runs, err := fetch()
	if err != nil {
		return fmt.Errorf("cannot retrieve runs: %w", err)
	}

	fmt.Printf("%s - %s\n", heading, title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'maze play' to set the first record!")
		return nil
	}

	fmt.Printf("  %-4s  %-3s  %-12s  %-7s  %-5s  %-5s  %s\n", "Rank", "Lvl", "Player", "Score", "Time", "$/♦", "Date")
	fmt.Printf("  %-4s  %-3s  %-12s  %-7s  %-5s  %-5s  %s\n", "----", "---", "------", "-----", "----", "---", "----")
	for i, r := range runs {
		player := r.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-4d  %-3d  %-12s  %-7d  %-5s  %-5s  %s\n",
			i+1, r.Level, player, r.Score,
			scoring.FormatTime(r.TimeSecs),
			fmt.Sprintf("%d/%d", r.Coins, r.Gems),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
