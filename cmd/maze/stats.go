package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/maze-escape/internal/scoring"
	"github.com/vovakirdan/maze-escape/internal/stats"
	"github.com/vovakirdan/maze-escape/internal/storage"
)

var (
	flagStatsReset  bool
	flagStatsPlayer string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime statistics",
	Long: `Show wins, losses, best time, streak and reward totals.
--reset clears the record and the run log; with --player only that
player's record is reset.

Examples:
  maze stats
  maze stats --player alice       # record of an SSH player
  maze stats --reset
  maze stats --stats-backend redis`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagStatsReset, "reset", false, "Reset the statistics record and clear the run log")
	statsCmd.Flags().StringVar(&flagStatsPlayer, "player", "", "Show the record of an SSH player")
}

func runStats(cmd *cobra.Command, _ []string) error {
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

	store := svc.stats
	if flagStatsPlayer != "" {
		store = store.ForPlayer(flagStatsPlayer)
		defer store.Close()
	}

	if flagStatsReset {
		if err := resetRecords(store, svc.runs, flagStatsPlayer); err != nil {
			return err
		}
		fmt.Println("Statistics reset.")
		return nil
	}

	printStats(store.Snapshot(), svc.catalog.Count())
	return nil
}

// resetRecords resets a statistics record. Resetting the local record also
// clears the run log; a player reset leaves the shared log alone.
func resetRecords(store *stats.Store, runs *storage.Store, player string) error {
	store.Reset()
	if player != "" || runs == nil {
		return nil
	}
	if err := runs.ClearRuns(); err != nil {
		return fmt.Errorf("cannot clear run log: %w", err)
	}
	return nil
}

func printStats(st stats.Stats, levelCount int) {
	best := "--:--"
	if st.BestTime > 0 {
		best = scoring.FormatTime(st.BestTime)
	}

	fmt.Println("Statistics")
	fmt.Println()
	fmt.Printf("  %-16s %d\n", "Games played", st.TotalGames)
	fmt.Printf("  %-16s %d\n", "Wins", st.Wins)
	fmt.Printf("  %-16s %d\n", "Losses", st.Losses)
	fmt.Printf("  %-16s %.0f%%\n", "Win rate", st.WinRate())
	fmt.Printf("  %-16s %d\n", "Current streak", st.CurrentStreak)
	fmt.Printf("  %-16s %s\n", "Best time", best)
	fmt.Printf("  %-16s %d\n", "Total score", st.TotalScore)
	fmt.Printf("  %-16s %d\n", "Coins", st.CoinsCollected)
	fmt.Printf("  %-16s %d\n", "Gems", st.GemsCollected)

	fmt.Println()
	fmt.Println("Wins per level:")
	for n := 1; n <= min(levelCount, stats.PerLevelSlots); n++ {
		fmt.Printf("  Level %d  %d\n", n, st.LevelWins(n))
	}
}
