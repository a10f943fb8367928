// Package scoring computes the score of a completed level.
package scoring

import "fmt"

const (
	baseScore     = 1000
	levelBonus    = 200
	secondPenalty = 2
	maxPenalty    = 900
	minTimeScore  = 100
)

// Calculate returns the final score for a win on the given level.
// The time component starts at 1000+200*level, loses 2 points per second
// (at most 900) and never drops below 100; coins and gems are added on top.
func Calculate(timeSeconds, level, coins, gems, coinValue, gemValue int) int {
	penalty := min(timeSeconds*secondPenalty, maxPenalty)
	timeScore := max(baseScore+level*levelBonus-penalty, minTimeScore)
	return timeScore + coins*coinValue + gems*gemValue
}

// FormatTime renders seconds as mm:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
