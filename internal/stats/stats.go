// Package stats keeps the player's lifetime statistics: wins, losses, best
// time, streak, per-level wins and reward totals. The record is a flat JSON
// object stored under a fixed key in a pluggable key/value backend.
package stats

// DefaultKey is the storage key of the statistics record.
const DefaultKey = "maze-game-stats"

// PerLevelSlots is the number of levels with a dedicated win counter.
const PerLevelSlots = 5

// Stats is the persisted statistics record.
type Stats struct {
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	BestTime       int `json:"bestTime"` // seconds, 0 = no win yet
	CurrentStreak  int `json:"currentStreak"`
	TotalGames     int `json:"totalGames"`
	Level1Wins     int `json:"level1Wins"`
	Level2Wins     int `json:"level2Wins"`
	Level3Wins     int `json:"level3Wins"`
	Level4Wins     int `json:"level4Wins"`
	Level5Wins     int `json:"level5Wins"`
	TotalScore     int `json:"totalScore"`
	CoinsCollected int `json:"coinsCollected"`
	GemsCollected  int `json:"gemsCollected"`
}

// Win describes a resolved winning run.
type Win struct {
	Level    int
	TimeSecs int
	Score    int
	Coins    int
	Gems     int
}

// Default returns the zero record.
func Default() Stats {
	return Stats{}
}

// WithWin returns the record updated for a win.
func (s Stats) WithWin(w Win) Stats {
	s.Wins++
	s.TotalGames++
	s.CurrentStreak++
	s.TotalScore += w.Score
	s.CoinsCollected += w.Coins
	s.GemsCollected += w.Gems
	if p := s.levelSlot(w.Level); p != nil {
		*p++
	}
	if s.BestTime == 0 || w.TimeSecs < s.BestTime {
		s.BestTime = w.TimeSecs
	}
	return s
}

// WithLoss returns the record updated for a loss. Best time and totals are kept.
func (s Stats) WithLoss() Stats {
	s.Losses++
	s.TotalGames++
	s.CurrentStreak = 0
	return s
}

// LevelWins returns the win counter for level n (1..5), or 0.
func (s Stats) LevelWins(n int) int {
	if p := s.levelSlot(n); p != nil {
		return *p
	}
	return 0
}

// WinRate returns wins/totalGames as a percentage.
func (s Stats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) * 100 / float64(s.TotalGames)
}

func (s *Stats) levelSlot(n int) *int {
	switch n {
	case 1:
		return &s.Level1Wins
	case 2:
		return &s.Level2Wins
	case 3:
		return &s.Level3Wins
	case 4:
		return &s.Level4Wins
	case 5:
		return &s.Level5Wins
	}
	return nil
}
