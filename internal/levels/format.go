package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/maze-escape/internal/maze"
)

// yamlLevel is the on-disk layout of a level file.
type yamlLevel struct {
	Number        int      `yaml:"number"`
	Name          string   `yaml:"name"`
	Description   string   `yaml:"description"`
	TimeLimit     int      `yaml:"time_limit"`
	CoinValue     *int     `yaml:"coin_value"`
	GemValue      *int     `yaml:"gem_value"`
	RoamingSnakes bool     `yaml:"roaming_snakes"`
	Grid          []string `yaml:"grid"`
}

// ParseYAML decodes and validates a level file.
// Missing coin and gem values default to the pickup values.
func ParseYAML(data []byte) (Level, error) {
	var y yamlLevel
	if err := yaml.Unmarshal(data, &y); err != nil {
		return Level{}, fmt.Errorf("decoding yaml: %w", err)
	}
	if y.Name == "" {
		return Level{}, fmt.Errorf("level has no name")
	}
	if y.TimeLimit < 0 {
		return Level{}, fmt.Errorf("negative time limit %d", y.TimeLimit)
	}

	grid, err := maze.ParseRows(y.Grid)
	if err != nil {
		return Level{}, err
	}
	if err := maze.Validate(grid); err != nil {
		return Level{}, err
	}

	lvl := Level{
		Number:        y.Number,
		Name:          y.Name,
		Description:   y.Description,
		TimeLimit:     y.TimeLimit,
		CoinValue:     maze.CoinPoints,
		GemValue:      maze.GemPoints,
		RoamingSnakes: y.RoamingSnakes,
		Grid:          grid,
	}
	if y.CoinValue != nil {
		lvl.CoinValue = *y.CoinValue
	}
	if y.GemValue != nil {
		lvl.GemValue = *y.GemValue
	}
	return lvl, nil
}

// MarshalYAML encodes a level in the file layout ParseYAML reads.
func MarshalYAML(l Level) ([]byte, error) {
	cv, gv := l.CoinValue, l.GemValue
	return yaml.Marshal(yamlLevel{
		Number:        l.Number,
		Name:          l.Name,
		Description:   l.Description,
		TimeLimit:     l.TimeLimit,
		CoinValue:     &cv,
		GemValue:      &gv,
		RoamingSnakes: l.RoamingSnakes,
		Grid:          l.Grid.Rows(),
	})
}
