package levels

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/maze-escape/internal/core"
	"github.com/vovakirdan/maze-escape/internal/maze"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestBuiltinCatalog(t *testing.T) {
	cat, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	if cat.Count() != 5 {
		t.Fatalf("Count() = %d, expected 5", cat.Count())
	}

	tests := []struct {
		number    int
		name      string
		timeLimit int
		coin, gem int
		roaming   bool
		w, h      int
	}{
		{1, "Novice Path", 0, 50, 100, false, 18, 12},
		{2, "Apprentice Trial", 120, 75, 150, false, 20, 13},
		{3, "Warrior's Gauntlet", 100, 100, 200, false, 22, 14},
		{4, "Master's Labyrinth", 90, 125, 250, true, 28, 16},
		{5, "Nightmare Realm", 75, 150, 300, true, 30, 18},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lvl := cat.Get(tc.number)
			if lvl == nil {
				t.Fatalf("Get(%d) = nil", tc.number)
			}
			if lvl.Number != tc.number || lvl.Name != tc.name {
				t.Errorf("level = %d %q, expected %d %q", lvl.Number, lvl.Name, tc.number, tc.name)
			}
			if lvl.TimeLimit != tc.timeLimit || lvl.CoinValue != tc.coin || lvl.GemValue != tc.gem {
				t.Errorf("limit/coin/gem = %d/%d/%d, expected %d/%d/%d",
					lvl.TimeLimit, lvl.CoinValue, lvl.GemValue, tc.timeLimit, tc.coin, tc.gem)
			}
			if lvl.RoamingSnakes != tc.roaming {
				t.Errorf("RoamingSnakes = %v, expected %v", lvl.RoamingSnakes, tc.roaming)
			}
			if lvl.Grid.Width() != tc.w || lvl.Grid.Height() != tc.h {
				t.Errorf("grid = %dx%d, expected %dx%d", lvl.Grid.Width(), lvl.Grid.Height(), tc.w, tc.h)
			}
			if err := maze.Validate(lvl.Grid); err != nil {
				t.Errorf("built-in level invalid: %v", err)
			}
			if lvl.Description == "" {
				t.Error("built-in level should have a description")
			}
		})
	}
}

func TestLevelOneLayout(t *testing.T) {
	lvl := MustBuiltin().Get(1)

	if got := lvl.Start(); got != core.Pos(1, 1) {
		t.Errorf("Start() = %v, expected (1,1)", got)
	}
	if !maze.IsGoalReached(lvl.Grid, core.Pos(16, 10)) {
		t.Error("expected goal at (16,10)")
	}
	if lvl.Snakes() != nil {
		t.Error("level 1 has no roaming snakes")
	}
}

func TestRoamingLevelsSpawnSnakes(t *testing.T) {
	cat := MustBuiltin()
	for _, n := range []int{4, 5} {
		lvl := cat.Get(n)
		snakes := lvl.Snakes()
		if len(snakes) == 0 {
			t.Errorf("level %d should spawn roaming snakes", n)
		}
		for _, p := range snakes {
			if lvl.Grid.At(p) != maze.Snake {
				t.Errorf("level %d snake spawn %v is not a snake cell", n, p)
			}
		}
	}
}

func TestCatalogNavigation(t *testing.T) {
	cat := MustBuiltin()

	if cat.Get(0) != nil || cat.Get(6) != nil {
		t.Error("Get() out of range should return nil")
	}
	if _, err := cat.Lookup(9); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("Lookup(9) error = %v, expected ErrLevelNotFound", err)
	}

	tests := []struct{ from, to int }{
		{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 1},
	}
	for _, tc := range tests {
		if got := cat.Next(tc.from); got != tc.to {
			t.Errorf("Next(%d) = %d, expected %d", tc.from, got, tc.to)
		}
	}

	if cat.Get(1).Name != "Novice Path" || cat.Get(5).Name != "Nightmare Realm" {
		t.Errorf("names = %q .. %q", cat.Get(1).Name, cat.Get(5).Name)
	}
}

func TestParseYAMLDefaults(t *testing.T) {
	data := []byte(`
name: "Tiny"
grid:
  - "#####"
  - "#S.G#"
  - "#####"
`)
	lvl, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if lvl.CoinValue != maze.CoinPoints || lvl.GemValue != maze.GemPoints {
		t.Errorf("defaults = %d/%d, expected %d/%d", lvl.CoinValue, lvl.GemValue, maze.CoinPoints, maze.GemPoints)
	}
	if lvl.TimeLimit != 0 {
		t.Errorf("TimeLimit = %d, expected unlimited", lvl.TimeLimit)
	}
}

func TestParseYAMLRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no name", "grid: [\"#S.G#\"]"},
		{"bad char", "name: x\ngrid: [\"#S?G#\"]"},
		{"no goal", "name: x\ngrid: [\"#S..#\"]"},
		{"negative limit", "name: x\ntime_limit: -3\ngrid: [\"#S.G#\"]"},
		{"not yaml", "name: [unterminated"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseYAML([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestMarshalYAMLRoundTrip(t *testing.T) {
	orig := *MustBuiltin().Get(4)
	data, err := MarshalYAML(orig)
	if err != nil {
		t.Fatalf("MarshalYAML() error = %v", err)
	}
	back, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if back.Name != orig.Name || back.TimeLimit != orig.TimeLimit || !back.RoamingSnakes {
		t.Errorf("round trip lost fields: %+v", back)
	}
}

func writeLevel(t *testing.T, dir, file string, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, file), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadCustomDirectory(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.yaml", "number: 2\nname: Second\ngrid: [\"#S.G#\"]\n")
	writeLevel(t, dir, "a.yml", "number: 1\nname: First\ngrid: [\"#SG#\"]\n")
	writeLevel(t, dir, "broken.yaml", "number: 3\nname: Broken\ngrid: [\"#S..#\"]\n")
	writeLevel(t, dir, "notes.txt", "not a level")

	cat, err := Load(dir, quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Count() != 2 {
		t.Fatalf("Count() = %d, expected 2 (invalid file skipped)", cat.Count())
	}
	if cat.Get(1).Name != "First" || cat.Get(2).Name != "Second" {
		t.Errorf("order = [%s %s], expected [First Second]", cat.Get(1).Name, cat.Get(2).Name)
	}
	if cat.Get(1).FilePath == "" {
		t.Error("custom levels should record their file path")
	}
}

func TestLoadFallsBackToBuiltin(t *testing.T) {
	cat, err := Load(t.TempDir(), quietLogger())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cat.Count() != 5 {
		t.Errorf("empty directory should fall back to built-in levels, got %d", cat.Count())
	}

	cat, err = Load("", nil)
	if err != nil || cat.Count() != 5 {
		t.Errorf("Load(\"\") = %d levels, %v", cat.Count(), err)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope"), quietLogger()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "one.yaml", "number: 1\nname: One\ngrid: [\"#SG#\"]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Catalog, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, quietLogger(), func(c *Catalog) { changed <- c })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	writeLevel(t, dir, "two.yaml", "number: 2\nname: Two\ngrid: [\"#S.G#\"]\n")

	select {
	case cat := <-changed:
		if cat.Count() != 2 {
			t.Errorf("reloaded catalog has %d levels, expected 2", cat.Count())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestWatchReloadsNestedLevels(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "pack")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	writeLevel(t, dir, "one.yaml", "number: 1\nname: One\ngrid: [\"#SG#\"]\n")
	writeLevel(t, nested, "two.yaml", "number: 2\nname: Two\ngrid: [\"#S.G#\"]\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Catalog, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, quietLogger(), func(c *Catalog) { changed <- c })
	}()

	time.Sleep(100 * time.Millisecond)
	writeLevel(t, nested, "two.yaml", "number: 2\nname: Two Edited\ngrid: [\"#S.G#\"]\n")

	select {
	case cat := <-changed:
		if cat.Count() != 2 || cat.Get(2).Name != "Two Edited" {
			t.Errorf("reloaded catalog = %d levels, level 2 %q", cat.Count(), cat.Get(2).Name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload of a nested level")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestLiveSwapsCatalog(t *testing.T) {
	first := MustBuiltin()
	live := NewLive(first)
	if live.Get() != first {
		t.Fatal("Get should return the initial catalog")
	}

	second := NewCatalog(first.All()[:1])
	live.Set(second)
	if live.Get() != second || live.Get().Count() != 1 {
		t.Error("Set should replace the catalog")
	}
}
