package core

import "testing"

func TestPositionAdd(t *testing.T) {
	tests := []struct {
		name     string
		dir      Direction
		expected Position
	}{
		{"up", Up, Pos(5, 4)},
		{"down", Down, Pos(5, 6)},
		{"left", Left, Pos(4, 5)},
		{"right", Right, Pos(6, 5)},
		{"none", NoDirection, Pos(5, 5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Pos(5, 5).Add(tc.dir)
			if result != tc.expected {
				t.Errorf("Add(%v) = %v, expected %v", tc.dir, result, tc.expected)
			}
		})
	}
}

func TestPositionNeighbors(t *testing.T) {
	n := Pos(0, 0).Neighbors()
	expected := [4]Position{Pos(0, -1), Pos(0, 1), Pos(-1, 0), Pos(1, 0)}
	if n != expected {
		t.Errorf("Neighbors() = %v, expected %v", n, expected)
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in       string
		expected Direction
		ok       bool
	}{
		{"up", Up, true},
		{"down", Down, true},
		{"left", Left, true},
		{"right", Right, true},
		{"diagonal", NoDirection, false},
		{"", NoDirection, false},
	}

	for _, tc := range tests {
		d, ok := ParseDirection(tc.in)
		if d != tc.expected || ok != tc.ok {
			t.Errorf("ParseDirection(%q) = (%v, %v), expected (%v, %v)", tc.in, d, ok, tc.expected, tc.ok)
		}
		if ok && d.String() != tc.in {
			t.Errorf("String() = %q, expected %q", d.String(), tc.in)
		}
	}
}

func TestDirectionValid(t *testing.T) {
	for _, d := range Directions {
		if !d.Valid() {
			t.Errorf("%v should be valid", d)
		}
	}
	if NoDirection.Valid() || Direction(99).Valid() {
		t.Error("NoDirection and out-of-range values should be invalid")
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestCenteredRect(t *testing.T) {
	r := CenteredRect(80, 24, 40, 10)
	if r.X != 20 || r.Y != 7 {
		t.Errorf("CenteredRect() = %+v, expected X=20 Y=7", r)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}
