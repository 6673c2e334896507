package application_test

import (
	"testing"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
)

// Test helpers

// aocSample is the reference 10x10 patrol: 41 visited cells, 6 loops.
var aocSample = []string{
	"....#.....",
	".........#",
	"..........",
	"..#.......",
	".......#..",
	"..........",
	".#..^.....",
	"........#.",
	"#.........",
	"......#...",
}

// ringSample has exactly one loop-inducing position, (0,2).
var ringSample = []string{
	".#..",
	".^.#",
	"....",
	"..#.",
}

// buildGrid parses '#', '.' and one guard glyph.
func buildGrid(t *testing.T, rows ...string) (*grid.Grid, guard.State) {
	t.Helper()

	var start guard.State
	found := false
	cells := make([][]grid.Cell, len(rows))
	for y, row := range rows {
		cells[y] = make([]grid.Cell, 0, len(row))
		for x, r := range row {
			switch r {
			case '#':
				cells[y] = append(cells[y], grid.ObstacleCell)
			case '.':
				cells[y] = append(cells[y], grid.OpenCell)
			default:
				f, ok := grid.FacingFromRune(r)
				if !ok {
					t.Fatalf("unexpected rune %q at (%d,%d)", r, x, y)
				}
				start = guard.NewState(x, y, f)
				found = true
				cells[y] = append(cells[y], grid.OpenCell)
			}
		}
	}
	if !found {
		t.Fatal("test grid has no guard")
	}

	g, err := grid.New(cells)
	if err != nil {
		t.Fatalf("grid.New() error = %v", err)
	}
	return g, start
}

func positionsEqual(a, b []grid.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func patrolStart() guard.State {
	return guard.NewState(0, 0, grid.Up)
}
