// Package gridfile reads patrol grids from their text form.
//
// Each line is a row: '.' is open floor, '#' an obstacle, and exactly one of
// '^', '>', 'v', '<' marks the guard, whose cell is open floor.
package gridfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
)

// Patrol is a parsed grid and the guard's starting state.
type Patrol struct {
	Grid  *grid.Grid
	Start guard.State
}

// Parse reads a grid from r. CRLF line endings and trailing blank lines
// are accepted.
func Parse(r io.Reader) (*Patrol, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		rows   [][]grid.Cell
		start  guard.State
		guards int
		blank  int
	)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if text == "" {
			blank++
			continue
		}
		if blank > 0 {
			return nil, fmt.Errorf("%w: blank line before line %d", grid.ErrMalformedGrid, line)
		}

		row := make([]grid.Cell, 0, len(text))
		col := 0
		for _, ch := range text {
			col++
			switch ch {
			case '.':
				row = append(row, grid.OpenCell)
			case '#':
				row = append(row, grid.ObstacleCell)
			default:
				f, ok := grid.FacingFromRune(ch)
				if !ok {
					return nil, fmt.Errorf("%w %q at line %d, column %d", ErrInvalidCharacter, ch, line, col)
				}
				guards++
				if guards > 1 {
					return nil, fmt.Errorf("%w: second guard at line %d, column %d", ErrMultipleGuards, line, col)
				}
				start = guard.State{Position: grid.Pos(col-1, len(rows)), Facing: f}
				row = append(row, grid.OpenCell)
			}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}

	g, err := grid.New(rows)
	if err != nil {
		return nil, err
	}
	if guards == 0 {
		return nil, ErrNoGuard
	}

	return &Patrol{Grid: g, Start: start}, nil
}

// ParseString parses a grid held in s.
func ParseString(s string) (*Patrol, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile parses the grid file at path.
func LoadFile(path string) (*Patrol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
