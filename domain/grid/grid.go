// Package grid provides the static patrol area: positions, facings and cells.
package grid

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Grid is a rectangular board of cells indexed [row][col].
// Dimensions are fixed at construction.
type Grid struct {
	width  int
	height int
	cells  [][]Cell
}

// New builds a grid from rows of cells. Every row must have the same,
// non-zero length. The rows are copied.
func New(rows [][]Cell) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedGrid)
	}
	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty first row", ErrMalformedGrid)
	}

	cells := make([][]Cell, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedGrid, y, len(row), width)
		}
		cells[y] = append([]Cell(nil), row...)
	}

	return &Grid{width: width, height: len(rows), cells: cells}, nil
}

// NewEmpty builds a width x height grid of open cells.
func NewEmpty(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Area returns width * height.
func (g *Grid) Area() int { return g.width * g.height }

// Contains reports whether p lies inside the grid.
func (g *Grid) Contains(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Get returns the cell at p, or the OutOfBounds sentinel when p is off-grid.
func (g *Grid) Get(p Position) Cell {
	if !g.Contains(p) {
		return outOfBoundsCell
	}
	return g.cells[p.Y][p.X]
}

// Set stores c at p and reports whether the write happened.
// Off-grid writes are ignored, and so are writes over a permanent obstacle.
func (g *Grid) Set(p Position, c Cell) bool {
	if !g.Contains(p) {
		return false
	}
	if g.cells[p.Y][p.X].Kind == Obstacle {
		return false
	}
	if c.Kind == OutOfBounds {
		return false
	}
	g.cells[p.Y][p.X] = c
	return true
}

// Visit marks p as visited with facing f, keeping facings recorded earlier.
// Obstacles and off-grid positions are left untouched.
func (g *Grid) Visit(p Position, f Facing) {
	if !g.Contains(p) {
		return
	}
	c := g.cells[p.Y][p.X]
	switch c.Kind {
	case Open:
		g.cells[p.Y][p.X] = Cell{Kind: Visited, Facings: FacingSet(0).With(f)}
	case Visited:
		g.cells[p.Y][p.X].Facings = c.Facings.With(f)
	}
}

// CountVisited returns the number of cells of kind Visited.
func (g *Grid) CountVisited() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c.Kind == Visited {
				n++
			}
		}
	}
	return n
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([][]Cell, g.height)
	for y, row := range g.cells {
		cells[y] = append([]Cell(nil), row...)
	}
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Digest returns a stable hex SHA-256 of the dimensions and obstacle layout.
// Visit annotations do not affect the digest.
func (g *Grid) Digest() string {
	h := sha256.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(g.width))  // #nosec G115 -- width is positive
	binary.BigEndian.PutUint64(dims[8:], uint64(g.height)) // #nosec G115 -- height is positive
	h.Write(dims[:])

	row := make([]byte, g.width)
	for _, cells := range g.cells {
		for x, c := range cells {
			switch c.Kind {
			case Obstacle:
				row[x] = '#'
			case SyntheticObstacle:
				row[x] = 'O'
			default:
				row[x] = '.'
			}
		}
		h.Write(row)
	}
	return hex.EncodeToString(h.Sum(nil))
}
