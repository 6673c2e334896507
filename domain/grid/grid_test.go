package grid

import (
	"errors"
	"testing"
)

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewEmpty(w, h)
	if err != nil {
		t.Fatalf("NewEmpty(%d, %d) error = %v", w, h, err)
	}
	return g
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		rows    [][]Cell
		wantErr error
		width   int
		height  int
	}{
		{
			name:   "rectangular",
			rows:   [][]Cell{{OpenCell, ObstacleCell}, {OpenCell, OpenCell}, {OpenCell, OpenCell}},
			width:  2,
			height: 3,
		},
		{name: "no rows", rows: nil, wantErr: ErrMalformedGrid},
		{name: "empty row", rows: [][]Cell{{}}, wantErr: ErrMalformedGrid},
		{
			name:    "ragged",
			rows:    [][]Cell{{OpenCell, OpenCell}, {OpenCell}},
			wantErr: ErrMalformedGrid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g, err := New(tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if g.Width() != tt.width || g.Height() != tt.height {
				t.Errorf("dimensions = %dx%d, want %dx%d", g.Width(), g.Height(), tt.width, tt.height)
			}
		})
	}
}

func TestNew_CopiesRows(t *testing.T) {
	t.Parallel()

	rows := [][]Cell{{OpenCell, OpenCell}}
	g, err := New(rows)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	rows[0][0] = ObstacleCell

	if g.Get(Pos(0, 0)).Kind != Open {
		t.Error("grid should not alias caller rows")
	}
}

func TestNewEmpty_InvalidDimensions(t *testing.T) {
	t.Parallel()

	for _, dims := range [][2]int{{0, 3}, {3, 0}, {-1, 2}} {
		if _, err := NewEmpty(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewEmpty(%d, %d) error = %v, want ErrInvalidDimensions", dims[0], dims[1], err)
		}
	}
}

func TestGrid_GetOutOfBounds(t *testing.T) {
	t.Parallel()

	g := mustGrid(t, 3, 2)

	for _, p := range []Position{Pos(-1, 0), Pos(0, -1), Pos(3, 0), Pos(0, 2), Pos(100, 100)} {
		c := g.Get(p)
		if !c.IsOutOfBounds() {
			t.Errorf("Get(%v).Kind = %v, want out_of_bounds", p, c.Kind)
		}
		if !c.Passable() {
			t.Errorf("Get(%v) should be passable", p)
		}
		if c.IsObstacle() {
			t.Errorf("Get(%v) should not be an obstacle", p)
		}
	}
}

func TestGrid_Set(t *testing.T) {
	t.Parallel()

	g := mustGrid(t, 3, 3)

	if !g.Set(Pos(1, 1), ObstacleCell) {
		t.Fatal("Set() in bounds should succeed")
	}
	if g.Get(Pos(1, 1)).Kind != Obstacle {
		t.Errorf("Get() = %v, want obstacle", g.Get(Pos(1, 1)).Kind)
	}

	if g.Set(Pos(5, 5), ObstacleCell) {
		t.Error("Set() out of bounds should be ignored")
	}

	if g.Set(Pos(1, 1), OpenCell) {
		t.Error("Set() over a permanent obstacle should be ignored")
	}
	if g.Set(Pos(1, 1), SyntheticObstacleCell) {
		t.Error("Set() over a permanent obstacle should be ignored")
	}
	if g.Get(Pos(1, 1)).Kind != Obstacle {
		t.Error("permanent obstacle changed")
	}

	if !g.Set(Pos(0, 0), SyntheticObstacleCell) {
		t.Fatal("Set() synthetic obstacle should succeed")
	}
	if g.Get(Pos(0, 0)).Passable() {
		t.Error("synthetic obstacle should not be passable")
	}
}

func TestGrid_VisitAndCount(t *testing.T) {
	t.Parallel()

	g := mustGrid(t, 3, 3)
	g.Set(Pos(2, 2), ObstacleCell)

	g.Visit(Pos(0, 0), Up)
	g.Visit(Pos(0, 0), Right)
	g.Visit(Pos(1, 0), Right)
	g.Visit(Pos(2, 2), Up)  // obstacle, ignored
	g.Visit(Pos(-1, 0), Up) // off-grid, ignored

	if got := g.CountVisited(); got != 2 {
		t.Errorf("CountVisited() = %d, want 2", got)
	}

	c := g.Get(Pos(0, 0))
	if c.Kind != Visited {
		t.Fatalf("Kind = %v, want visited", c.Kind)
	}
	if !c.Facings.Has(Up) || !c.Facings.Has(Right) || c.Facings.Has(Down) {
		t.Errorf("Facings = %b, want up|right", c.Facings)
	}
	if g.Get(Pos(2, 2)).Kind != Obstacle {
		t.Error("Visit() must not overwrite obstacles")
	}
}

func TestGrid_Clone(t *testing.T) {
	t.Parallel()

	g := mustGrid(t, 2, 2)
	clone := g.Clone()
	clone.Set(Pos(0, 0), SyntheticObstacleCell)
	clone.Visit(Pos(1, 1), Down)

	if g.Get(Pos(0, 0)).Kind != Open {
		t.Error("Clone() shares cells with the original")
	}
	if g.CountVisited() != 0 {
		t.Error("Clone() visit leaked into the original")
	}
}

func TestGrid_Digest(t *testing.T) {
	t.Parallel()

	a := mustGrid(t, 3, 3)
	b := mustGrid(t, 3, 3)
	if a.Digest() != b.Digest() {
		t.Error("identical grids should share a digest")
	}

	b.Visit(Pos(1, 1), Up)
	if a.Digest() != b.Digest() {
		t.Error("visits should not change the digest")
	}

	b.Set(Pos(0, 0), ObstacleCell)
	if a.Digest() == b.Digest() {
		t.Error("obstacles should change the digest")
	}

	c := mustGrid(t, 9, 1)
	if a.Digest() == c.Digest() {
		t.Error("dimensions should change the digest")
	}
}
