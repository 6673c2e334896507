// Package render draws a grid as text, one glyph per cell.
package render

import (
	"bufio"
	"io"

	"github.com/fatih/color"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
)

// Glyphs used for each cell.
const (
	GlyphOpen       = '.'
	GlyphVertical   = '|'
	GlyphHorizontal = '-'
	GlyphCrossing   = '+'
	GlyphObstacle   = '#'
	GlyphSynthetic  = 'O'
)

// Options controls rendering.
type Options struct {
	// Color paints obstacles, trails and the guard with ANSI colors.
	Color bool

	// Mark draws the listed positions as synthetic obstacles.
	Mark []grid.Position
}

// Glyph returns the rune drawn for c.
func Glyph(c grid.Cell) rune {
	switch c.Kind {
	case grid.Obstacle:
		return GlyphObstacle
	case grid.SyntheticObstacle:
		return GlyphSynthetic
	case grid.Visited:
		vertical := c.Facings.HasOrientation(grid.Vertical)
		horizontal := c.Facings.HasOrientation(grid.Horizontal)
		switch {
		case vertical && horizontal:
			return GlyphCrossing
		case horizontal:
			return GlyphHorizontal
		default:
			return GlyphVertical
		}
	default:
		return GlyphOpen
	}
}

type palette struct {
	obstacle  *color.Color
	synthetic *color.Color
	trail     *color.Color
	guard     *color.Color
}

func newPalette(enabled bool) *palette {
	if !enabled {
		return nil
	}
	p := &palette{
		obstacle:  color.New(color.FgHiBlack),
		synthetic: color.New(color.FgRed, color.Bold),
		trail:     color.New(color.FgCyan),
		guard:     color.New(color.FgYellow, color.Bold),
	}
	for _, c := range []*color.Color{p.obstacle, p.synthetic, p.trail, p.guard} {
		c.EnableColor()
	}
	return p
}

func (p *palette) paint(r rune, c grid.Cell, isGuard bool) string {
	s := string(r)
	if p == nil {
		return s
	}
	switch {
	case isGuard:
		return p.guard.Sprint(s)
	case c.Kind == grid.Obstacle:
		return p.obstacle.Sprint(s)
	case c.Kind == grid.SyntheticObstacle:
		return p.synthetic.Sprint(s)
	case c.Kind == grid.Visited:
		return p.trail.Sprint(s)
	default:
		return s
	}
}

// Grid writes g to w, one row per line. When g holds the guard's position
// its facing glyph replaces the cell. The grid is only read.
func Grid(w io.Writer, g *grid.Grid, at *guard.State, opts Options) error {
	marks := make(map[grid.Position]struct{}, len(opts.Mark))
	for _, p := range opts.Mark {
		marks[p] = struct{}{}
	}
	pal := newPalette(opts.Color)

	bw := bufio.NewWriter(w)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			p := grid.Pos(x, y)
			c := g.Get(p)
			if _, ok := marks[p]; ok && !c.IsObstacle() {
				c = grid.SyntheticObstacleCell
			}

			isGuard := at != nil && at.Position == p
			r := Glyph(c)
			if isGuard {
				r = at.Facing.Rune()
			}
			if _, err := bw.WriteString(pal.paint(r, c, isGuard)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
