package guard

import (
	"fmt"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
)

// MaxRotations bounds the facings tried in a single Advance call.
const MaxRotations = 4

// Step is the result of one Advance call.
type Step struct {
	// State is the guard state after moving.
	State State

	// Rotations is the number of clockwise turns taken before moving.
	Rotations int
}

// Advance moves the guard one cell. When the cell ahead is blocked the guard
// turns clockwise in place and tries again, up to MaxRotations facings.
// Off-grid cells count as passable; the caller detects the exit.
func Advance(g *grid.Grid, s State) (Step, error) {
	facing := s.Facing
	for rotations := 0; rotations < MaxRotations; rotations++ {
		next := s.Position.Add(facing.Delta())
		if g.Get(next).Passable() {
			return Step{
				State:     State{Position: next, Facing: facing},
				Rotations: rotations,
			}, nil
		}
		facing = facing.RotateCW()
	}
	return Step{State: s}, fmt.Errorf("%w at %v", ErrTrapped, s.Position)
}
