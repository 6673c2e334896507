// Package guard provides the guard state and its movement rule.
package guard

import (
	"fmt"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
)

// State is the guard's position and facing. It is a comparable value and
// may be used as a map key.
type State struct {
	Position grid.Position `json:"position"`
	Facing   grid.Facing   `json:"facing"`
}

// NewState creates a state at (x, y) holding facing f.
func NewState(x, y int, f grid.Facing) State {
	return State{Position: grid.Pos(x, y), Facing: f}
}

// String returns the state as "(x,y) facing".
func (s State) String() string {
	return fmt.Sprintf("%v %v", s.Position, s.Facing)
}
