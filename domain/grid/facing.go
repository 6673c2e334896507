package grid

// Facing is one of the four cardinal directions a guard can hold.
type Facing uint8

// Facings in clockwise order.
const (
	Up Facing = iota
	Right
	Down
	Left
)

// Orientation is the axis a facing moves along.
type Orientation uint8

// Orientations.
const (
	Vertical Orientation = iota
	Horizontal
)

var facingDeltas = [4]Position{
	Up:    {X: 0, Y: -1},
	Right: {X: 1, Y: 0},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
}

var facingRunes = [4]rune{Up: '^', Right: '>', Down: 'v', Left: '<'}

var facingNames = [4]string{Up: "up", Right: "right", Down: "down", Left: "left"}

// Delta returns the unit step for the facing.
func (f Facing) Delta() Position {
	return facingDeltas[f&3]
}

// RotateCW returns the facing after a 90 degree clockwise turn.
func (f Facing) RotateCW() Facing {
	return (f + 1) & 3
}

// RotateCCW returns the facing after a 90 degree counter-clockwise turn.
func (f Facing) RotateCCW() Facing {
	return (f + 3) & 3
}

// Orientation returns the axis the facing moves along.
func (f Facing) Orientation() Orientation {
	if f == Up || f == Down {
		return Vertical
	}
	return Horizontal
}

// Rune returns the glyph used for a guard holding this facing.
func (f Facing) Rune() rune {
	return facingRunes[f&3]
}

// IsValid returns true if f is one of the four facings.
func (f Facing) IsValid() bool {
	return f <= Left
}

// String returns the facing name.
func (f Facing) String() string {
	if !f.IsValid() {
		return "invalid"
	}
	return facingNames[f]
}

// FacingFromRune parses one of '^', '>', 'v', '<'.
func FacingFromRune(r rune) (Facing, bool) {
	for f, fr := range facingRunes {
		if fr == r {
			return Facing(f), true
		}
	}
	return 0, false
}

// AllFacings returns the four facings in clockwise order starting at Up.
func AllFacings() []Facing {
	return []Facing{Up, Right, Down, Left}
}

// FacingSet is a set of facings.
type FacingSet uint8

// With returns the set with f added.
func (s FacingSet) With(f Facing) FacingSet {
	return s | 1<<(f&3)
}

// Has reports whether f is in the set.
func (s FacingSet) Has(f Facing) bool {
	return s&(1<<(f&3)) != 0
}

// Len returns the number of facings in the set.
func (s FacingSet) Len() int {
	n := 0
	for f := Up; f <= Left; f++ {
		if s.Has(f) {
			n++
		}
	}
	return n
}

// HasOrientation reports whether any facing in the set moves along o.
func (s FacingSet) HasOrientation(o Orientation) bool {
	if o == Vertical {
		return s.Has(Up) || s.Has(Down)
	}
	return s.Has(Left) || s.Has(Right)
}
