package grid

// CellKind tags the content of a cell.
type CellKind uint8

// Cell kinds.
const (
	// Open is a passable cell the guard has not occupied yet.
	Open CellKind = iota
	// Visited is a passable cell annotated with the facings held on it.
	Visited
	// Obstacle is a permanent obstruction.
	Obstacle
	// SyntheticObstacle is the single obstruction inserted for a trial.
	SyntheticObstacle
	// OutOfBounds is the sentinel returned for off-grid reads.
	OutOfBounds
)

// String returns the kind name.
func (k CellKind) String() string {
	switch k {
	case Open:
		return "open"
	case Visited:
		return "visited"
	case Obstacle:
		return "obstacle"
	case SyntheticObstacle:
		return "synthetic_obstacle"
	case OutOfBounds:
		return "out_of_bounds"
	default:
		return "unknown"
	}
}

// Cell is the content of one grid square.
type Cell struct {
	Kind    CellKind
	Facings FacingSet
}

// Convenience constructors.
var (
	OpenCell              = Cell{Kind: Open}
	ObstacleCell          = Cell{Kind: Obstacle}
	SyntheticObstacleCell = Cell{Kind: SyntheticObstacle}
	outOfBoundsCell       = Cell{Kind: OutOfBounds}
)

// VisitedCell returns a visited cell holding the given facings.
func VisitedCell(facings ...Facing) Cell {
	var s FacingSet
	for _, f := range facings {
		s = s.With(f)
	}
	return Cell{Kind: Visited, Facings: s}
}

// Passable reports whether a guard may step into the cell.
// Off-grid cells are passable; stepping into one ends the patrol.
func (c Cell) Passable() bool {
	return c.Kind == Open || c.Kind == Visited || c.Kind == OutOfBounds
}

// IsObstacle reports whether the cell is a permanent or synthetic obstacle.
func (c Cell) IsObstacle() bool {
	return c.Kind == Obstacle || c.Kind == SyntheticObstacle
}

// IsOutOfBounds reports whether the cell is the off-grid sentinel.
func (c Cell) IsOutOfBounds() bool {
	return c.Kind == OutOfBounds
}
