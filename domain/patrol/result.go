package patrol

import (
	"slices"
	"time"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
)

// Baseline is the result of an unobstructed escape-and-record run.
type Baseline struct {
	// Path holds every in-grid state in visitation order.
	Path []guard.State

	// Visited is the number of distinct cells the guard occupied.
	Visited int

	// Steps is the number of moves taken, excluding in-place rotations.
	Steps int

	// Grid is the run's private copy annotated with visited facings.
	Grid *grid.Grid
}

// Candidates returns the distinct positions of path in first-visit order,
// excluding start. Obstructing the start cell is never allowed.
func Candidates(path []guard.State, start grid.Position) []grid.Position {
	seen := make(map[grid.Position]struct{}, len(path))
	seen[start] = struct{}{}

	out := make([]grid.Position, 0, len(path))
	for _, s := range path {
		if _, ok := seen[s.Position]; ok {
			continue
		}
		seen[s.Position] = struct{}{}
		out = append(out, s.Position)
	}
	return out
}

// TrialResult is the outcome of one obstruction trial.
type TrialResult struct {
	Candidate grid.Position
	Outcome   Outcome
	Steps     int
	Duration  time.Duration
	Err       error
}

// SearchResult aggregates every trial of an obstruction search.
type SearchResult struct {
	// Positions holds the loop-inducing candidates sorted by row, then column.
	Positions []grid.Position

	// Candidates is the number of trials evaluated.
	Candidates int

	// Failed is the number of trials that ran but proved nothing, such as
	// trapped or over-budget runs.
	Failed int

	// Excluded breaks Failed down by outcome.
	Excluded map[Outcome]int

	// Duration is the wall time of the search.
	Duration time.Duration
}

// Exclude records one excluded trial under outcome.
func (r *SearchResult) Exclude(o Outcome) {
	if r.Excluded == nil {
		r.Excluded = make(map[Outcome]int)
	}
	r.Excluded[o]++
}

// Count returns the number of loop-inducing positions.
func (r *SearchResult) Count() int {
	return len(r.Positions)
}

// SortPositions orders positions by row, then column.
func SortPositions(ps []grid.Position) {
	slices.SortFunc(ps, func(a, b grid.Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
