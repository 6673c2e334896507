// Package patrol provides the outcomes and results of patrol runs.
package patrol

// Outcome is how a single patrol run ended.
type Outcome string

// Patrol outcomes.
const (
	OutcomeEscaped        Outcome = "escaped"         // guard left the grid
	OutcomeLooped         Outcome = "looped"          // a (position, facing) state repeated
	OutcomeTrapped        Outcome = "trapped"         // guard boxed in on all four sides
	OutcomeBudgetExceeded Outcome = "budget_exceeded" // step budget used up
	OutcomeCancelled      Outcome = "cancelled"       // context ended first
)

// IsFailure returns true for outcomes that exclude a trial from aggregation
// without proving anything about the candidate.
func (o Outcome) IsFailure() bool {
	return o == OutcomeTrapped || o == OutcomeBudgetExceeded || o == OutcomeCancelled
}

// IsValid returns true if o is a known outcome.
func (o Outcome) IsValid() bool {
	switch o {
	case OutcomeEscaped, OutcomeLooped, OutcomeTrapped, OutcomeBudgetExceeded, OutcomeCancelled:
		return true
	default:
		return false
	}
}

// String returns the outcome name.
func (o Outcome) String() string {
	return string(o)
}
