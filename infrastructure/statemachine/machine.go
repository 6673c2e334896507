// Package statemachine provides the statekit lifecycle of an obstruction trial.
package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// TrialState is a lifecycle state of one obstruction trial.
type TrialState string

// Trial lifecycle states.
const (
	StatePending    TrialState = "pending"
	StatePatrolling TrialState = "patrolling"
	StateEscaped    TrialState = "escaped"
	StateLooped     TrialState = "looped"
	StateTrapped    TrialState = "trapped"
	StateExhausted  TrialState = "exhausted"
	StateCancelled  TrialState = "cancelled"
)

// IsTerminal returns true once the trial has a verdict.
func (s TrialState) IsTerminal() bool {
	switch s {
	case StateEscaped, StateLooped, StateTrapped, StateExhausted, StateCancelled:
		return true
	default:
		return false
	}
}

// Transition is one recorded lifecycle change.
type Transition struct {
	From TrialState
	To   TrialState
	At   time.Time
}

// Trial is the machine context for a single obstruction trial.
// Each trial owns its Trial value; it is never shared between workers.
type Trial struct {
	Candidate   grid.Position
	State       TrialState
	Outcome     patrol.Outcome
	StartedAt   time.Time
	FinishedAt  time.Time
	Transitions []Transition
}

// NewTrial creates a pending trial for candidate.
func NewTrial(candidate grid.Position) *Trial {
	return &Trial{Candidate: candidate, State: StatePending}
}

// Duration returns the time between patrol start and verdict.
func (t *Trial) Duration() time.Duration {
	if t.StartedAt.IsZero() || t.FinishedAt.IsZero() {
		return 0
	}
	return t.FinishedAt.Sub(t.StartedAt)
}

// Event types.
const (
	eventStart   statekit.EventType = "START"
	eventEscape  statekit.EventType = "ESCAPE"
	eventLoop    statekit.EventType = "LOOP"
	eventTrap    statekit.EventType = "TRAP"
	eventExhaust statekit.EventType = "EXHAUST"
	eventCancel  statekit.EventType = "CANCEL"
)

const (
	statePending    = statekit.StateID(StatePending)
	statePatrolling = statekit.StateID(StatePatrolling)
	stateEscaped    = statekit.StateID(StateEscaped)
	stateLooped     = statekit.StateID(StateLooped)
	stateTrapped    = statekit.StateID(StateTrapped)
	stateExhausted  = statekit.StateID(StateExhausted)
	stateCancelled  = statekit.StateID(StateCancelled)
)

// NewTrialMachine creates the trial lifecycle statechart.
func NewTrialMachine() (*statekit.MachineConfig[*Trial], error) {
	return statekit.NewMachine[*Trial]("trial").
		WithInitial(statePending).
		WithContext(&Trial{}).
		WithAction("markStarted", markStarted).
		WithAction("recordTransition", recordTransition).
		WithAction("markFinished", markFinished).
		WithGuard("outcomeMatches", guardOutcomeMatches).
		State(statePending).
			On(eventStart).Target(statePatrolling).Do("recordTransition").
			On(eventCancel).Target(stateCancelled).Do("recordTransition").
			Done().
		State(statePatrolling).
			OnEntry("markStarted").
			On(eventEscape).Target(stateEscaped).Guard("outcomeMatches").Do("recordTransition").
			On(eventLoop).Target(stateLooped).Guard("outcomeMatches").Do("recordTransition").
			On(eventTrap).Target(stateTrapped).Guard("outcomeMatches").Do("recordTransition").
			On(eventExhaust).Target(stateExhausted).Guard("outcomeMatches").Do("recordTransition").
			On(eventCancel).Target(stateCancelled).Do("recordTransition").
			Done().
		State(stateEscaped).
			Final().
			OnEntry("markFinished").
			Done().
		State(stateLooped).
			Final().
			OnEntry("markFinished").
			Done().
		State(stateTrapped).
			Final().
			OnEntry("markFinished").
			Done().
		State(stateExhausted).
			Final().
			OnEntry("markFinished").
			Done().
		State(stateCancelled).
			Final().
			OnEntry("markFinished").
			Done().
		Build()
}

// EventForOutcome returns the event that records outcome o.
func EventForOutcome(o patrol.Outcome) statekit.EventType {
	switch o {
	case patrol.OutcomeEscaped:
		return eventEscape
	case patrol.OutcomeLooped:
		return eventLoop
	case patrol.OutcomeTrapped:
		return eventTrap
	case patrol.OutcomeBudgetExceeded:
		return eventExhaust
	default:
		return eventCancel
	}
}

// stateForEvent returns the target state of an event.
func stateForEvent(e statekit.EventType) TrialState {
	switch e {
	case eventStart:
		return StatePatrolling
	case eventEscape:
		return StateEscaped
	case eventLoop:
		return StateLooped
	case eventTrap:
		return StateTrapped
	case eventExhaust:
		return StateExhausted
	default:
		return StateCancelled
	}
}
