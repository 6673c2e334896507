package statemachine

import (
	"testing"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

func newTestInterpreter(t *testing.T) *Interpreter {
	t.Helper()
	interp, err := NewTrialInterpreter(NewTrial(grid.Pos(2, 3)))
	if err != nil {
		t.Fatalf("NewTrialInterpreter() error = %v", err)
	}
	return interp
}

func TestNewTrialMachine(t *testing.T) {
	t.Parallel()

	machine, err := NewTrialMachine()
	if err != nil {
		t.Fatalf("NewTrialMachine() error = %v", err)
	}
	if machine == nil {
		t.Fatal("NewTrialMachine() returned nil machine")
	}
}

func TestEventForOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome patrol.Outcome
		state   TrialState
	}{
		{patrol.OutcomeEscaped, StateEscaped},
		{patrol.OutcomeLooped, StateLooped},
		{patrol.OutcomeTrapped, StateTrapped},
		{patrol.OutcomeBudgetExceeded, StateExhausted},
		{patrol.OutcomeCancelled, StateCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			t.Parallel()

			if got := stateForEvent(EventForOutcome(tt.outcome)); got != tt.state {
				t.Errorf("stateForEvent(EventForOutcome(%s)) = %s, want %s", tt.outcome, got, tt.state)
			}
		})
	}
}

func TestInterpreter_Start(t *testing.T) {
	t.Parallel()

	interp := newTestInterpreter(t)

	if interp.State() != StatePending {
		t.Errorf("initial state = %s, want pending", interp.State())
	}
	if interp.Trial().State != StatePending {
		t.Errorf("trial state = %s, want pending", interp.Trial().State)
	}
	if interp.IsTerminal() {
		t.Error("should not be terminal after start")
	}
}

func TestInterpreter_Lifecycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		outcome patrol.Outcome
		want    TrialState
	}{
		{patrol.OutcomeEscaped, StateEscaped},
		{patrol.OutcomeLooped, StateLooped},
		{patrol.OutcomeTrapped, StateTrapped},
		{patrol.OutcomeBudgetExceeded, StateExhausted},
		{patrol.OutcomeCancelled, StateCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			t.Parallel()

			interp := newTestInterpreter(t)
			if err := interp.Begin(); err != nil {
				t.Fatalf("Begin() error = %v", err)
			}
			if interp.State() != StatePatrolling {
				t.Fatalf("state after Begin() = %s, want patrolling", interp.State())
			}

			if err := interp.Finish(tt.outcome); err != nil {
				t.Fatalf("Finish(%s) error = %v", tt.outcome, err)
			}

			trial := interp.Trial()
			if trial.State != tt.want {
				t.Errorf("trial state = %s, want %s", trial.State, tt.want)
			}
			if trial.Outcome != tt.outcome {
				t.Errorf("trial outcome = %s, want %s", trial.Outcome, tt.outcome)
			}
			if !interp.IsTerminal() {
				t.Error("should be terminal after Finish()")
			}
			if len(trial.Transitions) != 2 {
				t.Fatalf("transitions = %d, want 2", len(trial.Transitions))
			}
			if trial.Transitions[0].From != StatePending || trial.Transitions[1].To != tt.want {
				t.Errorf("transitions = %+v", trial.Transitions)
			}
			if trial.StartedAt.IsZero() || trial.FinishedAt.IsZero() {
				t.Error("start and finish times should be recorded")
			}
			if trial.Duration() < 0 {
				t.Errorf("Duration() = %v", trial.Duration())
			}
		})
	}
}

func TestInterpreter_CancelPending(t *testing.T) {
	t.Parallel()

	interp := newTestInterpreter(t)
	if err := interp.Finish(patrol.OutcomeCancelled); err != nil {
		t.Fatalf("Finish(cancelled) error = %v", err)
	}
	if interp.State() != StateCancelled {
		t.Errorf("state = %s, want cancelled", interp.State())
	}
	if interp.Trial().Outcome != patrol.OutcomeCancelled {
		t.Errorf("outcome = %s, want cancelled", interp.Trial().Outcome)
	}
}

func TestInterpreter_InvalidTransitions(t *testing.T) {
	t.Parallel()

	interp := newTestInterpreter(t)

	if err := interp.Finish(patrol.OutcomeLooped); err == nil {
		t.Error("Finish() before Begin() should fail")
	}
	if interp.State() != StatePending {
		t.Errorf("state = %s, want pending", interp.State())
	}

	if err := interp.Finish(patrol.Outcome("bogus")); err == nil {
		t.Error("Finish() with an unknown outcome should fail")
	}

	if err := interp.Begin(); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := interp.Begin(); err == nil {
		t.Error("second Begin() should fail")
	}

	if err := interp.Finish(patrol.OutcomeEscaped); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if err := interp.Finish(patrol.OutcomeLooped); err == nil {
		t.Error("Finish() on a finished trial should fail")
	}
	if interp.State() != StateEscaped {
		t.Errorf("state = %s, want escaped", interp.State())
	}
}

func TestTrialState_IsTerminal(t *testing.T) {
	t.Parallel()

	for _, s := range []TrialState{StatePending, StatePatrolling} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []TrialState{StateEscaped, StateLooped, StateTrapped, StateExhausted, StateCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
