package statemachine

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// Interpreter drives one trial through its lifecycle.
type Interpreter struct {
	interp *statekit.Interpreter[*Trial]
	trial  *Trial
}

// NewInterpreter creates an interpreter bound to trial.
func NewInterpreter(machine *statekit.MachineConfig[*Trial], trial *Trial) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **Trial) {
		*c = trial
	})
	return &Interpreter{interp: interp, trial: trial}
}

// NewTrialInterpreter builds a fresh machine and interpreter for candidate's trial.
func NewTrialInterpreter(trial *Trial) (*Interpreter, error) {
	machine, err := NewTrialMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to create trial machine: %w", err)
	}
	i := NewInterpreter(machine, trial)
	i.interp.Start()
	trial.State = i.State()
	return i, nil
}

// State returns the current lifecycle state.
func (i *Interpreter) State() TrialState {
	return TrialState(i.interp.State().Value)
}

// IsTerminal returns true once the trial reached a final state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Trial returns the interpreter context.
func (i *Interpreter) Trial() *Trial {
	return i.trial
}

// Begin moves a pending trial to patrolling.
func (i *Interpreter) Begin() error {
	if i.State() != StatePending {
		return fmt.Errorf("cannot start trial in state %s", i.State())
	}
	i.interp.Send(statekit.Event{Type: eventStart})
	return i.sync(StatePatrolling)
}

// Finish records the verdict of a patrolling trial.
func (i *Interpreter) Finish(o patrol.Outcome) error {
	if !o.IsValid() {
		return fmt.Errorf("invalid outcome %q", o)
	}
	state := i.State()
	if state.IsTerminal() {
		return fmt.Errorf("trial already finished as %s", state)
	}
	if state == StatePending && o != patrol.OutcomeCancelled {
		return fmt.Errorf("cannot record %s for a trial that never started", o)
	}

	event := EventForOutcome(o)
	i.interp.Send(statekit.Event{Type: event, Payload: o})
	return i.sync(stateForEvent(event))
}

// sync checks that the machine landed in want and mirrors it into the trial.
func (i *Interpreter) sync(want TrialState) error {
	got := i.State()
	i.trial.State = got
	if got != want {
		return fmt.Errorf("trial transition to %s rejected, still %s", want, got)
	}
	return nil
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}
