package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// recordTransition appends the transition to the trial history.
// statekit hands actions a pointer to the context, so *Trial arrives as **Trial.
func recordTransition(ctx **Trial, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	t := *ctx

	to := stateForEvent(event.Type)
	t.Transitions = append(t.Transitions, Transition{From: t.State, To: to, At: time.Now()})
	t.State = to

	if o, ok := event.Payload.(patrol.Outcome); ok {
		t.Outcome = o
	}
}

func markStarted(ctx **Trial, _ statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).StartedAt = time.Now()
}

func markFinished(ctx **Trial, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	t := *ctx
	t.FinishedAt = time.Now()
	if t.Outcome == "" && event.Type == eventCancel {
		t.Outcome = patrol.OutcomeCancelled
	}
}
