package statemachine

import (
	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// guardOutcomeMatches admits a verdict event only when its payload carries
// the outcome that event stands for.
func guardOutcomeMatches(_ *Trial, event statekit.Event) bool {
	o, ok := event.Payload.(patrol.Outcome)
	if !ok {
		return false
	}
	return EventForOutcome(o) == event.Type
}
