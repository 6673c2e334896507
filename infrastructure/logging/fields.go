package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a report/run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Position adds x and y fields.
func Position(p grid.Position) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("x", p.X).Int("y", p.Y)
	}
}

// Candidate adds the obstruction candidate of a trial.
func Candidate(p grid.Position) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("candidate", p.String())
	}
}

// Facing adds a facing field.
func Facing(f grid.Facing) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("facing", f.String())
	}
}

// Outcome adds a patrol outcome field.
func Outcome(o patrol.Outcome) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("outcome", string(o))
	}
}

// Dimensions adds grid width and height.
func Dimensions(width, height int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("width", width).Int("height", height)
	}
}

// Steps adds a step count field.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Visited adds the distinct visited cell count.
func Visited(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("visited", n)
	}
}

// Candidates adds the number of obstruction candidates.
func Candidates(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("candidates", n)
	}
}

// LoopCount adds the number of loop-inducing positions.
func LoopCount(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("loops", n)
	}
}

// Workers adds the worker pool size.
func Workers(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("workers", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
