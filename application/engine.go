// Package application provides the patrol engine, the obstruction search
// coordinator and the service that ties them to report storage.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

const (
	// DefaultStepBudgetFactor scales the step budget: factor*4*area+1.
	DefaultStepBudgetFactor = 2

	// cancelCheckInterval is how many steps pass between context checks.
	cancelCheckInterval = 1024
)

// Engine walks a guard across a grid.
// It holds no per-run state and is safe for concurrent use.
type Engine struct {
	stepBudgetFactor int
	metrics          telemetry.Metrics
}

// EngineConfig contains configuration for the engine.
type EngineConfig struct {
	// StepBudgetFactor scales the per-run step budget (default 2).
	StepBudgetFactor int

	// Metrics records baseline timings (default no-op).
	Metrics telemetry.Metrics
}

// NewEngine creates a new engine with the given configuration.
func NewEngine(config EngineConfig) *Engine {
	e := &Engine{
		stepBudgetFactor: config.StepBudgetFactor,
		metrics:          config.Metrics,
	}

	// Set defaults
	if e.stepBudgetFactor <= 0 {
		e.stepBudgetFactor = DefaultStepBudgetFactor
	}
	if e.metrics == nil {
		e.metrics = &telemetry.NoopMetricsProvider{}
	}

	return e
}

// StepBudget returns the maximum number of moves a run on g may take.
// A guard has at most 4*area distinct states, so a correct run never
// reaches the budget.
func (e *Engine) StepBudget(g *grid.Grid) int {
	return e.stepBudgetFactor*4*g.Area() + 1
}

// RunBaseline walks the guard from start until it leaves the grid and
// records every in-grid state. The input grid is not modified; the returned
// baseline carries an annotated copy.
func (e *Engine) RunBaseline(ctx context.Context, g *grid.Grid, start guard.State) (*patrol.Baseline, error) {
	if err := validateStart(g, start); err != nil {
		return nil, err
	}

	began := time.Now()
	work := g.Clone()
	budget := e.StepBudget(work)
	seen := newStateSet(work)
	path := make([]guard.State, 0, work.Width()+work.Height())

	s := start
	for steps := 0; ; steps++ {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if steps >= budget {
			return nil, fmt.Errorf("%w: %d steps on a %dx%d grid", patrol.ErrStepBudgetExceeded, steps, work.Width(), work.Height())
		}
		if !seen.add(s) {
			return nil, fmt.Errorf("%w: state %v repeated after %d steps", patrol.ErrBaselineLooped, s, steps)
		}

		path = append(path, s)
		work.Visit(s.Position, s.Facing)

		step, err := guard.Advance(work, s)
		if err != nil {
			return nil, err
		}
		if step.Rotations > 0 {
			work.Visit(s.Position, step.State.Facing)
		}

		if !work.Contains(step.State.Position) {
			b := &patrol.Baseline{
				Path:    path,
				Visited: work.CountVisited(),
				Steps:   steps + 1,
				Grid:    work,
			}
			e.metrics.RecordBaseline(ctx, b.Visited, time.Since(began))
			logging.Debug().
				Add(logging.Visited(b.Visited)).
				Add(logging.Steps(b.Steps)).
				Add(logging.Duration(time.Since(began))).
				Msg("baseline escaped")
			return b, nil
		}
		s = step.State
	}
}

// DetectLoop walks the guard from start and reports whether it escapes or
// repeats a (position, facing) state. The grid is only read.
//
// Trapped, BudgetExceeded and Cancelled outcomes come back together with the
// error that caused them.
func (e *Engine) DetectLoop(ctx context.Context, g *grid.Grid, start guard.State) (patrol.Outcome, error) {
	if err := validateStart(g, start); err != nil {
		return "", err
	}
	outcome, _, err := e.detect(ctx, g, start)
	return outcome, err
}

// detect is DetectLoop without start validation; it also returns the number
// of moves taken.
func (e *Engine) detect(ctx context.Context, g *grid.Grid, start guard.State) (patrol.Outcome, int, error) {
	budget := e.StepBudget(g)
	seen := newStateSet(g)

	s := start
	for steps := 0; ; steps++ {
		if steps%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return patrol.OutcomeCancelled, steps, err
			}
		}
		if !seen.add(s) {
			return patrol.OutcomeLooped, steps, nil
		}
		if steps >= budget {
			return patrol.OutcomeBudgetExceeded, steps, fmt.Errorf("%w: %d steps", patrol.ErrStepBudgetExceeded, steps)
		}

		step, err := guard.Advance(g, s)
		if err != nil {
			if errors.Is(err, guard.ErrTrapped) {
				return patrol.OutcomeTrapped, steps, err
			}
			return patrol.OutcomeCancelled, steps, err
		}
		if !g.Contains(step.State.Position) {
			return patrol.OutcomeEscaped, steps + 1, nil
		}
		s = step.State
	}
}

// validateStart rejects shared input that makes every run meaningless.
func validateStart(g *grid.Grid, start guard.State) error {
	if g == nil {
		return fmt.Errorf("%w: nil grid", grid.ErrMalformedGrid)
	}
	if !start.Facing.IsValid() {
		return fmt.Errorf("%w: facing %d", patrol.ErrInvalidStart, start.Facing)
	}
	if !g.Contains(start.Position) {
		return fmt.Errorf("%w: %v is outside the %dx%d grid", patrol.ErrInvalidStart, start.Position, g.Width(), g.Height())
	}
	if g.Get(start.Position).IsObstacle() {
		return fmt.Errorf("%w: %v is an obstacle", patrol.ErrInvalidStart, start.Position)
	}
	return nil
}

// stateSet records guard states seen on one grid, one facing set per cell.
type stateSet struct {
	width  int
	facing []grid.FacingSet
}

func newStateSet(g *grid.Grid) *stateSet {
	return &stateSet{width: g.Width(), facing: make([]grid.FacingSet, g.Area())}
}

// add marks s as seen and reports whether it was new.
func (s *stateSet) add(st guard.State) bool {
	i := st.Position.Y*s.width + st.Position.X
	if s.facing[i].Has(st.Facing) {
		return false
	}
	s.facing[i] = s.facing[i].With(st.Facing)
	return true
}
