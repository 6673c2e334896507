// Package api provides the public API for patrol-go.
//
// patrol-go simulates a guard patrolling a rectangular grid. The guard walks
// forward until the cell ahead is blocked, then turns right. A baseline run
// records every cell the guard covers before leaving the grid; an obstruction
// search then tries a single extra obstacle on each of those cells and counts
// the ones that trap the guard in a loop.
//
// # Quick Start
//
//	p, err := api.ParseGrid(strings.NewReader(floor))
//	if err != nil {
//	    return err
//	}
//
//	analyzer := api.New(api.WithWorkers(8))
//	sol, err := analyzer.Solve(ctx, p.Grid, p.Start, "lab floor")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(sol.Baseline.Visited, sol.Search.Count())
//
// # Grids
//
// Grid files hold one row per line: '.' open floor, '#' an obstacle and one
// of '^', '>', 'v', '<' for the guard. Cells outside the grid are passable;
// stepping onto one ends the run.
//
// # Outcomes
//
// Each obstruction trial ends as one of:
//
//   - OutcomeEscaped: the guard left the grid
//   - OutcomeLooped: a (position, facing) state repeated
//   - OutcomeTrapped: all four facings were blocked
//   - OutcomeBudgetExceeded: the step budget ran out
//   - OutcomeCancelled: the trial's context ended
//
// Only Looped trials count. Trapped and over-budget trials are excluded.
package api

import (
	"context"
	"io"
	"time"

	"github.com/felixgeelhaar/patrol-go/application"
	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
	"github.com/felixgeelhaar/patrol-go/domain/report"
	"github.com/felixgeelhaar/patrol-go/infrastructure/gridfile"
	"github.com/felixgeelhaar/patrol-go/infrastructure/render"
	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

// Re-export core types for convenience.
type (
	// Grid is a rectangular patrol area.
	Grid = grid.Grid

	// Position is a cell coordinate; X grows right, Y grows down.
	Position = grid.Position

	// Facing is one of the four directions the guard can face.
	Facing = grid.Facing

	// GuardState is the guard's position and facing.
	GuardState = guard.State

	// Patrol is a parsed grid and the guard's starting state.
	Patrol = gridfile.Patrol

	// Baseline is the result of the unobstructed run.
	Baseline = patrol.Baseline

	// SearchResult aggregates an obstruction search.
	SearchResult = patrol.SearchResult

	// Outcome classifies a loop-detection run.
	Outcome = patrol.Outcome

	// Report summarises one analysis.
	Report = report.Report

	// ReportStore persists reports.
	ReportStore = report.Store

	// Solution holds everything one analysis produced.
	Solution = application.Solution

	// Metrics records telemetry.
	Metrics = telemetry.Metrics

	// RenderOptions controls grid rendering.
	RenderOptions = render.Options
)

// Facings.
const (
	Up    = grid.Up
	Right = grid.Right
	Down  = grid.Down
	Left  = grid.Left
)

// Outcomes.
const (
	OutcomeEscaped        = patrol.OutcomeEscaped
	OutcomeLooped         = patrol.OutcomeLooped
	OutcomeTrapped        = patrol.OutcomeTrapped
	OutcomeBudgetExceeded = patrol.OutcomeBudgetExceeded
	OutcomeCancelled      = patrol.OutcomeCancelled
)

// Errors.
var (
	ErrMalformedGrid      = grid.ErrMalformedGrid
	ErrTrapped            = guard.ErrTrapped
	ErrInvalidStart       = patrol.ErrInvalidStart
	ErrStepBudgetExceeded = patrol.ErrStepBudgetExceeded
	ErrBaselineLooped     = patrol.ErrBaselineLooped
	ErrNoGuard            = gridfile.ErrNoGuard
	ErrMultipleGuards     = gridfile.ErrMultipleGuards
	ErrInvalidCharacter   = gridfile.ErrInvalidCharacter
)

// ParseGrid reads a grid and the guard's start from r.
func ParseGrid(r io.Reader) (*Patrol, error) {
	return gridfile.Parse(r)
}

// LoadGrid reads a grid file.
func LoadGrid(path string) (*Patrol, error) {
	return gridfile.LoadFile(path)
}

// Render writes g to w. at may be nil.
func Render(w io.Writer, g *Grid, at *GuardState, opts RenderOptions) error {
	return render.Grid(w, g, at, opts)
}

// Analyzer runs baselines and obstruction searches.
type Analyzer struct {
	engine      *application.Engine
	coordinator *application.Coordinator
	service     *application.Service
}

// options holds Analyzer configuration.
type options struct {
	workers          int
	stepBudgetFactor int
	trialTimeout     time.Duration
	store            report.Store
	metrics          telemetry.Metrics
}

// Option configures an Analyzer.
type Option func(*options)

// WithWorkers sets the worker pool size (0 = GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithStepBudgetFactor scales the per-run step budget, factor*4*area+1.
func WithStepBudgetFactor(factor int) Option {
	return func(o *options) {
		o.stepBudgetFactor = factor
	}
}

// WithTrialTimeout bounds each obstruction trial.
func WithTrialTimeout(d time.Duration) Option {
	return func(o *options) {
		o.trialTimeout = d
	}
}

// WithStore persists a report for every Solve.
func WithStore(s ReportStore) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithMetrics records OpenTelemetry metrics.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates an Analyzer.
func New(opts ...Option) *Analyzer {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = &telemetry.NoopMetricsProvider{}
	}

	coordOpts := []application.Option{
		application.WithMetrics(o.metrics),
		application.WithTrialTimeout(o.trialTimeout),
	}
	if o.workers > 0 {
		coordOpts = append(coordOpts, application.WithWorkers(o.workers))
	}

	engine := application.NewEngine(application.EngineConfig{
		StepBudgetFactor: o.stepBudgetFactor,
		Metrics:          o.metrics,
	})
	coordinator := application.NewCoordinatorWithOptions(append(coordOpts, application.WithEngine(engine))...)

	return &Analyzer{
		engine:      engine,
		coordinator: coordinator,
		service: application.NewService(application.ServiceConfig{
			Engine:      engine,
			Coordinator: coordinator,
			Executor:    resilience.NewDefaultExecutor(),
			Store:       o.store,
		}),
	}
}

// RunBaseline walks the guard until it leaves the grid.
func (a *Analyzer) RunBaseline(ctx context.Context, g *Grid, start GuardState) (*Baseline, error) {
	return a.engine.RunBaseline(ctx, g, start)
}

// DetectLoop reports whether the guard escapes or loops on g.
func (a *Analyzer) DetectLoop(ctx context.Context, g *Grid, start GuardState) (Outcome, error) {
	return a.engine.DetectLoop(ctx, g, start)
}

// CountLoopInducingObstructions tries an obstruction on every cell of path.
func (a *Analyzer) CountLoopInducingObstructions(ctx context.Context, g *Grid, start GuardState, path []GuardState) (*SearchResult, error) {
	return a.coordinator.CountLoopInducingObstructions(ctx, g, start, path)
}

// Solve runs the baseline and the obstruction search, and saves a report
// when a store is configured.
func (a *Analyzer) Solve(ctx context.Context, g *Grid, start GuardState, name string) (*Solution, error) {
	return a.service.Solve(ctx, g, start, application.SolveOptions{Name: name})
}

// Workers returns the worker pool size.
func (a *Analyzer) Workers() int {
	return a.coordinator.Workers()
}
