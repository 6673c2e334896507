package application

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
	"github.com/felixgeelhaar/patrol-go/infrastructure/statemachine"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

// Coordinator runs one obstruction trial per baseline candidate on a fixed
// pool of workers and aggregates the loop-inducing positions.
type Coordinator struct {
	engine   *Engine
	executor *resilience.Executor
	workers  int
	metrics  telemetry.Metrics
}

// CoordinatorConfig contains configuration for the coordinator.
type CoordinatorConfig struct {
	// Engine runs each trial (default NewEngine with defaults).
	Engine *Engine

	// Executor bounds trial concurrency. When nil, one is built with a
	// bulkhead sized to Workers and the given TrialTimeout.
	Executor *resilience.Executor

	// Workers is the pool size (default runtime.GOMAXPROCS(0)).
	Workers int

	// TrialTimeout bounds a single trial when Executor is nil (0 = none).
	TrialTimeout time.Duration

	// Metrics records trial and search metrics (default no-op).
	Metrics telemetry.Metrics
}

// NewCoordinator creates a new coordinator with the given configuration.
func NewCoordinator(config CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		engine:   config.Engine,
		executor: config.Executor,
		workers:  config.Workers,
		metrics:  config.Metrics,
	}

	// Set defaults
	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.metrics == nil {
		c.metrics = &telemetry.NoopMetricsProvider{}
	}
	if c.engine == nil {
		c.engine = NewEngine(EngineConfig{Metrics: c.metrics})
	}
	if c.executor == nil {
		c.executor = resilience.NewExecutorWithOptions(
			resilience.WithMaxConcurrent(c.workers),
			resilience.WithTrialTimeout(config.TrialTimeout),
		)
	}
	// Never run more workers than the bulkhead admits.
	if limit := c.executor.MaxConcurrent(); c.workers > limit {
		c.workers = limit
	}

	return c
}

// Workers returns the pool size.
func (c *Coordinator) Workers() int {
	return c.workers
}

// CountLoopInducingObstructions tries a synthetic obstacle on every distinct
// position of path except the start and returns those that trap the guard in
// a loop. Trapped and over-budget trials are excluded and logged.
//
// A nil grid or an invalid start aborts before any trial runs. When ctx ends
// the workers stop and ctx.Err() is returned. A trial the executor refuses to
// run aborts the search with an error; it is never counted as excluded.
func (c *Coordinator) CountLoopInducingObstructions(ctx context.Context, g *grid.Grid, start guard.State, path []guard.State) (*patrol.SearchResult, error) {
	if err := validateStart(g, start); err != nil {
		return nil, err
	}

	began := time.Now()
	candidates := patrol.Candidates(path, start.Position)

	ctx, span := telemetry.StartSpan(ctx, "patrol.search",
		attribute.Int("patrol.candidates", len(candidates)),
		attribute.Int("patrol.workers", c.workers),
	)

	workers := c.workers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	// Stops the feed and the workers once a trial cannot be run at all.
	searchCtx, abort := context.WithCancel(ctx)
	defer abort()

	jobs := make(chan grid.Position)
	results := make(chan trialReport, workers)

	go func() {
		defer close(jobs)
		for _, p := range candidates {
			select {
			case jobs <- p:
			case <-searchCtx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				r, err := c.runTrial(searchCtx, g, start, p)
				results <- trialReport{result: r, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var runErr error
	result := &patrol.SearchResult{Candidates: len(candidates)}
	for rep := range results {
		r := rep.result
		switch {
		case rep.err != nil:
			if runErr == nil && ctx.Err() == nil {
				runErr = fmt.Errorf("trial at %v: %w", r.Candidate, rep.err)
				abort()
			}
		case runErr != nil || ctx.Err() != nil:
		case r.Outcome == patrol.OutcomeCancelled && !errors.Is(r.Err, context.DeadlineExceeded):
			// Only a trial timeout may cancel a single trial.
			runErr = fmt.Errorf("trial at %v: %w", r.Candidate, r.Err)
			abort()
		case r.Outcome == patrol.OutcomeLooped:
			result.Positions = append(result.Positions, r.Candidate)
		case r.Outcome.IsFailure():
			result.Failed++
			result.Exclude(r.Outcome)
			c.metrics.RecordError(ctx, r.Outcome.String())
			logging.Warn().
				Add(logging.Candidate(r.Candidate)).
				Add(logging.Outcome(r.Outcome)).
				Add(logging.Steps(r.Steps)).
				Add(logging.ErrorField(r.Err)).
				Msg("trial excluded")
		}
	}

	if err := ctx.Err(); err != nil {
		telemetry.EndSpan(span, err)
		return nil, err
	}
	if runErr != nil {
		telemetry.EndSpan(span, runErr)
		logging.Error().
			Add(logging.ErrorField(runErr)).
			Msg("obstruction search aborted")
		return nil, runErr
	}

	patrol.SortPositions(result.Positions)
	result.Duration = time.Since(began)

	c.metrics.RecordSearch(ctx, result.Candidates, result.Count(), workers, result.Duration)
	span.SetAttributes(attribute.Int("patrol.loops", result.Count()))
	telemetry.EndSpan(span, nil)

	logging.Info().
		Add(logging.Candidates(result.Candidates)).
		Add(logging.LoopCount(result.Count())).
		Add(logging.Workers(workers)).
		Add(logging.Duration(result.Duration)).
		Msg("obstruction search complete")

	return result, nil
}

// trialReport carries one trial back to the aggregator. err is set when the
// trial could not be run, as opposed to a trial that ran and failed.
type trialReport struct {
	result patrol.TrialResult
	err    error
}

// runTrial obstructs candidate on a private copy of g and patrols it.
// The trial owns its grid, seen set and lifecycle machine. An error means
// the trial never produced a verdict.
func (c *Coordinator) runTrial(ctx context.Context, g *grid.Grid, start guard.State, candidate grid.Position) (patrol.TrialResult, error) {
	failed := patrol.TrialResult{Candidate: candidate, Outcome: patrol.OutcomeCancelled}

	trial := statemachine.NewTrial(candidate)
	lifecycle, err := statemachine.NewTrialInterpreter(trial)
	if err != nil {
		return failed, err
	}
	defer lifecycle.Stop()

	if err := lifecycle.Begin(); err != nil {
		return failed, err
	}

	c.metrics.IncrementActiveTrials(ctx)
	defer c.metrics.DecrementActiveTrials(ctx)

	result, err := c.executor.Execute(ctx, func(ctx context.Context) (patrol.TrialResult, error) {
		work := g.Clone()
		work.Set(candidate, grid.SyntheticObstacleCell)

		outcome, steps, err := c.engine.detect(ctx, work, start)
		return patrol.TrialResult{
			Candidate: candidate,
			Outcome:   outcome,
			Steps:     steps,
			Err:       err,
		}, nil
	})
	if err != nil {
		failed.Err = err
		_ = lifecycle.Finish(patrol.OutcomeCancelled)
		c.metrics.RecordError(ctx, "trial_not_run")
		return failed, err
	}

	if err := lifecycle.Finish(result.Outcome); err != nil {
		logging.Debug().
			Add(logging.Candidate(candidate)).
			Add(logging.ErrorField(err)).
			Msg("trial lifecycle rejected verdict")
	}
	for _, tr := range trial.Transitions {
		c.metrics.RecordTransition(ctx, string(tr.From), string(tr.To))
	}
	c.metrics.RecordTrial(ctx, result.Outcome.String(), result.Steps, result.Duration)

	logging.Trace().
		Add(logging.Candidate(candidate)).
		Add(logging.Outcome(result.Outcome)).
		Add(logging.Steps(result.Steps)).
		Msg("trial finished")

	return result, nil
}
