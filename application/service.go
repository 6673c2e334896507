package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/patrol-go/domain/grid"
	"github.com/felixgeelhaar/patrol-go/domain/guard"
	"github.com/felixgeelhaar/patrol-go/domain/patrol"
	"github.com/felixgeelhaar/patrol-go/domain/report"
	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
	"github.com/felixgeelhaar/patrol-go/infrastructure/resilience"
)

// Service runs a full analysis: baseline, obstruction search and report.
type Service struct {
	engine      *Engine
	coordinator *Coordinator
	executor    *resilience.Executor
	store       report.Store
	now         func() time.Time

	// analysis builds the missing engine, coordinator and executor on the
	// first Solve. History never needs them.
	analysis sync.Once
}

// ServiceConfig contains configuration for the service.
type ServiceConfig struct {
	Engine      *Engine
	Coordinator *Coordinator

	// Executor retries report persistence (default resilience defaults).
	Executor *resilience.Executor

	// Store persists reports. When nil, reports are built but not saved.
	Store report.Store
}

// NewService creates a new service with the given configuration.
// Components left nil are built with defaults when first needed.
func NewService(config ServiceConfig) *Service {
	return &Service{
		engine:      config.Engine,
		coordinator: config.Coordinator,
		executor:    config.Executor,
		store:       config.Store,
		now:         time.Now,
	}
}

func (s *Service) prepareAnalysis() {
	s.analysis.Do(func() {
		if s.engine == nil {
			s.engine = NewEngine(EngineConfig{})
		}
		if s.coordinator == nil {
			s.coordinator = NewCoordinator(CoordinatorConfig{Engine: s.engine})
		}
		if s.executor == nil {
			s.executor = resilience.NewDefaultExecutor()
		}
	})
}

// SolveOptions tunes a single analysis.
type SolveOptions struct {
	// Name labels the report.
	Name string
}

// Solution holds everything one analysis produced.
type Solution struct {
	Baseline *patrol.Baseline
	Search   *patrol.SearchResult
	Report   *report.Report
}

// Solve runs the baseline patrol, searches for loop-inducing obstructions
// along its path and persists a report when a store is configured.
func (s *Service) Solve(ctx context.Context, g *grid.Grid, start guard.State, opts SolveOptions) (*Solution, error) {
	if err := validateStart(g, start); err != nil {
		return nil, err
	}
	s.prepareAnalysis()
	id := uuid.New().String()

	logging.Info().
		Add(logging.RunID(id)).
		Add(logging.Dimensions(g.Width(), g.Height())).
		Add(logging.Position(start.Position)).
		Add(logging.Facing(start.Facing)).
		Msg("analysis started")

	began := time.Now()
	baseline, err := s.engine.RunBaseline(ctx, g, start)
	if err != nil {
		return nil, fmt.Errorf("baseline patrol failed: %w", err)
	}
	baselineTime := time.Since(began)

	search, err := s.coordinator.CountLoopInducingObstructions(ctx, g, start, baseline.Path)
	if err != nil {
		return nil, fmt.Errorf("obstruction search failed: %w", err)
	}

	r := &report.Report{
		ID:         id,
		Name:       opts.Name,
		GridDigest: g.Digest(),
		Width:      g.Width(),
		Height:     g.Height(),
		Start:      start,
		Visited:    baseline.Visited,
		PathLength: len(baseline.Path),
		Candidates: search.Candidates,
		Failed:     search.Failed,
		LoopCount:  search.Count(),
		Loops:      search.Positions,
		Workers:    s.coordinator.Workers(),
		Baseline:   baselineTime,
		Search:     search.Duration,
		CreatedAt:  s.now().UTC(),
	}

	if s.store != nil {
		err := s.executor.Persist(ctx, func(ctx context.Context) error {
			err := s.store.Save(ctx, r)
			if errors.Is(err, report.ErrReportExists) {
				// A previous attempt landed before failing to report back.
				return nil
			}
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save report %s: %w", id, err)
		}
	}

	logging.Info().
		Add(logging.RunID(id)).
		Add(logging.Visited(r.Visited)).
		Add(logging.LoopCount(r.LoopCount)).
		Add(logging.Duration(time.Since(began))).
		Msg("analysis complete")

	return &Solution{Baseline: baseline, Search: search, Report: r}, nil
}

// History lists stored reports, newest first.
func (s *Service) History(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx, filter)
}
