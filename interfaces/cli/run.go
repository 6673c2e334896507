package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/patrol-go/application"
	infraconfig "github.com/felixgeelhaar/patrol-go/infrastructure/config"
	"github.com/felixgeelhaar/patrol-go/infrastructure/gridfile"
	"github.com/felixgeelhaar/patrol-go/infrastructure/logging"
	"github.com/felixgeelhaar/patrol-go/infrastructure/render"
	"github.com/felixgeelhaar/patrol-go/infrastructure/telemetry"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath string
	name       string
	workers    int
	jsonOutput bool
	render     bool
	color      bool
	store      storeFlags
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <grid-file>",
		Short: "Patrol a grid and count loop-inducing obstructions",
		Long: `Run the baseline patrol on a grid file, then try an obstruction on every
cell of the guard's path and count the ones that trap the guard in a loop.

Examples:
  # Analyse a grid with defaults
  patrol run floor.txt

  # Use a configuration file and eight workers
  patrol run -c patrol.yaml --workers 8 floor.txt

  # Keep the report in SQLite and print it as JSON
  patrol run --store sqlite --store-path "file:reports.db?mode=rwc" --json floor.txt

  # Draw the patrolled grid with the obstructions marked
  patrol run --render floor.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPatrol(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.name, "name", "", "Report name (overrides config)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Worker pool size (overrides config)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&opts.render, "render", false, "Draw the patrolled grid with obstructions marked")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Colour the rendered grid")
	opts.store.register(cmd)

	return cmd
}

// runPatrol loads the grid and configuration, solves and prints the report.
func (a *App) runPatrol(ctx context.Context, gridPath string, opts *runOptions) error {
	cfg, err := loadConfig(opts.configPath, false)
	if err != nil {
		return err
	}
	if opts.workers > 0 {
		cfg.Search.Workers = opts.workers
	}
	if opts.name != "" {
		cfg.Name = opts.name
	}
	opts.store.apply(cfg)

	builder := infraconfig.NewBuilder(cfg)
	result, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to build configuration: %w", err)
	}
	if result.Recorder != nil {
		defer result.Recorder.Shutdown(context.WithoutCancel(ctx))
	}

	logCfg := result.Logging
	logCfg.Output = a.stderr
	logging.Init(logCfg)

	p, err := gridfile.LoadFile(gridPath)
	if err != nil {
		return err
	}

	store, err := builder.OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer store.Close()

	engine := application.NewEngine(application.EngineConfig{
		StepBudgetFactor: result.StepBudgetFactor,
		Metrics:          result.Metrics,
	})
	coordinator := application.NewCoordinatorWithOptions(
		application.WithEngine(engine),
		application.WithExecutor(result.Executor),
		application.WithWorkers(result.Workers),
		application.WithMetrics(result.Metrics),
	)
	svc := application.NewService(application.ServiceConfig{
		Engine:      engine,
		Coordinator: coordinator,
		Executor:    result.Executor,
		Store:       store,
	})

	sol, err := svc.Solve(ctx, p.Grid, p.Start, application.SolveOptions{Name: result.Name})
	if err != nil {
		return fmt.Errorf("patrol failed: %w", err)
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sol.Report)
	}

	r := sol.Report
	fmt.Fprintf(a.stdout, "Patrol complete\n")
	fmt.Fprintf(a.stdout, "  Report ID: %s\n", r.ID)
	if r.Name != "" {
		fmt.Fprintf(a.stdout, "  Name: %s\n", r.Name)
	}
	fmt.Fprintf(a.stdout, "  Grid: %dx%d (%s)\n", r.Width, r.Height, r.GridDigest[:12])
	fmt.Fprintf(a.stdout, "  Start: %s\n", r.Start)
	fmt.Fprintf(a.stdout, "  Visited: %d\n", r.Visited)
	fmt.Fprintf(a.stdout, "  Loop-inducing obstructions: %d of %d candidates\n", r.LoopCount, r.Candidates)
	if r.Failed > 0 {
		fmt.Fprintf(a.stdout, "  Excluded trials: %d\n", r.Failed)
	}
	fmt.Fprintf(a.stdout, "  Workers: %d\n", r.Workers)
	fmt.Fprintf(a.stdout, "  Baseline: %s\n", r.Baseline)
	fmt.Fprintf(a.stdout, "  Search: %s\n", r.Search)

	if opts.render {
		fmt.Fprintln(a.stdout)
		start := p.Start
		err := render.Grid(a.stdout, sol.Baseline.Grid, &start, render.Options{
			Color: opts.color,
			Mark:  sol.Search.Positions,
		})
		if err != nil {
			return fmt.Errorf("failed to render grid: %w", err)
		}
	}

	if result.Recorder != nil {
		return a.printMetrics(ctx, result.Recorder)
	}
	return nil
}

// printMetrics writes the collected metrics, one instrument per line.
func (a *App) printMetrics(ctx context.Context, rec *telemetry.Recorder) error {
	samples, err := rec.Snapshot(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "\nMetrics:\n")
	for _, s := range samples {
		if s.Count > 0 {
			fmt.Fprintf(a.stdout, "  %-26s count=%d sum=%.3f %s\n", s.Name, s.Count, s.Value, s.Unit)
			continue
		}
		fmt.Fprintf(a.stdout, "  %-26s %.0f\n", s.Name, s.Value)
	}
	return nil
}
