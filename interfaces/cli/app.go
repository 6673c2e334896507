// Package cli provides the patrol command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	patrolgo "github.com/felixgeelhaar/patrol-go"
	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
	infraconfig "github.com/felixgeelhaar/patrol-go/infrastructure/config"
)

// Version information set at build time.
var (
	Version   = patrolgo.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "patrol",
		Short: "Guard patrol simulator and obstruction finder",
		Long: `patrol simulates a guard walking a grid: forward until blocked, then a
right turn. It counts the cells the guard covers before leaving the grid and
finds every single obstruction that would trap the guard in a loop instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newRunCmd(),
		app.newRenderCmd(),
		app.newValidateCmd(),
		app.newHistoryCmd(),
		app.newSchemaCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// newVersionCmd creates the version command.
func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "patrol version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}

// storeFlags selects a report store on the command line.
type storeFlags struct {
	backend string
	path    string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", "", "Report store: memory, sqlite or badger (overrides config)")
	cmd.Flags().StringVar(&f.path, "store-path", "", "SQLite DSN or BadgerDB directory (overrides config)")
}

// apply overrides the configured storage with the flags.
func (f *storeFlags) apply(cfg *domainconfig.PatrolConfig) {
	if f.backend != "" && f.backend != cfg.Storage.Backend {
		cfg.Storage = domainconfig.StorageConfig{Backend: f.backend}
	}
	if f.path != "" {
		switch cfg.Storage.Backend {
		case domainconfig.BackendSQLite:
			cfg.Storage.DSN = f.path
		case domainconfig.BackendBadger:
			cfg.Storage.Dir = f.path
		}
	}
	cfg.ApplyDefaults()
}

// loadConfig loads the file at path, or the defaults when path is empty.
func loadConfig(path string, strict bool) (*domainconfig.PatrolConfig, error) {
	if path == "" {
		return domainconfig.Default(), nil
	}
	loader := infraconfig.NewLoaderWithOptions(infraconfig.WithStrictEnv(strict))
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
