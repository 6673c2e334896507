package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/patrol-go/infrastructure/config"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a patrol configuration file for correctness.

This command checks:
  - File format (YAML or JSON) and unknown fields
  - Required fields and value ranges
  - Storage backend settings
  - Environment variable references (in strict mode)

Examples:
  patrol validate -c patrol.yaml
  patrol validate -c patrol.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on unset environment variables")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	cfg, err := loadConfig(opts.configPath, opts.strict)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	result, err := infraconfig.NewBuilder(cfg).Build()
	if err != nil {
		return fmt.Errorf("configuration build failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	if cfg.Name != "" {
		fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	}
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Workers: %d\n", result.Workers)
	fmt.Fprintf(a.stdout, "  Step budget factor: %d\n", result.StepBudgetFactor)
	if d := cfg.Search.TrialTimeout.Duration(); d > 0 {
		fmt.Fprintf(a.stdout, "  Trial timeout: %s\n", d)
	}
	fmt.Fprintf(a.stdout, "  Logging: %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
	fmt.Fprintf(a.stdout, "  Storage: %s\n", cfg.Storage.Backend)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(a.stdout, "  Metrics: enabled\n")
	}

	return nil
}
