package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/patrol-go/application"
	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
	"github.com/felixgeelhaar/patrol-go/domain/report"
	infraconfig "github.com/felixgeelhaar/patrol-go/infrastructure/config"
)

// ErrEphemeralStore is returned by history when the configured backend keeps
// reports only for the life of one process.
var ErrEphemeralStore = errors.New("the memory backend keeps no history; use --store sqlite or --store badger")

// historyOptions holds options for the history command.
type historyOptions struct {
	configPath string
	limit      int
	digest     string
	jsonOutput bool
	store      storeFlags
}

// newHistoryCmd creates the history command.
func (a *App) newHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored patrol reports",
		Long: `List reports saved by earlier runs, newest first.

History needs a persistent backend. Select sqlite or badger with --store or
storage.backend in the configuration file; the memory backend is rejected.

Examples:
  patrol history --store sqlite --store-path "file:reports.db?mode=rwc"
  patrol history -c patrol.yaml --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listHistory(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of reports (0 = all)")
	cmd.Flags().StringVar(&opts.digest, "digest", "", "Only reports for this grid digest")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	opts.store.register(cmd)

	return cmd
}

func (a *App) listHistory(ctx context.Context, opts *historyOptions) error {
	cfg, err := loadConfig(opts.configPath, false)
	if err != nil {
		return err
	}
	opts.store.apply(cfg)
	if cfg.Storage.Backend == domainconfig.BackendMemory {
		return ErrEphemeralStore
	}

	store, err := infraconfig.NewBuilder(cfg).OpenStore()
	if err != nil {
		return fmt.Errorf("failed to open report store: %w", err)
	}
	defer store.Close()

	svc := application.NewService(application.ServiceConfig{Store: store})
	reports, err := svc.History(ctx, report.ListFilter{GridDigest: opts.digest, Limit: opts.limit})
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if opts.jsonOutput {
		if reports == nil {
			reports = []*report.Report{}
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	if len(reports) == 0 {
		fmt.Fprintln(a.stdout, "No reports found.")
		return nil
	}

	w := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATED\tGRID\tVISITED\tLOOPS")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%d\n",
			r.ID, r.Name, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Width, r.Height, r.Visited, r.LoopCount)
	}
	return w.Flush()
}
