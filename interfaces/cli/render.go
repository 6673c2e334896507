package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/patrol-go/application"
	"github.com/felixgeelhaar/patrol-go/infrastructure/gridfile"
	"github.com/felixgeelhaar/patrol-go/infrastructure/render"
)

// renderOptions holds options for the render command.
type renderOptions struct {
	visited bool
	color   bool
}

// newRenderCmd creates the render command.
func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <grid-file>",
		Short: "Draw a grid file",
		Long: `Draw a grid file as text. With --visited the baseline patrol runs first
and the guard's trail is drawn: '|' for vertical travel, '-' for horizontal
and '+' where both cross.

Examples:
  patrol render floor.txt
  patrol render --visited --color floor.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.renderGrid(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.visited, "visited", false, "Run the baseline patrol and draw the trail")
	cmd.Flags().BoolVar(&opts.color, "color", false, "Colour the output")

	return cmd
}

func (a *App) renderGrid(ctx context.Context, path string, opts *renderOptions) error {
	p, err := gridfile.LoadFile(path)
	if err != nil {
		return err
	}

	g := p.Grid
	start := p.Start
	if opts.visited {
		baseline, err := application.NewEngine(application.EngineConfig{}).RunBaseline(ctx, p.Grid, p.Start)
		if err != nil {
			return fmt.Errorf("baseline patrol failed: %w", err)
		}
		g = baseline.Grid
	}

	return render.Grid(a.stdout, g, &start, render.Options{Color: opts.color})
}
