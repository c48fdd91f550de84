package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/app"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample plots into the backend",
		Long:  "Ask the backend to populate sample plots, then list the plots it now offers.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), newAPIClient())
		},
	}
}

func runSeed(ctx context.Context, out io.Writer, api app.API) error {
	ctrl := app.NewController(api)
	defer ctrl.Close()

	if err := ctrl.Seed().Wait(ctx); err != nil {
		return err
	}

	s := ctrl.Snapshot()
	if msg := s.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	if isJSON() {
		return printJSON(out, s.Plots)
	}

	if _, err := fmt.Fprintln(out, s.Message()); err != nil {
		return err
	}
	return printPlotTable(out, s.Plots)
}
