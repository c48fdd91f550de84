package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/app"
)

func newPlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plots",
		Short: "List available plots",
		Long:  "List all plots offered by the backend, in the order it returns them.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlots(cmd.Context(), cmd.OutOrStdout(), newAPIClient())
		},
	}
}

func runPlots(ctx context.Context, out io.Writer, api app.API) error {
	ctrl := app.NewController(api)
	defer ctrl.Close()

	if err := ctrl.LoadPlots().Wait(ctx); err != nil {
		return err
	}

	s := ctrl.Snapshot()
	if msg := s.Error(); msg != "" {
		return fmt.Errorf("%s", msg)
	}

	if isJSON() {
		return printJSON(out, s.Plots)
	}

	if msg := s.Message(); msg != "" {
		if _, err := fmt.Fprintln(out, msg); err != nil {
			return err
		}
		return nil
	}
	return printPlotTable(out, s.Plots)
}
