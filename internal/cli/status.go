package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/client"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend connection",
		Long:  "Shows the configured backend URL and tests whether it answers the plots endpoint.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout(), getBackendURL())
		},
	}
}

func runStatus(ctx context.Context, out io.Writer, backendURL string) error {
	api := client.New(backendURL, 0)
	fmt.Fprintf(out, "Backend: %s\n", api.BaseURL())

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	plots, err := api.ListPlots(ctx)
	var se *client.StatusError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Status:  ✓ connected (%d plots)\n", len(plots))
	case errors.As(err, &se):
		fmt.Fprintf(out, "Status:  ✗ unexpected response (%d)\n", se.Code)
	default:
		fmt.Fprintf(out, "Status:  ✗ cannot reach backend (%v)\n", err)
	}

	return nil
}
