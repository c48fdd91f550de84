package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI. Each browser gets its own client state; reloading the page starts over.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("port") {
				port = getPort()
			}
			return runServe(cmd.Context(), port)
		},
	}

	cmd.Flags().IntVar(&port, "port", defaultPort, "port to listen on")

	return cmd
}

func runServe(ctx context.Context, port int) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := web.NewServer(newAPIClient(), web.Config{
		RenderWait: getRenderWait(),
		SessionTTL: getSessionTTL(),
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting web UI on http://localhost:%d (backend %s)\n", port, getBackendURL())
	return srv.ListenAndServe(ctx, port)
}
