// Package cli defines the cobra command tree for plot-visits.
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/evcraddock/plot-visits/internal/client"
	"github.com/evcraddock/plot-visits/internal/logging"
)

var (
	flagFormat  string
	flagEnvFile string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pv",
		Short:         "Browse plots and book site visits",
		Long:          "A client for the plots API. Browse available plots, load sample data, and book on-site visits from the web UI or the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFile(flagEnvFile); err != nil {
				return err
			}
			logging.Setup(getDevMode())
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "load environment variables from this file (default: .env if present)")

	root.AddCommand(
		newServeCmd(),
		newPlotsCmd(),
		newSeedCmd(),
		newBookCmd(),
		newStatusCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// loadEnvFile loads variables from path, or from .env when path is empty.
// A missing default .env is not an error. Variables already set in the
// environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// newAPIClient creates an HTTP client for the plots API.
func newAPIClient() *client.Client {
	return client.New(getBackendURL(), getRequestTimeout())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
