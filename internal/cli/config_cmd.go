package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long:  "Inspect the effective configuration or persist settings to ~/.config/pv/config.yaml.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigShow(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "set-url <url>",
			Short: "Set the backend base URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSetURL(cmd.OutOrStdout(), args[0])
			},
		},
	)

	return cmd
}

func runConfigShow(out io.Writer) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	effective := map[string]interface{}{
		"config_file":     path,
		"backend_url":     getBackendURL(),
		"port":            getPort(),
		"request_timeout": getRequestTimeout().String(),
		"dev_mode":        getDevMode(),
	}

	if isJSON() {
		return printJSON(out, effective)
	}

	fmt.Fprintf(out, "Config file:     %s\n", path)
	fmt.Fprintf(out, "Backend URL:     %s\n", effective["backend_url"])
	fmt.Fprintf(out, "Port:            %d\n", effective["port"])
	fmt.Fprintf(out, "Request timeout: %s\n", effective["request_timeout"])
	fmt.Fprintf(out, "Dev mode:        %t\n", effective["dev_mode"])
	return nil
}

func runConfigSetURL(out io.Writer, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend URL: %s", raw)
	}

	// Load existing config to preserve other fields
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.BackendURL = raw
	if err := saveConfig(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(out, "✓ Backend URL set to %s\n", raw)
	return nil
}
