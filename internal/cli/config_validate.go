package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/config"
)

// newConfigValidateCmd checks the effective configuration.
func newConfigValidateCmd(st *state) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file with environment
overrides applied. Checks page size, request method, cache backend and key
strategy, TTL bounds, HTTP resilience settings and logging options.`,
		Example: `  # Validate current configuration
  gridpager config validate

  # Validate and show detailed information
  gridpager config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Printf("Configuration is valid\n")
			if verbose {
				printVerboseDetails(cmd, st.cfg)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")
	return cmd
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	dataURL := cfg.Grid.DataURL
	if dataURL == "" {
		dataURL = "(none)"
	}
	cmd.Printf("  Data URL: %s\n", dataURL)
	cmd.Printf("  Data method: %s\n", cfg.Grid.DataMethod)
	cmd.Printf("  Page size: %d\n", cfg.Grid.PageSize)
	if cfg.Cache.Enabled {
		cmd.Printf("  Cache: %s (keys: %s)\n", cfg.Cache.Backend, cfg.Cache.KeyStrategy)
	} else {
		cmd.Printf("  Cache: disabled\n")
	}
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
}
