package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/config"
)

// newConfigInitCmd writes a configuration file with default values.
func newConfigInitCmd(st *state) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values at the path given
by --config, GRIDPAGER_CONFIG, or ~/.gridpager/config.yaml.`,
		Example: `  # Create the default configuration
  gridpager config init

  # Create configuration, overwriting existing
  gridpager config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := st.configPath
			if path == "" {
				return errors.New("cannot determine configuration path")
			}

			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !os.IsNotExist(err) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			if err := config.New().Save(path); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized successfully\n")
			cmd.Printf("Configuration file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}
