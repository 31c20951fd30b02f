package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/gridpager/internal/config"
	"github.com/rshade/gridpager/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// state is shared by the commands of one invocation.
type state struct {
	lookupEnv func(string) (string, bool)

	configPath string
	debug      bool

	cfg       *config.Config
	logger    zerolog.Logger
	logResult *logging.LogResult
}

// NewRootCmd creates the root Cobra command for the gridpager CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit environment
// lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	st := &state{lookupEnv: lookupEnv, logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "gridpager",
		Short:         "Paged grid renderer, server and terminal browser",
		Long:          "gridpager: fetch records page by page from a grid endpoint and render them with a pager",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.loadConfig(cmd); err != nil {
				return err
			}
			setupLogging(cmd, st)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, st)
		},
	}

	cmd.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (default ~/.gridpager/config.yaml)")
	cmd.PersistentFlags().BoolVar(&st.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newRenderCmd(st),
		newPagerCmd(),
		newServeCmd(st),
		newBrowseCmd(st),
		newConfigCmd(st),
		newCacheCmd(st),
	)
	return cmd
}

const rootCmdExample = `  # Render page 3 of an endpoint as HTML
  gridpager render --url http://localhost:8080/data --page 3

  # Render the built-in demo records as text
  gridpager render --demo --text --page 2

  # Print the pager strip for page 5 of 7
  gridpager pager --current 5 --total 7

  # Serve the grid with demo data on :8080
  gridpager serve --demo --addr :8080

  # Browse the endpoint in the terminal
  gridpager browse --url http://localhost:8080/data

  # Initialize configuration
  gridpager config init`

// loadConfig resolves the config file, applies environment overrides and
// validates the result. A missing default config file is not an error.
func (st *state) loadConfig(cmd *cobra.Command) error {
	path := st.configPath
	explicit := path != ""
	if !explicit {
		if envPath, ok := st.lookupEnv("GRIDPAGER_CONFIG"); ok && envPath != "" {
			path, explicit = envPath, true
		} else {
			defaultPath, err := config.DefaultPath()
			if err == nil {
				path = defaultPath
			}
		}
	}

	// config subcommands report validation problems themselves, and init
	// writes the file that may not exist yet.
	configCmd := cmd.Parent() != nil && cmd.Parent().Name() == "config"

	cfg, err := config.Load(path, !explicit || configCmd)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnvFrom(st.lookupEnv); err != nil {
		return err
	}
	if st.debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = logging.FormatConsole
	}
	if !configCmd {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
	}
	st.cfg = cfg
	st.configPath = path
	return nil
}
