package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
	"github.com/rshade/gridpager/internal/tui"
)

// ErrNotTerminal is returned by browse when stdout is not a terminal.
var ErrNotTerminal = errors.New("browse requires an interactive terminal; use render --text instead")

// newBrowseCmd pages through the grid interactively.
func newBrowseCmd(st *state) *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the grid in the terminal",
		Example: `  # Browse an endpoint, 20 records per page
  gridpager browse --url http://localhost:8080/data --page-size 20

  # Browse the demo records
  gridpager browse --demo`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			if err := flags.apply(cmd, st.cfg); err != nil {
				return err
			}
			ctx := cmd.Context()

			tmpl := defaultTextTemplate
			if flags.template != "" {
				tmpl = flags.template + "\n"
			}
			item, err := render.TextItem[source.Record](tmpl)
			if err != nil {
				return fmt.Errorf("parsing item template: %w", err)
			}

			opts, closeFn, err := newGridOptions(ctx, st.cfg, flags.demo, item)
			defer func() {
				if closeErr := closeFn(); closeErr != nil {
					logging.FromContext(ctx).Warn().Err(closeErr).Msg("closing grid resources")
				}
			}()
			if err != nil {
				return err
			}
			opts.Pager = tui.TextPager{}
			// The browser shows load errors itself.
			opts.OnError = nil

			var buf render.Buffer
			g, err := grid.New(&buf, opts)
			if err != nil {
				return err
			}

			model := tui.NewBrowserModel(ctx, st.cfg.Server.Title, g, &buf)
			final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("running browser: %w", err)
			}
			if m, ok := final.(tui.BrowserModel[source.Record]); ok && m.Err() != nil {
				return m.Err()
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
