package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/grid"
	"github.com/rshade/gridpager/internal/logging"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/source"
	"github.com/rshade/gridpager/internal/tui"
)

// newRenderCmd renders one page to stdout.
func newRenderCmd(st *state) *cobra.Command {
	var (
		flags   gridFlags
		text    bool
		noPager bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one page of the grid",
		Long: `Fetches one page from the data endpoint and prints the rendered items
followed by the pager. HTML output uses grid.item_template; --text prints
plain text suitable for a terminal.`,
		Example: `  # Render page 3 as HTML
  gridpager render --url http://localhost:8080/data --page 3

  # Render demo records as text with a custom template
  gridpager render --demo --text --template '{{.id}} {{.name}}'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.apply(cmd, st.cfg); err != nil {
				return err
			}
			ctx := cmd.Context()

			item, pager, err := renderStyle(st, flags.template, text)
			if err != nil {
				return err
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
			opts.Pager = pager
			opts.DisablePager = noPager

			var buf render.Buffer
			g, err := grid.Mount(ctx, &buf, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, buf.HTML())
			if text {
				fmt.Fprintln(out, tui.Summary(g.Meta()))
			}

			if n := st.cfg.Grid.Prefetch; n > 0 && st.cfg.Cache.Enabled {
				current := g.State().CurrentPage
				pages := make([]int, 0, n)
				for p := current + 1; p <= min(current+n, g.State().TotalPages); p++ {
					pages = append(pages, p)
				}
				if err := g.Prefetch(ctx, pages...); err != nil {
					st.logger.Warn().Ctx(ctx).Err(err).Msg("prefetch failed")
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&text, "text", false, "render plain text instead of HTML")
	cmd.Flags().BoolVar(&noPager, "no-pager", false, "omit the pager")
	return cmd
}

// renderStyle returns the item renderer and pager for HTML or text output.
func renderStyle(st *state, tmpl string, text bool) (render.ItemFunc[source.Record], grid.PagerRenderer, error) {
	if text {
		if tmpl == "" {
			tmpl = defaultTextTemplate
		} else {
			tmpl += "\n"
		}
		item, err := render.TextItem[source.Record](tmpl)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing item template: %w", err)
		}
		return item, tui.TextPager{Plain: !isTerminal(os.Stdout)}, nil
	}

	if tmpl == "" {
		tmpl = st.cfg.Grid.ItemTemplate
	}
	item, err := render.TemplateItem[source.Record](tmpl)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing item template: %w", err)
	}
	return item, render.NewHTMLPager(), nil
}
