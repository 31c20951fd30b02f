package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
	"github.com/rshade/gridpager/internal/tui"
)

// Pager output formats.
const (
	formatHTML = "html"
	formatText = "text"
	formatJSON = "json"
)

// pagerLink is the JSON form of one pager link.
type pagerLink struct {
	Kind     string `json:"kind"`
	Target   int    `json:"target,omitempty"`
	Active   bool   `json:"active,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// newPagerCmd prints the pager strip for a page without fetching anything.
func newPagerCmd() *cobra.Command {
	var (
		current  int
		total    int
		count    int
		pageSize int
		format   string
	)

	cmd := &cobra.Command{
		Use:   "pager",
		Short: "Print the pager strip for a page",
		Example: `  # Pager for page 5 of 7
  gridpager pager --current 5 --total 7

  # Pager for 50 records, 8 per page, as JSON
  gridpager pager --current 5 --count 50 --page-size 8 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("count") {
				if count < 0 {
					return fmt.Errorf("%w: %d", pagination.ErrInvalidTotal, count)
				}
				if pageSize < 1 {
					return fmt.Errorf("%w: %d", pagination.ErrInvalidPageSize, pageSize)
				}
				total = pagination.TotalPages(count, pageSize)
			}
			if total < 1 {
				return errors.New("--total must be >= 1")
			}

			w := pagination.NewWindow(current, total)
			out := cmd.OutOrStdout()

			switch format {
			case formatHTML:
				html, err := render.NewHTMLPager().RenderPager(w)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, html)
			case formatText:
				line, err := tui.TextPager{Plain: true}.RenderPager(w)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, line[1:])
			case formatJSON:
				links := make([]pagerLink, 0, len(w.Links))
				for _, l := range w.Links {
					links = append(links, pagerLink{Kind: l.Kind.String(), Target: l.Target, Active: l.Active, Disabled: l.Disabled})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(links)
			default:
				return fmt.Errorf("unknown format %q: use html, text or json", format)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&current, "current", pagination.DefaultPage, "current page")
	cmd.Flags().IntVar(&total, "total", 1, "total number of pages")
	cmd.Flags().IntVar(&count, "count", 0, "total number of records (computes --total with --page-size)")
	cmd.Flags().IntVar(&pageSize, "page-size", pagination.DefaultPageSize, "records per page, used with --count")
	cmd.Flags().StringVar(&format, "format", formatHTML, "output format: html, text or json")
	return cmd
}
