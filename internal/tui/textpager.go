package tui

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/gridpager/internal/pagination"
)

// TextPager renders a pager window for the terminal. It satisfies the grid's
// pager renderer contract, so a grid can draw into a terminal buffer.
type TextPager struct {
	// Plain disables styling; useful for piping and golden output.
	Plain bool
}

// RenderPager renders w on one line, prefixed by a newline so it sits below
// the items.
func (p TextPager) RenderPager(w pagination.Window) (string, error) {
	parts := make([]string, 0, len(w.Links))
	for _, link := range w.Links {
		parts = append(parts, p.link(link))
	}
	sep := " "
	if !p.Plain {
		sep = ""
	}
	return "\n" + strings.Join(parts, sep), nil
}

func (p TextPager) link(link pagination.Link) string {
	var label string
	switch link.Kind {
	case pagination.LinkPrev:
		label = "‹"
	case pagination.LinkNext:
		label = "›"
	case pagination.LinkEllipsis:
		label = "…"
	case pagination.LinkPage:
		label = strconv.Itoa(link.Target)
	}

	if p.Plain {
		if link.Active {
			return "[" + label + "]"
		}
		return label
	}

	switch {
	case link.Active:
		return ActivePage.Render(label)
	case link.Disabled, link.Kind == pagination.LinkEllipsis:
		return DisabledStyle.Render(label)
	default:
		return PageStyle.Render(label)
	}
}

//nolint:gochecknoglobals // Printer is safe for concurrent use.
var printer = message.NewPrinter(language.English)

// Summary describes m in one line, e.g. "Showing 17-32 of 1,250 records (page 2 of 79)".
func Summary(m pagination.Meta) string {
	if m.TotalItems == 0 || m.FirstItem == 0 {
		return printer.Sprintf("No records (page %d of %d)", m.CurrentPage, m.TotalPages)
	}
	return printer.Sprintf("Showing %d-%d of %d records (page %d of %d)",
		m.FirstItem, m.LastItem, m.TotalItems, m.CurrentPage, m.TotalPages)
}
