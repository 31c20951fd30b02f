package grid

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rshade/gridpager/internal/pagination"
	"github.com/rshade/gridpager/internal/render"
)

// ErrInvalidClick is returned when a pager link carries a page attribute that
// is not an integer.
var ErrInvalidClick = errors.New("invalid pager click")

// ClickEvent is a click delegated from the container: the clicked element's
// classes and data attributes (without the "data-" prefix).
type ClickEvent struct {
	Classes []string          `json:"classes"`
	Data    map[string]string `json:"data"`
}

// NewClickEvent builds a ClickEvent from a class attribute value.
func NewClickEvent(class string, data map[string]string) ClickEvent {
	return ClickEvent{Classes: strings.Fields(class), Data: data}
}

// LinkEvent returns the event a click on the rendered link produces.
func LinkEvent(link pagination.Link) ClickEvent {
	var classes []string
	switch link.Kind {
	case pagination.LinkPrev:
		classes = append(classes, render.ClassPrev)
	case pagination.LinkNext:
		classes = append(classes, render.ClassNext)
	case pagination.LinkPage:
		classes = append(classes, render.ClassItem)
	case pagination.LinkEllipsis:
		classes = append(classes, render.ClassDot)
	}
	if link.Active {
		classes = append(classes, render.ClassActive)
	}
	if link.Disabled {
		classes = append(classes, render.ClassDisabled)
	}

	data := map[string]string{}
	if link.Clickable() {
		data[render.DataPage] = strconv.Itoa(link.Target)
	}
	return ClickEvent{Classes: classes, Data: data}
}

// HasClass reports whether the element carries class.
func (e ClickEvent) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

// Target returns the page a click navigates to. ok is false for elements that
// are not enabled pager links.
func (e ClickEvent) Target() (page int, ok bool, err error) {
	if !e.HasClass(render.ClassPrev) && !e.HasClass(render.ClassNext) && !e.HasClass(render.ClassItem) {
		return 0, false, nil
	}
	if e.HasClass(render.ClassDisabled) {
		return 0, false, nil
	}
	raw, found := e.Data[render.DataPage]
	if !found {
		return 0, false, nil
	}
	page, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false, fmt.Errorf("%w: page %q", ErrInvalidClick, raw)
	}
	return page, true, nil
}

// HandleClick changes page when e is a click on an enabled pager link and
// ignores every other event.
func (g *Grid[T]) HandleClick(ctx context.Context, e ClickEvent) error {
	page, ok, err := e.Target()
	if err != nil {
		g.reportError(err)
		return err
	}
	if !ok {
		return nil
	}
	return g.ChangePage(ctx, page)
}
