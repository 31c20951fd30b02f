package pagination

// windowBefore is how many numbered links precede the current page when room allows.
const windowBefore = 3

// windowSpan is the number of links after the window start, giving at most 7 numbered links.
const windowSpan = 6

// LinkKind identifies the role of a link in the pager strip.
type LinkKind int

const (
	// LinkPrev is the "previous" control.
	LinkPrev LinkKind = iota
	// LinkPage is a numbered page link.
	LinkPage
	// LinkEllipsis marks skipped pages; it has no target.
	LinkEllipsis
	// LinkNext is the "next" control.
	LinkNext
)

// String returns the kind name used in logs and tests.
func (k LinkKind) String() string {
	switch k {
	case LinkPrev:
		return "prev"
	case LinkPage:
		return "page"
	case LinkEllipsis:
		return "ellipsis"
	case LinkNext:
		return "next"
	default:
		return "unknown"
	}
}

// Link is one element of the pager strip.
type Link struct {
	Kind LinkKind

	// Target is the page a click navigates to. Zero when the link has no target
	// (ellipsis, disabled prev/next).
	Target int

	// Active marks the link for the current page.
	Active bool

	// Disabled marks a prev/next control that cannot be followed.
	Disabled bool
}

// Clickable reports whether the link carries a page target.
func (l Link) Clickable() bool {
	return !l.Disabled && l.Target > 0
}

// Window is the computed pager strip for a current page.
type Window struct {
	Current    int
	TotalPages int

	// Start and End bound the numbered window (inclusive).
	Start int
	End   int

	// Links holds the strip in display order: prev, optional "1 …",
	// the numbered window, optional "… last", next.
	Links []Link
}

// NewWindow computes the pager strip for current out of totalPages.
//
// The window starts at max(1, current-3) and ends at min(totalPages, start+6).
// Page 1 and an ellipsis are prepended when the window does not start at 1; an
// ellipsis and the last page are appended when it stops short of the end.
// current is clamped to [1, totalPages] first.
func NewWindow(current, totalPages int) Window {
	if totalPages < 1 {
		totalPages = 1
	}
	current = Clamp(current, totalPages)

	start := max(1, current-windowBefore)
	end := min(totalPages, start+windowSpan)

	w := Window{
		Current:    current,
		TotalPages: totalPages,
		Start:      start,
		End:        end,
		Links:      make([]Link, 0, end-start+6),
	}

	prev := Link{Kind: LinkPrev, Disabled: current <= 1}
	if !prev.Disabled {
		prev.Target = max(1, current-1)
	}
	w.Links = append(w.Links, prev)

	if start > 1 {
		w.Links = append(w.Links,
			Link{Kind: LinkPage, Target: 1},
			Link{Kind: LinkEllipsis},
		)
	}

	for page := start; page <= end; page++ {
		w.Links = append(w.Links, Link{Kind: LinkPage, Target: page, Active: page == current})
	}

	if end < totalPages {
		w.Links = append(w.Links,
			Link{Kind: LinkEllipsis},
			Link{Kind: LinkPage, Target: totalPages},
		)
	}

	next := Link{Kind: LinkNext, Disabled: current >= totalPages}
	if !next.Disabled {
		next.Target = min(totalPages, current+1)
	}
	w.Links = append(w.Links, next)

	return w
}

// Prev returns the "previous" control.
func (w Window) Prev() Link {
	return w.Links[0]
}

// Next returns the "next" control.
func (w Window) Next() Link {
	return w.Links[len(w.Links)-1]
}
