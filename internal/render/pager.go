package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rshade/gridpager/internal/pagination"
)

// Pager CSS classes.
const (
	ClassPager    = "pager"
	ClassPrev     = "pager-prev"
	ClassNext     = "pager-next"
	ClassItem     = "pager-item"
	ClassDot      = "pager-dot"
	ClassActive   = "active"
	ClassDisabled = "pager-disable"

	// DataPage is the data attribute carrying a link's target page.
	DataPage = "page"
)

// DefaultHrefFormat links pages through the query string so the markup also
// works without a click handler.
const DefaultHrefFormat = "?page=%d"

var pagerTemplate = template.Must(template.New("pager").Parse(
	`<div class="pager">` +
		`{{range .}}` +
		`{{if .Dot}}<span class="pager-dot">{{.Label}}</span>` +
		`{{else}}<a class="{{.Class}}"{{if .Page}} data-page="{{.Page}}" href="{{.Href}}"{{end}}>{{.Label}}</a>` +
		`{{end}}` +
		`{{end}}` +
		`</div>`,
))

// linkView is the template data for one pager element.
type linkView struct {
	Class string
	Label string
	Href  string
	Page  int
	Dot   bool
}

// HTMLPager renders a pagination.Window as HTML.
type HTMLPager struct {
	PrevLabel string
	NextLabel string
	DotLabel  string

	// HrefFormat is a fmt pattern receiving the target page.
	HrefFormat string
}

// NewHTMLPager returns a pager with default labels and query-string links.
func NewHTMLPager() *HTMLPager {
	return &HTMLPager{
		PrevLabel:  "‹",
		NextLabel:  "›",
		DotLabel:   "…",
		HrefFormat: DefaultHrefFormat,
	}
}

// RenderPager renders the strip for w.
func (p *HTMLPager) RenderPager(w pagination.Window) (string, error) {
	views := make([]linkView, 0, len(w.Links))
	for _, link := range w.Links {
		views = append(views, p.view(link))
	}

	var buf bytes.Buffer
	if err := pagerTemplate.Execute(&buf, views); err != nil {
		return "", fmt.Errorf("rendering pager: %w", err)
	}
	return buf.String(), nil
}

func (p *HTMLPager) view(link pagination.Link) linkView {
	v := linkView{}

	switch link.Kind {
	case pagination.LinkPrev:
		v.Class, v.Label = ClassPrev, p.PrevLabel
	case pagination.LinkNext:
		v.Class, v.Label = ClassNext, p.NextLabel
	case pagination.LinkEllipsis:
		v.Dot, v.Label = true, p.DotLabel
		return v
	case pagination.LinkPage:
		v.Class, v.Label = ClassItem, fmt.Sprint(link.Target)
	}

	if link.Active {
		v.Class += " " + ClassActive
	}
	if link.Disabled {
		v.Class += " " + ClassDisabled
	}
	if link.Clickable() {
		v.Page = link.Target
		format := p.HrefFormat
		if format == "" {
			format = DefaultHrefFormat
		}
		v.Href = fmt.Sprintf(format, link.Target)
	}
	return v
}
