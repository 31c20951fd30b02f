package pagination

// Meta contains metadata about a rendered page.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`

	// FirstItem and LastItem are the 1-based indexes of the records shown.
	// Both are zero when the page is empty.
	FirstItem int `json:"first_item" yaml:"first_item"`
	LastItem  int `json:"last_item"  yaml:"last_item"`
}

// NewMeta creates page metadata from parameters, total count and the number of
// records actually returned for the page.
func NewMeta(params Params, totalCount, shown int) Meta {
	totalPages := TotalPages(totalCount, params.PageSize)

	m := Meta{
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: params.Page > 1,
		HasNext:     params.Page < totalPages,
	}

	if shown > 0 {
		m.FirstItem = params.Offset() + 1
		m.LastItem = params.Offset() + shown
	}

	return m
}
