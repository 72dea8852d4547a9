package shared

const (
	// DefaultPageSize applies when the caller leaves the page size empty.
	DefaultPageSize = 20
	// MaxPageSize caps list endpoints.
	MaxPageSize = 50
)

// Page describes a requested slice of a listing.
type Page struct {
	Number int
	Size   int
}

// Normalize clamps the page into the supported range.
func (p Page) Normalize() Page {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	if p.Number <= 0 {
		p.Number = 1
	}
	return p
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Size
}

// PagingInfo is returned alongside paged results.
type PagingInfo struct {
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasNext  bool `json:"has_next"`
	PrevPage int  `json:"prev_page,omitempty"`
	NextPage int  `json:"next_page,omitempty"`
}

// NewPagingInfo derives navigation metadata from a look-ahead fetch.
func NewPagingInfo(p Page, hasNext bool) PagingInfo {
	p = p.Normalize()
	info := PagingInfo{Page: p.Number, PageSize: p.Size, HasNext: hasNext}
	if p.Number > 1 {
		info.PrevPage = p.Number - 1
	}
	if hasNext {
		info.NextPage = p.Number + 1
	}
	return info
}

// Paged is one page of a listing.
type Paged[T any] struct {
	Items  []T        `json:"items"`
	Paging PagingInfo `json:"paging"`
}

// Paginate trims a look-ahead fetch of p.Size+1 rows into a page.
func Paginate[T any](rows []T, p Page) Paged[T] {
	p = p.Normalize()
	hasNext := len(rows) > p.Size
	if hasNext {
		rows = rows[:p.Size]
	}
	if rows == nil {
		rows = []T{}
	}
	return Paged[T]{Items: rows, Paging: NewPagingInfo(p, hasNext)}
}
