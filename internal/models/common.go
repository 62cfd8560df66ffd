package models

const (
	// DefaultPageSize is used by item, batch and usage listings when no size is given.
	DefaultPageSize = 25

	// MaxPageSize caps a single listing page.
	MaxPageSize = 100
)

// Pagination selects one page of an item, batch, usage or meal listing.
// Page is 1-based; out-of-range values are clamped rather than rejected.
type Pagination struct {
	Page     int
	PageSize int
}

// DefaultPagination is the first page at the default size.
func DefaultPagination() Pagination {
	return Pagination{Page: 1, PageSize: DefaultPageSize}
}

// Limit is the effective page size: DefaultPageSize when unset, capped at MaxPageSize.
func (p Pagination) Limit() int {
	switch {
	case p.PageSize < 1:
		return DefaultPageSize
	case p.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return p.PageSize
}

// Offset is the number of rows before Page, counted at the effective page size.
func (p Pagination) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.Limit()
}

// TotalPages is how many pages total rows span. An empty listing still has one page.
func (p Pagination) TotalPages(total int) int {
	size := p.Limit()
	pages := (total + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}
