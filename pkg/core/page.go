package core

// DefaultPageSize is used when a page request does not set one.
const DefaultPageSize = 5

// Page is one slice of an id-descending listing.
type Page[T any] struct {
	Items      []T
	TotalCount int
	PageNo     int
	PageSize   int
}

// TotalPages returns the number of pages needed for TotalCount items.
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.TotalCount + p.PageSize - 1) / p.PageSize
}

// paginate cuts items into the requested page. pageNo is 1-based; values
// below 1 fall back to the first page.
func paginate[T any](items []T, pageNo, pageSize int) Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageNo < 1 {
		pageNo = 1
	}

	page := Page[T]{TotalCount: len(items), PageNo: pageNo, PageSize: pageSize, Items: []T{}}

	start := (pageNo - 1) * pageSize
	if start >= len(items) {
		return page
	}
	end := min(start+pageSize, len(items))
	page.Items = items[start:end]
	return page
}
