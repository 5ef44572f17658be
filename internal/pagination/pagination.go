// Package pagination provides the generic page primitive used by every
// list endpoint. A Page is built from the items of one slice of an
// ordered query plus the total count of the same filtered query.
package pagination

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

// Params is a caller-supplied page request. PageNumber is 1-based.
type Params struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// Normalize clamps the params to safe values: page >= 1 and
// 1 <= size <= maxPageSize. The caller never controls an unbounded
// result set.
func (p Params) Normalize() Params {
	if p.PageNumber < 1 {
		p.PageNumber = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// Page is one slice of a filtered, ordered result set.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"itemsPerPage"`
	TotalCount  int `json:"totalItems"`
	TotalPages  int `json:"totalPages"`
}

// New builds a Page from the fetched items and the unpaginated total.
// A page number past the end yields empty items with correct totals,
// never an error.
func New[T any](items []T, totalCount int, p Params) Page[T] {
	p = p.Normalize()
	totalPages := (totalCount + p.PageSize - 1) / p.PageSize
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		CurrentPage: p.PageNumber,
		PageSize:    p.PageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}
