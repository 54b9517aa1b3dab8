package dto

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1_000_000
)

// PageQuery is bound from ?page=&page_size=&search=.
type PageQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Search   string `query:"search"`
}

// Normalize applies defaults, clamps page to 1..MaxPage and page_size to
// 1..MaxPageSize.
func (q *PageQuery) Normalize() {
	switch {
	case q.Page < 1:
		q.Page = 1
	case q.Page > MaxPage:
		q.Page = MaxPage
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = DefaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
}
