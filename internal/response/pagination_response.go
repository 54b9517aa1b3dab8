package response

import "math"

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination describes page (1-based) of pageSize items out of total.
// From and To are 1-based item positions and both 0 when the page is empty.
func NewPagination(page, pageSize int, total int64) *Pagination {
	p := &Pagination{Page: page, PageSize: pageSize, TotalItems: total}
	if pageSize > 0 {
		p.TotalPages = int64(math.Ceil(float64(total) / float64(pageSize)))
	}
	offset := int64((page - 1) * pageSize)
	if offset < total {
		p.From = int(offset) + 1
		p.To = int(min(offset+int64(pageSize), total))
	}
	p.HasMore = int64(page) < p.TotalPages
	return p
}
