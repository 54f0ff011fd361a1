package domain

// PaginationParams selects one page of a list. Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit is the LIMIT of the page query; never negative.
func (p PaginationParams) Limit() int {
	return max(p.PageSize, 0)
}

// Offset is the number of rows before the page. Pages below 1 start at row 0.
func (p PaginationParams) Offset() int {
	return max(p.Page-1, 0) * p.Limit()
}
