package book

import "math"

// Pagination describes which slice of a listing was returned.
type Pagination struct {
	Total      int64 // Total number of matching books
	Page       int64 // Current page number (1-based)
	Limit      int64 // Page size
	TotalPages int64
}

// NewPagination calculates the page count for total records split into pages of limit.
func NewPagination(total, page, limit int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// Offset returns the number of records to skip for page, treating page < 1 as the first page.
// Pages too far out to address saturate at math.MaxInt64, which selects nothing.
func Offset(page, limit int64) int64 {
	if page < 1 {
		page = 1
	}
	if limit > 0 && page-1 > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return (page - 1) * limit
}
