package models

// PaginationInfo describes where a page sits in the full collection.
type PaginationInfo struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Valid checks the invariants every pagination block must hold.
func (p PaginationInfo) Valid() bool {
	if p.CurrentPage < 0 || p.TotalPages < 0 || p.TotalItems < 0 {
		return false
	}
	if p.ItemsPerPage <= 0 {
		return false
	}
	return p.CurrentPage <= max(p.TotalPages, 1)
}

// Range returns the 1-based indexes of the first and last item on the
// current page. An empty collection yields (0, 0).
func (p PaginationInfo) Range() (start, end int) {
	if p.TotalItems == 0 || p.ItemsPerPage <= 0 || p.CurrentPage <= 0 {
		return 0, 0
	}
	start = (p.CurrentPage-1)*p.ItemsPerPage + 1
	end = min(p.CurrentPage*p.ItemsPerPage, p.TotalItems)
	if start > end {
		return 0, 0
	}
	return start, end
}

// PageResult is one page of a list response.
type PageResult[T any] struct {
	Items      []T
	Pagination PaginationInfo
	// Fallback is set only when the page is demo data served in degraded
	// mode instead of a real response.
	Fallback bool
}
