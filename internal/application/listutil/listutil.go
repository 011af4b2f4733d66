// Package listutil pages and filters in-memory lists for the list projections.
package listutil

import "strings"

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// PageParams carries pagination parameters.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// Normalize applies defaults: page at least 1, PerPage one of PerPageOptions.
// POST: returns valid PageParams
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if !isValidPerPage(p.PerPage) {
		p.PerPage = DefaultPerPage
	}
	return p
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (1-indexed)
	PerPage    int // rows per page
	Total      int // total matching rows
	TotalPages int // ceil(Total / PerPage)
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page = min(max(page, 1), totalPages)
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}

// HasMore returns true if rows exist past the current page.
func (p PageInfo) HasMore() bool {
	return p.Page < p.TotalPages
}

// Paginate returns the rows of items on the requested page.
// INVARIANT: items is not modified
func Paginate[T any](items []T, params PageParams) ([]T, PageInfo) {
	params = params.Normalize()
	info := NewPageInfo(params.Page, params.PerPage, len(items))
	return items[info.Offset():info.EndRow()], info
}

// MatchesSearch reports whether any field contains query, case-insensitively.
// An empty query matches everything.
func MatchesSearch(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
