// Package pagination slices the result view into fixed-size pages and
// models the page-number navigation with ellipsis compaction.
package pagination

import (
	"math"

	"github.com/climaxcard/buylist/buylist/catalog"
)

// Window widths around the current page button. Narrow viewports get the
// tighter window.
const (
	WindowNarrow = 2
	WindowWide   = 3
)

// Page is one slice of the result view.
type Page struct {
	Items      []catalog.IndexedCard
	Number     int // clamped, 1-based
	TotalPages int
}

// TotalPages never reports zero: an empty result set still has one (empty)
// page so the pager and the clamping invariant stay well defined.
func TotalPages(resultCount, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(float64(resultCount)/float64(pageSize))))
}

// Paginate clamps the requested page number into [1, TotalPages] and
// returns that slice of results. A page past the end clamps down rather
// than coming back empty.
func Paginate(results []catalog.IndexedCard, pageSize, pageNumber int) Page {
	total := TotalPages(len(results), pageSize)
	if pageNumber > total {
		pageNumber = total
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	start := (pageNumber - 1) * pageSize
	if start > len(results) {
		start = len(results)
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return Page{Items: results[start:end], Number: pageNumber, TotalPages: total}
}

// Button is one element of the pager row: a numbered page link, the current
// page (disabled), or a non-interactive ellipsis marker.
type Button struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Buttons renders the pager model: page 1 and the last page are always
// present, a ±window range surrounds the current page, and each gap
// between the fixed endpoints and the window collapses to one ellipsis.
func Buttons(current, totalPages, window int) []Button {
	if totalPages < 1 {
		totalPages = 1
	}
	btns := []Button{{Page: 1, Current: current == 1}}

	start := current - window
	if start < 2 {
		start = 2
	}
	end := current + window
	if end > totalPages-1 {
		end = totalPages - 1
	}

	if start > 2 {
		btns = append(btns, Button{Ellipsis: true})
	}
	for p := start; p <= end; p++ {
		btns = append(btns, Button{Page: p, Current: p == current})
	}
	if end < totalPages-1 {
		btns = append(btns, Button{Ellipsis: true})
	}
	if totalPages > 1 {
		btns = append(btns, Button{Page: totalPages, Current: current == totalPages})
	}
	return btns
}
