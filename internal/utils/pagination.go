package utils

import (
	"errors"
	"strconv"
	"strings"
)

// Pager is the page window over a result set of Total rows.
type Pager struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

// NewPager clamps the raw page parameter: non-numeric or below 1 gives page 1,
// beyond the end (including values too large for an int) gives the last page.
// It never fails.
func NewPager(raw string, total int64, perPage int) Pager {
	if perPage <= 0 {
		perPage = 10
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}

	raw = strings.TrimSpace(raw)
	page, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		page = totalPages
	case err != nil || page < 1:
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pager{Page: page, PerPage: perPage, TotalPages: totalPages, Total: total}
}

func (p Pager) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Bounds returns the slice window [start, end) for an in-memory result of length n.
func (p Pager) Bounds(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := start + p.PerPage
	if end > n {
		end = n
	}
	return start, end
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.TotalPages }
func (p Pager) PrevPage() int { return p.Page - 1 }
func (p Pager) NextPage() int { return p.Page + 1 }
