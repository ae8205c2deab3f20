package util

import "strconv"

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Pagination holds normalized page/limit query values
type Pagination struct {
	Page  int
	Limit int
}

// ParsePagination reads page and limit strings, clamping them to sane bounds
func ParsePagination(pageStr, limitStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return Pagination{Page: page, Limit: limit}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
