// Package paging describes page requests and page results.
package paging

import (
	"math"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPageNumber keeps PageNumber*MaxPageSize inside an int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Order sorts by one storage-independent field name.
type Order struct {
	Field string
	Desc  bool
}

// Pageable requests one page of a larger result. PageNumber is zero based.
type Pageable struct {
	PageNumber int
	PageSize   int
	Sort       []Order
}

// Of is shorthand for a Pageable without sort orders.
func Of(number, size int) Pageable { return Pageable{PageNumber: number, PageSize: size} }

// Normalize clamps the page number and size into their accepted ranges.
func (p Pageable) Normalize() Pageable {
	if p.PageNumber < 0 {
		p.PageNumber = 0
	}
	if p.PageNumber > MaxPageNumber {
		p.PageNumber = MaxPageNumber
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset is the index of the first element of the page, saturating at
// math.MaxInt instead of overflowing.
func (p Pageable) Offset() int {
	if p.PageNumber <= 0 || p.PageSize <= 0 {
		return 0
	}
	if p.PageNumber > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return p.PageNumber * p.PageSize
}

// ParseSort reads "field,-other" into orders; a leading '-' means descending.
func ParseSort(s string) []Order {
	var out []Order
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			out = append(out, Order{Field: part[1:], Desc: true})
		} else {
			out = append(out, Order{Field: strings.TrimPrefix(part, "+")})
		}
	}
	return out
}

// Page is one page of results. PageElements is the element count on this
// page, TotalElements the count across all pages.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNumber    int   `json:"pageNumber"`
	PageElements  int   `json:"pageElements"`
	TotalElements int64 `json:"totalElements"`
}

// New builds a page whose element count is len(content).
func New[T any](content []T, number int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	return Page[T]{Content: content, PageNumber: number, PageElements: len(content), TotalElements: total}
}

// Convert maps the content of src in order and copies its metadata as is.
func Convert[S, T any](src Page[S], conv func([]S) ([]T, error)) (Page[T], error) {
	content, err := conv(src.Content)
	if err != nil {
		return Page[T]{}, err
	}
	return Page[T]{
		Content:       content,
		PageNumber:    src.PageNumber,
		PageElements:  src.PageElements,
		TotalElements: src.TotalElements,
	}, nil
}

// Window returns the [start, end) bounds of page p inside a sequence of n items.
func Window(p Pageable, n int) (int, int) {
	start := p.Offset()
	if start < 0 || start > n {
		start = n
	}
	end := n
	if p.PageSize >= 0 && p.PageSize < n-start {
		end = start + p.PageSize
	}
	return start, end
}
