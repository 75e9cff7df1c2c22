package query

import (
	"math"

	"productapi/internal/apperrors"
)

const (
	// DefaultPage and DefaultSize apply when the caller omits pagination parameters.
	DefaultPage = 0
	DefaultSize = 10
)

// PageRequest is a 0-based page index and a page size.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest validates page >= 0 and size > 0.
func NewPageRequest(page, size int) (PageRequest, error) {
	if page < 0 {
		return PageRequest{}, apperrors.NewValidationError("page", "page index must not be less than zero")
	}
	if size <= 0 {
		return PageRequest{}, apperrors.NewValidationError("size", "page size must be greater than zero")
	}
	return PageRequest{Page: page, Size: size}, nil
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt64 instead of overflowing for very large page indexes.
func (p PageRequest) Offset() int64 {
	if p.Size > 0 && int64(p.Page) > math.MaxInt64/int64(p.Size) {
		return math.MaxInt64
	}
	return int64(p.Page) * int64(p.Size)
}

// Page is a bounded slice of a larger result set plus its metadata.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage builds a Page from one slice of rows and the total count of matching rows.
func NewPage[T any](content []T, req PageRequest, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}

	return Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         req.Page == 0,
		Last:          req.Page+1 >= totalPages,
	}
}

// MapPage converts every element of p with fn, keeping the metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}

	return Page[U]{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		First:         p.First,
		Last:          p.Last,
	}
}
