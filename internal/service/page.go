package service

import (
	"github.com/joyas-pwa/joyas-api/internal/apperr"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPageNumber   = 1_000_000
)

// Page selects a slice of a listing.  Number is 1-based.
type Page struct {
	Number int
	Size   int
}

// NewPage validates pagination input.  Callers fill in 1 and
// DefaultPageSize for absent parameters.
func NewPage(number, size int) (Page, error) {
	fields := map[string]string{}
	if number < 1 || number > MaxPageNumber {
		fields["page"] = "must be between 1 and 1000000"
	}
	if size < 1 || size > MaxPageSize {
		fields["page_size"] = "must be between 1 and 100"
	}
	if len(fields) > 0 {
		return Page{}, apperr.Validation("invalid pagination", fields)
	}
	return Page{Number: number, Size: size}, nil
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// Paged is one page of results plus the size of the whole listing.
type Paged[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
}

// TotalPages is ceil(Total / PageSize).
func (p Paged[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

func newPaged[T any](items []T, total int, p Page) Paged[T] {
	if items == nil {
		items = []T{}
	}
	return Paged[T]{Items: items, Total: total, Page: p.Number, PageSize: p.Size}
}

// paginate slices an in-memory listing.
func paginate[T any](all []T, p Page) Paged[T] {
	start := p.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	return newPaged(all[start:end], len(all), p)
}
