package paging

import "github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"

// Page describes an offset/limit window. From is an element offset, but pages are
// aligned to Size: the window starts at page index floor(From/Size).
type Page struct {
	From int
	Size int
}

// Unpaged returns a window wide enough to hold every row.
func Unpaged() Page {
	return Page{From: 0, Size: 1 << 30}
}

// New validates from and size and returns the page.
func New(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, apperror.Validationf("from must be non-negative, got %d", from)
	}
	if size <= 0 {
		return Page{}, apperror.Validationf("size must be positive, got %d", size)
	}
	return Page{From: from, Size: size}, nil
}

// Index is the zero-based page number.
func (p Page) Index() int {
	return p.From / p.Size
}

// Offset is the first row of the page.
func (p Page) Offset() uint64 {
	return uint64(p.Index() * p.Size)
}

// Limit is the maximum number of rows on the page.
func (p Page) Limit() uint64 {
	return uint64(p.Size)
}

// Slice cuts the page out of an already ordered slice.
func Slice[T any](all []T, p Page) []T {
	start := int(p.Offset())
	if start >= len(all) {
		return []T{}
	}
	end := start + p.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}
