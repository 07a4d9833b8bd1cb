package book

import (
	"errors"
	"math"
)

/* Sem tags: representa um livro em relação ao negócio */

// PageSize is the number of books shown on each catalog page
const PageSize = 5

// ErrNotFound is returned by every store when a book does not exist
var ErrNotFound = errors.New("not found")

// Book is a catalog entry
type Book struct {
	ID     int64
	Title  string
	Author string
	Genre  string
	Year   string
}

// Page is one slice of a title-ordered listing
type Page struct {
	Books      []Book
	Number     int
	Total      int
	NumOfPages int
}

// NumPages returns ceil(total/size), zero for an empty catalog
func NumPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// MaxPage is the last page number whose offset fits in an int
const MaxPage = math.MaxInt / PageSize

// Offset returns the row offset of a 1-based page number. Offsets that would
// overflow saturate, which still lands past the end of any catalog.
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	if size > 0 && page-1 > math.MaxInt/size {
		return math.MaxInt / size * size
	}
	return (page - 1) * size
}
