package book

import "net/url"

// Form keys accepted from a submitted book form
const (
	FieldTitle  = "title"
	FieldAuthor = "author"
	FieldGenre  = "genre"
	FieldYear   = "year"
)

var knownFields = []string{FieldTitle, FieldAuthor, FieldGenre, FieldYear}

// Fields is the raw form submission, keyed by field name. Keys the user did
// not submit are absent.
type Fields map[string]string

// FieldsFromForm keeps the first value of each known book field
func FieldsFromForm(values url.Values) Fields {
	f := Fields{}
	for _, k := range knownFields {
		if vs, ok := values[k]; ok && len(vs) > 0 {
			f[k] = vs[0]
		}
	}
	return f
}

// Draft is an unsaved, Book-shaped value holding user input as typed
type Draft struct {
	ID     int64
	Title  string `validate:"notblank"`
	Author string `validate:"notblank"`
	Genre  string
	Year   string
}

// NewDraft builds a draft from exactly what was submitted
func NewDraft(f Fields) Draft {
	return Draft{
		Title:  f[FieldTitle],
		Author: f[FieldAuthor],
		Genre:  f[FieldGenre],
		Year:   f[FieldYear],
	}
}

// Draft returns the persisted book with the submitted fields written over it
func (b Book) Draft(f Fields) Draft {
	d := Draft{
		ID:     b.ID,
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Year:   b.Year,
	}
	if v, ok := f[FieldTitle]; ok {
		d.Title = v
	}
	if v, ok := f[FieldAuthor]; ok {
		d.Author = v
	}
	if v, ok := f[FieldGenre]; ok {
		d.Genre = v
	}
	if v, ok := f[FieldYear]; ok {
		d.Year = v
	}
	return d
}

// Book converts a validated draft
func (d Draft) Book() Book {
	return Book{
		ID:     d.ID,
		Title:  d.Title,
		Author: d.Author,
		Genre:  d.Genre,
		Year:   d.Year,
	}
}

