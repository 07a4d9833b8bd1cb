package seed

import (
	"fmt"

	"github.com/marcelsud/library-catalog/book"
)

/* Entry é um livro do arquivo de seed.
 * É validado com as mesmas regras do formulário.
 */
type Entry struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	Genre  string `yaml:"genre"`
	Year   string `yaml:"year"`
}

// Fields returns the entry as if it had been submitted through the form
func (e Entry) Fields() book.Fields {
	return book.Fields{
		book.FieldTitle:  e.Title,
		book.FieldAuthor: e.Author,
		book.FieldGenre:  e.Genre,
		book.FieldYear:   e.Year,
	}
}

// Validate applies the book form rules under the given year policy
func (e Entry) Validate(policy book.YearPolicy) error {
	if err := book.NewDraft(e.Fields()).Validate(policy); err != nil {
		return fmt.Errorf("invalid entry %q: %w", e.Title, err)
	}
	return nil
}
