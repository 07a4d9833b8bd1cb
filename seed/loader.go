package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/library-catalog/book"
	"gopkg.in/yaml.v3"
)

/* Loader lê o catálogo inicial de um arquivo YAML
 * e mantém as entradas na ordem do arquivo.
 */

// File represents the structure of the seed YAML
type File struct {
	Books []Entry `yaml:"books"`
}

type Loader struct {
	policy  book.YearPolicy
	entries []Entry
}

func NewLoader(policy book.YearPolicy) *Loader {
	return &Loader{policy: policy}
}

// Load reads and validates the seed file. Nothing is kept if any entry is invalid.
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	for i, e := range file.Books {
		if err := e.Validate(l.policy); err != nil {
			return fmt.Errorf("validating book #%d: %w", i+1, err)
		}
	}
	l.entries = file.Books
	return nil
}

// List returns the loaded entries in file order
func (l *Loader) List() []Entry {
	return l.entries
}

// Apply creates every loaded entry through the service
func (l *Loader) Apply(ctx context.Context, bookService book.UseCase) ([]book.Book, error) {
	created := make([]book.Book, 0, len(l.entries))
	for _, e := range l.entries {
		b, err := bookService.Create(ctx, e.Fields())
		if err != nil {
			return created, fmt.Errorf("creating %q: %w", e.Title, err)
		}
		created = append(created, b)
	}
	return created, nil
}
