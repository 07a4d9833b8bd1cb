package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/hashicorp/go-memdb"
	"github.com/marcelsud/library-catalog/book"
)

const table = "book"

// Repository keeps books in a go-memdb table. It backs STORE=memory and
// serves as the fake store in tests.
type Repository struct {
	db     *memdb.MemDB
	nextID atomic.Int64
}

func NewRepository() (*Repository, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			table: {
				Name: table,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
				},
			},
		},
	}
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("initializing in-memory database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	raw, err := txn.First(table, "id", id)
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	if raw == nil {
		return book.Book{}, book.ErrNotFound
	}
	return raw.(book.Book), nil
}

func (r *Repository) SelectPage(ctx context.Context, limit, offset int) ([]book.Book, int, error) {
	return r.selectPage(func(book.Book) bool { return true }, limit, offset)
}

func (r *Repository) Search(ctx context.Context, term string, limit, offset int) ([]book.Book, int, error) {
	return r.selectPage(func(b book.Book) bool { return b.Matches(term) }, limit, offset)
}

func (r *Repository) selectPage(keep func(book.Book) bool, limit, offset int) ([]book.Book, int, error) {
	txn := r.db.Txn(false)
	defer txn.Abort()
	it, err := txn.Get(table, "id")
	if err != nil {
		return nil, 0, fmt.Errorf("selecting books: %w", err)
	}

	var matched []book.Book
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if b := obj.(book.Book); keep(b) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Title != matched[j].Title {
			return matched[i].Title < matched[j].Title
		}
		return matched[i].ID < matched[j].ID
	})

	total := len(matched)
	if offset < 0 || offset >= total {
		return nil, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (int64, error) {
	if b.Title == "" || b.Author == "" {
		return 0, fmt.Errorf("inserting book: title and author are required")
	}
	txn := r.db.Txn(true)
	defer txn.Abort()
	b.ID = r.nextID.Add(1)
	if err := txn.Insert(table, b); err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}
	txn.Commit()
	return b.ID, nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	raw, err := txn.First(table, "id", b.ID)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	if raw == nil {
		return book.ErrNotFound
	}
	if err := txn.Insert(table, b); err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	txn.Commit()
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	n, err := txn.DeleteAll(table, "id", id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if n == 0 {
		return book.ErrNotFound
	}
	txn.Commit()
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	return nil
}
