package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite" // pure Go SQLite driver, registered as "sqlite"
	"github.com/marcelsud/library-catalog/book"
)

/*
SQLite Repository (arquivo local, sem CGO)

- placeholders (?) ao invés de ($1)
- AUTOINCREMENT ao invés de SERIAL
- LIKE com ESCAPE explícito, pois SQLite não tem escape padrão
- lower() do SQLite só conhece ASCII, a busca usa fold()
*/

// FoldFunction is a SQL function lowercasing text with Go's Unicode rules.
// It is registered on the driver, so gorm's sqlite dialector sees it too.
const FoldFunction = "fold"

const searchWhere = `fold(title) LIKE ? ESCAPE '\'
	OR fold(author) LIKE ? ESCAPE '\'
	OR fold(genre) LIKE ? ESCAPE '\'
	OR fold(year) LIKE ? ESCAPE '\'`

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(FoldFunction, 1, fold)
}

func fold(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return strings.ToLower(fmt.Sprint(v)), nil
	}
}

type Repository struct {
	DB *sql.DB
}

// NewRepository opens (or creates) the database file and its schema
func NewRepository(ctx context.Context, path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	r := &Repository{DB: db}
	if err := r.CreateTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	var b book.Book
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, title, author, genre, year FROM books WHERE id = ?", id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

func (r *Repository) SelectPage(ctx context.Context, limit, offset int) ([]book.Book, int, error) {
	return r.selectPage(ctx, "", nil, limit, offset)
}

func (r *Repository) Search(ctx context.Context, term string, limit, offset int) ([]book.Book, int, error) {
	p := strings.ToLower(book.ContainsPattern(term))
	return r.selectPage(ctx, searchWhere, []any{p, p, p, p}, limit, offset)
}

func (r *Repository) selectPage(ctx context.Context, where string, args []any, limit, offset int) ([]book.Book, int, error) {
	filter := ""
	if where != "" {
		filter = " WHERE " + where
	}

	var total int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM books"+filter, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("counting books: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	query := "SELECT id, title, author, genre, year FROM books" + filter +
		" ORDER BY title ASC, id ASC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("selecting books: %w", err)
	}
	defer rows.Close()

	var books []book.Book

	for rows.Next() {
		var b book.Book

		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Genre, &b.Year); err != nil {
			return nil, 0, fmt.Errorf("scanning book: %w", err)
		}

		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("interacting with books: %w", err)
	}

	return books, total, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (int64, error) {
	stmt, err := r.DB.PrepareContext(ctx, `
		insert into books (title, author, genre, year)
		values(?,?,?,?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		b.Title,
		b.Author,
		b.Genre,
		b.Year,
	)
	if err != nil {
		return 0, fmt.Errorf("executing statement: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert ID: %w", err)
	}

	return id, nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) error {
	result, err := r.DB.ExecContext(ctx,
		`update books set title=?, author=?, genre=?, year=? where id=?`,
		b.Title,
		b.Author,
		b.Genre,
		b.Year,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	return affectedOne(result)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return affectedOne(result)
}

func affectedOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) CreateTable(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS books (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL CHECK (title <> ''),
  author TEXT NOT NULL CHECK (author <> ''),
  genre TEXT NOT NULL DEFAULT '',
  year TEXT NOT NULL DEFAULT ''
);`
	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	err := r.DB.Close()
	if err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	return nil
}

