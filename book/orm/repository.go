package orm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/marcelsud/library-catalog/book"
	catalogsqlite "github.com/marcelsud/library-catalog/book/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Repository com GORM: o mesmo contrato de book.Repository sobre um ORM.
O dialeto (postgres ou sqlite) é escolhido na abertura.
*/

// record tem as tags de persistência; book.Book continua sem tags
type record struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Title  string `gorm:"not null;check:title <> ''"`
	Author string `gorm:"not null;check:author <> ''"`
	Genre  string `gorm:"not null;default:''"`
	Year   string `gorm:"not null;default:''"`
}

func (record) TableName() string { return "books" }

func (r record) book() book.Book {
	return book.Book{ID: r.ID, Title: r.Title, Author: r.Author, Genre: r.Genre, Year: r.Year}
}

type Repository struct {
	DB *gorm.DB
}

// OpenPostgres connects through the pgx-based gorm dialector
func OpenPostgres(dsn string) (*Repository, error) {
	return NewRepository(postgres.Open(dsn))
}

// OpenSQLite opens a database file with the pure Go sqlite dialector
func OpenSQLite(path string) (*Repository, error) {
	return NewRepository(sqlite.Open(path))
}

// NewRepository opens the dialector and migrates the books table
func NewRepository(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening gorm connection: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrating books: %w", err)
	}
	return &Repository{DB: db}, nil
}

func (r *Repository) Select(ctx context.Context, id int64) (book.Book, error) {
	var rec record
	err := r.DB.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return rec.book(), nil
}

func (r *Repository) SelectPage(ctx context.Context, limit, offset int) ([]book.Book, int, error) {
	return r.selectPage(ctx, func(db *gorm.DB) *gorm.DB { return db }, limit, offset)
}

func (r *Repository) Search(ctx context.Context, term string, limit, offset int) ([]book.Book, int, error) {
	p := strings.ToLower(book.ContainsPattern(term))
	lower := r.lowerFunction()
	where := fmt.Sprintf(
		`%[1]s(title) LIKE ? ESCAPE '\' OR %[1]s(author) LIKE ? ESCAPE '\' OR %[1]s(genre) LIKE ? ESCAPE '\' OR %[1]s(year) LIKE ? ESCAPE '\'`,
		lower,
	)
	matching := func(db *gorm.DB) *gorm.DB {
		return db.Where(where, p, p, p, p)
	}
	return r.selectPage(ctx, matching, limit, offset)
}

// lowerFunction picks a Unicode-aware lowercase for the open dialect
func (r *Repository) lowerFunction() string {
	if r.DB.Dialector.Name() == "sqlite" {
		return catalogsqlite.FoldFunction
	}
	return "LOWER"
}

func (r *Repository) selectPage(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]book.Book, int, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&record{}).Scopes(scope).Count(&total).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting books: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	var recs []record
	err = r.DB.WithContext(ctx).
		Scopes(scope).
		Order("title ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&recs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(recs))
	for _, rec := range recs {
		books = append(books, rec.book())
	}
	return books, int(total), nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (int64, error) {
	rec := record{Title: b.Title, Author: b.Author, Genre: b.Genre, Year: b.Year}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("inserting book: %w", err)
	}
	return rec.ID, nil
}

func (r *Repository) Update(ctx context.Context, b book.Book) error {
	res := r.DB.WithContext(ctx).Model(&record{ID: b.ID}).Updates(map[string]any{
		"title":  b.Title,
		"author": b.Author,
		"genre":  b.Genre,
		"year":   b.Year,
	})
	if res.Error != nil {
		return fmt.Errorf("updating book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.DB.WithContext(ctx).Delete(&record{}, id)
	if res.Error != nil {
		return fmt.Errorf("deleting book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("closing repository: %w", err)
	}
	return nil
}
