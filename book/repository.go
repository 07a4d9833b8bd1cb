package book

import "context"

/* Interfaces pequenas */

type Reader interface {
	Select(ctx context.Context, id int64) (Book, error)
	SelectPage(ctx context.Context, limit, offset int) ([]Book, int, error)
	Search(ctx context.Context, term string, limit, offset int) ([]Book, int, error)
}

type Writer interface {
	Insert(ctx context.Context, book Book) (int64, error)
	Update(ctx context.Context, book Book) error
	Delete(ctx context.Context, id int64) error
}

/* Composição de interfaces */

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
