package inmemory

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/marcelsud/library-catalog/book"
	"github.com/matryer/is"
)

func TestRepository(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	repo, err := NewRepository()
	is.NoErr(err)

	id, err := repo.Insert(ctx, book.Book{Title: "Dune", Author: "Frank Herbert", Year: "1965"})
	is.NoErr(err)
	is.Equal(id, int64(1))

	b, err := repo.Select(ctx, id)
	is.NoErr(err)
	is.Equal(b.Title, "Dune")

	b.Title = "Dune Messiah"
	is.NoErr(repo.Update(ctx, b))
	b, err = repo.Select(ctx, id)
	is.NoErr(err)
	is.Equal(b.Title, "Dune Messiah")

	is.NoErr(repo.Delete(ctx, id))
	_, err = repo.Select(ctx, id)
	is.Equal(err, book.ErrNotFound)
	is.Equal(repo.Delete(ctx, id), book.ErrNotFound)
	is.Equal(repo.Update(ctx, b), book.ErrNotFound)
}

func TestRepository_RequiresTitleAndAuthor(t *testing.T) {
	is := is.New(t)
	repo, err := NewRepository()
	is.NoErr(err)
	_, err = repo.Insert(context.Background(), book.Book{Title: "Untitled"})
	is.True(err != nil)
	_, total, err := repo.SelectPage(context.Background(), book.PageSize, 0)
	is.NoErr(err)
	is.Equal(total, 0)
}

func TestRepository_SelectPage(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	repo, err := NewRepository()
	is.NoErr(err)
	for i := 11; i >= 1; i-- {
		_, err := repo.Insert(ctx, book.Book{Title: fmt.Sprintf("Book %02d", i), Author: "A"})
		is.NoErr(err)
	}

	page, total, err := repo.SelectPage(ctx, book.PageSize, 0)
	is.NoErr(err)
	is.Equal(total, 11)
	is.Equal(len(page), 5)
	is.Equal(page[0].Title, "Book 01")

	page, _, err = repo.SelectPage(ctx, book.PageSize, 10)
	is.NoErr(err)
	is.Equal(len(page), 1)
	is.Equal(page[0].Title, "Book 11")

	page, _, err = repo.SelectPage(ctx, book.PageSize, 15)
	is.NoErr(err)
	is.Equal(len(page), 0)

	page, total, err = repo.SelectPage(ctx, book.PageSize, book.Offset(math.MaxInt, book.PageSize))
	is.NoErr(err)
	is.Equal(total, 11)
	is.Equal(len(page), 0)

	page, _, err = repo.SelectPage(ctx, book.PageSize, -5)
	is.NoErr(err)
	is.Equal(len(page), 0)
}

func TestRepository_UpdateTouchesOnlyOneBook(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	repo, err := NewRepository()
	is.NoErr(err)
	var before []book.Book
	for _, b := range []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Year: "1965"},
		{Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: "1815"},
		{Title: "Solaris", Author: "Stanislaw Lem", Genre: "Sci-Fi", Year: "1961"},
	} {
		id, err := repo.Insert(ctx, b)
		is.NoErr(err)
		b.ID = id
		before = append(before, b)
	}

	changed := before[1]
	changed.Title = "Persuasion"
	changed.Year = "1817"
	is.NoErr(repo.Update(ctx, changed))

	for i, want := range before {
		got, err := repo.Select(ctx, want.ID)
		is.NoErr(err)
		if i == 1 {
			want = changed
		}
		is.Equal(got, want)
	}
}

func TestRepository_Search(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	repo, err := NewRepository()
	is.NoErr(err)
	for _, b := range []book.Book{
		{Title: "Dune", Author: "Herbert", Year: "1965"},
		{Title: "Duna", Author: "X", Year: "1970"},
		{Title: "Foo", Author: "Bar", Year: "2000"},
	} {
		_, err := repo.Insert(ctx, b)
		is.NoErr(err)
	}

	books, total, err := repo.Search(ctx, "dun", book.PageSize, 0)
	is.NoErr(err)
	is.Equal(total, 2)
	is.Equal(books[0].Title, "Duna")
	is.Equal(books[1].Title, "Dune")

	books, total, err = repo.Search(ctx, "2000", book.PageSize, 0)
	is.NoErr(err)
	is.Equal(total, 1)
	is.Equal(books[0].Title, "Foo")

	_, total, err = repo.Search(ctx, "nothing", book.PageSize, 0)
	is.NoErr(err)
	is.Equal(total, 0)
}
