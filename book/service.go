package book

import (
	"context"
	"errors"
	"fmt"
)

/*
 * Book é dado, por isso value semantics. Service é API, por isso ponteiro.
 */

type UseCase interface {
	List(ctx context.Context, page int) (Page, error)
	Search(ctx context.Context, term string, page int) (Page, error)
	Get(ctx context.Context, id int64) (Book, error)
	Create(ctx context.Context, fields Fields) (Book, error)
	Update(ctx context.Context, id int64, fields Fields) (Book, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	Repo       Repository
	YearPolicy YearPolicy
}

func NewService(repo Repository, policy YearPolicy) *Service {
	return &Service{
		Repo:       repo,
		YearPolicy: policy,
	}
}

func (s *Service) List(ctx context.Context, page int) (Page, error) {
	page = normalizePage(page)
	books, total, err := s.Repo.SelectPage(ctx, PageSize, Offset(page, PageSize))
	if err != nil {
		return Page{}, fmt.Errorf("selecting books: %w", err)
	}
	return newPage(books, page, total), nil
}

func (s *Service) Search(ctx context.Context, term string, page int) (Page, error) {
	page = normalizePage(page)
	books, total, err := s.Repo.Search(ctx, term, PageSize, Offset(page, PageSize))
	if err != nil {
		return Page{}, fmt.Errorf("searching books: %w", err)
	}
	return newPage(books, page, total), nil
}

func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

func (s *Service) Create(ctx context.Context, fields Fields) (Book, error) {
	d := NewDraft(fields)
	if err := d.Validate(s.YearPolicy); err != nil {
		return Book{}, err
	}
	b := d.Book()
	id, err := s.Repo.Insert(ctx, b)
	if err != nil {
		return Book{}, fmt.Errorf("inserting book: %w", err)
	}
	b.ID = id
	return b, nil
}

// Update applies the submitted fields to an existing book. On validation
// failure the returned error's Draft holds only what was submitted.
func (s *Service) Update(ctx context.Context, id int64, fields Fields) (Book, error) {
	current, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	if err := current.Draft(fields).Validate(s.YearPolicy); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			submitted := NewDraft(fields)
			submitted.ID = id
			verr.Draft = submitted
		}
		return Book{}, err
	}
	b := current.Draft(fields).Book()
	if err := s.Repo.Update(ctx, b); err != nil {
		return Book{}, fmt.Errorf("updating book: %w", err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func normalizePage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

func newPage(books []Book, number, total int) Page {
	return Page{
		Books:      books,
		Number:     number,
		Total:      total,
		NumOfPages: NumPages(total, PageSize),
	}
}
