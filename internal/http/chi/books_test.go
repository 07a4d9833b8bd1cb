package chi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/book/mocks"
	"github.com/marcelsud/library-catalog/internal/view"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/*
* Testes com o serviço mockado e um renderer que só registra o que foi pedido.
* O teste de ponta a ponta no fim usa o repositório em memória e os templates reais.
 */

type renderCall struct {
	status int
	name   string
	data   view.Data
}

type recordingRenderer struct {
	calls []renderCall
}

func (rr *recordingRenderer) Render(w http.ResponseWriter, status int, name string, data view.Data) error {
	rr.calls = append(rr.calls, renderCall{status: status, name: name, data: data})
	w.WriteHeader(status)
	return nil
}

func (rr *recordingRenderer) last(t *testing.T) renderCall {
	t.Helper()
	require.NotEmpty(t, rr.calls, "nothing was rendered")
	return rr.calls[len(rr.calls)-1]
}

func serve(t *testing.T, s book.UseCase, views view.Renderer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	h := Handlers(zerolog.Nop(), s, views, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestGetBooks(t *testing.T) {
	books := []book.Book{
		{ID: 1, Title: "Title 1", Author: "Author 1"},
		{ID: 2, Title: "Title 2", Author: "Author 2"},
	}
	t.Run("renders the requested page", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything, 2).Return(book.Page{Books: books, Number: 2, Total: 7, NumOfPages: 2}, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books?page=2", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		call := views.last(t)
		assert.Equal(t, "index", call.name)
		assert.Equal(t, books, call.data["books"])
		assert.Equal(t, "Library", call.data["title"])
		assert.Equal(t, 2, call.data["numOfPages"])
	})
	t.Run("invalid page falls back to the first", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything, 1).Return(book.Page{}, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/?page=abc", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("store failure renders the error page", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("List", mock.Anything, 1).Return(book.Page{}, fmt.Errorf("connection refused"))
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "error", views.last(t).name)
	})
}

func TestGetNewBook(t *testing.T) {
	views := &recordingRenderer{}
	w := serve(t, mocks.NewUseCase(t), views, httptest.NewRequest(http.MethodGet, "/books/new", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	call := views.last(t)
	assert.Equal(t, "books/new-book", call.name)
	assert.Equal(t, book.Draft{}, call.data["book"])
	assert.Equal(t, "New Book", call.data["title"])
}

func TestPostNewBook(t *testing.T) {
	form := url.Values{"title": {"Dune"}, "author": {"Frank Herbert"}, "year": {"1965"}}
	fields := book.Fields{"title": "Dune", "author": "Frank Herbert", "year": "1965"}
	t.Run("success redirects to the list", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Create", mock.Anything, fields).Return(book.Book{ID: 1}, nil)
		w := serve(t, s, &recordingRenderer{}, postForm("/books/new", form))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books", w.Header().Get("Location"))
	})
	t.Run("validation failure redisplays the form", func(t *testing.T) {
		draft := book.Draft{Author: "Frank Herbert"}
		errs := []book.FieldError{{Field: "Title", Message: `Please provide a value for "Title"`}}
		s := mocks.NewUseCase(t)
		s.On("Create", mock.Anything, book.Fields{"title": "", "author": "Frank Herbert"}).
			Return(book.Book{}, &book.ValidationError{Draft: draft, Errors: errs})
		views := &recordingRenderer{}
		w := serve(t, s, views, postForm("/books/new", url.Values{"title": {""}, "author": {"Frank Herbert"}}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		call := views.last(t)
		assert.Equal(t, "books/new-book", call.name)
		assert.Equal(t, draft, call.data["book"])
		assert.Equal(t, errs, call.data["errors"])
		assert.Equal(t, "New Book", call.data["title"])
	})
	t.Run("other failures render the error page", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Create", mock.Anything, fields).Return(book.Book{}, fmt.Errorf("disk full"))
		views := &recordingRenderer{}
		w := serve(t, s, views, postForm("/books/new", form))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "error", views.last(t).name)
	})
}

func TestSearchBooks(t *testing.T) {
	t.Run("empty term redirects and stops", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/search?searchValue=", nil))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books", w.Header().Get("Location"))
		assert.Empty(t, views.calls)
		s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	})
	t.Run("matches render the list", func(t *testing.T) {
		books := []book.Book{{ID: 2, Title: "Duna"}, {ID: 1, Title: "Dune"}}
		s := mocks.NewUseCase(t)
		s.On("Search", mock.Anything, "Dun", 1).Return(book.Page{Books: books, Number: 1, Total: 2, NumOfPages: 1}, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/search?searchValue=Dun", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		call := views.last(t)
		assert.Equal(t, "index", call.name)
		assert.Equal(t, books, call.data["books"])
		assert.Equal(t, "Search", call.data["title"])
		assert.Equal(t, 1, call.data["numOfPages"])
		assert.Equal(t, "Dun", call.data["searchValue"])
	})
	t.Run("no matches render the not found view", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Search", mock.Anything, "zzz", 3).Return(book.Page{Number: 3}, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/search?searchValue=zzz&page=3", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		call := views.last(t)
		assert.Equal(t, "books/books-not-found", call.name)
		assert.Equal(t, "Search", call.data["title"])
	})
}

func TestGetBook(t *testing.T) {
	b := book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}
	t.Run("found", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Get", mock.Anything, int64(1)).Return(b, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		call := views.last(t)
		assert.Equal(t, "books/update-book", call.name)
		assert.Equal(t, b, call.data["book"])
		assert.Equal(t, "Update Book", call.data["title"])
	})
	t.Run("not found", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Get", mock.Anything, int64(9)).Return(book.Book{}, fmt.Errorf("selecting book: %w", book.ErrNotFound))
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/9", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not-found", views.last(t).name)
	})
	t.Run("id that is not a number", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/abc", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		s.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestPostBook(t *testing.T) {
	t.Run("success redirects to the list", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Update", mock.Anything, int64(1), book.Fields{"title": "Dune Messiah"}).
			Return(book.Book{ID: 1, Title: "Dune Messiah"}, nil)
		w := serve(t, s, &recordingRenderer{}, postForm("/books/1", url.Values{"title": {"Dune Messiah"}}))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books", w.Header().Get("Location"))
	})
	t.Run("validation failure redisplays submitted draft", func(t *testing.T) {
		draft := book.Draft{ID: 1, Title: "", Author: "Frank Herbert"}
		s := mocks.NewUseCase(t)
		s.On("Update", mock.Anything, int64(1), mock.Anything).
			Return(book.Book{}, &book.ValidationError{Draft: draft, Errors: []book.FieldError{{Field: "Title"}}})
		views := &recordingRenderer{}
		w := serve(t, s, views, postForm("/books/1", url.Values{"title": {""}, "author": {"Frank Herbert"}}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		call := views.last(t)
		assert.Equal(t, "books/update-book", call.name)
		assert.Equal(t, draft, call.data["book"])
	})
	t.Run("not found", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Update", mock.Anything, int64(9), mock.Anything).Return(book.Book{}, book.ErrNotFound)
		views := &recordingRenderer{}
		w := serve(t, s, views, postForm("/books/9", url.Values{"title": {"x"}}))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not-found", views.last(t).name)
	})
}

func TestDeleteBook(t *testing.T) {
	b := book.Book{ID: 1, Title: "Dune", Author: "Frank Herbert"}
	t.Run("confirmation page", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Get", mock.Anything, int64(1)).Return(b, nil)
		views := &recordingRenderer{}
		w := serve(t, s, views, httptest.NewRequest(http.MethodGet, "/books/1/delete", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		call := views.last(t)
		assert.Equal(t, "books/delete", call.name)
		assert.Equal(t, b, call.data["book"])
		assert.Equal(t, "Delete Book", call.data["title"])
	})
	t.Run("confirmation for a missing book", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Get", mock.Anything, int64(9)).Return(book.Book{}, book.ErrNotFound)
		w := serve(t, s, &recordingRenderer{}, httptest.NewRequest(http.MethodGet, "/books/9/delete", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
	t.Run("delete redirects to the list", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Delete", mock.Anything, int64(1)).Return(nil)
		w := serve(t, s, &recordingRenderer{}, postForm("/books/1/delete", url.Values{}))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/books", w.Header().Get("Location"))
	})
	t.Run("delete of a missing book", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Delete", mock.Anything, int64(1)).Return(fmt.Errorf("deleting book: %w", book.ErrNotFound))
		views := &recordingRenderer{}
		w := serve(t, s, views, postForm("/books/1/delete", url.Values{}))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not-found", views.last(t).name)
	})
}

func TestUnknownRoute(t *testing.T) {
	views := &recordingRenderer{}
	w := serve(t, mocks.NewUseCase(t), views, httptest.NewRequest(http.MethodGet, "/books/1/edit", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not-found", views.last(t).name)
}

func TestHealthAndRoot(t *testing.T) {
	w := serve(t, mocks.NewUseCase(t), &recordingRenderer{}, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())

	w = serve(t, mocks.NewUseCase(t), &recordingRenderer{}, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/books", w.Header().Get("Location"))
}

func TestRequestID(t *testing.T) {
	w := serve(t, mocks.NewUseCase(t), &recordingRenderer{}, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = serve(t, mocks.NewUseCase(t), &recordingRenderer{}, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}
