package chi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/internal/view"
)

/*
* Cada handler faz uma chamada ao serviço e termina em um render ou redirect.
* Erros vão todos para handleError.
 */

const booksPath = "/books"

func getBooks(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := bookService.List(r.Context(), pageParam(r))
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		render(w, r, views, http.StatusOK, "index", view.Data{
			"books":       page.Books,
			"title":       "Library",
			"numOfPages":  page.NumOfPages,
			"searchValue": "",
		})
	})
}

func getNewBook(views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render(w, r, views, http.StatusOK, "books/new-book", view.Data{
			"book":  book.Draft{},
			"title": "New Book",
		})
	})
}

func postNewBook(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, err := bookService.Create(r.Context(), book.FieldsFromForm(r.PostForm))
		var verr *book.ValidationError
		switch {
		case errors.As(err, &verr):
			render(w, r, views, http.StatusUnprocessableEntity, "books/new-book", view.Data{
				"book":   verr.Draft,
				"errors": verr.Errors,
				"title":  "New Book",
			})
			return
		case err != nil:
			handleError(w, r, views, err)
			return
		}
		http.Redirect(w, r, booksPath, http.StatusSeeOther)
	})
}

func searchBooks(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		term := r.URL.Query().Get("searchValue")
		if term == "" {
			http.Redirect(w, r, booksPath, http.StatusSeeOther)
			return
		}
		page, err := bookService.Search(r.Context(), term, pageParam(r))
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		if page.Total == 0 {
			render(w, r, views, http.StatusOK, "books/books-not-found", view.Data{
				"title":       "Search",
				"searchValue": term,
			})
			return
		}
		render(w, r, views, http.StatusOK, "index", view.Data{
			"books":       page.Books,
			"title":       "Search",
			"numOfPages":  page.NumOfPages,
			"searchValue": term,
		})
	})
}

func getBook(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		b, err := bookService.Get(r.Context(), id)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		render(w, r, views, http.StatusOK, "books/update-book", view.Data{
			"book":   b,
			"errors": nil,
			"title":  "Update Book",
		})
	})
}

func postBook(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, err = bookService.Update(r.Context(), id, book.FieldsFromForm(r.PostForm))
		var verr *book.ValidationError
		switch {
		case errors.As(err, &verr):
			render(w, r, views, http.StatusUnprocessableEntity, "books/update-book", view.Data{
				"book":   verr.Draft,
				"errors": verr.Errors,
				"title":  "Update Book",
			})
			return
		case err != nil:
			handleError(w, r, views, err)
			return
		}
		http.Redirect(w, r, booksPath, http.StatusSeeOther)
	})
}

func getDeleteBook(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		b, err := bookService.Get(r.Context(), id)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		render(w, r, views, http.StatusOK, "books/delete", view.Data{
			"book":  b,
			"title": "Delete Book",
		})
	})
}

func postDeleteBook(bookService book.UseCase, views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			handleError(w, r, views, err)
			return
		}
		if err := bookService.Delete(r.Context(), id); err != nil {
			handleError(w, r, views, err)
			return
		}
		http.Redirect(w, r, booksPath, http.StatusSeeOther)
	})
}

func notFound(views view.Renderer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, views, book.ErrNotFound)
	})
}

// handleError is the single place where failures become responses
func handleError(w http.ResponseWriter, r *http.Request, views view.Renderer, err error) {
	if errors.Is(err, book.ErrNotFound) {
		render(w, r, views, http.StatusNotFound, "not-found", view.Data{
			"title": "Page Not Found",
		})
		return
	}
	oplog := httplog.LogEntry(r.Context())
	oplog.Error().Err(err).Msg("request failed")
	render(w, r, views, http.StatusInternalServerError, "error", view.Data{
		"title": "Server Error",
	})
}

func render(w http.ResponseWriter, r *http.Request, views view.Renderer, status int, name string, data view.Data) {
	if err := views.Render(w, status, name, data); err != nil {
		oplog := httplog.LogEntry(r.Context())
		oplog.Error().Err(err).Str("view", name).Msg("rendering view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// pageParam falls back to the first page for missing or invalid values
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// idParam treats an id that is not an integer as a book that does not exist
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, book.ErrNotFound
	}
	return id, nil
}
