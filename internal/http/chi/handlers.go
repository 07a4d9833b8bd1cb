package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/google/uuid"
	"github.com/marcelsud/library-catalog/book"
	"github.com/marcelsud/library-catalog/internal/view"
	"github.com/marcelsud/library-catalog/metrics"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// Handlers sets up the catalog routes. exporter may be nil.
func Handlers(logger zerolog.Logger, bookService book.UseCase, views view.Renderer, exporter *metrics.OTelExporter) *chi.Mux {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	if exporter != nil {
		r.Use(exporter.Middleware)
		r.Method(http.MethodGet, "/metrics", exporter.ServeHTTP())
	}

	r.NotFound(notFound(views).ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, booksPath, http.StatusFound)
	})

	r.Route(booksPath, func(r chi.Router) {
		r.Method(http.MethodGet, "/", getBooks(bookService, views))
		r.Method(http.MethodGet, "/new", getNewBook(views))
		r.Method(http.MethodPost, "/new", postNewBook(bookService, views))
		r.Method(http.MethodGet, "/search", searchBooks(bookService, views))
		r.Method(http.MethodGet, "/{id}", getBook(bookService, views))
		r.Method(http.MethodPost, "/{id}", postBook(bookService, views))
		r.Method(http.MethodGet, "/{id}/delete", getDeleteBook(bookService, views))
		r.Method(http.MethodPost, "/{id}/delete", postDeleteBook(bookService, views))
	})

	return r
}

// requestID keeps an incoming X-Request-Id or assigns a new uuid, so the
// request logger and the response carry the same id
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
