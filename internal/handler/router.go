package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/halmar/bookstore/internal/service"
)

// NewRouter creates a chi router with all routes registered, request
// logging, and permissive CORS for browser storefronts.
func NewRouter(
	catalogSvc *service.CatalogService,
	cartSvc *service.CartService,
	logger *slog.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	// Create handlers.
	catalogH := NewCatalogHandler(catalogSvc)
	cartH := NewCartHandler(cartSvc)

	// Health check.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog routes.
	r.Post("/books", catalogH.AddBook)
	r.Post("/books/batch", catalogH.LoadBatch)
	r.Get("/books", catalogH.List)
	r.Get("/books/{book_id}", catalogH.Get)
	r.Delete("/books/{book_id}", catalogH.Delete)

	// Cart routes.
	r.Post("/carts", cartH.Create)
	r.Get("/carts/{cart_id}", cartH.Get)
	r.Post("/carts/{cart_id}/items", cartH.AddItem)
	r.Delete("/carts/{cart_id}/items/{index}", cartH.RemoveItem)
	r.Post("/carts/{cart_id}/buy", cartH.Buy)

	return r
}

// requestLogging returns middleware that logs each request's method,
// path, status code, and duration using slog.
func requestLogging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
