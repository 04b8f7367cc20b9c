package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/render"
	"github.com/halmar/bookstore/internal/service"
	"github.com/halmar/bookstore/internal/store"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// bookResponse is the JSON shape of a ledger entry.
type bookResponse struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

func toBookResponse(entry store.Entry) bookResponse {
	return bookResponse{
		ID:       entry.ID,
		Title:    entry.Book.Title,
		Author:   entry.Book.Author,
		Price:    domain.CentsToDollars(entry.Book.Price),
		Quantity: entry.Quantity,
	}
}

// addBookRequest is the JSON body for POST /books.
type addBookRequest struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// AddBook handles POST /books.
func (h *CatalogHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	cents, err := domain.DollarsToCents(req.Price)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	entry, err := h.catalogSvc.AddBook(req.Title, req.Author, cents, req.Quantity)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toBookResponse(entry))
}

// LoadBatch handles POST /books/batch. The body is the raw seed format,
// one title;author;price;quantity record per line.
func (h *CatalogHandler) LoadBatch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}

	added, err := h.catalogSvc.LoadBatch(string(body))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]int{"added": added})
}

// List handles GET /books. An optional q parameter narrows the list by
// prefix search; format=text switches to the fixed-width table view.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries := h.catalogSvc.List(r.URL.Query().Get("q"))

	if r.URL.Query().Get("format") == "text" {
		WriteText(w, http.StatusOK, render.StockTable(entries))
		return
	}

	books := make([]bookResponse, len(entries))
	for i, entry := range entries {
		books[i] = toBookResponse(entry)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"books": books})
}

// Get handles GET /books/{book_id}.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}
	entry, err := h.catalogSvc.GetEntry(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toBookResponse(entry))
}

// removedResponse is the JSON response for DELETE /books/{book_id}.
type removedResponse struct {
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Price   float64 `json:"price"`
	Removed int     `json:"removed"`
}

// Delete handles DELETE /books/{book_id}. Without a quantity parameter
// the entry is removed entirely; with quantity=n the stock is reduced by
// up to n instead and the amount actually removed is reported.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookIDParam(w, r)
	if !ok {
		return
	}

	if q := r.URL.Query().Get("quantity"); q != "" {
		amount, err := strconv.Atoi(q)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", "quantity must be an integer")
			return
		}
		book, removed, err := h.catalogSvc.ReduceQuantity(id, amount)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, removedResponse{
			Title:   book.Title,
			Author:  book.Author,
			Price:   domain.CentsToDollars(book.Price),
			Removed: removed,
		})
		return
	}

	entry, err := h.catalogSvc.RemoveBook(id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, removedResponse{
		Title:   entry.Book.Title,
		Author:  entry.Book.Author,
		Price:   domain.CentsToDollars(entry.Book.Price),
		Removed: entry.Quantity,
	})
}

// bookIDParam parses the book_id URL parameter, writing a 400 response
// when it is not a non-negative integer.
func bookIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "book_id")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		WriteError(w, http.StatusBadRequest, "invalid_request", "book_id must be a non-negative integer")
		return 0, false
	}
	return id, true
}
