package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/render"
	"github.com/halmar/bookstore/internal/service"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	cartSvc *service.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartSvc *service.CartService) *CartHandler {
	return &CartHandler{cartSvc: cartSvc}
}

// cartItemResponse is one cart line in JSON responses.
type cartItemResponse struct {
	Index  int     `json:"index"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
}

// Create handles POST /carts.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cart := h.cartSvc.CreateCart()
	WriteJSON(w, http.StatusCreated, map[string]string{"cart_id": cart.ID})
}

// Get handles GET /carts/{cart_id}; format=text switches to the
// fixed-width indexed table view.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	items, err := h.cartSvc.Contents(cartID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		WriteText(w, http.StatusOK, render.CartTable(items))
		return
	}

	lines := make([]cartItemResponse, len(items))
	for i, book := range items {
		lines[i] = cartItemResponse{
			Index:  i,
			Title:  book.Title,
			Author: book.Author,
			Price:  domain.CentsToDollars(book.Price),
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"cart_id": cartID, "items": lines})
}

// addItemRequest is the JSON body for POST /carts/{cart_id}/items.
type addItemRequest struct {
	BookID   int  `json:"book_id"`
	Quantity *int `json:"quantity"` // default 1
}

// AddItem handles POST /carts/{cart_id}/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")

	var req addItemRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	book, err := h.cartSvc.AddToCart(cartID, req.BookID, quantity)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{
		"title":    book.Title,
		"author":   book.Author,
		"quantity": quantity,
	})
}

// RemoveItem handles DELETE /carts/{cart_id}/items/{index}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", "index must be an integer")
		return
	}

	book, err := h.cartSvc.RemoveFromCart(cartID, index)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"title":  book.Title,
		"author": book.Author,
	})
}

// buyRequest is the JSON body for POST /carts/{cart_id}/buy.
type buyRequest struct {
	Commit bool `json:"commit"`
}

// buyLineResponse is one settlement line in the buy response.
type buyLineResponse struct {
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Price  float64 `json:"price"`
	Status string  `json:"status"`
}

// Buy handles POST /carts/{cart_id}/buy. Settlement is a dry run unless
// commit is true, in which case OK lines are deducted from stock.
func (h *CartHandler) Buy(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cart_id")

	var req buyRequest
	if r.ContentLength > 0 {
		if err := ParseJSON(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	result, err := h.cartSvc.Buy(cartID, req.Commit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	lines := make([]buyLineResponse, len(result.Lines))
	for i, line := range result.Lines {
		lines[i] = buyLineResponse{
			Title:  line.Book.Title,
			Author: line.Book.Author,
			Price:  domain.CentsToDollars(line.Book.Price),
			Status: string(line.Status),
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"lines":     lines,
		"total":     domain.CentsToDollars(result.Total),
		"committed": req.Commit,
	})
}
