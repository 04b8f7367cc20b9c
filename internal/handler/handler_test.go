package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/halmar/bookstore/internal/engine"
	"github.com/halmar/bookstore/internal/service"
	"github.com/halmar/bookstore/internal/store"
)

// testEnv bundles all dependencies for handler integration tests.
type testEnv struct {
	router     http.Handler
	ledger     *store.StockLedger
	catalogSvc *service.CatalogService
	cartSvc    *service.CartService
}

func newTestEnv() *testEnv {
	ledger := store.NewStockLedger()
	carts := store.NewCartStore()
	settlement := engine.NewSettlement(ledger)

	catalogSvc := service.NewCatalogService(ledger)
	cartSvc := service.NewCartService(carts, ledger, settlement)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(catalogSvc, cartSvc, logger)

	return &testEnv{
		router:     router,
		ledger:     ledger,
		catalogSvc: catalogSvc,
		cartSvc:    cartSvc,
	}
}

// doJSON sends a JSON request and returns the recorder.
func (env *testEnv) doJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// doText sends a raw text request, used for the batch endpoint.
func (env *testEnv) doText(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

// decodeJSON decodes the response body into v.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rr.Body.String())
	}
}

// addBook adds a book through the API and returns its id.
func (env *testEnv) addBook(t *testing.T, title, author string, price float64, quantity int) int {
	t.Helper()
	rr := env.doJSON(t, http.MethodPost, "/books", map[string]any{
		"title": title, "author": author, "price": price, "quantity": quantity,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add book: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID int `json:"id"`
	}
	decodeJSON(t, rr, &resp)
	return resp.ID
}

// createCart opens a cart through the API and returns its id.
func (env *testEnv) createCart(t *testing.T) string {
	t.Helper()
	rr := env.doJSON(t, http.MethodPost, "/carts", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create cart: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		CartID string `json:"cart_id"`
	}
	decodeJSON(t, rr, &resp)
	return resp.CartID
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/healthz", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
}

func TestAddBook_AndGet(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "Generic Title", "First Author", 185.50, 5)

	rr := env.doJSON(t, http.MethodGet, fmt.Sprintf("/books/%d", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
	var resp struct {
		ID       int     `json:"id"`
		Title    string  `json:"title"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Title != "Generic Title" || resp.Price != 185.50 || resp.Quantity != 5 {
		t.Fatalf("unexpected book: %+v", resp)
	}
}

func TestAddBook_Validation(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodPost, "/books", map[string]any{
		"title": "T", "author": "A", "price": 10.0, "quantity": -1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}

	rr = env.doJSON(t, http.MethodPost, "/books", map[string]any{
		"title": "T", "author": "A", "price": 10.555, "quantity": 1,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d for 3-decimal price, want 400", rr.Code)
	}
}

func TestAddBook_MergesDuplicates(t *testing.T) {
	env := newTestEnv()

	id1 := env.addBook(t, "Generic Title", "First Author", 185.50, 5)
	id2 := env.addBook(t, "Generic Title", "First Author", 185.50, 3)
	if id1 != id2 {
		t.Fatalf("expected merged ids, got %d and %d", id1, id2)
	}

	rr := env.doJSON(t, http.MethodGet, fmt.Sprintf("/books/%d", id1), nil)
	var resp struct {
		Quantity int `json:"quantity"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Quantity != 8 {
		t.Fatalf("quantity = %d, want 8", resp.Quantity)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/books/42", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rr.Code)
	}
}

func TestListBooks_Search(t *testing.T) {
	env := newTestEnv()
	env.addBook(t, "Hello World", "Someone", 10.00, 1)
	env.addBook(t, "Other", "Hellen Keller", 20.00, 1)
	env.addBook(t, "Unrelated", "Author", 30.00, 1)

	rr := env.doJSON(t, http.MethodGet, "/books?q=hell", nil)
	var resp struct {
		Books []struct {
			Title string `json:"title"`
		} `json:"books"`
	}
	decodeJSON(t, rr, &resp)
	if len(resp.Books) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(resp.Books))
	}
}

func TestListBooks_TextFormat(t *testing.T) {
	env := newTestEnv()
	env.addBook(t, "Hello World", "Someone", 10.00, 1)

	rr := env.doJSON(t, http.MethodGet, "/books?format=text", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q, want text/plain", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Title") || !strings.Contains(body, "Hello World") {
		t.Fatalf("unexpected table: %q", body)
	}
}

func TestBatch(t *testing.T) {
	env := newTestEnv()

	rr := env.doText(t, http.MethodPost, "/books/batch", "A;X;10.00;2\nB;Y;1,000.00;3\n")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Added int `json:"added"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Added != 2 {
		t.Fatalf("added = %d, want 2", resp.Added)
	}
}

func TestBatch_ParseErrorReportsLine(t *testing.T) {
	env := newTestEnv()

	rr := env.doText(t, http.MethodPost, "/books/batch", "A;X;10.00;2\nbroken\n")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Error != "parse_error" || !strings.Contains(resp.Message, "line 2") {
		t.Fatalf("unexpected error response: %+v", resp)
	}
	if env.ledger.Len() != 0 {
		t.Fatalf("failed batch must not touch the ledger, got %d entries", env.ledger.Len())
	}
}

func TestDeleteBook(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "T", "A", 10.00, 5)

	rr := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
	var resp struct {
		Removed int `json:"removed"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Removed != 5 {
		t.Fatalf("removed = %d, want 5", resp.Removed)
	}

	rr = env.doJSON(t, http.MethodDelete, fmt.Sprintf("/books/%d", id), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: status %d, want 404", rr.Code)
	}
}

func TestDeleteBook_ReduceQuantity(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "T", "A", 10.00, 5)

	rr := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/books/%d?quantity=8", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}
	var resp struct {
		Removed int `json:"removed"`
	}
	decodeJSON(t, rr, &resp)
	if resp.Removed != 5 {
		t.Fatalf("removed = %d, want min(8,5)=5", resp.Removed)
	}

	// Entry still exists at quantity 0.
	rr = env.doJSON(t, http.MethodGet, fmt.Sprintf("/books/%d", id), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("reduced entry should survive, status %d", rr.Code)
	}
}

func TestCartFlow_BuyDryRun(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "Generic Title", "First Author", 185.50, 2)
	cartID := env.createCart(t)

	rr := env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/items", map[string]any{
		"book_id": id, "quantity": 3,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add item: status %d, body %s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/buy", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("buy: status %d, body %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Lines []struct {
			Status string `json:"status"`
		} `json:"lines"`
		Total     float64 `json:"total"`
		Committed bool    `json:"committed"`
	}
	decodeJSON(t, rr, &resp)

	want := []string{"ok", "ok", "not_in_stock"}
	if len(resp.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
	}
	for i, line := range resp.Lines {
		if line.Status != want[i] {
			t.Fatalf("line %d status %q, want %q", i, line.Status, want[i])
		}
	}
	if resp.Total != 371.00 {
		t.Fatalf("total = %v, want 371.00", resp.Total)
	}
	if resp.Committed {
		t.Fatal("default buy must not commit")
	}

	// Dry run leaves stock untouched.
	if qty, _ := env.ledger.GetQuantity(id); qty != 2 {
		t.Fatalf("stock = %d, want 2", qty)
	}
}

func TestCartFlow_BuyCommit(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "T", "A", 10.00, 2)
	cartID := env.createCart(t)
	env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/items", map[string]any{"book_id": id, "quantity": 2})

	rr := env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/buy", map[string]any{"commit": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("buy: status %d, body %s", rr.Code, rr.Body.String())
	}
	if qty, _ := env.ledger.GetQuantity(id); qty != 0 {
		t.Fatalf("stock = %d, want 0 after commit", qty)
	}
}

func TestCart_RemoveItem(t *testing.T) {
	env := newTestEnv()
	id := env.addBook(t, "T", "A", 10.00, 5)
	cartID := env.createCart(t)
	env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/items", map[string]any{"book_id": id, "quantity": 2})

	rr := env.doJSON(t, http.MethodDelete, "/carts/"+cartID+"/items/0", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rr.Code)
	}

	rr = env.doJSON(t, http.MethodDelete, "/carts/"+cartID+"/items/5", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("out-of-range remove: status %d, want 404", rr.Code)
	}
}

func TestCart_AddUnknownBook(t *testing.T) {
	env := newTestEnv()
	cartID := env.createCart(t)

	rr := env.doJSON(t, http.MethodPost, "/carts/"+cartID+"/items", map[string]any{"book_id": 42})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rr.Code)
	}
}

func TestCart_UnknownCart(t *testing.T) {
	env := newTestEnv()

	rr := env.doJSON(t, http.MethodGet, "/carts/no-such-cart", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rr.Code)
	}
}

func TestAddBook_BadContentType(t *testing.T) {
	env := newTestEnv()

	rr := env.doText(t, http.MethodPost, "/books", `{"title":"T"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rr.Code)
	}
}
