package service

import (
	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/seed"
	"github.com/halmar/bookstore/internal/store"
)

// CatalogService handles catalog maintenance: adding and removing stock,
// lookups, search, and batch loading.
type CatalogService struct {
	ledger *store.StockLedger
}

// NewCatalogService creates a CatalogService backed by ledger.
func NewCatalogService(ledger *store.StockLedger) *CatalogService {
	return &CatalogService{ledger: ledger}
}

// AddBook stocks quantity copies of a book and returns its ledger entry.
// Title and author must be non-empty; quantity must not be negative.
func (s *CatalogService) AddBook(title, author string, priceCents int64, quantity int) (store.Entry, error) {
	if title == "" {
		return store.Entry{}, &domain.ValidationError{Message: "title must not be empty"}
	}
	if author == "" {
		return store.Entry{}, &domain.ValidationError{Message: "author must not be empty"}
	}
	if priceCents < 0 {
		return store.Entry{}, &domain.ValidationError{Message: "price must not be negative"}
	}
	if quantity < 0 {
		return store.Entry{}, &domain.ValidationError{Message: "quantity must not be negative"}
	}

	id, err := s.ledger.Add(domain.NewBook(title, author, priceCents), quantity)
	if err != nil {
		return store.Entry{}, err
	}
	entry, _ := s.ledger.GetEntry(id)
	return entry, nil
}

// RemoveBook deletes a ledger entry entirely and returns the removed
// book and quantity.
func (s *CatalogService) RemoveBook(id int) (store.Entry, error) {
	entry, ok := s.ledger.Remove(id)
	if !ok {
		return store.Entry{}, domain.ErrBookNotFound
	}
	return entry, nil
}

// ReduceQuantity removes up to amount from an entry's stock and returns
// the book with the amount actually removed.
func (s *CatalogService) ReduceQuantity(id, amount int) (domain.Book, int, error) {
	return s.ledger.ReduceQuantity(id, amount)
}

// GetEntry returns the ledger entry for an id.
func (s *CatalogService) GetEntry(id int) (store.Entry, error) {
	entry, ok := s.ledger.GetEntry(id)
	if !ok {
		return store.Entry{}, domain.ErrBookNotFound
	}
	return entry, nil
}

// List returns the full catalog in id order. A non-empty query narrows
// the result to entries whose title or author matches it as a
// case-insensitive prefix.
func (s *CatalogService) List(query string) []store.Entry {
	if query == "" {
		return s.ledger.List()
	}
	return s.ledger.Search(query)
}

// LoadBatch parses newline-delimited title;author;price;quantity records
// and stocks them all in one call. The parse is all-or-nothing: a
// malformed line aborts with a *seed.ParseError and leaves the ledger
// untouched by this call. Returns the number of records stocked.
func (s *CatalogService) LoadBatch(text string) (int, error) {
	records, err := seed.ParseBatch(text)
	if err != nil {
		return 0, err
	}
	books, quantities := seed.Split(records)
	if err := s.ledger.AddBatch(books, quantities); err != nil {
		return 0, err
	}
	return len(records), nil
}
