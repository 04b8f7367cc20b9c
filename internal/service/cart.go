package service

import (
	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/engine"
	"github.com/halmar/bookstore/internal/store"
)

// CartService handles cart sessions and checkout.
type CartService struct {
	carts      *store.CartStore
	ledger     *store.StockLedger
	settlement *engine.Settlement
}

// NewCartService creates a CartService with the given dependencies.
func NewCartService(carts *store.CartStore, ledger *store.StockLedger, settlement *engine.Settlement) *CartService {
	return &CartService{carts: carts, ledger: ledger, settlement: settlement}
}

// CreateCart opens a new empty cart session and returns it.
func (s *CartService) CreateCart() *domain.Cart {
	return s.carts.Create()
}

// AddToCart appends quantity independent copies of the book with the
// given ledger id to the cart. Unknown cart or book ids fail with the
// corresponding sentinel error; a negative quantity is a validation
// error.
func (s *CartService) AddToCart(cartID string, bookID, quantity int) (domain.Book, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return domain.Book{}, err
	}
	if quantity < 0 {
		return domain.Book{}, &domain.ValidationError{Message: "quantity must not be negative"}
	}
	book, ok := s.ledger.GetBook(bookID)
	if !ok {
		return domain.Book{}, domain.ErrBookNotFound
	}
	if err := cart.Add(book, quantity); err != nil {
		return domain.Book{}, err
	}
	return book, nil
}

// RemoveFromCart deletes the cart line at index and returns its book.
func (s *CartService) RemoveFromCart(cartID string, index int) (domain.Book, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return domain.Book{}, err
	}
	return cart.Remove(index)
}

// Contents returns an ordered snapshot of the cart.
func (s *CartService) Contents(cartID string) ([]domain.Book, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return nil, err
	}
	return cart.Items(), nil
}

// Buy settles the cart contents against live stock and returns the
// per-line statuses and total price. By default this is a dry run: the
// ledger is left untouched. With commit true the OK lines are also
// deducted from stock.
func (s *CartService) Buy(cartID string, commit bool) (*engine.Result, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return nil, err
	}
	result := s.settlement.Settle(cart.Items())
	if commit {
		s.settlement.Commit(result)
	}
	return result, nil
}
