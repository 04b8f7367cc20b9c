package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/halmar/bookstore/internal/domain"
)

// CartStore is a thread-safe in-memory store for cart sessions,
// keyed by cart id.
type CartStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewCartStore creates an empty CartStore.
func NewCartStore() *CartStore {
	return &CartStore{
		carts: make(map[string]*domain.Cart),
	}
}

// Create allocates a new empty cart with a generated id.
func (s *CartStore) Create() *domain.Cart {
	cart := domain.NewCart(uuid.New().String())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID] = cart
	return cart
}

// Get retrieves a cart by id. It returns domain.ErrCartNotFound if the
// cart does not exist.
func (s *CartStore) Get(id string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return cart, nil
}

// Delete removes a cart session. Deleting an unknown id is a no-op.
func (s *CartStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}
