package domain

import "sync"

// Cart is an ordered multiset of books pending purchase. Duplicates are
// allowed and each occurrence is an independent line. Positions are the
// only identity a line has: removing index i shifts later lines down.
type Cart struct {
	ID string

	mu    sync.Mutex
	items []Book
}

// NewCart creates an empty cart with the given session id.
func NewCart(id string) *Cart {
	return &Cart{ID: id}
}

// Add appends quantity independent copies of book to the cart.
// Quantity must not be negative; zero is a no-op.
func (c *Cart) Add(book Book, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < quantity; i++ {
		c.items = append(c.items, book)
	}
	return nil
}

// Remove deletes the line at index and returns its book. Later lines
// shift down by one position. Returns ErrCartIndexOutOfRange when index
// is outside [0, len).
func (c *Cart) Remove(index int) (Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return Book{}, ErrCartIndexOutOfRange
	}
	book := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return book, nil
}

// Items returns a snapshot of the cart contents in order.
func (c *Cart) Items() []Book {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Book, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
