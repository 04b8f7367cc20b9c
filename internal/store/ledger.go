package store

import (
	"strings"
	"sync"

	"github.com/google/btree"

	"github.com/halmar/bookstore/internal/domain"
)

// Entry is a single ledger row: a book, its assigned id, and the
// quantity currently in stock.
type Entry struct {
	ID       int
	Book     domain.Book
	Quantity int
}

// entryLess orders ledger entries by id ascending, so walking the tree
// yields the catalog in id order.
func entryLess(a, b Entry) bool {
	return a.ID < b.ID
}

// StockLedger is the single source of truth for the catalog. It assigns
// monotonically increasing ids starting at 0, never reuses an id while
// the ledger lives, and keeps one entry per distinct book value:
// re-adding an equal book merges into the existing entry by summing
// quantity. All mutating operations hold the write lock across their
// whole read-check-then-write sequence, so two concurrent Adds of the
// same new book cannot both allocate an id.
type StockLedger struct {
	mu      sync.RWMutex
	nextID  int
	entries *btree.BTreeG[Entry] // id → entry, id ascending
	ids     map[domain.Book]int  // book value → id
}

// NewStockLedger creates an empty ledger.
func NewStockLedger() *StockLedger {
	const degree = 32
	return &StockLedger{
		entries: btree.NewG[Entry](degree, entryLess),
		ids:     make(map[domain.Book]int),
	}
}

// Add puts quantity copies of book into stock and returns the book's id.
// If the book already has an entry the quantity is added to it and the
// existing id is returned; otherwise the next unused id is allocated.
// A new book with quantity 0 still creates an entry. Negative quantity
// is rejected with ErrNegativeQuantity.
func (l *StockLedger) Add(book domain.Book, quantity int) (int, error) {
	if quantity < 0 {
		return 0, domain.ErrNegativeQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if id, ok := l.ids[book]; ok {
		entry, _ := l.entries.Get(Entry{ID: id})
		entry.Quantity += quantity
		l.entries.ReplaceOrInsert(entry)
		return id, nil
	}

	id := l.nextID
	l.nextID++
	l.entries.ReplaceOrInsert(Entry{ID: id, Book: book, Quantity: quantity})
	l.ids[book] = id
	return id, nil
}

// AddBatch adds each (book, quantity) pair in order. The slices must be
// the same length. Pairs are applied through Add, so duplicates within
// the batch merge like repeated Add calls.
func (l *StockLedger) AddBatch(books []domain.Book, quantities []int) error {
	if len(books) != len(quantities) {
		return domain.ErrBatchLengthMismatch
	}
	for i := range books {
		if _, err := l.Add(books[i], quantities[i]); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the entry with the given id entirely and returns it.
// The id is never reassigned to a future book. The second return value
// reports whether an entry existed.
func (l *StockLedger) Remove(id int) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries.Delete(Entry{ID: id})
	if !ok {
		return Entry{}, false
	}
	delete(l.ids, entry.Book)
	return entry, true
}

// RemoveBook deletes the entry holding the given book value, resolving
// the book to its id first.
func (l *StockLedger) RemoveBook(book domain.Book) (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, ok := l.ids[book]
	if !ok {
		return Entry{}, false
	}
	delete(l.ids, book)
	entry, _ := l.entries.Delete(Entry{ID: id})
	return entry, true
}

// ReduceQuantity removes up to amount from the entry's stock, flooring
// at zero, and returns the book together with the amount actually
// removed. Negative amounts are rejected with ErrNegativeQuantity and
// an unknown id with ErrBookNotFound.
func (l *StockLedger) ReduceQuantity(id int, amount int) (domain.Book, int, error) {
	if amount < 0 {
		return domain.Book{}, 0, domain.ErrNegativeQuantity
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries.Get(Entry{ID: id})
	if !ok {
		return domain.Book{}, 0, domain.ErrBookNotFound
	}
	removed := amount
	if removed > entry.Quantity {
		removed = entry.Quantity
	}
	entry.Quantity -= removed
	l.entries.ReplaceOrInsert(entry)
	return entry.Book, removed, nil
}

// GetBook returns the book with the given id.
func (l *StockLedger) GetBook(id int) (domain.Book, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries.Get(Entry{ID: id})
	if !ok {
		return domain.Book{}, false
	}
	return entry.Book, true
}

// GetBookID returns the id assigned to the given book value.
func (l *StockLedger) GetBookID(book domain.Book) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.ids[book]
	return id, ok
}

// GetQuantity returns the stocked quantity for the given id.
func (l *StockLedger) GetQuantity(id int) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries.Get(Entry{ID: id})
	if !ok {
		return 0, false
	}
	return entry.Quantity, true
}

// GetBookQuantity returns the stocked quantity for the given book value.
func (l *StockLedger) GetBookQuantity(book domain.Book) (int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	id, ok := l.ids[book]
	if !ok {
		return 0, false
	}
	entry, ok := l.entries.Get(Entry{ID: id})
	if !ok {
		return 0, false
	}
	return entry.Quantity, true
}

// GetEntry returns the full ledger entry for the given id.
func (l *StockLedger) GetEntry(id int) (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.entries.Get(Entry{ID: id})
}

// List returns all entries in id order.
func (l *StockLedger) List() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, 0, l.entries.Len())
	l.entries.Ascend(func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Search returns, in id order, every entry whose title or author matches
// the query. A field matches when the field truncated to the query's
// length equals the query case-insensitively, so queries match only from
// the start of a field and a query longer than the field never matches
// it. An empty query matches everything.
func (l *StockLedger) Search(query string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Entry
	l.entries.Ascend(func(e Entry) bool {
		if prefixMatch(e.Book.Title, query) || prefixMatch(e.Book.Author, query) {
			out = append(out, e)
		}
		return true
	})
	return out
}

// prefixMatch reports whether field truncated to the query's length
// equals the query case-insensitively. Truncation never pads, so a query
// longer than the field cannot match. Lengths are measured in runes so
// non-ASCII titles truncate cleanly.
func prefixMatch(field, query string) bool {
	f := []rune(field)
	q := []rune(query)
	if len(q) > len(f) {
		return false
	}
	return strings.EqualFold(string(f[:len(q)]), query)
}

// Len returns the number of entries currently in the ledger.
func (l *StockLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries.Len()
}
