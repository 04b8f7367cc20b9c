package engine

import (
	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/store"
)

// LineStatus classifies a single settlement line.
type LineStatus string

const (
	// StatusOK means the book exists and stock covered this occurrence.
	StatusOK LineStatus = "ok"
	// StatusNotInStock means the book exists but stock ran out before
	// this occurrence.
	StatusNotInStock LineStatus = "not_in_stock"
	// StatusDoesNotExist means the book has no ledger entry at all.
	StatusDoesNotExist LineStatus = "does_not_exist"
)

// Line is the settlement outcome for one input position.
type Line struct {
	Book   domain.Book
	Status LineStatus
}

// Result is the outcome of settling an ordered list of books against
// the ledger: one line per input position, in input order, plus the
// total price of the OK lines in cents.
type Result struct {
	Lines []Line
	Total int64 // cents, sum over OK lines
}

// Statuses returns the per-line statuses parallel to the input.
func (r *Result) Statuses() []LineStatus {
	out := make([]LineStatus, len(r.Lines))
	for i, line := range r.Lines {
		out[i] = line.Status
	}
	return out
}

// Settlement reconciles cart contents against live ledger stock. Settle
// is a dry run that never touches the ledger; committing a purchase is
// the separate Commit step.
type Settlement struct {
	ledger *store.StockLedger
}

// NewSettlement creates a settlement engine reading from ledger.
func NewSettlement(ledger *store.StockLedger) *Settlement {
	return &Settlement{ledger: ledger}
}

// Settle walks books in input order and classifies each occurrence.
// For every distinct book the ledger quantity is snapshotted once at
// the start and used as a working balance across the whole call: each
// OK occurrence decrements the balance by 1, so duplicate entries get
// OK up to the snapshotted quantity and NotInStock beyond it, first
// come first served over the input sequence. Books with no ledger entry
// are DoesNotExist for every occurrence. The ledger itself is not
// modified.
func (s *Settlement) Settle(books []domain.Book) *Result {
	type balance struct {
		exists    bool
		remaining int
	}

	balances := make(map[domain.Book]balance)
	for _, book := range books {
		if _, ok := balances[book]; ok {
			continue
		}
		qty, exists := s.ledger.GetBookQuantity(book)
		balances[book] = balance{exists: exists, remaining: qty}
	}

	result := &Result{Lines: make([]Line, len(books))}
	for i, book := range books {
		bal := balances[book]
		switch {
		case !bal.exists:
			result.Lines[i] = Line{Book: book, Status: StatusDoesNotExist}
		case bal.remaining <= 0:
			result.Lines[i] = Line{Book: book, Status: StatusNotInStock}
		default:
			result.Lines[i] = Line{Book: book, Status: StatusOK}
			bal.remaining--
			balances[book] = bal
			result.Total += book.Price
		}
	}
	return result
}

// Commit applies a settlement result to the ledger, reducing stock by
// one per OK line through ReduceQuantity. Lines whose book has been
// removed since the settlement are skipped. Returns the total quantity
// actually removed across all books.
func (s *Settlement) Commit(result *Result) int {
	perBook := make(map[domain.Book]int)
	order := make([]domain.Book, 0, len(result.Lines))
	for _, line := range result.Lines {
		if line.Status != StatusOK {
			continue
		}
		if _, ok := perBook[line.Book]; !ok {
			order = append(order, line.Book)
		}
		perBook[line.Book]++
	}

	var removed int
	for _, book := range order {
		id, ok := s.ledger.GetBookID(book)
		if !ok {
			continue
		}
		_, n, err := s.ledger.ReduceQuantity(id, perBook[book])
		if err != nil {
			continue
		}
		removed += n
	}
	return removed
}
