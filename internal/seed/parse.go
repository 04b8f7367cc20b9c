package seed

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/halmar/bookstore/internal/domain"
)

// Record is one parsed batch line: a book and the quantity to stock.
type Record struct {
	Book     domain.Book
	Quantity int
}

// ParseError reports the first malformed line of a batch, carrying its
// 1-indexed line number and raw text.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseBatch parses newline-delimited records in the form
// title;author;price;quantity. Blank lines are skipped. The whole batch
// is parsed before anything is returned: the first malformed line aborts
// the call with a *ParseError and no records, so a caller can feed the
// result to the ledger in one all-or-nothing step.
func ParseBatch(text string) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(strings.NewReader(text))
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if raw == "" {
			continue
		}
		rec, err := ParseLine(raw)
		if err != nil {
			return nil, &ParseError{Line: line, Text: raw, Err: err}
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseLine parses a single title;author;price;quantity record. The
// price may carry thousands separators ("1,000,000.00"), which are
// stripped before the numeric parse. Quantity must be a non-negative
// integer. Extra fields beyond the fourth are ignored.
func ParseLine(raw string) (Record, error) {
	fields := strings.Split(raw, ";")
	if len(fields) < 4 {
		return Record{}, fmt.Errorf("want 4 fields (title;author;price;quantity), got %d", len(fields))
	}

	price, err := domain.ParsePrice(strings.ReplaceAll(fields[2], ",", ""))
	if err != nil {
		return Record{}, err
	}

	quantity, err := strconv.Atoi(fields[3])
	if err != nil {
		return Record{}, fmt.Errorf("invalid quantity %q: %w", fields[3], err)
	}
	if quantity < 0 {
		return Record{}, fmt.Errorf("quantity must not be negative: %d", quantity)
	}

	return Record{
		Book:     domain.NewBook(fields[0], fields[1], price),
		Quantity: quantity,
	}, nil
}

// Split separates records into parallel book and quantity slices, the
// shape the ledger's AddBatch takes.
func Split(records []Record) ([]domain.Book, []int) {
	books := make([]domain.Book, len(records))
	quantities := make([]int, len(records))
	for i, rec := range records {
		books[i] = rec.Book
		quantities[i] = rec.Quantity
	}
	return books, quantities
}
