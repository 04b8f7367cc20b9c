// Package render formats catalog and cart data as fixed-width text
// tables: 24-character title and author columns, a 16-character price
// column, and an 8-character id/index/quantity column where one applies.
package render

import (
	"fmt"
	"strings"

	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/engine"
	"github.com/halmar/bookstore/internal/store"
)

// Header returns the title/author/price header row.
func Header() string {
	return fmt.Sprintf("%24s%24s%16s", "Title", "Author", "Price")
}

// StockHeader returns the header for stock listings, with leading ID and
// trailing quantity columns.
func StockHeader() string {
	return fmt.Sprintf("%8s%s%8s", "ID", Header(), "Qty")
}

// CartHeader returns the header for cart listings, with a leading index
// column.
func CartHeader() string {
	return fmt.Sprintf("%8s%s", "Index", Header())
}

// BookRow formats a single book as a table row.
func BookRow(book domain.Book) string {
	return fmt.Sprintf("%24s%24s%16.2f", book.Title, book.Author, domain.CentsToDollars(book.Price))
}

// StockRow formats a ledger entry with its id and quantity.
func StockRow(entry store.Entry) string {
	return fmt.Sprintf("%8d%s%8d", entry.ID, BookRow(entry.Book), entry.Quantity)
}

// CartRow formats a cart line with its position.
func CartRow(index int, book domain.Book) string {
	return fmt.Sprintf("%8d%s", index, BookRow(book))
}

// StockTable renders a header plus one row per entry.
func StockTable(entries []store.Entry) string {
	var b strings.Builder
	b.WriteString(StockHeader())
	for _, entry := range entries {
		b.WriteByte('\n')
		b.WriteString(StockRow(entry))
	}
	return b.String()
}

// CartTable renders a header plus one indexed row per cart line.
func CartTable(items []domain.Book) string {
	var b strings.Builder
	b.WriteString(CartHeader())
	for i, book := range items {
		b.WriteByte('\n')
		b.WriteString(CartRow(i, book))
	}
	return b.String()
}

// Receipt renders a settlement result: one row per line with the price
// in the third column for OK lines and NOT IN STOCK / DOES NOT EXIST
// markers otherwise, followed by a TOTAL footer row.
func Receipt(result *engine.Result) string {
	var b strings.Builder
	for _, line := range result.Lines {
		var third string
		switch line.Status {
		case engine.StatusOK:
			third = fmt.Sprintf("%.2f", domain.CentsToDollars(line.Book.Price))
		case engine.StatusNotInStock:
			third = "NOT IN STOCK"
		case engine.StatusDoesNotExist:
			third = "DOES NOT EXIST"
		}
		fmt.Fprintf(&b, "%24s%24s%16s\n", line.Book.Title, line.Book.Author, third)
	}
	fmt.Fprintf(&b, "%48s%16.2f", "TOTAL", domain.CentsToDollars(result.Total))
	return b.String()
}
