package domain

// Book is an immutable catalog entry value. Prices are stored as int64
// cents so Book stays comparable; two books with the same title, author,
// and price are the same logical book and collapse to one ledger entry.
type Book struct {
	Title  string
	Author string
	Price  int64 // cents
}

// NewBook constructs a Book from a title, an author, and a price in cents.
func NewBook(title, author string, priceCents int64) Book {
	return Book{Title: title, Author: author, Price: priceCents}
}
