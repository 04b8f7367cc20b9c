package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrBookNotFound        = errors.New("book_not_found")
	ErrCartNotFound        = errors.New("cart_not_found")
	ErrCartIndexOutOfRange = errors.New("cart_index_out_of_range")
	ErrNegativeQuantity    = errors.New("negative_quantity")
	ErrBatchLengthMismatch = errors.New("batch_length_mismatch")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
