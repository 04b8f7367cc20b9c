package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/halmar/bookstore/internal/domain"
	"github.com/halmar/bookstore/internal/seed"
)

// WriteJSON writes a JSON response with the given status code and data.
// Sets Content-Type to application/json before writing the status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) // Write error intentionally ignored in response helper
}

// WriteText writes a plain-text response, used by the fixed-width table
// views of the catalog and cart endpoints.
func WriteText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, text)
}

// errorResponse is the standard error response format.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a standard error response with the given status
// code, error code, and human-readable message.
func WriteError(w http.ResponseWriter, status int, errorCode, message string) {
	WriteJSON(w, status, errorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// WriteDomainError maps domain errors to HTTP responses: validation and
// parse failures become 400, not-found sentinels become 404, anything
// unrecognized becomes 500.
func WriteDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var parseErr *seed.ParseError

	switch {
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, "validation_error", validationErr.Message)
	case errors.As(err, &parseErr):
		WriteError(w, http.StatusBadRequest, "parse_error",
			fmt.Sprintf("line %d: %q: %v", parseErr.Line, parseErr.Text, parseErr.Err))
	case errors.Is(err, domain.ErrNegativeQuantity):
		WriteError(w, http.StatusBadRequest, err.Error(), "quantity must not be negative")
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartIndexOutOfRange):
		WriteError(w, http.StatusNotFound, err.Error(), err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// ParseJSON decodes the request body as JSON into v. It validates that
// the Content-Type header is application/json and returns an error for
// missing/incorrect content type or malformed JSON.
func ParseJSON(r *http.Request, v any) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("request body must be valid JSON with Content-Type: application/json")
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("request body must be valid JSON with Content-Type: application/json")
	}

	return nil
}
