package ledger

import "errors"

// Every operation fails with one of these (wrapped with detail) and leaves
// the ledger exactly as it was before the call.
var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrOutOfStock      = errors.New("out of stock")
	ErrPaymentMismatch = errors.New("paid amount does not match item cost")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSettlement      = errors.New("settlement failed")
)

// Code maps an error to a stable machine-readable code.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ErrPaymentMismatch):
		return "payment_mismatch"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrSettlement):
		return "settlement_failed"
	default:
		return "internal"
	}
}
