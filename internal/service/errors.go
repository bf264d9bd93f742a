package service

import (
	"errors"
	"fmt"

	"github.com/vkotelnikov/shop-backend/internal/models"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrInvalidState      = errors.New("invalid state")      // 400
	ErrForbidden         = errors.New("forbidden")          // 403
	ErrNotFound          = errors.New("not found")          // 404
	ErrConflict          = errors.New("conflict")           // 409
	ErrInsufficientStock = errors.New("insufficient stock") // 409
	ErrIllegalTransition = errors.New("illegal transition") // 409
)

// StockError reports a stock check failure with enough detail for the
// storefront to render a useful message. Matches ErrInsufficientStock via
// errors.Is.
type StockError struct {
	Product   string
	Requested uint
	Available uint
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d",
		e.Product, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

// TransitionError reports a status move outside the transition table.
// Matches ErrIllegalTransition via errors.Is.
type TransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrIllegalTransition }
