package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrItemNotFound   = errors.New("catalog item not found")
	ErrSellerNotFound = errors.New("seller not found")
	ErrOrderNotFound  = errors.New("order not found")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientStock   = errors.New("insufficient stock")

	// ErrConcurrentModification is retryable: the settlement applied nothing
	// and the identical request may be resubmitted.
	ErrConcurrentModification = errors.New("concurrent modification")

	ErrInvalidStateTransition = errors.New("invalid state transition")

	ErrEmptyCart       = errors.New("empty cart")
	ErrInvalidQuantity = errors.New("invalid quantity")
)
