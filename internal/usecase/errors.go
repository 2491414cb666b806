package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrListingUnavailable = errors.New("listing unavailable")
	ErrAlreadyOwned       = errors.New("player already owned")
	ErrNotOwned           = errors.New("player not owned")
	ErrClauseLocked       = errors.New("clause is locked")
)
