package service

import (
	"errors"
	"fmt"
)

// Business outcomes returned to the boundary adapters. Callers test them with
// errors.Is; the wrapped message carries the offending ids.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrAlreadySignedOut = errors.New("book is signed out by another user")
	ErrUnauthorized     = errors.New("users may only delete their own account")
	ErrHasActiveLoans   = errors.New("user has books signed out")
	ErrStorage          = errors.New("storage failure")
	ErrIDSpaceExhausted = errors.New("identifier space exhausted")
)

var domainErrors = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrUsernameTaken,
	ErrAlreadySignedOut,
	ErrUnauthorized,
	ErrHasActiveLoans,
	ErrStorage,
	ErrIDSpaceExhausted,
}

// storageError wraps an unexpected repository error as ErrStorage, leaving
// business outcomes produced inside a transaction untouched.
func storageError(op string, err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
