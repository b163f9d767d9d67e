package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrPreconditionFailed   = errors.New("precondition failed")
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrInvalidCredential    = errors.New("invalid credential")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrStorage              = errors.New("storage failure")
)

var (
	ErrSlotNotFound     = fmt.Errorf("parking slot %w", ErrNotFound)
	ErrRecordNotFound   = fmt.Errorf("parking record %w", ErrNotFound)
	ErrPartNotFound     = fmt.Errorf("spare part %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("stock movement %w", ErrNotFound)
	ErrCarNotFound      = fmt.Errorf("car %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrSlotOccupied     = fmt.Errorf("slot is not available: %w", ErrPreconditionFailed)
	ErrSlotNotOccupied  = fmt.Errorf("slot is not occupied: %w", ErrPreconditionFailed)
	ErrAlreadyClosed    = fmt.Errorf("parking record already closed: %w", ErrPreconditionFailed)
	ErrRecordStillOpen  = fmt.Errorf("parking record still open: %w", ErrPreconditionFailed)
	ErrCarAlreadyParked = fmt.Errorf("car already parked: %w", ErrConflict)
	ErrUsernameTaken    = fmt.Errorf("username already exists: %w", ErrConflict)
)

// StorageError marks err as a storage failure while keeping the driver error
// reachable through errors.As.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
