package stock

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by ledger and store operations.
//
// Every failure leaves the ledger as it was. Use errors.Is to test for them,
// structured errors below also match their sentinel.
var (
	// ErrInvalidName is returned when an item name is empty after trimming.
	ErrInvalidName = errors.New("item name cannot be empty")

	// ErrInvalidQuantity is returned for a quantity that is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrNotFound is returned when removing an item the ledger does not hold.
	ErrNotFound = errors.New("item not found in stock")

	// ErrCapacityExceeded is returned when an addition would push the total above capacity.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrCorruptSnapshot is returned when a snapshot is not a well-formed JSON object,
	// or cannot be read at all.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")

	// ErrPersistence is returned when a snapshot cannot be written.
	ErrPersistence = errors.New("cannot persist snapshot")
)

// CapacityError details a rejected addition.
type CapacityError struct {
	Requested  Quantity // quantity the caller tried to add
	Capacity   Quantity // ledger capacity
	Total      Quantity // ledger total at the time of the call
	MaxAddable Quantity // largest quantity that would have been accepted
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("adding %d would exceed capacity (%d), max add: %d", e.Requested, e.Capacity, e.MaxAddable)
}

// Is reports whether target is ErrCapacityExceeded.
func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

// PersistenceError wraps the I/O failure that prevented a save.
type PersistenceError struct {
	Op   string // "create", "write", "sync", "rename", "set", ...
	Path string // file path or store key
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v: %s %q: %v", ErrPersistence, e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPersistence.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// corrupt wraps err as a corrupt snapshot error.
func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrCorruptSnapshot, fmt.Errorf(format, args...))
}
