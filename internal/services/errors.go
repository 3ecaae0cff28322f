package services

import "errors"

var (
	// ErrNotFound is returned when an item, movement, or order does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrInsufficientStock is returned when a withdrawal or order asks for
	// more units than the ledger currently holds for the item.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrOrderNoCorrupt marks a stored order number that does not have the
	// O<digits> shape. That only happens when the data is corrupt, so it is
	// surfaced as-is and never silently repaired.
	ErrOrderNoCorrupt = errors.New("corrupt order number")
)
