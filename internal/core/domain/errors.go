package domain

import "errors"

// Inventory domain errors
var (
	// ErrItemNotFound is returned when an item id does not exist
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrSKUConflict is returned when a SKU is already used by another item
	ErrSKUConflict = errors.New("sku already exists")

	// ErrInvalidItem wraps item validation failures
	ErrInvalidItem = errors.New("invalid inventory item")

	// ErrEmptySelection is returned when previewing a purchase order with nothing selected
	ErrEmptySelection = errors.New("purchase order selection is empty")

	// ErrNotReorderCandidate is returned when selecting an item that does not need reordering
	ErrNotReorderCandidate = errors.New("item is not a reorder candidate")

	// ErrInvalidPurchaseLine is returned when a purchase line would reduce stock
	ErrInvalidPurchaseLine = errors.New("purchase line quantity cannot be negative")

	// ErrInvalidState is returned when a purchase-order operation is not allowed in the current state
	ErrInvalidState = errors.New("operation not allowed in current purchase order state")
)
