package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrQuantityFloor   = errors.New("quantity is already at its minimum")

	// -- Resource State --
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrBusy             = errors.New("a cart request is already in progress")
)
