package cart

import "errors"

var (
	ErrInvalidQuantity   = errors.New("quantity must be a number")
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrMalformedSnapshot = errors.New("malformed cart snapshot")
)
