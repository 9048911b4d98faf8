package entities

import "errors"

var (
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidItem     = errors.New("invalid inventory item")
	ErrInvalidSupplier = errors.New("invalid supplier")
	ErrUnknownSupplier = errors.New("unknown supplier")
	ErrDuplicateSKU    = errors.New("duplicate sku")
)
