package domain

import "errors"

var (
	ErrEmailRequired   = errors.New("email required")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrNoEmailColumn   = errors.New("no email column detected")
	ErrNoHeaderRow     = errors.New("no header row detected")
	ErrEmptyImport     = errors.New("no order rows to import")
)
