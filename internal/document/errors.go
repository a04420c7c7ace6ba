package document

import "errors"

var (
	// ErrTableShape is returned when table cells do not match the declared
	// columns*rows shape, or when tabular input is empty or ragged.
	ErrTableShape = errors.New("table cells do not match the declared shape")

	// ErrCheckedLength is returned when a checkbox checked slice does not
	// match the item count.
	ErrCheckedLength = errors.New("checked values must match the number of items")

	// ErrUnsupportedValue is returned by Set for value kinds outside the
	// supported union.
	ErrUnsupportedValue = errors.New("unsupported value type")

	// ErrUnknownRecord is returned when an interchange record carries no
	// recognized kind discriminator.
	ErrUnknownRecord = errors.New("unknown interchange record kind")

	// ErrEmptyKey is returned when an operation requires a non-empty key.
	ErrEmptyKey = errors.New("empty key")
)
