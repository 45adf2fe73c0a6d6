package availability

import "errors"

var (
	// ErrInvalidMode indicates an unrecognized availability mode.
	ErrInvalidMode = errors.New("invalid availability mode")

	// ErrStoreRequired indicates a nil availability store was supplied.
	ErrStoreRequired = errors.New("availability store is required")

	// ErrInvalidCSV indicates the availability CSV could not be parsed.
	ErrInvalidCSV = errors.New("invalid availability csv")
)
