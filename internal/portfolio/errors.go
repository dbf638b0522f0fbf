package portfolio

import "errors"

var (
	// ErrConfiguration is returned for invalid construction arguments.
	ErrConfiguration = errors.New("portfolio: invalid configuration")
	// ErrNotFound is returned when the CSV file path does not exist.
	ErrNotFound = errors.New("portfolio: file not found")
	// ErrStoreUnavailable is returned when the index cannot be opened or queried.
	ErrStoreUnavailable = errors.New("portfolio: store unavailable")
)
