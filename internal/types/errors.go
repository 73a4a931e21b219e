package types

import "errors"

var (
	// ErrInvalidFormatRecord indicates a record with neither format_id nor url.
	ErrInvalidFormatRecord = errors.New("invalid format record")

	// ErrNoFormatAvailable indicates that no candidate satisfied the selection.
	ErrNoFormatAvailable = errors.New("no format available")

	// ErrInvalidSelector indicates a malformed format selection expression.
	ErrInvalidSelector = errors.New("invalid format selector")

	// ErrInvalidMatchFilter indicates a match filter that failed to compile or timed out.
	ErrInvalidMatchFilter = errors.New("invalid match filter")
)
