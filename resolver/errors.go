package resolver

import (
	"errors"
	"fmt"

	"github.com/famomatic/fmtrank/internal/formats"
	"github.com/famomatic/fmtrank/internal/types"
)

var (
	// ErrInvalidFormatRecord indicates a record with neither format_id nor url.
	ErrInvalidFormatRecord = types.ErrInvalidFormatRecord
	// ErrNoFormatAvailable indicates that nothing in the list or fallback chain matched.
	ErrNoFormatAvailable = types.ErrNoFormatAvailable
	// ErrInvalidSelector indicates a malformed selection expression.
	ErrInvalidSelector = types.ErrInvalidSelector
	// ErrInvalidMatchFilter indicates a match filter that failed to compile or timed out.
	ErrInvalidMatchFilter = types.ErrInvalidMatchFilter
)

// InvalidFormatRecordError carries the input position of the offending record.
type InvalidFormatRecordError = formats.InvalidRecordError

// NoFormatAvailableError is returned by Select when the expression resolves
// to nothing.
type NoFormatAvailableError struct {
	Expression string
	Candidates int
}

func (e *NoFormatAvailableError) Error() string {
	return fmt.Sprintf("no format available for %q among %d candidate(s)", e.Expression, e.Candidates)
}

func (e *NoFormatAvailableError) Unwrap() error {
	return ErrNoFormatAvailable
}

// ErrorCategory is a stable classification for resolver errors.
type ErrorCategory string

const (
	ErrorCategoryNone                ErrorCategory = ""
	ErrorCategoryInvalidFormatRecord ErrorCategory = "invalid_format_record"
	ErrorCategoryNoFormatAvailable   ErrorCategory = "no_format_available"
	ErrorCategoryInvalidSelector     ErrorCategory = "invalid_selector"
	ErrorCategoryInvalidMatchFilter  ErrorCategory = "invalid_match_filter"
	ErrorCategoryUnknown             ErrorCategory = "unknown"
)

// ClassifyError maps err to an ErrorCategory.
func ClassifyError(err error) ErrorCategory {
	switch {
	case err == nil:
		return ErrorCategoryNone
	case errors.Is(err, ErrInvalidFormatRecord):
		return ErrorCategoryInvalidFormatRecord
	case errors.Is(err, ErrNoFormatAvailable):
		return ErrorCategoryNoFormatAvailable
	case errors.Is(err, ErrInvalidSelector):
		return ErrorCategoryInvalidSelector
	case errors.Is(err, ErrInvalidMatchFilter):
		return ErrorCategoryInvalidMatchFilter
	default:
		return ErrorCategoryUnknown
	}
}
