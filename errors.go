package sheetlive

import (
	"errors"
	"fmt"
)

// ErrInvalidLabel indicates a column label or index that cannot be converted.
var ErrInvalidLabel = errors.New("invalid column label")

// ErrMalformedCellLabel indicates a cell label that is not letters followed by a positive row.
var ErrMalformedCellLabel = errors.New("malformed cell label")

// ErrEmptyConfiguration indicates settings that reference no cells at all.
var ErrEmptyConfiguration = errors.New("configuration references no cells")

// ErrFetchFailed indicates a transport failure or a non-success response from the source.
var ErrFetchFailed = errors.New("fetch failed")

// ErrDecodeFailed indicates a response body that does not have the expected shape.
var ErrDecodeFailed = errors.New("decode failed")

// ErrDuplicateOperation is returned when registering an operation kind that already exists.
var ErrDuplicateOperation = errors.New("operation already registered")

// ErrUnknownOperation is returned when dispatching to a kind that was never registered.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrAlreadyPolling is returned by Start when the updater is already running.
var ErrAlreadyPolling = errors.New("updater is already polling")

// ErrCycleInProgress is returned by Update when another cycle has not finished yet.
var ErrCycleInProgress = errors.New("update cycle already in progress")

// ErrElementNotFound is returned by a Surface for an unknown element id.
var ErrElementNotFound = errors.New("element not found")

// HandlerError wraps a failure raised by an operation for a single settings entry.
type HandlerError struct {
	Kind  string
	Cell  string
	Value string
	Err   error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("operation %q at %s (value %q): %v", e.Kind, e.Cell, e.Value, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
