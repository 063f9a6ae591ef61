// pkg/model/errors.go
package model

import (
	"errors"
	"fmt"
)

// ErrEmptySession is returned when an operation runs before any table was loaded
var ErrEmptySession = errors.New("no table loaded")

// ErrorCategory classifies the failures the cleaning engine deals with
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryNumericParse is recovered through a fallback value
	ErrorCategoryNumericParse
	// ErrorCategoryStrategyMismatch is recovered as a skip notice
	ErrorCategoryStrategyMismatch
	// ErrorCategoryLoad halts the current action only
	ErrorCategoryLoad
	// ErrorCategoryEmptyState is fatal for the attempted operation
	ErrorCategoryEmptyState
)

// String returns a string representation of the error category
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryNumericParse:
		return "NumericParseFailure"
	case ErrorCategoryStrategyMismatch:
		return "StrategyMismatch"
	case ErrorCategoryLoad:
		return "LoadError"
	case ErrorCategoryEmptyState:
		return "EmptyStateError"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

// LoadError reports that a source could not be turned into a table
type LoadError struct {
	Source string
	Err    error
}

// NewLoadError wraps err as a LoadError for source
func NewLoadError(source string, err error) *LoadError {
	return &LoadError{Source: source, Err: err}
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Category returns the category of a returned error. Numeric parse failures
// and strategy mismatches are recovered inside the engine and never surface
// as errors, so it reports only load, empty-state or none; those two
// categories appear as log fields on the recovery path.
func Category(err error) ErrorCategory {
	var loadErr *LoadError
	switch {
	case err == nil:
		return ErrorCategoryNone
	case errors.Is(err, ErrEmptySession):
		return ErrorCategoryEmptyState
	case errors.As(err, &loadErr):
		return ErrorCategoryLoad
	default:
		return ErrorCategoryNone
	}
}
