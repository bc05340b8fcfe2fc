// Package parsererror defines the error kinds surfaced by the parsing
// pipeline. Extractors and the fallback adapter return these so callers can
// tell a malformed field apart from an unrecognized format.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when the pipeline receives empty or
// whitespace-only text.
var ErrEmptyInput = errors.New("empty input text")

// MalformedAmountError represents an amount string that matched a format
// pattern but could not be converted to a decimal.
type MalformedAmountError struct {
	Value string
	Err   error
}

func (e *MalformedAmountError) Error() string {
	return fmt.Sprintf("malformed amount '%s': %v", e.Value, e.Err)
}

func (e *MalformedAmountError) Unwrap() error {
	return e.Err
}

// MalformedTimestampError represents a date/time pair that matched a format
// pattern but has an out-of-range or unparsable component.
type MalformedTimestampError struct {
	Date string
	Time string
	Err  error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp '%s %s': %v", e.Date, e.Time, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

// NoFormatRecognizedError is returned by the cascade when none of the
// deterministic formats' sniff signals are present in the text.
type NoFormatRecognizedError struct {
	Snippet string
}

func (e *NoFormatRecognizedError) Error() string {
	return fmt.Sprintf("no deterministic format recognized in text: '%s'", e.Snippet)
}

// FallbackError represents a failure of the external structured-extraction
// capability: transport error, timeout, or a response that violates the
// expected schema.
type FallbackError struct {
	Reason string
	Err    error
}

func (e *FallbackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fallback extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("fallback extraction failed: %s", e.Reason)
}

func (e *FallbackError) Unwrap() error {
	return e.Err
}

// NoExtractionError is the terminal pipeline failure: both the deterministic
// cascade and the fallback capability failed to produce a record. This is the
// only failure kind surfaced to external callers.
type NoExtractionError struct {
	DeterministicErr error
	FallbackErr      error
}

func (e *NoExtractionError) Error() string {
	return fmt.Sprintf("no extraction possible: deterministic: %v; fallback: %v",
		e.DeterministicErr, e.FallbackErr)
}

func (e *NoExtractionError) Unwrap() []error {
	var errs []error
	if e.DeterministicErr != nil {
		errs = append(errs, e.DeterministicErr)
	}
	if e.FallbackErr != nil {
		errs = append(errs, e.FallbackErr)
	}
	return errs
}
