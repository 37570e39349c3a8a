// Package errs provides the coded errors surfaced by docstruct.
//
// Every error that leaves the pipeline carries a stable six-character code
// ("61.903") followed by a human-readable message, so the first six
// characters of Error() always identify the failure kind.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a failure kind. The first two digits name the stage,
// the last three the individual failure.
type Code string

// Coordinator dispatch.
const (
	CodeUnknownExtension Code = "01.901"
	CodeInputMissing     Code = "01.902"
)

// Rule store and configuration.
const (
	CodeRuleFileMissing Code = "11.901"
	CodeRuleFileInvalid Code = "11.902"
	CodeConfigInvalid   Code = "12.901"
)

// Collaborators.
const (
	CodeRasterizer       Code = "21.901"
	CodeConvertMissing   Code = "31.901"
	CodeConvertFailed    Code = "31.902"
	CodeConvertEmpty     Code = "31.903"
	CodeOCRFailed        Code = "41.901"
	CodeOCREmpty         Code = "41.902"
	CodeOCRImage         Code = "41.903"
	CodeExtractorFailed  Code = "51.901"
	CodeTokenizerMissing Code = "71.901"
	CodeOutputWrite      Code = "81.901"
)

// XML parsing.
const (
	CodeXMLNotFound     Code = "61.901"
	CodeXMLUnknownChild Code = "61.902"
	CodeXMLIssues       Code = "61.903"
	CodeXMLLineCount    Code = "61.904"
	CodeXMLLinePrefix   Code = "61.905"
	CodeXMLMalformed    Code = "61.906"
)

// Error is a coded docstruct error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates a coded error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a coded error that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
}

// Error implements the error interface. The result always starts with the code.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the outermost coded error in err's chain,
// or the empty code when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether any error in err's tree carries code.
// Joined errors are searched as well.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(*Error); ok && e.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if HasCode(inner, code) {
				return true
			}
		}
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	}
	return false
}

// Issues collects numbered, non-fatal diagnostics. The parser records into
// an Issues value and turns it into a single error at the end of a pass.
type Issues struct {
	list []*Error
}

// Add records a diagnostic and returns its 1-based sequence number.
func (is *Issues) Add(code Code, format string, args ...any) int {
	is.list = append(is.list, New(code, format, args...))
	return len(is.list)
}

// Len returns the number of recorded issues.
func (is *Issues) Len() int {
	return len(is.list)
}

// List returns the recorded issues in order.
func (is *Issues) List() []*Error {
	return is.list
}

// Err returns nil when no issue was recorded. Otherwise it returns an error
// with the given code whose message carries the issue count and which wraps
// every recorded issue.
func (is *Issues) Err(code Code) error {
	if len(is.list) == 0 {
		return nil
	}
	joined := make([]error, len(is.list))
	for i, e := range is.list {
		joined[i] = fmt.Errorf("issue %d: %w", i+1, e)
	}
	return Wrap(code, errors.Join(joined...), "%d parse issue(s)", len(is.list))
}
