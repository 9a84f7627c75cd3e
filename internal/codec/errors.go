package codec

import (
	"errors"
	"fmt"
)

// Sentinel errors for the codec.
var (
	// ErrUnrecognizedRoot indicates the document's root element is not
	// a DMN definitions element.
	ErrUnrecognizedRoot = errors.New("unrecognized root element")

	// ErrEmptyInput indicates there was nothing to parse.
	ErrEmptyInput = errors.New("empty input")
)

// UnrecognizedRootError reports a document whose root element is not
// <definitions>.
type UnrecognizedRootError struct {
	// Root is the local name of the root element found.
	Root string
}

// Error implements the error interface.
func (e *UnrecognizedRootError) Error() string {
	return fmt.Sprintf("unrecognized root element <%s>", e.Root)
}

// Is allows errors.Is to match with ErrUnrecognizedRoot.
func (e *UnrecognizedRootError) Is(target error) bool {
	return target == ErrUnrecognizedRoot
}

// SyntaxError reports malformed XML. Its message carries the
// "unparsable content near" marker the import lifecycle keys on.
type SyntaxError struct {
	// Line is the 1-based input line of the failure, 0 if unknown.
	Line int

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("unparsable content near line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("unparsable content: %v", e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Warning is a non-fatal problem found while parsing.
type Warning struct {
	// Message describes the problem.
	Message string

	// ElementID is the id of the offending element, if known.
	ElementID string
}

// String returns the warning as a single line.
func (w Warning) String() string {
	if w.ElementID != "" {
		return w.Message + " (element " + w.ElementID + ")"
	}
	return w.Message
}
