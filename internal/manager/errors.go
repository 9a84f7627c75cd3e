package manager

import (
	"errors"
	"fmt"

	"github.com/dmnkit/dmnview/internal/codec"
)

// Controller errors.
var (
	// ErrNoDefinitions indicates export was requested before any
	// document was imported.
	ErrNoDefinitions = errors.New("no definitions loaded")

	// ErrNoDisplayableView indicates a successful parse produced a
	// document with no displayable content.
	ErrNoDisplayableView = errors.New("no displayable contents")
)

// UnsupportedVersionError reports a document written against an older
// DMN schema this controller does not read. It replaces the codec's
// unrecognized-root error when the raw text carries a known legacy
// namespace signature.
type UnsupportedVersionError struct {
	// Version is the detected legacy DMN version, e.g. "1.1".
	Version string
}

// Error implements the error interface.
func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported DMN %s document: export it as DMN 1.3 and import again", e.Version)
}

// OpenError reports a viewer that failed to open its element during a
// view switch. It carries the warnings collected before the failure.
type OpenError struct {
	// ViewType is the type of the view being opened.
	ViewType string

	// Warnings are the non-fatal problems collected before the failure.
	Warnings []codec.Warning

	// Err is the viewer's error.
	Err error
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open %s view: %v", e.ViewType, e.Err)
}

// Unwrap returns the viewer's error.
func (e *OpenError) Unwrap() error {
	return e.Err
}
