// Package errors provides error handling for formulary.
//
// It re-exports github.com/cockroachdb/errors so that every collaborator of the
// render engine (editor, export, config, server, CLI) wraps and inspects errors
// the same way:
//
//	if err := export.WriteSVGFile(path, notation, opts); err != nil {
//	    return errors.Wrap(err, "failed to export formula")
//	}
//
//	return errors.WithHint(err, "run 'formulary templates' to list known names")
//
// The render engine itself never returns errors.
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Inspection
var (
	Is             = crdb.Is
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Sentinel errors shared by the collaborators. Wrap them to add context;
// check them with Is.
var (
	// ErrNotFound indicates an unknown template, symbol or config key
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates a malformed request from a client
	ErrInvalidRequest = New("invalid request")

	// ErrInvalidConfig indicates a configuration value that failed validation
	ErrInvalidConfig = New("invalid configuration")

	// ErrTooLarge indicates a notation over the configured size limit
	ErrTooLarge = New("notation too large")
)

// IsNotFoundError checks if an error is or wraps ErrNotFound.
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}

// NewInvalidConfigError creates an invalid-config error with a formatted message
func NewInvalidConfigError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidConfig, format, args...)
}
