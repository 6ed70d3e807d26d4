// errors.go: structured error handling for atomcell operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context and standardized error codes for
// abort-class conditions (CrossDomainMismatch, nil/reused tokens) as
// well as the few genuinely recoverable construction-time errors.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package atomcell

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for atomcell operations.
const (
	// Programmer-error / abort-class
	ErrCodeCrossDomainMismatch errors.ErrorCode = "ATOMCELL_CROSS_DOMAIN_MISMATCH"
	ErrCodeNilToken            errors.ErrorCode = "ATOMCELL_NIL_TOKEN"
	ErrCodeTokenReused         errors.ErrorCode = "ATOMCELL_TOKEN_REUSED"

	// Construction errors
	ErrCodeInvalidPolicy     errors.ErrorCode = "ATOMCELL_INVALID_POLICY"
	ErrCodeInvalidConfigPath errors.ErrorCode = "ATOMCELL_INVALID_CONFIG_PATH"

	// Internal errors
	ErrCodeInternalError  errors.ErrorCode = "ATOMCELL_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "ATOMCELL_PANIC_RECOVERED"
)

const (
	msgCrossDomainMismatch = "token belongs to a different hazard-pointer domain than this cell"
	msgNilToken            = "token argument cannot be nil"
	msgTokenReused         = "token has already been dropped and cannot be used again"
	msgInvalidPolicy       = "reclaim policy cannot be nil"
	msgInvalidConfigPath   = "config_path is required for hot reload"
	msgInternalError       = "internal atomcell error"
	msgPanicRecovered      = "panic recovered in atomcell operation"
)

// newErrCrossDomainMismatch builds the diagnostic passed to panic when a
// token minted by one Domain is presented to an AtomCell bound to another.
// This must never be swallowed: silently accepting the token would let a
// value be retired into a hazard set that never protected it.
func newErrCrossDomainMismatch(operation string, cellDomain, tokenDomain *Domain) error {
	return errors.NewWithContext(ErrCodeCrossDomainMismatch, msgCrossDomainMismatch, map[string]interface{}{
		"operation":    operation,
		"cell_domain":  fmt.Sprintf("%p", cellDomain),
		"token_domain": fmt.Sprintf("%p", tokenDomain),
	}).WithSeverity("critical")
}

// newErrNilToken builds the diagnostic for a nil StoreToken/LoadToken
// passed to a token-taking operation (SwapFromToken, CompareExchange and
// the *FromToken CompareExchange variants).
func newErrNilToken(operation string) error {
	return errors.NewWithField(ErrCodeNilToken, msgNilToken, "operation", operation)
}

// newErrTokenReused builds the diagnostic for a token whose Drop() already
// ran being handed back to the cell it came from.
func newErrTokenReused(operation string) error {
	return errors.NewWithField(ErrCodeTokenReused, msgTokenReused, "operation", operation)
}

// NewErrInvalidPolicy creates an error for a nil ReclaimPolicy passed to
// NewDomain.
func NewErrInvalidPolicy() error {
	return errors.NewWithField(ErrCodeInvalidPolicy, msgInvalidPolicy, "operation", "NewDomain")
}

// NewErrInvalidConfigPath creates an error for a missing hot-reload config
// path.
func NewErrInvalidConfigPath() error {
	return errors.NewWithField(ErrCodeInvalidConfigPath, msgInvalidConfigPath, "operation", "NewDomainReload")
}

// NewErrInternal wraps an internal error, or creates a fresh one if cause
// is nil.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error describing a recovered panic.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// IsCrossDomainMismatch reports whether err is a CrossDomainMismatch
// diagnostic (normally only observable via recover(), since the mismatch
// itself triggers an abort rather than returning an error).
func IsCrossDomainMismatch(err error) bool {
	return errors.HasCode(err, ErrCodeCrossDomainMismatch)
}

// GetErrorCode extracts the error code from an error, or "" if err does
// not carry one.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts the structured context map from an error, if
// any.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var atomErr *errors.Error
	if goerrors.As(err, &atomErr) {
		return atomErr.Context
	}
	return nil
}
