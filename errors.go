// errors.go: Error taxonomy for credential validation and seed derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import "errors"

// Sentinel errors for maximum compatibility with errors.Is checks.
// Rich errors with codes (via github.com/agilira/go-errors) wrap these
// at the call sites that produce them.
var (
	// ErrEmptyUsername is returned when the username has zero characters.
	ErrEmptyUsername = errors.New("derive: username is empty")

	// ErrEmptyPassword is returned when the password has zero characters.
	ErrEmptyPassword = errors.New("derive: password is empty")

	// ErrPasswordMismatch is returned when password and confirm-password differ.
	ErrPasswordMismatch = errors.New("derive: passwords do not match")

	// ErrKDFFailure is returned when the Argon2id derivation step fails.
	ErrKDFFailure = errors.New("derive: key derivation failed")

	// ErrSeedConversion is returned when the KDF output cannot be placed
	// into the fixed 64-byte seed container.
	ErrSeedConversion = errors.New("derive: seed conversion failed")

	// ErrDeriverErased is returned by operations on a deriver whose seed
	// has been erased. Erasure is one-way; a new deriver must be built
	// from fresh credentials.
	ErrDeriverErased = errors.New("derive: deriver has been erased")

	// ErrDerivationInFlight is returned when a session is asked to start
	// a derivation while a previous one is still running.
	ErrDerivationInFlight = errors.New("derive: derivation already in flight")

	// ErrBufferErased is returned when unlocking a secure buffer that has
	// already been wiped.
	ErrBufferErased = errors.New("derive: secure buffer has been erased")

	// ErrNoDeriver is returned by session operations that need a ready
	// deriver when none exists.
	ErrNoDeriver = errors.New("derive: no deriver instance found")

	// ErrSessionReady is returned when a session already holding a ready
	// deriver is asked to start another derivation. Erase first.
	ErrSessionReady = errors.New("derive: session already holds a ready deriver")
)

// Error codes for structured error handling and auditing.
const (
	ErrCodeEmptyUsername    = "DERIVE_EMPTY_USERNAME"
	ErrCodeEmptyPassword    = "DERIVE_EMPTY_PASSWORD"
	ErrCodeMismatch         = "DERIVE_PASSWORD_MISMATCH"
	ErrCodeKDFFailure       = "DERIVE_KDF_FAILURE"
	ErrCodeSeedConversion   = "DERIVE_SEED_CONVERSION"
	ErrCodeErased           = "DERIVE_ERASED"
	ErrCodeInFlight         = "DERIVE_IN_FLIGHT"
	ErrCodeNoDeriver        = "DERIVE_NO_DERIVER"
	ErrCodeSessionReady     = "DERIVE_SESSION_READY"
	ErrCodeInvalidParams    = "DERIVE_INVALID_PARAMS"
	ErrCodeStoreFailure     = "DERIVE_STORE_FAILURE"
	ErrCodeStoreSealed      = "DERIVE_STORE_SEALED"
	ErrCodeProviderNotFound = "DERIVE_PROVIDER_NOT_FOUND"
	ErrCodeProviderHealth   = "DERIVE_PROVIDER_UNHEALTHY"
)
