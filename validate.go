// validate.go: Fast-failing checks on raw credential inputs.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"bytes"

	goerrors "github.com/agilira/go-errors"
)

// ValidateCredentials performs cheap, deterministic checks on the raw
// credential inputs, in order of increasing cost: non-empty username,
// non-empty password, password equals confirm-password.
//
// Validation always runs before the expensive key-derivation step, so
// malformed input never triggers a multi-second Argon2id run. Lengths
// are measured in characters, not bytes. There are no side effects on
// failure; the inputs are left intact for the caller to correct.
//
// The equality check is not constant-time: confirm-password is typed by
// the same user in the same session, not adversary-supplied material
// compared against a stored secret.
func ValidateCredentials(username, password, confirm *SecureString) error {
	if username.CharLen() == 0 {
		return goerrors.Wrap(ErrEmptyUsername, ErrCodeEmptyUsername, "username cannot be empty")
	}
	if password.CharLen() == 0 {
		return goerrors.Wrap(ErrEmptyPassword, ErrCodeEmptyPassword, "password cannot be empty")
	}

	match := false
	err := password.Unlock(func(pw []byte) error {
		return confirm.Unlock(func(cf []byte) error {
			match = bytes.Equal(pw, cf)
			return nil
		})
	})
	if err != nil {
		return err
	}
	if !match {
		return goerrors.Wrap(ErrPasswordMismatch, ErrCodeMismatch, "password and confirmation do not match")
	}

	return nil
}
