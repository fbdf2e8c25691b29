// validate_test.go: Test cases for credential validation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive_test

import (
	"errors"
	"testing"
	"time"

	derive "github.com/agilira/mnemosyne"
)

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  error
	}{
		{"valid", "alice", "s3cret", "s3cret", nil},
		{"valid multibyte", "ålice", "pässwörd", "pässwörd", nil},
		{"empty username", "", "s3cret", "s3cret", derive.ErrEmptyUsername},
		{"empty password", "alice", "", "", derive.ErrEmptyPassword},
		{"mismatch", "alice", "s3cret", "s3cret!", derive.ErrPasswordMismatch},
		{"empty confirm only", "alice", "s3cret", "", derive.ErrPasswordMismatch},
		// Empty username wins over every other defect: checks run in
		// order of increasing cost.
		{"all empty", "", "", "", derive.ErrEmptyUsername},
		{"empty password before mismatch", "alice", "", "s3cret", derive.ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			username := derive.NewSecureString(tt.username)
			password := derive.NewSecureString(tt.password)
			confirm := derive.NewSecureString(tt.confirm)
			defer username.Erase()
			defer password.Erase()
			defer confirm.Erase()

			err := derive.ValidateCredentials(username, password, confirm)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateCredentials() error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateCredentials() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidateCredentials_NoSideEffects checks that a failed validation
// leaves the inputs intact for correction.
func TestValidateCredentials_NoSideEffects(t *testing.T) {
	username := derive.NewSecureString("alice")
	password := derive.NewSecureString("s3cret")
	confirm := derive.NewSecureString("typo")
	defer username.Erase()
	defer password.Erase()
	defer confirm.Erase()

	if err := derive.ValidateCredentials(username, password, confirm); err == nil {
		t.Fatal("expected mismatch error")
	}

	if username.IsErased() || password.IsErased() || confirm.IsErased() {
		t.Error("validation failure must not erase the inputs")
	}
	if password.CharLen() != 6 {
		t.Error("password was modified by failed validation")
	}
}

// TestConstructor_FastFail checks that malformed input fails through
// NewPasswordDeriver without a KDF-scale delay, even with the heaviest
// preset configured.
func TestConstructor_FastFail(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  error
	}{
		{"empty username", "", "pw", "pw", derive.ErrEmptyUsername},
		{"empty password", "u", "", "", derive.ErrEmptyPassword},
		{"mismatch", "u", "pw", "wp", derive.ErrPasswordMismatch},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			_, err := derive.NewPasswordDeriver(
				derive.NewSecureString(tt.username),
				derive.NewSecureString(tt.password),
				derive.NewSecureString(tt.confirm),
				derive.VerySlowKDFParams(),
			)
			elapsed := time.Since(start)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if elapsed > time.Second {
				t.Errorf("validation took %v; the KDF must not have run", elapsed)
			}
		})
	}
}
