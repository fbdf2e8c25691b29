// prompt.go: Credential prompting without echo.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	derive "github.com/agilira/mnemosyne"
	"golang.org/x/term"
)

// passwordEnvVar lets scripts supply the master password without a
// terminal. The username is not secret and is always prompted or given
// via flag.
const passwordEnvVar = "MNEMOSYNE_PASSWORD"

// readLine reads an echoed line from stdin (used for the username).
func readLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads a line from the terminal without echoing and moves
// it straight into a secure container.
func readSecret(prompt string) (*derive.SecureString, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return derive.NewSecureStringFromBytes(b), nil
}

// secretFromEnv returns the password from the environment, or nil if
// unset. A copy is taken so the container owns its bytes.
func secretFromEnv() *derive.SecureString {
	v := os.Getenv(passwordEnvVar)
	if v == "" {
		return nil
	}
	return derive.NewSecureStringFromBytes([]byte(v))
}

// cloneSecret copies a secure string into a fresh container.
// The validator wants password and confirmation as distinct values;
// when confirmation is skipped the password simply stands in twice.
func cloneSecret(s *derive.SecureString) (*derive.SecureString, error) {
	var out *derive.SecureString
	err := s.Unlock(func(b []byte) error {
		cp := make([]byte, len(b))
		copy(cp, b)
		out = derive.NewSecureStringFromBytes(cp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// promptCredentials gathers username, password and confirm-password.
// With confirm false, the password is read once and reused as its own
// confirmation (the usual case for an already-established credential).
func promptCredentials(confirm bool) (username, password, confirmPw *derive.SecureString, err error) {
	user, err := readLine("Username: ")
	if err != nil {
		return nil, nil, nil, err
	}
	username = derive.NewSecureString(user)

	password = secretFromEnv()
	if password == nil {
		password, err = readSecret("Password: ")
		if err != nil {
			username.Erase()
			return nil, nil, nil, err
		}
	}

	if confirm && os.Getenv(passwordEnvVar) == "" {
		confirmPw, err = readSecret("Confirm password: ")
		if err != nil {
			username.Erase()
			password.Erase()
			return nil, nil, nil, err
		}
		return username, password, confirmPw, nil
	}

	confirmPw, err = cloneSecret(password)
	if err != nil {
		username.Erase()
		password.Erase()
		return nil, nil, nil, err
	}
	return username, password, confirmPw, nil
}
