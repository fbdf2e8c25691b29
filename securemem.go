// securemem.go: Scoped-access secret containers with guaranteed zeroization.
//
// Every buffer that ever holds a password, the seed, a hash digest or an
// HMAC result lives inside one of these containers. Secret bytes are only
// reachable inside an Unlock callback, an explicit Erase wipes and
// invalidates the container, and a finalizer wipes the backing storage as
// a last resort if Erase was never called.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"runtime"
	"sync"
	"unicode/utf8"

	goerrors "github.com/agilira/go-errors"
)

// SeedSize is the fixed length of the secret seed in bytes.
// The seed is the Argon2id output and the HMAC key for every per-index
// derivation; it is always exactly 64 bytes regardless of KDF preset.
const SeedSize = 64

// Zeroize securely wipes a byte slice from memory.
//
// This function overwrites all bytes in the slice with zeros to prevent
// sensitive data from remaining in memory after use. The runtime.KeepAlive
// call prevents the compiler from eliding the stores as dead writes.
//
// Note: This function modifies the original slice in place.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// SecureBytes is a scoped-access container for secret byte material.
//
// The bytes are never handed out as a freely copyable value: callers get
// at them only for the duration of an Unlock callback. Access follows a
// reader/writer discipline - any number of concurrent Unlock readers, or
// one exclusive Erase writer.
//
// The zero value is not usable; construct with NewSecureBytes.
type SecureBytes struct {
	mu     sync.RWMutex
	buf    []byte
	erased bool
}

// NewSecureBytes creates a secure container that takes ownership of b.
// The input slice is wiped before NewSecureBytes returns, so the caller
// must not rely on its contents afterwards.
func NewSecureBytes(b []byte) *SecureBytes {
	cp := make([]byte, len(b))
	copy(cp, b)
	Zeroize(b)

	s := &SecureBytes{buf: cp}
	runtime.SetFinalizer(s, (*SecureBytes).finalize)
	return s
}

// Unlock exposes the secret bytes to fn for the duration of the call.
// The callback must not retain the slice or any sub-slice of it beyond
// its own return. Unlock holds shared access, so concurrent readers are
// safe; it fails with ErrBufferErased once the container has been wiped.
func (s *SecureBytes) Unlock(fn func(b []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.erased {
		return goerrors.Wrap(ErrBufferErased, ErrCodeErased, "unlock of erased buffer")
	}
	return fn(s.buf)
}

// Len returns the length of the contained secret, or 0 after erasure.
func (s *SecureBytes) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.erased {
		return 0
	}
	return len(s.buf)
}

// IsErased reports whether the container has been wiped.
func (s *SecureBytes) IsErased() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.erased
}

// Erase wipes the backing storage and invalidates the container.
// Erasure is one-way and idempotent. It takes exclusive access, so it
// serializes against any in-flight Unlock calls.
func (s *SecureBytes) Erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eraseLocked()
}

func (s *SecureBytes) eraseLocked() {
	if s.erased {
		return
	}
	Zeroize(s.buf)
	s.buf = nil
	s.erased = true
	runtime.SetFinalizer(s, nil)
}

// finalize is the last-resort wipe if the owner never called Erase.
func (s *SecureBytes) finalize() {
	s.Erase()
}

// SecureString holds a transient UTF-8 credential (username, password,
// confirm-password). It exists only until seed derivation completes or
// validation fails, and is wiped like any other secret buffer.
type SecureString struct {
	inner *SecureBytes
}

// NewSecureString creates a secure container from a Go string.
//
// The source string itself is immutable and cannot be wiped; prefer
// NewSecureStringFromBytes when the credential was read as a byte slice
// (for example from a terminal prompt).
func NewSecureString(s string) *SecureString {
	return &SecureString{inner: NewSecureBytes([]byte(s))}
}

// NewSecureStringFromBytes creates a secure container that takes
// ownership of b and wipes it, exactly like NewSecureBytes.
func NewSecureStringFromBytes(b []byte) *SecureString {
	return &SecureString{inner: NewSecureBytes(b)}
}

// CharLen returns the number of Unicode code points in the credential,
// not the byte length, so multi-byte text is judged correctly.
// It returns 0 after erasure.
func (s *SecureString) CharLen() int {
	n := 0
	_ = s.inner.Unlock(func(b []byte) error {
		n = utf8.RuneCount(b)
		return nil
	})
	return n
}

// Unlock exposes the raw UTF-8 bytes to fn for the duration of the call.
func (s *SecureString) Unlock(fn func(b []byte) error) error {
	return s.inner.Unlock(fn)
}

// Erase wipes the credential. One-way and idempotent.
func (s *SecureString) Erase() {
	s.inner.Erase()
}

// IsErased reports whether the credential has been wiped.
func (s *SecureString) IsErased() bool {
	return s.inner.IsErased()
}

// Seed is the 64-byte root secret produced by the memory-hard derivation
// step. It is exclusively owned by one PasswordDeriver instance and is
// never persisted.
type Seed struct {
	*SecureBytes
}

// NewSeed wraps KDF output into a Seed, taking ownership of b.
// A length other than SeedSize is a fatal construction error, never a
// warning: the whole derivation attempt is aborted.
func NewSeed(b []byte) (*Seed, error) {
	if len(b) != SeedSize {
		Zeroize(b)
		return nil, goerrors.Wrap(ErrSeedConversion, ErrCodeSeedConversion,
			"seed must be exactly 64 bytes")
	}
	return &Seed{SecureBytes: NewSecureBytes(b)}, nil
}
