// deriver.go: Deterministic per-index password derivation.
//
// A PasswordDeriver owns exactly one seed. Construction validates the
// credentials, runs the memory-hard derivation once, and yields a handle
// on which DeriveAt can be called any number of times. Erase is one-way;
// there is no path back to a usable deriver without a brand-new
// derivation from fresh credentials.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"crypto/hmac"
	"encoding/binary"
	"encoding/hex"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/sha3"
)

// PasswordLen is the length in characters of every derived password:
// the lowercase hex encoding of a 64-byte HMAC-SHA3-512 output.
const PasswordLen = 2 * SeedSize

// storeKeyTag is the HMAC message for the label-store key. Its length
// differs from the 4-byte index encoding, so the store key can never
// collide with any of the 2^32 user-facing derivations.
var storeKeyTag = []byte("mnemosyne/store-key/v1")

// PasswordDeriver derives an unbounded set of reproducible passwords
// from a single master username/password pair.
//
// Concurrency: DeriveAt calls from multiple goroutines are safe and
// independent - they only read the immutable seed bytes under shared
// access. Erase takes exclusive access and serializes against in-flight
// DeriveAt calls. The caller must not start a second seed derivation
// for the same credential session while one is running; Session
// enforces that for callers that need it.
type PasswordDeriver struct {
	seed   *Seed
	params KDFParams
}

// NewPasswordDeriver validates the credentials and runs the one-time
// memory-hard seed derivation.
//
// Validation is strictly ordered before the KDF, so malformed input
// fails in microseconds instead of after a multi-gigabyte Argon2id run.
// On any failure no seed exists and the attempt is simply discarded;
// the caller corrects the input and constructs again.
//
// The credential containers are still intact on return; the caller
// owns them and should Erase them once construction has succeeded.
func NewPasswordDeriver(username, password, confirm *SecureString, params *KDFParams) (*PasswordDeriver, error) {
	if err := ValidateCredentials(username, password, confirm); err != nil {
		return nil, err
	}

	seed, err := DeriveSeed(username, password, params)
	if err != nil {
		return nil, err
	}

	p := NormalKDFParams()
	if params != nil {
		p = params
	}

	return &PasswordDeriver{seed: seed, params: *p}, nil
}

// Params returns the KDF parameters this deriver was built with.
func (d *PasswordDeriver) Params() KDFParams {
	return d.params
}

// DeriveAt computes password number index: the lowercase hex encoding
// of HMAC-SHA3-512 over the big-endian 4-byte encoding of index, keyed
// by the 64-byte seed.
//
// The result is a pure function of (seed, index): identical inputs
// always produce the identical 128-character string, and distinct
// indices produce unrelated-looking output. The intermediate MAC and
// hex buffers are wiped after the value is built; the returned string
// is the user-facing secret and is the caller's to handle.
//
// After Erase, DeriveAt fails with ErrDeriverErased.
func (d *PasswordDeriver) DeriveAt(index uint32) (string, error) {
	var out string
	err := d.seed.Unlock(func(seed []byte) error {
		var idx [4]byte
		binary.BigEndian.PutUint32(idx[:], index)

		mac := hmac.New(sha3.New512, seed)
		mac.Write(idx[:])

		sumBuf := getDigestBuffer()
		defer putDigestBuffer(sumBuf)
		sum := mac.Sum((*sumBuf)[:0])

		hexBuf := getHexBuffer()
		defer putHexBuffer(hexBuf)
		dst := (*hexBuf)[:hex.EncodedLen(len(sum))]
		hex.Encode(dst, sum)

		out = string(dst)
		return nil
	})
	if err != nil {
		return "", goerrors.Wrap(ErrDeriverErased, ErrCodeErased, "derive on erased deriver")
	}
	return out, nil
}

// DeriveStoreKey derives the 32-byte AES-256 key that seals label
// descriptions at rest. It is keyed by the same seed but over an ASCII
// tag instead of a 4-byte index, so it lives outside the user-facing
// index space. The key is returned in a secure container and never
// persisted.
func (d *PasswordDeriver) DeriveStoreKey() (*SecureBytes, error) {
	var key *SecureBytes
	err := d.seed.Unlock(func(seed []byte) error {
		mac := hmac.New(sha3.New512, seed)
		mac.Write(storeKeyTag)

		sumBuf := getDigestBuffer()
		defer putDigestBuffer(sumBuf)
		sum := mac.Sum((*sumBuf)[:0])

		k := make([]byte, 32)
		copy(k, sum[:32])
		key = NewSecureBytes(k)
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(ErrDeriverErased, ErrCodeErased, "store key on erased deriver")
	}
	return key, nil
}

// Erased reports whether the seed has been wiped.
func (d *PasswordDeriver) Erased() bool {
	return d.seed.IsErased()
}

// Erase wipes the seed and invalidates the deriver. One-way and
// idempotent; it waits for in-flight DeriveAt calls to finish.
func (d *PasswordDeriver) Erase() {
	d.seed.Erase()
}
