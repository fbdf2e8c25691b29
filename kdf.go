// kdf.go: Memory-hard seed derivation using Argon2id.
//
// The seed derivation step is the brute-force deterrent for the whole
// system: it is deliberately CPU- and memory-heavy (up to several
// gigabytes, tens of seconds). The salt is a SHA3-512 digest of the
// username, never a stored random value, so the scheme stays stateless:
// the same credentials always regenerate the same seed with nothing
// persisted anywhere.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"time"

	goerrors "github.com/agilira/go-errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/sha3"
)

// KDFParams defines the Argon2id cost parameters for seed derivation.
//
// Memory is expressed in KiB (the native Argon2 unit) rather than MB so
// that low-cost test configurations remain expressible. Parameters are
// immutable once a derivation has started.
//
// Use one of the named presets for interactive use:
//
//	params := derive.SlowKDFParams()
//	deriver, err := derive.NewPasswordDeriver(user, pass, confirm, params)
type KDFParams struct {
	// Memory is the Argon2id memory cost in KiB.
	Memory uint32 `json:"memory"`

	// Time is the Argon2id iteration count.
	Time uint32 `json:"time"`

	// Threads is the Argon2id parallelism degree.
	Threads uint8 `json:"threads"`
}

// MemoryGB returns the memory cost in gigabytes, for display purposes.
func (p *KDFParams) MemoryGB() float64 {
	return float64(uint64(p.Memory)*1024) / 1e9
}

// FastKDFParams returns the lowest-latency named preset.
//
// Parameters: Memory=2048000 KiB (~2 GB), Time=8, Threads=1.
// Estimated derivation time: ~17 seconds.
func FastKDFParams() *KDFParams {
	return &KDFParams{
		Memory:  2048_000,
		Time:    8,
		Threads: 1,
	}
}

// NormalKDFParams returns the balanced named preset.
//
// Parameters: Memory=4096000 KiB (~4 GB), Time=8, Threads=1.
// Estimated derivation time: ~35 seconds.
func NormalKDFParams() *KDFParams {
	return &KDFParams{
		Memory:  4096_000,
		Time:    8,
		Threads: 1,
	}
}

// SlowKDFParams returns the high-resistance named preset.
//
// Parameters: Memory=8192000 KiB (~8 GB), Time=8, Threads=1.
// Estimated derivation time: ~71 seconds.
func SlowKDFParams() *KDFParams {
	return &KDFParams{
		Memory:  8192_000,
		Time:    8,
		Threads: 1,
	}
}

// VerySlowKDFParams returns the maximum-resistance named preset.
//
// Parameters: Memory=8192000 KiB (~8 GB), Time=16, Threads=1.
// Estimated derivation time: ~137 seconds.
func VerySlowKDFParams() *KDFParams {
	return &KDFParams{
		Memory:  8192_000,
		Time:    16,
		Threads: 1,
	}
}

// PresetInfo describes a named preset for selection surfaces (CLI, TUI).
type PresetInfo struct {
	Name             string
	Params           *KDFParams
	EstimatedLatency time.Duration
}

// Presets returns the four named presets in ascending cost order.
// The latency figures are estimates measured on commodity hardware and
// are for display only.
func Presets() []PresetInfo {
	return []PresetInfo{
		{Name: "fast", Params: FastKDFParams(), EstimatedLatency: 17 * time.Second},
		{Name: "normal", Params: NormalKDFParams(), EstimatedLatency: 35 * time.Second},
		{Name: "slow", Params: SlowKDFParams(), EstimatedLatency: 71 * time.Second},
		{Name: "very_slow", Params: VerySlowKDFParams(), EstimatedLatency: 137 * time.Second},
	}
}

// LookupPreset resolves a named preset ("fast", "normal", "slow",
// "very_slow"). The second return value reports whether the name matched.
func LookupPreset(name string) (PresetInfo, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return PresetInfo{}, false
}

// DeriveSeed runs the memory-hard derivation step and produces the
// 64-byte secret seed.
//
// The salt is SHA3-512(username); the username, not the password,
// determines the salt. Two users who pick an identical username and
// password pair derive an identical seed - that is the statelessness
// contract, not an oversight. The Argon2id output is moved into a
// fixed-size secure container and the salt digest is wiped before
// returning.
//
// Inputs are not validated here beyond parameter sanity; callers go
// through ValidateCredentials first (NewPasswordDeriver enforces the
// order). There is no cancellation: once started, the KDF runs to
// completion or to a hard failure.
func DeriveSeed(username, password *SecureString, params *KDFParams) (*Seed, error) {
	if params == nil {
		params = NormalKDFParams()
	}
	if params.Memory == 0 || params.Time == 0 || params.Threads == 0 {
		return nil, goerrors.New(ErrCodeInvalidParams, "kdf parameters must be positive")
	}

	saltBuf := getDigestBuffer()
	defer putDigestBuffer(saltBuf)

	salt := (*saltBuf)[:0]
	err := username.Unlock(func(u []byte) error {
		h := sha3.New512()
		h.Write(u)
		salt = h.Sum(salt)
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeKDFFailure, "failed to read username")
	}

	var out []byte
	err = password.Unlock(func(pw []byte) error {
		out = argon2.IDKey(pw, salt, params.Time, params.Memory, params.Threads, SeedSize)
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeKDFFailure, "failed to read password")
	}
	if len(out) == 0 {
		return nil, goerrors.Wrap(ErrKDFFailure, ErrCodeKDFFailure, "argon2id produced no output")
	}

	// NewSeed takes ownership of out and wipes it; any length mismatch
	// is a fatal construction error for this attempt.
	return NewSeed(out)
}
