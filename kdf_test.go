// kdf_test.go: Test cases for KDF parameters and seed derivation.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive_test

import (
	"bytes"
	"errors"
	"testing"

	derive "github.com/agilira/mnemosyne"
)

// TestPresets checks the four named cost presets against their
// documented parameters.
func TestPresets(t *testing.T) {
	tests := []struct {
		name    string
		params  *derive.KDFParams
		memory  uint32
		time    uint32
		threads uint8
	}{
		{"fast", derive.FastKDFParams(), 2048_000, 8, 1},
		{"normal", derive.NormalKDFParams(), 4096_000, 8, 1},
		{"slow", derive.SlowKDFParams(), 8192_000, 8, 1},
		{"very_slow", derive.VerySlowKDFParams(), 8192_000, 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.params.Memory != tt.memory {
				t.Errorf("Memory = %d, want %d", tt.params.Memory, tt.memory)
			}
			if tt.params.Time != tt.time {
				t.Errorf("Time = %d, want %d", tt.params.Time, tt.time)
			}
			if tt.params.Threads != tt.threads {
				t.Errorf("Threads = %d, want %d", tt.params.Threads, tt.threads)
			}
		})
	}
}

func TestPresets_Listing(t *testing.T) {
	presets := derive.Presets()
	if len(presets) != 4 {
		t.Fatalf("Presets() returned %d entries, want 4", len(presets))
	}

	names := []string{"fast", "normal", "slow", "very_slow"}
	for i, p := range presets {
		if p.Name != names[i] {
			t.Errorf("preset %d name = %s, want %s", i, p.Name, names[i])
		}
		if p.EstimatedLatency <= 0 {
			t.Errorf("preset %s has no latency estimate", p.Name)
		}
		if i > 0 && p.EstimatedLatency <= presets[i-1].EstimatedLatency {
			t.Errorf("preset latencies should be ascending at %s", p.Name)
		}
	}
}

func TestLookupPreset(t *testing.T) {
	for _, name := range []string{"fast", "normal", "slow", "very_slow"} {
		if _, ok := derive.LookupPreset(name); !ok {
			t.Errorf("LookupPreset(%q) not found", name)
		}
	}
	if _, ok := derive.LookupPreset("medium"); ok {
		t.Error("LookupPreset should reject unknown names")
	}
}

func TestKDFParams_MemoryGB(t *testing.T) {
	p := derive.FastKDFParams()
	gb := p.MemoryGB()
	// 2048000 KiB is about 2.1 GB.
	if gb < 2.0 || gb > 2.2 {
		t.Errorf("MemoryGB() = %f, want about 2.1", gb)
	}
}

func TestDeriveSeed_InvalidParams(t *testing.T) {
	username := derive.NewSecureString("alice")
	password := derive.NewSecureString("pw")
	defer username.Erase()
	defer password.Erase()

	bad := []*derive.KDFParams{
		{Memory: 0, Time: 1, Threads: 1},
		{Memory: 64, Time: 0, Threads: 1},
		{Memory: 64, Time: 1, Threads: 0},
	}
	for _, p := range bad {
		if _, err := derive.DeriveSeed(username, password, p); err == nil {
			t.Errorf("DeriveSeed with %+v should fail", p)
		}
	}
}

func seedBytes(t *testing.T, s *derive.Seed) []byte {
	t.Helper()
	var out []byte
	if err := s.Unlock(func(b []byte) error {
		out = append([]byte(nil), b...)
		return nil
	}); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	return out
}

func TestDeriveSeed_Deterministic(t *testing.T) {
	params := &derive.KDFParams{Memory: 1024, Time: 1, Threads: 1}

	mk := func() *derive.Seed {
		username := derive.NewSecureString("alice")
		password := derive.NewSecureString("pw")
		defer username.Erase()
		defer password.Erase()

		seed, err := derive.DeriveSeed(username, password, params)
		if err != nil {
			t.Fatalf("DeriveSeed() error: %v", err)
		}
		return seed
	}

	s1 := mk()
	defer s1.Erase()
	s2 := mk()
	defer s2.Erase()

	if s1.Len() != derive.SeedSize {
		t.Errorf("seed length = %d, want %d", s1.Len(), derive.SeedSize)
	}
	if !bytes.Equal(seedBytes(t, s1), seedBytes(t, s2)) {
		t.Error("identical credentials should derive identical seeds")
	}
}

func TestDeriveSeed_SaltFromUsername(t *testing.T) {
	params := &derive.KDFParams{Memory: 1024, Time: 1, Threads: 1}

	mk := func(user, pass string) *derive.Seed {
		username := derive.NewSecureString(user)
		password := derive.NewSecureString(pass)
		defer username.Erase()
		defer password.Erase()

		seed, err := derive.DeriveSeed(username, password, params)
		if err != nil {
			t.Fatalf("DeriveSeed() error: %v", err)
		}
		return seed
	}

	base := mk("alice", "pw")
	defer base.Erase()
	otherUser := mk("bob", "pw")
	defer otherUser.Erase()
	otherPass := mk("alice", "wp")
	defer otherPass.Erase()

	if bytes.Equal(seedBytes(t, base), seedBytes(t, otherUser)) {
		t.Error("different usernames must salt differently")
	}
	if bytes.Equal(seedBytes(t, base), seedBytes(t, otherPass)) {
		t.Error("different passwords must derive different seeds")
	}
}

func TestDeriveSeed_ErasedInput(t *testing.T) {
	username := derive.NewSecureString("alice")
	password := derive.NewSecureString("pw")
	password.Erase()
	defer username.Erase()

	_, err := derive.DeriveSeed(username, password, &derive.KDFParams{Memory: 64, Time: 1, Threads: 1})
	if !errors.Is(err, derive.ErrBufferErased) {
		t.Errorf("DeriveSeed with erased password: got %v, want ErrBufferErased", err)
	}
}
