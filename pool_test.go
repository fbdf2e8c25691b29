// pool_test.go: Test cases for derivation buffer pooling.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"testing"
)

func TestGetDigestBuffer(t *testing.T) {
	buf := getDigestBuffer()
	defer putDigestBuffer(buf)

	if len(*buf) != digestBufSize {
		t.Errorf("digest buffer length = %d, want %d", len(*buf), digestBufSize)
	}
}

func TestGetHexBuffer(t *testing.T) {
	buf := getHexBuffer()
	defer putHexBuffer(buf)

	if len(*buf) != hexBufSize {
		t.Errorf("hex buffer length = %d, want %d", len(*buf), hexBufSize)
	}
}

// TestPutBuffer_Wipes checks that secret-bearing buffers come back from
// the pool zeroed, never carrying a previous derivation's bytes.
func TestPutBuffer_Wipes(t *testing.T) {
	buf := getDigestBuffer()
	for i := range *buf {
		(*buf)[i] = 0xFF
	}
	putDigestBuffer(buf)

	again := getDigestBuffer()
	defer putDigestBuffer(again)
	for i, v := range *again {
		if v != 0 {
			t.Fatalf("pooled digest buffer byte %d not wiped: %#x", i, v)
		}
	}

	hexBuf := getHexBuffer()
	for i := range *hexBuf {
		(*hexBuf)[i] = 0xFF
	}
	putHexBuffer(hexBuf)

	hexAgain := getHexBuffer()
	defer putHexBuffer(hexAgain)
	for i, v := range *hexAgain {
		if v != 0 {
			t.Fatalf("pooled hex buffer byte %d not wiped: %#x", i, v)
		}
	}
}

func TestPutBuffer_NilSafe(t *testing.T) {
	putDigestBuffer(nil)
	putHexBuffer(nil)
}

func TestClearBuffer(t *testing.T) {
	for _, n := range []int{0, 1, 63, 64, 65, 128, 1000} {
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = 0xAB
		}
		clearBuffer(buf)
		for i, v := range buf {
			if v != 0 {
				t.Fatalf("clearBuffer(len=%d): byte %d not zeroed", n, i)
			}
		}
	}
}

func TestWarmupPools(t *testing.T) {
	// Must not panic and must leave the pools usable.
	WarmupPools(8)

	buf := getDigestBuffer()
	defer putDigestBuffer(buf)
	if len(*buf) != digestBufSize {
		t.Errorf("buffer length after warmup = %d", len(*buf))
	}
}
