// pool.go: Buffer pooling for the hot per-index derivation path.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"sync"
)

const (
	digestBufSize = 64  // SHA3-512 digests and HMAC-SHA3-512 outputs
	hexBufSize    = 128 // hex encoding of a 64-byte digest
)

var (
	// Pools sized for the two buffer shapes the derivation path uses.
	// Every buffer that ever held secret bytes is wiped before it goes
	// back to its pool.
	digestBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, digestBufSize)
			return &buf // Return pointer to avoid allocations (SA6002)
		},
	}

	hexBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, hexBufSize)
			return &buf
		},
	}
)

// init pre-warms the pools so the first DeriveAt call after startup does
// not pay cold-allocation latency.
func init() {
	WarmupPools(4)
}

// getDigestBuffer retrieves a 64-byte buffer for digest/MAC output.
func getDigestBuffer() *[]byte {
	buf := digestBufferPool.Get().(*[]byte)
	*buf = (*buf)[:digestBufSize]
	return buf
}

// putDigestBuffer wipes a digest buffer and returns it to the pool.
func putDigestBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	clearBuffer((*buf)[:cap(*buf)])
	digestBufferPool.Put(buf)
}

// getHexBuffer retrieves a 128-byte buffer for hex encoding.
func getHexBuffer() *[]byte {
	buf := hexBufferPool.Get().(*[]byte)
	*buf = (*buf)[:hexBufSize]
	return buf
}

// putHexBuffer wipes a hex buffer and returns it to the pool.
// Hex output is a direct transform of secret bytes, so it gets the same
// wipe discipline as the digests themselves.
func putHexBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	clearBuffer((*buf)[:cap(*buf)])
	hexBufferPool.Put(buf)
}

// clearBuffer zeroes buf with an unrolled loop sized to the cache line.
func clearBuffer(buf []byte) {
	if len(buf) <= 64 {
		for i := range buf {
			buf[i] = 0
		}
		return
	}

	i := 0
	for i < len(buf)-7 {
		buf[i] = 0
		buf[i+1] = 0
		buf[i+2] = 0
		buf[i+3] = 0
		buf[i+4] = 0
		buf[i+5] = 0
		buf[i+6] = 0
		buf[i+7] = 0
		i += 8
	}
	for i < len(buf) {
		buf[i] = 0
		i++
	}
}

// WarmupPools pre-allocates buffers in both pools to reduce cold latency.
func WarmupPools(count int) {
	digestBufs := make([]*[]byte, count)
	hexBufs := make([]*[]byte, count)

	for i := 0; i < count; i++ {
		digestBufs[i] = getDigestBuffer()
		hexBufs[i] = getHexBuffer()
	}

	for i := 0; i < count; i++ {
		putDigestBuffer(digestBufs[i])
		putHexBuffer(hexBufs[i])
	}
}
