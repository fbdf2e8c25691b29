// store_test.go: Test cases for the label store.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive_test

import (
	"path/filepath"
	"testing"

	derive "github.com/agilira/mnemosyne"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreKey(fill byte) *derive.SecureBytes {
	key := make([]byte, derive.StoreKeySize)
	for i := range key {
		key[i] = fill
	}
	return derive.NewSecureBytes(key)
}

func openTestStore(t *testing.T, path string, fill byte) *derive.Store {
	t.Helper()
	st, err := derive.OpenStore(path, testStoreKey(fill))
	require.NoError(t, err)
	return st
}

func TestOpenStore_KeyValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")

	_, err := derive.OpenStore(path, nil)
	assert.Error(t, err)

	short := derive.NewSecureBytes(make([]byte, 16))
	_, err = derive.OpenStore(path, short)
	assert.Error(t, err)
}

func TestStore_PutGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")
	st := openTestStore(t, path, 0xA1)
	defer func() { _ = st.Close() }()

	// Absent index: nil, no error.
	label, err := st.Get(7)
	require.NoError(t, err)
	assert.Nil(t, label)

	in := derive.IndexLabel{
		Title:       "bank",
		Description: "checking account, rotated 2026-08",
		Exposed:     true,
	}
	require.NoError(t, st.Put(7, in))

	out, err := st.Get(7)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)

	// Overwrite.
	in.Exposed = false
	require.NoError(t, st.Put(7, in))
	out, err = st.Get(7)
	require.NoError(t, err)
	assert.False(t, out.Exposed)

	require.NoError(t, st.Delete(7))
	out, err = st.Get(7)
	require.NoError(t, err)
	assert.Nil(t, out)

	// Deleting a missing label is a no-op.
	require.NoError(t, st.Delete(7))
}

func TestStore_EmptyDescriptionStaysEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")
	st := openTestStore(t, path, 0xA1)
	defer func() { _ = st.Close() }()

	require.NoError(t, st.Put(1, derive.IndexLabel{Title: "no notes"}))

	out, err := st.Get(1)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "", out.Description)
}

func TestStore_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")
	st := openTestStore(t, path, 0xA1)
	defer func() { _ = st.Close() }()

	for _, idx := range []uint32{2, 5, 9, 100} {
		require.NoError(t, st.Put(idx, derive.IndexLabel{Title: "entry"}))
	}

	entries, err := st.List(0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, uint32(2), entries[0].Index)
	assert.Equal(t, uint32(100), entries[3].Index)

	// Paged.
	entries, err = st.List(3, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(5), entries[0].Index)
	assert.Equal(t, uint32(9), entries[1].Index)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")

	st := openTestStore(t, path, 0xA1)
	require.NoError(t, st.Put(0, derive.IndexLabel{Title: "mail", Description: "imap"}))
	require.NoError(t, st.Close())

	st = openTestStore(t, path, 0xA1)
	defer func() { _ = st.Close() }()

	out, err := st.Get(0)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "imap", out.Description)
}

// TestStore_WrongKey checks that a store reopened under a different key
// still lists titles but cannot unseal descriptions.
func TestStore_WrongKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")

	st := openTestStore(t, path, 0xA1)
	require.NoError(t, st.Put(0, derive.IndexLabel{Title: "mail", Description: "imap"}))
	require.NoError(t, st.Close())

	st = openTestStore(t, path, 0xB2)
	defer func() { _ = st.Close() }()

	_, err := st.Get(0)
	assert.Error(t, err)

	// A title-only label has nothing sealed and still reads fine.
	require.NoError(t, st.Put(1, derive.IndexLabel{Title: "public"}))
	out, err := st.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "public", out.Title)
}

func TestStore_CloseWipesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")

	key := testStoreKey(0xA1)
	st, err := derive.OpenStore(path, key)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	assert.True(t, key.IsErased())
}
