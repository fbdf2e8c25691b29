// store.go: Non-secret per-index label storage.
//
// The store holds the metadata a user attaches to password indices:
// a title, a free-form description and an "exposed" flag marking
// passwords that may have leaked. Titles and flags are plaintext - they
// are the public index of the file. Descriptions are sealed at rest
// with AES-256-GCM under a key derived from the seed, so the file on
// disk never reveals more than the user chose to make public. No master
// secret, seed or derived password is ever written here.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	bolt "go.etcd.io/bbolt"
)

// Bucket names.
var (
	metaBucket   = []byte("meta")   // schema version, created/modified timestamps
	labelsBucket = []byte("labels") // per-index labels, key = big-endian uint32
)

// Meta keys.
var (
	metaVersion  = []byte("version")
	metaCreated  = []byte("created")
	metaModified = []byte("modified")
)

const storeSchemaVersion = "1"

// StoreKeySize is the AES-256 key length for sealing descriptions.
const StoreKeySize = 32

// gcmNonceSize is the standard GCM nonce length in bytes.
const gcmNonceSize = 12

// IndexLabel is the user-visible metadata for one password index.
type IndexLabel struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Exposed     bool   `json:"exposed"`
}

// storedLabel is the on-disk form: the description travels only sealed.
type storedLabel struct {
	Title             string `json:"title"`
	Exposed           bool   `json:"exposed"`
	SealedDescription []byte `json:"sealed_description,omitempty"`
}

// LabelEntry pairs an index with its label, for listings.
type LabelEntry struct {
	Index uint32
	Label IndexLabel
}

// Store is a bbolt-backed label store bound to one derivation session.
type Store struct {
	db   *bolt.DB
	key  *SecureBytes
	aead cipher.AEAD // cached GCM, built once at open
}

// OpenStore opens or creates the label store at path, sealed under key.
// The store takes ownership of the key container and wipes it on Close.
func OpenStore(path string, key *SecureBytes) (*Store, error) {
	if key == nil || key.Len() != StoreKeySize {
		return nil, goerrors.New(ErrCodeStoreSealed, "store key must be 32 bytes")
	}

	var aead cipher.AEAD
	err := key.Unlock(func(k []byte) error {
		block, err := aes.NewCipher(k)
		if err != nil {
			return goerrors.Wrap(err, ErrCodeStoreSealed, "failed to create AES cipher")
		}
		aead, err = cipher.NewGCM(block)
		if err != nil {
			return goerrors.Wrap(err, ErrCodeStoreSealed, "failed to create GCM cipher")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreFailure, "failed to open label store")
	}

	st := &Store{db: db, key: key, aead: aead}
	if err := st.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (st *Store) initialize() error {
	err := st.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{metaBucket, labelsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}

		meta := tx.Bucket(metaBucket)
		if meta.Get(metaVersion) == nil {
			if err := meta.Put(metaVersion, []byte(storeSchemaVersion)); err != nil {
				return err
			}
			now, _ := timecache.CachedTime().UTC().MarshalBinary()
			if err := meta.Put(metaCreated, now); err != nil {
				return err
			}
			if err := meta.Put(metaModified, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return goerrors.Wrap(err, ErrCodeStoreFailure, "failed to initialize label store")
	}
	return nil
}

// Put writes the label for index, sealing the description if present.
func (st *Store) Put(index uint32, label IndexLabel) error {
	stored := storedLabel{
		Title:   label.Title,
		Exposed: label.Exposed,
	}

	if label.Description != "" {
		sealed, err := st.seal([]byte(label.Description))
		if err != nil {
			return err
		}
		stored.SealedDescription = sealed
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return goerrors.Wrap(err, ErrCodeStoreFailure, "failed to encode label")
	}

	err = st.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(labelsBucket).Put(indexKey(index), data); err != nil {
			return err
		}
		return st.touch(tx)
	})
	if err != nil {
		return goerrors.Wrap(err, ErrCodeStoreFailure, "failed to write label")
	}
	return nil
}

// Get reads the label for index, unsealing the description.
// It returns nil with no error when no label exists for the index.
func (st *Store) Get(index uint32) (*IndexLabel, error) {
	var raw []byte
	err := st.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(labelsBucket).Get(indexKey(index))
		if v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreFailure, "failed to read label")
	}
	if raw == nil {
		return nil, nil
	}
	return st.decode(raw)
}

// Delete removes the label for index. Deleting a missing label is a no-op.
func (st *Store) Delete(index uint32) error {
	err := st.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(labelsBucket).Delete(indexKey(index)); err != nil {
			return err
		}
		return st.touch(tx)
	})
	if err != nil {
		return goerrors.Wrap(err, ErrCodeStoreFailure, "failed to delete label")
	}
	return nil
}

// List returns up to count labels starting at index start, in ascending
// index order. Indices with no label are simply absent from the result.
func (st *Store) List(start uint32, count int) ([]LabelEntry, error) {
	var entries []LabelEntry
	err := st.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(labelsBucket).Cursor()
		for k, v := c.Seek(indexKey(start)); k != nil && len(entries) < count; k, v = c.Next() {
			raw := make([]byte, len(v))
			copy(raw, v)
			label, err := st.decode(raw)
			if err != nil {
				return err
			}
			entries = append(entries, LabelEntry{
				Index: binary.BigEndian.Uint32(k),
				Label: *label,
			})
		}
		return nil
	})
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreFailure, "failed to list labels")
	}
	return entries, nil
}

// Close wipes the store key and closes the underlying database.
func (st *Store) Close() error {
	st.key.Erase()
	if err := st.db.Close(); err != nil {
		return goerrors.Wrap(err, ErrCodeStoreFailure, "failed to close label store")
	}
	return nil
}

func (st *Store) decode(raw []byte) (*IndexLabel, error) {
	var stored storedLabel
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreFailure, "failed to decode label")
	}

	label := &IndexLabel{Title: stored.Title, Exposed: stored.Exposed}
	if len(stored.SealedDescription) > 0 {
		plain, err := st.open(stored.SealedDescription)
		if err != nil {
			return nil, err
		}
		label.Description = string(plain)
		Zeroize(plain)
	}
	return label, nil
}

// seal encrypts plaintext as nonce||ciphertext with AES-256-GCM.
func (st *Store) seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreSealed, "failed to generate nonce")
	}
	return st.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// open decrypts a nonce||ciphertext blob produced by seal.
func (st *Store) open(blob []byte) ([]byte, error) {
	if len(blob) < gcmNonceSize {
		return nil, goerrors.New(ErrCodeStoreSealed, "sealed blob too short")
	}
	plain, err := st.aead.Open(nil, blob[:gcmNonceSize], blob[gcmNonceSize:], nil)
	if err != nil {
		return nil, goerrors.Wrap(err, ErrCodeStoreSealed, "failed to unseal description")
	}
	return plain, nil
}

func (st *Store) touch(tx *bolt.Tx) error {
	now, _ := timecache.CachedTime().UTC().MarshalBinary()
	return tx.Bucket(metaBucket).Put(metaModified, now)
}

func indexKey(index uint32) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, index)
	return k
}
