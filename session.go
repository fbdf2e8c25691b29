// session.go: Owned credential-session context and derivation dispatch.
//
// A Session replaces the kind of ambient, lock-guarded global context a
// presentation layer tends to grow: it is an explicitly owned object the
// caller passes to whatever needs it. It dispatches the slow seed
// derivation to a dedicated goroutine so a responsive driving loop (UI
// or service) is never blocked by it, and it enforces the at-most-one
// derivation-in-flight rule.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package derive

import (
	"sync"
	"time"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
	"github.com/google/uuid"
)

// State is the lifecycle state of a Session.
type State string

const (
	StateUninitialized State = "uninitialized" // no construction attempt yet, or last attempt failed
	StateValidating    State = "validating"    // credential checks running
	StateDeriving      State = "deriving"      // memory-hard KDF running
	StateReady         State = "ready"         // seed established, DeriveAt callable
	StateErased        State = "erased"        // seed wiped, one-way terminal state
)

// Session owns at most one PasswordDeriver and the non-secret label
// store attached to it.
//
// All methods are safe for concurrent use. DeriveAt proxies to the
// deriver under shared access; Erase is exclusive.
type Session struct {
	mu        sync.RWMutex
	id        uuid.UUID
	state     State
	deriver   *PasswordDeriver
	store     *Store
	startedAt time.Time
	readyAt   time.Time
}

// NewSession creates an empty session in the Uninitialized state.
func NewSession() *Session {
	return &Session{
		id:    uuid.New(),
		state: StateUninitialized,
	}
}

// ID returns the session identifier, for logging and diagnostics only.
func (s *Session) ID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// StartedAt returns when the current (or last) derivation attempt began.
func (s *Session) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// ReadyAt returns when the seed was established, or the zero time if the
// session never reached Ready.
func (s *Session) ReadyAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readyAt
}

// StartDerivation validates the credentials and runs the memory-hard
// seed derivation on a dedicated goroutine, so the caller's control
// loop is never blocked by a multi-second KDF.
//
// The returned channel receives exactly one value: nil once the session
// is Ready, or the construction error. At most one derivation may be in
// flight; a second call while one runs fails with ErrDerivationInFlight,
// and a call on a Ready session fails with ErrSessionReady (erase
// first). There is no cancellation of a started derivation.
//
// On success the session wipes the credential containers - they are no
// longer needed once the seed exists. On failure they are left intact
// so the caller can correct the input and try again.
func (s *Session) StartDerivation(username, password, confirm *SecureString, params *KDFParams) (<-chan error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateValidating, StateDeriving:
		return nil, goerrors.Wrap(ErrDerivationInFlight, ErrCodeInFlight, "derivation already running")
	case StateReady:
		return nil, goerrors.Wrap(ErrSessionReady, ErrCodeSessionReady, "erase the session before deriving again")
	}

	s.state = StateValidating
	s.startedAt = timecache.CachedTime().UTC()

	done := make(chan error, 1)
	go s.runDerivation(username, password, confirm, params, done)
	return done, nil
}

func (s *Session) runDerivation(username, password, confirm *SecureString, params *KDFParams, done chan<- error) {
	if err := ValidateCredentials(username, password, confirm); err != nil {
		s.failDerivation(err, done)
		return
	}

	s.setState(StateDeriving)

	seed, err := DeriveSeed(username, password, params)
	if err != nil {
		s.failDerivation(err, done)
		return
	}

	p := NormalKDFParams()
	if params != nil {
		p = params
	}

	s.mu.Lock()
	s.deriver = &PasswordDeriver{seed: seed, params: *p}
	s.state = StateReady
	s.readyAt = timecache.CachedTime().UTC()
	s.mu.Unlock()

	// The seed exists; the transient credentials have served their
	// purpose and are wiped here.
	username.Erase()
	password.Erase()
	confirm.Erase()

	done <- nil
}

func (s *Session) failDerivation(err error, done chan<- error) {
	// Construction aborted: no seed exists and the attempt is discarded.
	// The caller re-attempts with corrected input.
	s.setState(StateUninitialized)
	done <- err
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// DeriveAt returns password number index from the session's deriver.
// Concurrent calls are safe and independent.
func (s *Session) DeriveAt(index uint32) (string, error) {
	s.mu.RLock()
	d := s.deriver
	s.mu.RUnlock()

	if d == nil {
		return "", goerrors.Wrap(ErrNoDeriver, ErrCodeNoDeriver, "session has no ready deriver")
	}
	return d.DeriveAt(index)
}

// OpenStore opens (or creates) the label store at path, sealed under a
// key derived from this session's seed. Requires a Ready session.
func (s *Session) OpenStore(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deriver == nil || s.state != StateReady {
		return goerrors.Wrap(ErrNoDeriver, ErrCodeNoDeriver, "store requires a ready session")
	}
	if s.store != nil {
		return goerrors.New(ErrCodeStoreFailure, "store already open")
	}

	key, err := s.deriver.DeriveStoreKey()
	if err != nil {
		return err
	}

	store, err := OpenStore(path, key)
	if err != nil {
		key.Erase()
		return err
	}
	s.store = store
	return nil
}

// Store returns the attached label store, or nil if none is open.
func (s *Session) Store() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// Erase wipes the seed and moves the session to its terminal Erased
// state. One-way: deriving again requires a brand-new session built
// from fresh credentials. Safe to call more than once.
func (s *Session) Erase() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deriver != nil {
		s.deriver.Erase()
	}
	s.state = StateErased
}

// Close erases the session and closes the attached store, if any.
// It is the teardown guarantee: after Close no secret material owned by
// the session remains reachable.
func (s *Session) Close() error {
	s.Erase()

	s.mu.Lock()
	store := s.store
	s.store = nil
	s.mu.Unlock()

	if store != nil {
		return store.Close()
	}
	return nil
}
