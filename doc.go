// Package derive provides deterministic, memory-hard password derivation
// from a single master username/password pair.
//
// This package offers the complete credential-derivation engine:
//   - Fast-failing credential validation (character-aware, ordered cheapest first)
//   - Argon2id seed derivation salted with SHA3-512(username), fully stateless
//   - Per-index deterministic password derivation via HMAC-SHA3-512
//   - Scoped-access secure memory with guaranteed zeroization
//   - A session object dispatching the slow derivation off the caller's control path
//   - A bbolt-backed label store for non-secret per-index metadata
//   - A plugin architecture for hardware-backed derivation providers
//
// No secret is ever written to durable storage, there is no network
// surface, and a forgotten master credential is permanently
// unrecoverable by design: the seed can only be reconstructed by
// re-running the derivation with the exact same credentials.
//
// # Quick Start
//
// Derive passwords from master credentials:
//
//	username := derive.NewSecureString("alice")
//	password := derive.NewSecureString("correct horse battery staple")
//	confirm := derive.NewSecureString("correct horse battery staple")
//
//	deriver, err := derive.NewPasswordDeriver(username, password, confirm, derive.SlowKDFParams())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer deriver.Erase()
//
//	// Password #0, #1, ... #4294967295 - all reproducible forever.
//	pw, err := deriver.DeriveAt(0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(pw)) // Output: 128
//
// Construction runs the memory-hard KDF and takes tens of seconds on
// the named presets; that latency is the brute-force deterrent for the
// whole scheme. Use a Session to keep it off a responsive control loop:
//
//	session := derive.NewSession()
//	done, err := session.StartDerivation(username, password, confirm, derive.NormalKDFParams())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := <-done; err != nil {
//		log.Fatal(err)
//	}
//	pw, _ := session.DeriveAt(42)
//
// # Presets
//
// Seed derivation cost is user-selectable from four named presets
// trading latency against brute-force resistance:
//
//	preset     memory   time  ~latency
//	fast       ~2 GB       8      ~17s
//	normal     ~4 GB       8      ~35s
//	slow       ~8 GB       8      ~71s
//	very_slow  ~8 GB      16     ~137s
//
// # Statelessness
//
// The KDF salt is derived solely from the username - no random,
// per-installation salt is ever generated or stored. This is what makes
// the scheme stateless: the same credentials always regenerate the same
// seed with nothing persisted. The known consequence, that two users
// choosing an identical username+password pair derive an identical
// seed, is a deliberate trade-off and must be preserved.
//
// # Secure Memory
//
// Every buffer that ever holds a password, the seed, a digest or an
// HMAC result lives in a SecureBytes/SecureString container: bytes are
// reachable only inside an Unlock callback, Erase wipes and invalidates
// the container one-way, and a finalizer wipes the backing storage at
// teardown as a last resort. Intermediate buffers on the derivation
// path are pooled and wiped before reuse.
//
// # Error Handling
//
// All functions return standard Go errors; sentinel errors support
// errors.Is checks, and rich error codes are attached via
// github.com/agilira/go-errors:
//
//	_, err := deriver.DeriveAt(0)
//	if errors.Is(err, derive.ErrDeriverErased) {
//		// the seed is gone; build a new deriver from fresh credentials
//	}
package derive
