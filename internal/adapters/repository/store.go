// Package repository defines the persistent key-value contract and its
// implementations.
//
// The store is the browser-profile analog: the only state shared across
// process lifetimes. Concurrent processes race with last-write-wins
// semantics; the engine documents rather than masks this.
package repository

import "context"

// Well-known store keys.
const (
	KeyFingerprint   = "identity.fingerprint"
	KeyProfile       = "preferences.profile"
	KeySearchHistory = "history.searches"
	KeyVisitHistory  = "history.visits"
)

// KV provides read/write access to the profile-scoped persistent store.
type KV interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if the key is unknown.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
