// Package idgen provides pluggable ID generation for docindex: a Generator
// is a plain function value, so the ID strategy can be chosen at startup.
// The store, scrape and pipeline packages do not use it; stored documents
// get INTEGER ids from SQLite.
package idgen

import (
	"crypto/rand"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
// Time-sortable and globally unique; the generator behind Default.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// NanoID returns a Generator that produces base-36 IDs of the given length.
// Use where UUIDv7 is too verbose (e.g. visited-set fingerprints).
func NanoID(length int) Generator {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	return func() string {
		buf := make([]byte, length)
		if _, err := rand.Read(buf); err != nil {
			panic("idgen: crypto/rand failed: " + err.Error())
		}
		b := make([]byte, length)
		for i := range b {
			b[i] = alphabet[int(buf[i])%len(alphabet)]
		}
		return string(b)
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the package-level UUIDv7 generator, convenient for call sites
// that don't need to inject a custom strategy.
var Default = UUIDv7()

// New returns a fresh ID from Default.
func New() string { return Default() }
