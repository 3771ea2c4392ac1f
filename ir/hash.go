// Package ir defines the closed data model of the runtime: content
// hashes, term references, the type ABT, and the runtime Value domain.
package ir

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Hash opaquely identifies a term by the content of its textual source.
// It is comparable and usable directly as a map key.
type Hash [32]byte

// HashOf constructs a Hash from a textual representation. Two equal
// strings always produce equal hashes; this is the only way a Hash is
// built, including for sentinel hashes such as OptionHash and the
// env package's eval-entry-point hash, which are simply HashOf of a
// fixed literal string.
func HashOf(text string) Hash {
	return blake2b.Sum256([]byte(text))
}

// String renders the hash as lowercase hex, for diagnostics and test
// failure messages. It is not a wire format.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the zero Hash, used by callers that need
// to distinguish "no hash" from a real one without an extra bool.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// GoString supports %#v and direct use in fmt.Errorf without leaking
// the raw byte array.
func (h Hash) GoString() string {
	return fmt.Sprintf("ir.Hash(%s)", h.String())
}
