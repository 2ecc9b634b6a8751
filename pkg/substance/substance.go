// Package substance is the bulk side of the split store: actual file
// bytes, addressed by content hash. The object database only ever holds
// shadow records pointing in here.
package substance

import (
	"errors"

	"github.com/odvcencio/husk/pkg/shadow"
)

var ErrCorruptBlob = errors.New("corrupt blob")

// Substance is the capability set the snapshot layer needs from a bulk
// store. Store is idempotent: storing an already-present hash is a no-op
// success. The layer above never inspects storage layout.
type Substance interface {
	// Store reads the file at src and stores its bytes under hash.
	Store(hash shadow.ContentHash, src string) error
	// HaveBlob reports whether the store holds bytes for hash.
	HaveBlob(hash shadow.ContentHash) bool
	// CheckBlob re-hashes the stored bytes and verifies them against
	// hash, returning ErrCorruptBlob on mismatch.
	CheckBlob(hash shadow.ContentHash) error
}
