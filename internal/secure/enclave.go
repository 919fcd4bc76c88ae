package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when opening a buffer after Destroy.
var ErrDestroyed = errors.New("secure buffer already destroyed")

// Buffer holds the master password between prompting and the login call.
// The value lives in a memguard.Enclave: encrypted at rest, mlocked where
// the platform allows, wiped on destruction.
//
// Enclaves have no Destroy of their own; the destroyed flag makes Destroy
// idempotent and turns any later Open into ErrDestroyed. Full cleanup of
// all enclave memory happens through memguard.Purge at process exit.
type Buffer struct {
	enclave   *memguard.Enclave
	mu        sync.RWMutex
	destroyed bool
}

// New moves secret bytes into a protected buffer. memguard wipes the input
// slice after copying, so the caller keeps no plaintext copy.
//
// When mlock is unavailable (RLIMIT_MEMLOCK) memguard falls back to
// standard memory instead of failing.
func New(data []byte) (*Buffer, error) {
	return &Buffer{enclave: memguard.NewEnclave(data)}, nil
}

// NewFromString protects a credential that arrived through a flag or
// environment variable. The original string cannot be wiped, so prompted
// input should go through New with a byte slice instead.
func NewFromString(value string) (*Buffer, error) {
	return New([]byte(value))
}

// Open decrypts the buffer into a locked plaintext region. The caller must
// Destroy the returned LockedBuffer as soon as the value has been used.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrDestroyed
	}
	return b.enclave.Open()
}

// Destroy drops the enclave reference and blocks further Opens. Safe to
// call more than once. The encrypted pages themselves are reclaimed by
// memguard.Purge at exit.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.destroyed = true
}
