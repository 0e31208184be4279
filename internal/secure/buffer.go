// Package secure provides memory-safe storage for secret material.
// Secrets are kept inside memguard enclaves so the plaintext is encrypted
// at rest in process memory and protected from swapping via mlock.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Buffer holds one secret value in a protected memory region.
// The zero-length secret is represented without an enclave, since
// memguard cannot protect an empty region.
type Buffer struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// NewBuffer creates a protected buffer holding a copy of data.
// The caller's slice is not modified and may be zeroed afterward.
func NewBuffer(data []byte) *Buffer {
	b := &Buffer{}
	b.store(data)
	return b
}

// Bytes decrypts the secret and returns a plaintext copy.
// The returned slice is owned by the caller; wipe it when done.
func (b *Buffer) Bytes() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.enclave == nil {
		return []byte{}, nil
	}
	locked, err := b.enclave.Open()
	if err != nil {
		return nil, err
	}
	defer locked.Destroy()
	out := make([]byte, locked.Size())
	copy(out, locked.Bytes())
	return out, nil
}

// Set replaces the secret with a copy of data.
func (b *Buffer) Set(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store(data)
}

// Wipe drops the enclave, leaving the buffer empty. The encrypted
// ciphertext is unrecoverable once the enclave is released.
func (b *Buffer) Wipe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.enclave = nil
}

func (b *Buffer) store(data []byte) {
	if len(data) == 0 {
		b.enclave = nil
		return
	}
	// memguard.NewEnclave wipes its input, so hand it a private copy.
	own := make([]byte, len(data))
	copy(own, data)
	b.enclave = memguard.NewEnclave(own)
}
