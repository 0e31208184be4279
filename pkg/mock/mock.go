// Package mock implements a credential store for client testing.
//
// Mock credentials are platform-independent and have no persistence beyond
// the entry itself, so getting a secret before setting one always fails
// with keyring.ErrNoEntry. They have no attributes at all.
//
// To make a method call on an entry fail in a specific way, recover the
// concrete credential with CredentialFor and arm it with SetError. The next
// operation on that credential returns the armed error and clears it, so
// subsequent calls behave normally again:
//
//	keyring.SetDefaultStore(mock.NewStore())
//	entry, _ := keyring.New("service", "user")
//	cred, _ := mock.CredentialFor(entry)
//	cred.SetError(&keyring.InvalidError{Field: "mock", Reason: "takes precedence"})
//	err := entry.SetPassword("test") // returns the armed error
//	err = entry.SetPassword("test")  // succeeds
package mock

import (
	"sync"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// Store builds mock credentials. It implements keyring.Store.
type Store struct{}

// NewStore creates a mock credential store, typically passed to
// keyring.SetDefaultStore during test setup.
func NewStore() *Store {
	return &Store{}
}

// Vendor identifies this store implementation.
func (s *Store) Vendor() string {
	return "github.com/open-source-cooperative/keyring-core/pkg/mock"
}

// ID identifies this store instance. All mock stores are interchangeable.
func (s *Store) ID() string {
	return "mock"
}

// Build returns an entry holding a fresh mock credential with no secret.
// Modifiers are ignored.
func (s *Store) Build(service, user string, _ map[string]string) (*keyring.Entry, error) {
	return keyring.NewFromCredential(&Credential{service: service, user: user}), nil
}

// Search is not supported by the mock store.
func (s *Store) Search(_ map[string]string) ([]*keyring.Entry, error) {
	return nil, &keyring.NotSupportedError{Vendor: s.Vendor()}
}

// Persistence reports EntryOnly: the mock keeps the secret in the entry.
func (s *Store) Persistence() keyring.Persistence {
	return keyring.PersistenceEntryOnly
}

// Credential is the concrete mock credential. Its state is fully
// self-contained; cloned entries sharing one credential observe the same
// secret, but independently built entries never do.
type Credential struct {
	mu      sync.Mutex
	service string
	user    string
	secret  []byte // nil means no secret has been set
	err     error  // one-shot error for the next operation
}

// SetError arms err to be returned from the next operation on this
// credential. Armed errors take precedence over normal behavior, and are
// cleared once returned.
func (c *Credential) SetError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

// takeError returns and clears the armed error. Caller holds c.mu.
func (c *Credential) takeError() error {
	err := c.err
	c.err = nil
	return err
}

// SetSecret stores the secret, unless an error is armed.
func (c *Credential) SetSecret(secret []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeError(); err != nil {
		return err
	}
	c.secret = append([]byte{}, secret...)
	return nil
}

// GetSecret returns the stored secret, keyring.ErrNoEntry if none has been
// set, or the armed error.
func (c *Credential) GetSecret() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeError(); err != nil {
		return nil, err
	}
	if c.secret == nil {
		return nil, keyring.ErrNoEntry
	}
	return append([]byte{}, c.secret...), nil
}

// GetAttributes returns an empty map after the same existence check as
// GetSecret. Mock credentials have no attributes.
func (c *Credential) GetAttributes() (map[string]string, error) {
	if _, err := c.GetSecret(); err != nil {
		return nil, err
	}
	return map[string]string{}, nil
}

// UpdateAttributes is not supported: no attributes can be updated.
func (c *Credential) UpdateAttributes(_ map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeError(); err != nil {
		return err
	}
	return &keyring.NotSupportedError{Vendor: "github.com/open-source-cooperative/keyring-core/pkg/mock"}
}

// Delete forgets the stored secret, failing with keyring.ErrNoEntry if none
// was set.
func (c *Credential) Delete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeError(); err != nil {
		return err
	}
	if c.secret == nil {
		return keyring.ErrNoEntry
	}
	c.secret = nil
	return nil
}

// Wrap returns (nil, nil): a mock credential is its own record, so it is
// already as pinned as it can be.
func (c *Credential) Wrap() (keyring.Credential, error) {
	return nil, nil
}

// Specifiers returns the (service, user) pair the credential was built with.
func (c *Credential) Specifiers() (string, string, bool) {
	return c.service, c.user, true
}

// IsSpecifier reports true: every mock credential is a specifier.
func (c *Credential) IsSpecifier() bool {
	return true
}

// CredentialFor recovers the mock store's concrete credential from an
// entry. ok is false if the entry belongs to another store.
func CredentialFor(e *keyring.Entry) (*Credential, bool) {
	c, ok := e.Credential().(*Credential)
	return c, ok
}
