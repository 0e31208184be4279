// Package platform adapts the operating system's credential manager (macOS
// Keychain, Windows Credential Manager, or the freedesktop Secret Service)
// to the keyring capability interfaces, via zalando/go-keyring.
//
// OS credential managers keep at most one record per (service, user) pair,
// so platform credentials are never ambiguous: every credential is both the
// specifier for its pair and a wrapper around the single OS record. The OS
// exposes no cross-platform record decorations, so attribute retrieval
// returns an empty map and attribute updates are unsupported. Search is
// unsupported. Secrets must be valid UTF-8; the OS stores reject or mangle
// arbitrary binary data.
package platform

import (
	"errors"
	"unicode/utf8"

	zkeyring "github.com/zalando/go-keyring"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

const vendor = "github.com/open-source-cooperative/keyring-core/pkg/platform"

// Store exposes the OS credential manager. It implements keyring.Store.
type Store struct{}

// NewStore creates a store backed by the OS credential manager.
func NewStore() *Store {
	return &Store{}
}

// Vendor identifies this store implementation.
func (s *Store) Vendor() string {
	return vendor
}

// ID identifies this store instance. The OS manager is a singleton, so all
// platform stores in a process are the same instance.
func (s *Store) ID() string {
	return "platform"
}

// Build creates an entry for the given service and user. The OS store
// accepts no modifiers.
func (s *Store) Build(service, user string, modifiers map[string]string) (*keyring.Entry, error) {
	if _, err := keyring.ParseAttributes(nil, modifiers); err != nil {
		return nil, err
	}
	return keyring.NewFromCredential(&Credential{service: service, user: user}), nil
}

// Search is not supported by the OS credential manager.
func (s *Store) Search(_ map[string]string) ([]*keyring.Entry, error) {
	return nil, &keyring.NotSupportedError{Vendor: vendor}
}

// Persistence reports UntilDelete: OS records live on disk.
func (s *Store) Persistence() keyring.Persistence {
	return keyring.PersistenceUntilDelete
}

// Credential is one (service, user) slot in the OS credential manager.
type Credential struct {
	service string
	user    string
}

// SetSecret stores the secret in the OS record for this pair, creating the
// record if needed. Non-UTF-8 secrets are rejected.
func (c *Credential) SetSecret(secret []byte) error {
	if !utf8.Valid(secret) {
		return &keyring.InvalidError{Field: "secret", Reason: "platform stores only accept UTF-8 secrets"}
	}
	if err := zkeyring.Set(c.service, c.user, string(secret)); err != nil {
		return platformErr(err)
	}
	return nil
}

// GetSecret retrieves the secret from the OS record for this pair.
func (c *Credential) GetSecret() ([]byte, error) {
	password, err := zkeyring.Get(c.service, c.user)
	if err != nil {
		return nil, platformErr(err)
	}
	return []byte(password), nil
}

// GetAttributes returns an empty map after checking that the record exists.
func (c *Credential) GetAttributes() (map[string]string, error) {
	if _, err := c.GetSecret(); err != nil {
		return nil, err
	}
	return map[string]string{}, nil
}

// UpdateAttributes is not supported: the OS exposes no cross-platform
// decorations.
func (c *Credential) UpdateAttributes(_ map[string]string) error {
	return &keyring.NotSupportedError{Vendor: vendor}
}

// Delete removes the OS record for this pair.
func (c *Credential) Delete() error {
	if err := zkeyring.Delete(c.service, c.user); err != nil {
		return platformErr(err)
	}
	return nil
}

// Wrap returns (nil, nil): the pair's single OS record is already pinned.
func (c *Credential) Wrap() (keyring.Credential, error) {
	return nil, nil
}

// Specifiers returns the (service, user) pair for this credential.
func (c *Credential) Specifiers() (string, string, bool) {
	return c.service, c.user, true
}

// IsSpecifier reports true: platform credentials resolve by pair.
func (c *Credential) IsSpecifier() bool {
	return true
}

// CredentialFor recovers the platform store's concrete credential from an
// entry. ok is false if the entry belongs to another store.
func CredentialFor(e *keyring.Entry) (*Credential, bool) {
	c, ok := e.Credential().(*Credential)
	return c, ok
}

func platformErr(err error) error {
	switch {
	case errors.Is(err, zkeyring.ErrNotFound):
		return keyring.ErrNoEntry
	case errors.Is(err, zkeyring.ErrSetDataTooBig):
		return &keyring.InvalidError{Field: "secret", Reason: err.Error()}
	case errors.Is(err, zkeyring.ErrUnsupportedPlatform):
		return &keyring.NoStorageAccessError{Err: err}
	default:
		return &keyring.PlatformError{Err: err}
	}
}
