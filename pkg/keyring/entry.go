package keyring

import (
	"sync"

	"github.com/open-source-cooperative/keyring-core/internal/logging"
)

// The process-wide default store slot. SetDefaultStore takes the write side
// and so blocks until all in-flight Build calls through the slot complete;
// it is meant to be called once at application startup.
var defaultStore struct {
	sync.RWMutex
	store Store
}

var log = logging.New(false, false)

// SetDebug enables or disables debug logging of entry operations to stderr.
// Secret values are never logged.
func SetDebug(enabled bool) {
	log.SetDebug(enabled)
}

// SetDefaultStore registers the store used by New and NewWithModifiers.
//
// This is meant for clients that use a single credential store. Clients
// using several stores at once should build entries directly via
// Store.Build for precise control over which store holds which credential.
func SetDefaultStore(store Store) {
	defaultStore.Lock()
	defer defaultStore.Unlock()
	defaultStore.store = store
	if store != nil {
		log.Debug("set default credential store to %s (%s)", store.Vendor(), store.ID())
	}
}

// UnsetDefaultStore clears the default store slot and returns the previous
// value, if any.
func UnsetDefaultStore() Store {
	defaultStore.Lock()
	defer defaultStore.Unlock()
	old := defaultStore.store
	defaultStore.store = nil
	log.Debug("unset the default credential store")
	return old
}

// DefaultStore returns the currently registered default store, or nil.
func DefaultStore() Store {
	defaultStore.RLock()
	defer defaultStore.RUnlock()
	return defaultStore.store
}

func buildDefault(service, user string, modifiers map[string]string) (*Entry, error) {
	defaultStore.RLock()
	defer defaultStore.RUnlock()
	if defaultStore.store == nil {
		return nil, ErrNoDefaultStore
	}
	return defaultStore.store.Build(service, user, modifiers)
}

// Entry is the caller-facing handle for one credential. Every method is a
// one-line forward to the underlying credential; nothing is retained or
// cached, so a specifier entry re-resolves on every call.
type Entry struct {
	credential Credential
}

// New creates a specifier entry for the given service and user using the
// default store. It fails with ErrNoDefaultStore if none is registered.
func New(service, user string) (*Entry, error) {
	log.Debug("creating entry with service %q, user %q", service, user)
	return buildDefault(service, user, nil)
}

// NewWithModifiers creates an entry for the given service and user, passing
// store-specific creation-time modifiers, using the default store. See the
// documentation of each store for its accepted modifiers.
func NewWithModifiers(service, user string, modifiers map[string]string) (*Entry, error) {
	log.Debug("creating entry with service %q, user %q, modifiers %v", service, user, modifiers)
	return buildDefault(service, user, modifiers)
}

// NewFromCredential wraps an entry around an existing credential from any
// store, bypassing the default-store slot. This is how stores hand out
// disambiguation and search results, and how clients adopt credentials
// created by third-party code.
func NewFromCredential(credential Credential) *Entry {
	return &Entry{credential: credential}
}

// Credential returns the underlying credential so callers can recover the
// store-specific concrete type through that store's typed accessor.
func (e *Entry) Credential() Credential {
	return e.credential
}

// IsSpecifier reports whether this entry resolves dynamically against the
// store. Entries created by New are always specifiers; entries returned by
// disambiguation or search never are.
func (e *Entry) IsSpecifier() bool {
	return e.credential.IsSpecifier()
}

// SetPassword stores a UTF-8 password as this entry's secret.
func (e *Entry) SetPassword(password string) error {
	log.Debug("set password for entry %v to %v", e.credential, logging.Secret(password))
	return e.credential.SetSecret([]byte(password))
}

// GetPassword retrieves this entry's secret as a UTF-8 string. It fails
// with a BadEncodingError if the stored secret is not valid UTF-8.
func (e *Entry) GetPassword() (string, error) {
	log.Debug("get password from entry %v", e.credential)
	secret, err := e.credential.GetSecret()
	if err != nil {
		return "", err
	}
	return DecodePassword(secret)
}

// SetSecret stores a byte sequence as this entry's secret.
func (e *Entry) SetSecret(secret []byte) error {
	log.Debug("set secret for entry %v", e.credential)
	return e.credential.SetSecret(secret)
}

// GetSecret retrieves this entry's secret as a byte sequence.
func (e *Entry) GetSecret() ([]byte, error) {
	log.Debug("get secret from entry %v", e.credential)
	return e.credential.GetSecret()
}

// GetAttributes returns the store-specific decorations on this entry's
// record.
func (e *Entry) GetAttributes() (map[string]string, error) {
	log.Debug("get attributes from entry %v", e.credential)
	return e.credential.GetAttributes()
}

// UpdateAttributes updates decorations on this entry's record. Unlike
// SetSecret, this never creates a record.
func (e *Entry) UpdateAttributes(attributes map[string]string) error {
	log.Debug("update attributes for entry %v from map %v", e.credential, attributes)
	return e.credential.UpdateAttributes(attributes)
}

// DeleteCredential removes this entry's record from the store. The entry
// handle itself stays valid; a specifier can recreate the record by setting
// a secret.
func (e *Entry) DeleteCredential() error {
	log.Debug("delete credential for entry %v", e.credential)
	return e.credential.Delete()
}

// Wrap returns an entry pinned to the record this entry currently resolves
// to, or (nil, nil) if this entry is already a wrapper.
func (e *Entry) Wrap() (*Entry, error) {
	log.Debug("wrap entry %v", e.credential)
	wrapped, err := e.credential.Wrap()
	if err != nil {
		return nil, err
	}
	if wrapped == nil {
		return nil, nil
	}
	return &Entry{credential: wrapped}, nil
}

// Specifiers returns the (service, user) pair for this entry, if any.
func (e *Entry) Specifiers() (service, user string, ok bool) {
	return e.credential.Specifiers()
}
