package keyring

// Credential is the record-level capability interface that every credential
// store back end must implement.
//
// A credential is either a specifier, which resolves its (service, user)
// pair against the store at call time, or a wrapper, which is pinned to one
// specific record. See the package documentation for the full model.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Credential interface {
	// SetSecret stores the given bytes as the credential's secret.
	//
	// For a specifier with no matching record, the store creates the
	// record and saves the secret in it. If more than one record matches,
	// SetSecret fails with an AmbiguousError and nothing is written. For
	// a wrapper whose record has been deleted, it fails with ErrNoEntry.
	SetSecret(secret []byte) error

	// GetSecret retrieves the credential's secret.
	//
	// Fails with ErrNoEntry if no record matches, or with an
	// AmbiguousError if more than one does.
	GetSecret() ([]byte, error)

	// GetAttributes returns the store-specific decorations on the
	// credential's record. The error cases are the same as GetSecret's.
	// Stores without attribute support return an empty map after the
	// existence check.
	GetAttributes() (map[string]string, error)

	// UpdateAttributes updates decorations on the credential's record.
	//
	// If any supplied key cannot be updated, the whole request fails
	// with an InvalidError naming that key and nothing is mutated.
	// Unrecognized keys are accepted and ignored unless the store
	// documents stricter validation. Stores without attribute support
	// return a NotSupportedError.
	UpdateAttributes(attributes map[string]string) error

	// Delete removes the credential's record from the store. The error
	// cases are the same as GetSecret's. Deleting does not invalidate
	// the credential handle itself; a later SetSecret through a
	// specifier will recreate the record.
	Delete() error

	// Wrap returns a credential pinned to the record this credential
	// currently resolves to, or (nil, nil) if the receiver is already a
	// wrapper. The error cases are the same as GetSecret's.
	Wrap() (Credential, error)

	// Specifiers returns the (service, user) pair for this credential.
	// ok is false for credentials that carry no specification, such as
	// those produced by third-party code and wrapped directly.
	Specifiers() (service, user string, ok bool)

	// IsSpecifier reports whether this credential resolves dynamically
	// against the store rather than being pinned to one record.
	IsSpecifier() bool
}

// Store is the store-level capability interface that every credential store
// back end must implement.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Vendor names the provider of this store. The string should be
	// stable across versions so clients can conditionalize on it; a
	// module URL is a good choice.
	Vendor() string

	// ID identifies this store instance within the process. IDs need
	// not be unique across vendors or processes, but two stores in one
	// process with the same vendor and ID are the same instance.
	ID() string

	// Build creates an entry for the given service and user, optionally
	// decorated with store-specific creation-time modifiers. Pass nil
	// for no modifiers; unknown modifier keys fail with an InvalidError.
	//
	// Building an entry normally has no effect on the content of the
	// store: a record need not exist until the entry's secret is set.
	// Stores may document modifiers that force immediate creation.
	Build(service, user string, modifiers map[string]string) (*Entry, error)

	// Search returns one wrapper entry per record matching the given
	// specification. Recognized keys and pattern syntax are
	// store-specific; an invalid pattern fails with an InvalidError
	// naming the offending key. Stores without search support must
	// return a NotSupportedError rather than an empty result.
	Search(spec map[string]string) ([]*Entry, error)

	// Persistence reports the lifetime class of records created by this
	// store. Stores with disk-based storage return UntilDelete.
	Persistence() Persistence
}

// Persistence describes how long a store's records outlive the process that
// created them.
type Persistence int

const (
	// PersistenceUnspecified is a placeholder for cases not handled here.
	PersistenceUnspecified Persistence = iota
	// PersistenceEntryOnly means storage lives in the entry itself and
	// vanishes when the entry is released.
	PersistenceEntryOnly
	// PersistenceProcessOnly means storage is process memory and
	// vanishes when the process terminates.
	PersistenceProcessOnly
	// PersistenceUntilLogout means storage is user-session memory and
	// vanishes when the user logs out.
	PersistenceUntilLogout
	// PersistenceUntilReboot means storage is kernel memory and
	// vanishes when the machine reboots.
	PersistenceUntilReboot
	// PersistenceUntilDelete means storage is on disk and persists
	// until the record is deleted.
	PersistenceUntilDelete
)

// String returns the lifetime class name.
func (p Persistence) String() string {
	switch p {
	case PersistenceEntryOnly:
		return "entry-only"
	case PersistenceProcessOnly:
		return "process-only"
	case PersistenceUntilLogout:
		return "until-logout"
	case PersistenceUntilReboot:
		return "until-reboot"
	case PersistenceUntilDelete:
		return "until-delete"
	default:
		return "unspecified"
	}
}
