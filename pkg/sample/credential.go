package sample

import (
	"fmt"
	"sort"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// Credential is the sample store's concrete credential. A credential with
// an empty uuid is a specifier: it resolves its (service, user) pair
// against the store's bucket on every call. A credential with a uuid is a
// wrapper, pinned forever to that record; it reports ErrNoEntry once the
// record is deleted, even if the bucket later holds a new record.
//
// Credentials hold a strong pointer to their store, so a store stays alive
// as long as any of its credentials does.
type Credential struct {
	store *Store
	id    credID
	uuid  string // "" for specifiers
}

// UUID returns the pinned record uuid, or "" for specifiers.
func (c *Credential) UUID() string {
	return c.uuid
}

// IsSpecifier reports whether this credential resolves dynamically.
func (c *Credential) IsSpecifier() bool {
	return c.uuid == ""
}

// Specifiers returns the (service, user) pair for this credential.
func (c *Credential) Specifiers() (string, string, bool) {
	return c.id.service, c.id.user, true
}

func (c *Credential) String() string {
	if c.uuid == "" {
		return fmt.Sprintf("%s[%s/%s]", c.store.ID(), c.id.service, c.id.user)
	}
	return fmt.Sprintf("%s[%s/%s#%s]", c.store.ID(), c.id.service, c.id.user, c.uuid)
}

// ambiguousError builds the disambiguation payload: one wrapper entry per
// record in the bucket, in uuid order. Called with the bucket lock held;
// only record uuids are touched.
func (c *Credential) ambiguousError(b *bucket) error {
	uuids := make([]string, 0, len(b.records))
	for u := range b.records {
		uuids = append(uuids, u)
	}
	sort.Strings(uuids)
	entries := make([]*keyring.Entry, 0, len(uuids))
	for _, u := range uuids {
		wrapper := &Credential{store: c.store, id: c.id, uuid: u}
		entries = append(entries, keyring.NewFromCredential(wrapper))
	}
	return &keyring.AmbiguousError{Entries: entries}
}

// resolve finds the single record this credential currently denotes.
//
// For a wrapper, that is the pinned record or nothing. For a specifier,
// resolution scans the bucket: zero records is ErrNoEntry, more than one is
// an AmbiguousError carrying wrapper entries. The bucket-wide count races
// with concurrent inserts and deletes by design; callers get the state the
// scan observed, not a snapshot-isolated view.
func (c *Credential) resolve() (*record, error) {
	b := c.store.bucketFor(c.id)
	if b == nil {
		return nil, keyring.ErrNoEntry
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if c.uuid != "" {
		rec := b.records[c.uuid]
		if rec == nil {
			return nil, keyring.ErrNoEntry
		}
		return rec, nil
	}
	switch len(b.records) {
	case 0:
		return nil, keyring.ErrNoEntry
	case 1:
		for _, rec := range b.records {
			return rec, nil
		}
	}
	return nil, c.ambiguousError(b)
}

// SetSecret stores the secret, creating the record if this credential is a
// specifier and its bucket has no records. The ambiguity check runs before
// any existence handling: a bucket holding more than one record always
// fails with an AmbiguousError, and the write does not happen.
func (c *Credential) SetSecret(secret []byte) error {
	if c.uuid != "" {
		rec, err := c.resolve()
		if err != nil {
			return err
		}
		rec.setSecret(secret)
		return nil
	}
	b := c.store.ensureBucket(c.id)
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) > 1 {
		return c.ambiguousError(b)
	}
	for _, rec := range b.records {
		rec.setSecret(secret)
		return nil
	}
	rec := newRecord(secret)
	b.records[rec.id] = rec
	return nil
}

// GetSecret retrieves the secret of the single matching record.
func (c *Credential) GetSecret() ([]byte, error) {
	rec, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return rec.getSecret()
}

// GetAttributes returns the record's decorations: always "uuid", plus
// "comment" and "creation_time" when set.
func (c *Credential) GetAttributes() (map[string]string, error) {
	rec, err := c.resolve()
	if err != nil {
		return nil, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	attrs := map[string]string{"uuid": rec.id}
	if rec.comment != nil {
		attrs["comment"] = *rec.comment
	}
	if rec.created != nil {
		attrs["creation_time"] = *rec.created
	}
	return attrs, nil
}

// UpdateAttributes overwrites the record's mutable decorations. "comment"
// is the only mutable attribute; naming "uuid" or "creation_time" rejects
// the whole request without mutating anything, and unrecognized keys are
// accepted but ignored.
func (c *Credential) UpdateAttributes(attributes map[string]string) error {
	rec, err := c.resolve()
	if err != nil {
		return err
	}
	for _, immutable := range []string{"uuid", "creation_time"} {
		if _, ok := attributes[immutable]; ok {
			return &keyring.InvalidError{Field: immutable, Reason: "attribute cannot be updated"}
		}
	}
	if comment, ok := attributes["comment"]; ok {
		rec.mu.Lock()
		rec.comment = &comment
		rec.mu.Unlock()
	}
	return nil
}

// Delete removes the single matching record from its bucket. The bucket
// itself remains; an emptied bucket behaves exactly like one that never
// existed.
func (c *Credential) Delete() error {
	b := c.store.bucketFor(c.id)
	if b == nil {
		return keyring.ErrNoEntry
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	target := c.uuid
	if target == "" {
		if len(b.records) > 1 {
			return c.ambiguousError(b)
		}
		for u := range b.records {
			target = u
		}
	}
	rec := b.records[target]
	if rec == nil {
		return keyring.ErrNoEntry
	}
	rec.mu.Lock()
	rec.secret.Wipe()
	rec.mu.Unlock()
	delete(b.records, target)
	return nil
}

// Wrap returns a credential pinned to the record this specifier currently
// resolves to, or (nil, nil) if this credential is already a wrapper.
func (c *Credential) Wrap() (keyring.Credential, error) {
	if c.uuid != "" {
		return nil, nil
	}
	rec, err := c.resolve()
	if err != nil {
		return nil, err
	}
	return &Credential{store: c.store, id: c.id, uuid: rec.id}, nil
}
