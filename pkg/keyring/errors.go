package keyring

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Sentinel errors. Match them with errors.Is.
var (
	// ErrNoEntry indicates that there is no record in the store for
	// this entry: either one was never set, or it was deleted.
	ErrNoEntry = errors.New("no matching entry found in secure storage")

	// ErrNoDefaultStore indicates that no default store has been
	// registered; the client must call SetDefaultStore before creating
	// entries implicitly.
	ErrNoDefaultStore = errors.New("no default store has been set, so cannot search or create entries")
)

// AmbiguousError indicates that more than one record in the store matches
// the entry. Entries holds one wrapper entry per matching record; operating
// on one of them pins the operation to that record.
type AmbiguousError struct {
	Entries []*Entry
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("entry is matched by %d credentials", len(e.Entries))
}

// InvalidError indicates that a caller-supplied parameter (service, user,
// modifier, attribute, or search pattern) was not acceptable.
type InvalidError struct {
	Field  string
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("attribute %s is invalid: %s", e.Field, e.Reason)
}

// BadEncodingError indicates that a stored secret was not a valid UTF-8
// string when a string-typed read was requested. The raw bytes are attached
// for examination.
type BadEncodingError struct {
	Bytes []byte
}

func (e *BadEncodingError) Error() string {
	return "data is not UTF-8 encoded"
}

// NotSupportedError indicates that the store handling the request does not
// implement the requested operation.
type NotSupportedError struct {
	Vendor string
}

func (e *NotSupportedError) Error() string {
	return fmt.Sprintf("the store (%s) does not support this operation", e.Vendor)
}

// PlatformError indicates a runtime failure in the underlying storage
// system. The inner error carries the details.
type PlatformError struct {
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform secure storage failure: %v", e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NoStorageAccessError indicates that the storage holding saved records
// could not be accessed, typically because of platform access rules such as
// a locked credential store.
type NoStorageAccessError struct {
	Err error
}

func (e *NoStorageAccessError) Error() string {
	return fmt.Sprintf("couldn't access platform secure storage: %v", e.Err)
}

func (e *NoStorageAccessError) Unwrap() error {
	return e.Err
}

// DecodePassword interprets a secret as a UTF-8 password string. If the
// bytes are not valid UTF-8, it returns a BadEncodingError carrying them.
func DecodePassword(secret []byte) (string, error) {
	if !utf8.Valid(secret) {
		return "", &BadEncodingError{Bytes: secret}
	}
	return string(secret), nil
}
