// Package sample implements the reference credential store.
//
// The store keeps its records in a two-level in-memory map from
// (service, user) pairs to buckets of records keyed by uuid. It is provided
// for two purposes: it gives clients a cross-platform store to test against
// during development, and it serves as a template for developers writing
// keyring-compatible back ends. It is explicitly not for production use; it
// is neither robust nor secure, although secrets are at least held in
// memguard enclaves rather than plain process memory.
//
// # Persistence
//
// A store may be created with a backing file. Without one, it is purely
// in-memory and its records vanish when the process exits. With one, the
// whole record map is loaded from the file at creation and written back as
// a snapshot on Save or Close — never on individual mutations. Do not
// mistake the backing file for an up-to-date copy of the store: changes
// made after the last Save are lost if the store is never saved again, and
// two stores sharing one backing path will clobber each other's snapshots.
// The file format is YAML, with secrets encoded as base64 binary; format
// changes are breaking, as no schema version is recorded.
//
// # Ambiguity
//
// The store supports ambiguity: multiple records under one (service, user)
// pair. Passing the "create" modifier to Build immediately creates a new
// record with an empty secret for the pair and returns a wrapper entry
// pinned to it, so its password can be set right away. Whether that record
// is ambiguous depends on whether the bucket already held records;
// ambiguity is discovered on the next read or write through a specifier,
// not at build time. Records created this way carry two extra attributes:
//
//   - creation_time, the local creation time in a fixed textual format.
//     This cannot be updated.
//   - comment, the string value of the "create" modifier. This can be
//     updated.
//
// Every record additionally exposes its immutable uuid attribute.
//
// # Search
//
// Search specifications map field names to Go regular expressions, matched
// conjunctively. Recognized keys are "service", "user", "comment", and
// "uuid". A record with no comment does not match any comment constraint.
// Search is a full scan; no index is maintained.
package sample
