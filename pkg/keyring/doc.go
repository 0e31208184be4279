// Package keyring defines a plug-and-play model for credential stores.
//
// The model comprises two interfaces: Store for store-level operations and
// Credential for record-level operations. Both must be implemented in a
// thread-safe way; multiple goroutines may call any method concurrently
// without external locking.
//
// # Entries
//
// Client code manipulates an Entry, a thin façade over a Credential. Entries
// support setting, getting, and deleting UTF-8 passwords and binary secrets.
//
// There are two ways of thinking about what an entry is:
//
//   - Entry as specifier: the entry names a credential by a service name and
//     username, and the store determines at call time which record in the
//     store is specified by that pair. Setting the password of a specifier
//     whose record does not exist creates the record.
//
//   - Entry as wrapper: the entry wraps one specific, existing record. If
//     that record is deleted, operations on the entry fail with ErrNoEntry;
//     the entry never silently re-targets another record.
//
// Entries created with New or NewWithModifiers are specifiers. Wrappers are
// produced by disambiguation, by Entry.Wrap, or by Store.Search.
//
// # Ambiguity
//
// A specifier's (service, user) pair may match more than one record in the
// store, for example when another client with different conventions has
// written a credential for the same pair. Reading or writing through such a
// specifier fails with an AmbiguousError whose Entries field holds one
// wrapper entry per matching record. The only way out is to operate on one
// of those wrappers directly, which pins the operation to a single record.
//
// # Attributes
//
// Stores may decorate records with additional key-value attributes.
// Entry.GetAttributes returns them; Entry.UpdateAttributes asks the store to
// update the mutable ones. Attribute semantics are store-specific; this
// package passes them through as opaque string pairs.
//
// # The default store
//
// A process-wide slot holds the store consulted by New and NewWithModifiers.
// Register one at application startup with SetDefaultStore. Code that works
// with multiple stores at once can bypass the slot entirely by calling
// Store.Build and NewFromCredential.
//
// Three stores ship with this module: the reference store in pkg/sample
// (in-memory, optionally file-backed, supports ambiguity and search), the
// client-testing store in pkg/mock, and an OS credential manager adapter in
// pkg/platform. The first two are not warranted to be secure or robust; they
// exist for testing and as templates for real back ends.
package keyring
