// Package storetest provides a contract test suite that every keyring
// store implementation must pass. Store authors call Run from their own
// tests with a Config describing the store's optional capabilities.
package storetest

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// Config describes the store under test.
type Config struct {
	// NewStore creates a fresh store instance for a subtest.
	NewStore func(t *testing.T) keyring.Store

	// SupportsAttributes is true if the store exposes updatable record
	// decorations. Stores without support must still pass the default
	// behavior checks (empty map, NotSupportedError).
	SupportsAttributes bool

	// SupportsBinary is true if arbitrary byte secrets round-trip.
	// Stores limited to UTF-8 skip the binary round-trip check.
	SupportsBinary bool

	// SupportsSearch is true if Search is implemented. Stores without
	// support must return a NotSupportedError, which is checked.
	SupportsSearch bool
}

// RandomName returns a fresh alphanumeric identifier so contract subtests
// never collide on (service, user) pairs within a shared store.
func RandomName() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	name := make([]byte, 30)
	for i := range name {
		name[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(name)
}

// Run executes the contract suite against the configured store.
func Run(t *testing.T, cfg Config) {
	t.Run("Contract", func(t *testing.T) {
		t.Run("Identity", func(t *testing.T) { testIdentity(t, cfg) })
		t.Run("MissingEntry", func(t *testing.T) { testMissingEntry(t, cfg) })
		t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, cfg) })
		t.Run("Update", func(t *testing.T) { testUpdate(t, cfg) })
		t.Run("DeleteTwice", func(t *testing.T) { testDeleteTwice(t, cfg) })
		t.Run("SpecifierStability", func(t *testing.T) { testSpecifierStability(t, cfg) })
		t.Run("Attributes", func(t *testing.T) { testAttributes(t, cfg) })
		t.Run("Search", func(t *testing.T) { testSearch(t, cfg) })
		if cfg.SupportsBinary {
			t.Run("BinarySecret", func(t *testing.T) { testBinarySecret(t, cfg) })
		}
	})
}

// RoundTrip sets a password on entry, reads it back through reader, and
// requires an exact match. Exported for store-specific tests that need the
// same check against their own entry pairs.
func RoundTrip(t *testing.T, entry, reader *keyring.Entry, password string) {
	t.Helper()
	require.NoError(t, entry.SetPassword(password))
	got, err := reader.GetPassword()
	require.NoError(t, err)
	require.Equal(t, password, got)
}

func build(t *testing.T, store keyring.Store, service, user string) *keyring.Entry {
	t.Helper()
	entry, err := store.Build(service, user, nil)
	require.NoError(t, err)
	require.NotNil(t, entry)
	return entry
}

func testIdentity(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	require.NotEmpty(t, store.Vendor())
	require.NotEmpty(t, store.ID())
	// identity must be stable across calls
	assert.Equal(t, store.Vendor(), store.Vendor())
	assert.Equal(t, store.ID(), store.ID())
	assert.Equal(t, store.Persistence(), store.Persistence())
}

func testMissingEntry(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	entry := build(t, store, RandomName(), RandomName())
	_, err := entry.GetPassword()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
	_, err = entry.GetSecret()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
	_, err = entry.GetAttributes()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func testRoundTrip(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	cases := []struct {
		name     string
		password string
	}{
		{"ascii", "test ascii password"},
		{"non-ascii", "このきれいな花は桜です"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := build(t, store, RandomName(), RandomName())
			RoundTrip(t, entry, entry, tc.password)
			require.NoError(t, entry.DeleteCredential())
			_, err := entry.GetPassword()
			require.ErrorIs(t, err, keyring.ErrNoEntry)
		})
	}
}

func testUpdate(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	entry := build(t, store, RandomName(), RandomName())
	RoundTrip(t, entry, entry, "initial password")
	RoundTrip(t, entry, entry, "updated password")
	require.NoError(t, entry.DeleteCredential())
}

func testDeleteTwice(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	entry := build(t, store, RandomName(), RandomName())
	require.NoError(t, entry.SetPassword("short-lived"))
	require.NoError(t, entry.DeleteCredential())
	require.ErrorIs(t, entry.DeleteCredential(), keyring.ErrNoEntry)
}

// Two independently built specifiers for one pair must resolve to the same
// record: a write through either is visible through the other.
func testSpecifierStability(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	if store.Persistence() == keyring.PersistenceEntryOnly {
		t.Skip("entry-only stores keep secrets in the handle itself")
	}
	service, user := RandomName(), RandomName()
	first := build(t, store, service, user)
	second := build(t, store, service, user)
	if !first.IsSpecifier() || !second.IsSpecifier() {
		t.Skip("store does not build specifier entries")
	}
	RoundTrip(t, first, second, "written through first")
	RoundTrip(t, second, first, "written through second")
	require.NoError(t, first.DeleteCredential())
	_, err := second.GetPassword()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func testAttributes(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	entry := build(t, store, RandomName(), RandomName())
	require.NoError(t, entry.SetPassword("with attributes"))
	defer func() { _ = entry.DeleteCredential() }()

	attrs, err := entry.GetAttributes()
	require.NoError(t, err)
	require.NotNil(t, attrs)

	err = entry.UpdateAttributes(map[string]string{"comment": "contract"})
	if cfg.SupportsAttributes {
		require.NoError(t, err)
		attrs, err = entry.GetAttributes()
		require.NoError(t, err)
		assert.Equal(t, "contract", attrs["comment"])
	} else {
		var notSupported *keyring.NotSupportedError
		require.ErrorAs(t, err, &notSupported)
		assert.Equal(t, store.Vendor(), notSupported.Vendor)
	}
}

func testSearch(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	if !cfg.SupportsSearch {
		_, err := store.Search(map[string]string{"service": "anything"})
		var notSupported *keyring.NotSupportedError
		require.ErrorAs(t, err, &notSupported)
		return
	}
	service, user := RandomName(), RandomName()
	entry := build(t, store, service, user)
	require.NoError(t, entry.SetPassword("findable"))
	defer func() { _ = entry.DeleteCredential() }()

	results, err := store.Search(map[string]string{"service": service, "user": user})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].IsSpecifier(), "search results must be wrappers")
	got, err := results[0].GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "findable", got)
}

func testBinarySecret(t *testing.T, cfg Config) {
	store := cfg.NewStore(t)
	for i := 0; i < 3; i++ {
		t.Run(fmt.Sprintf("random-%d", i), func(t *testing.T) {
			entry := build(t, store, RandomName(), RandomName())
			secret := make([]byte, 24)
			for i := range secret {
				secret[i] = byte(rand.Intn(256))
			}
			require.NoError(t, entry.SetSecret(secret))
			got, err := entry.GetSecret()
			require.NoError(t, err)
			require.Equal(t, secret, got)
			require.NoError(t, entry.DeleteCredential())
			_, err = entry.GetSecret()
			require.ErrorIs(t, err, keyring.ErrNoEntry)
		})
	}
}
