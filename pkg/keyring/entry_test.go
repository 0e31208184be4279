package keyring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
	"github.com/open-source-cooperative/keyring-core/pkg/mock"
)

// The default-store slot is process-wide state, so these tests manage it
// explicitly and never run in parallel with each other.

func TestNewWithoutDefaultStore(t *testing.T) {
	keyring.UnsetDefaultStore()

	_, err := keyring.New("service", "user")
	require.ErrorIs(t, err, keyring.ErrNoDefaultStore)

	_, err = keyring.NewWithModifiers("service", "user", map[string]string{"create": "x"})
	require.ErrorIs(t, err, keyring.ErrNoDefaultStore)
}

func TestDefaultStoreRegistry(t *testing.T) {
	store := mock.NewStore()
	keyring.SetDefaultStore(store)
	defer keyring.UnsetDefaultStore()

	assert.Equal(t, keyring.Store(store), keyring.DefaultStore())

	entry, err := keyring.New("service", "user")
	require.NoError(t, err)
	require.NotNil(t, entry)

	old := keyring.UnsetDefaultStore()
	assert.Equal(t, keyring.Store(store), old)
	assert.Nil(t, keyring.DefaultStore())
	assert.Nil(t, keyring.UnsetDefaultStore())
}

func TestEntryForwardsToCredential(t *testing.T) {
	keyring.SetDefaultStore(mock.NewStore())
	defer keyring.UnsetDefaultStore()

	entry, err := keyring.New("svc", "usr")
	require.NoError(t, err)

	require.NoError(t, entry.SetPassword("p1"))
	got, err := entry.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "p1", got)

	secret, err := entry.GetSecret()
	require.NoError(t, err)
	assert.Equal(t, []byte("p1"), secret)

	service, user, ok := entry.Specifiers()
	require.True(t, ok)
	assert.Equal(t, "svc", service)
	assert.Equal(t, "usr", user)
	assert.True(t, entry.IsSpecifier())

	require.NoError(t, entry.DeleteCredential())
	_, err = entry.GetPassword()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func TestNewFromCredentialBypassesRegistry(t *testing.T) {
	keyring.UnsetDefaultStore()

	store := mock.NewStore()
	built, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)

	// no default store registered, yet the entry is fully usable
	entry := keyring.NewFromCredential(built.Credential())
	require.NoError(t, entry.SetPassword("direct"))
	got, err := entry.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "direct", got)
}

func TestEntryCloningSharesCredential(t *testing.T) {
	keyring.SetDefaultStore(mock.NewStore())
	defer keyring.UnsetDefaultStore()

	entry, err := keyring.New("svc", "usr")
	require.NoError(t, err)
	clone := keyring.NewFromCredential(entry.Credential())

	require.NoError(t, entry.SetPassword("shared"))
	got, err := clone.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "shared", got)
}

func TestGetPasswordBadEncoding(t *testing.T) {
	keyring.SetDefaultStore(mock.NewStore())
	defer keyring.UnsetDefaultStore()

	entry, err := keyring.New("svc", "usr")
	require.NoError(t, err)
	require.NoError(t, entry.SetSecret([]byte{0xed, 0xa0, 0xa0}))

	_, err = entry.GetPassword()
	var badEncoding *keyring.BadEncodingError
	require.ErrorAs(t, err, &badEncoding)
	assert.Equal(t, []byte{0xed, 0xa0, 0xa0}, badEncoding.Bytes)

	// the raw secret is still readable
	secret, err := entry.GetSecret()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xed, 0xa0, 0xa0}, secret)
}
