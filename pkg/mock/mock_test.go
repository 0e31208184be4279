package mock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
	"github.com/open-source-cooperative/keyring-core/pkg/keyring/storetest"
	"github.com/open-source-cooperative/keyring-core/pkg/mock"
)

func TestMockStoreContract(t *testing.T) {
	t.Parallel()
	storetest.Run(t, storetest.Config{
		NewStore: func(t *testing.T) keyring.Store { return mock.NewStore() },
	})
}

func TestEntriesAreIndependent(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	first, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	second, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)

	require.NoError(t, first.SetPassword("p1"))
	_, err = second.GetPassword()
	require.ErrorIs(t, err, keyring.ErrNoEntry, "mock entries never share state")
}

func TestClonedEntriesShareState(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	clone := keyring.NewFromCredential(entry.Credential())

	require.NoError(t, entry.SetPassword("shared"))
	got, err := clone.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "shared", got)
}

func TestArmedErrorIsOneShot(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	cred, ok := mock.CredentialFor(entry)
	require.True(t, ok)

	armed := &keyring.InvalidError{Field: "mock", Reason: "takes precedence"}
	cred.SetError(armed)
	err = entry.SetPassword("first attempt")
	var invalid *keyring.InvalidError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "mock", invalid.Field)

	// the error was consumed; the failed call must not have stored anything
	_, err = entry.GetPassword()
	require.ErrorIs(t, err, keyring.ErrNoEntry)
	require.NoError(t, entry.SetPassword("second attempt"))
	got, err := entry.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "second attempt", got)
}

func TestArmedErrorCoversEveryOperation(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	require.NoError(t, entry.SetPassword("base"))
	cred, ok := mock.CredentialFor(entry)
	require.True(t, ok)

	operations := []struct {
		name string
		call func() error
	}{
		{"SetPassword", func() error { return entry.SetPassword("x") }},
		{"GetPassword", func() error { _, err := entry.GetPassword(); return err }},
		{"GetAttributes", func() error { _, err := entry.GetAttributes(); return err }},
		{"UpdateAttributes", func() error { return entry.UpdateAttributes(nil) }},
		{"DeleteCredential", func() error { return entry.DeleteCredential() }},
	}
	for _, op := range operations {
		t.Run(op.name, func(t *testing.T) {
			cred.SetError(keyring.ErrNoEntry)
			require.ErrorIs(t, op.call(), keyring.ErrNoEntry)
		})
	}

	// nothing above actually deleted the secret
	got, err := entry.GetPassword()
	require.NoError(t, err)
	assert.Equal(t, "base", got)
}

func TestNoAttributes(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	require.NoError(t, entry.SetPassword("p"))

	attrs, err := entry.GetAttributes()
	require.NoError(t, err)
	assert.Empty(t, attrs)

	var notSupported *keyring.NotSupportedError
	require.ErrorAs(t, entry.UpdateAttributes(map[string]string{"comment": "x"}), &notSupported)
}

func TestWrapIsIdentity(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	assert.True(t, entry.IsSpecifier())

	wrapper, err := entry.Wrap()
	require.NoError(t, err)
	assert.Nil(t, wrapper, "mock credentials are already pinned")
}

func TestSpecifiers(t *testing.T) {
	t.Parallel()

	store := mock.NewStore()
	entry, err := store.Build("svc", "usr", nil)
	require.NoError(t, err)
	service, user, ok := entry.Specifiers()
	require.True(t, ok)
	assert.Equal(t, "svc", service)
	assert.Equal(t, "usr", user)
}
