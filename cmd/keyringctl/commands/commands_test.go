package commands_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-source-cooperative/keyring-core/cmd/keyringctl/commands"
	"github.com/open-source-cooperative/keyring-core/pkg/keyring"
)

// run executes one keyringctl invocation against the given backing file.
// Each invocation gets a fresh command tree, the way a real process would.
func run(t *testing.T, file, stdin string, args ...string) (string, error) {
	t.Helper()
	root := commands.NewRootCommand("test")
	root.SetArgs(append(args, "--file", file, "--no-color"))
	root.SetIn(strings.NewReader(stdin))
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func storeFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "store.yaml")
}

func TestSetAndGet(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "hunter2\n", "set", "svc", "alice")
	require.NoError(t, err)

	out, err := run(t, file, "", "get", "svc", "alice")
	require.NoError(t, err)
	assert.Equal(t, "hunter2\n", out)
}

func TestSetWithoutTrailingNewline(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "piped-password", "set", "svc", "alice")
	require.NoError(t, err)

	out, err := run(t, file, "", "get", "svc", "alice")
	require.NoError(t, err)
	assert.Equal(t, "piped-password\n", out)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	_, err := run(t, storeFile(t), "", "get", "svc", "nobody")
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func TestDelete(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "doomed\n", "set", "svc", "alice")
	require.NoError(t, err)
	_, err = run(t, file, "", "delete", "svc", "alice")
	require.NoError(t, err)
	_, err = run(t, file, "", "get", "svc", "alice")
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func TestAttributes(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "p\n", "set", "svc", "alice")
	require.NoError(t, err)

	out, err := run(t, file, "", "attributes", "svc", "alice", "--set", "comment=rotated by ops")
	require.NoError(t, err)
	assert.Contains(t, out, "comment=rotated by ops\n")
	assert.Contains(t, out, "uuid=")

	// updates persist across invocations
	out, err = run(t, file, "", "attributes", "svc", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "comment=rotated by ops\n")

	// immutable attributes are refused
	_, err = run(t, file, "", "attributes", "svc", "alice", "--set", "uuid=forged")
	var invalid *keyring.InvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestAmbiguityAndUUIDPinning(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "first\n", "set", "svc", "alice")
	require.NoError(t, err)
	_, err = run(t, file, "second\n", "set", "svc", "alice", "--create", "second client")
	require.NoError(t, err)

	// the bare pair is now ambiguous
	_, err = run(t, file, "", "get", "svc", "alice")
	var ambiguous *keyring.AmbiguousError
	require.ErrorAs(t, err, &ambiguous)
	require.Len(t, ambiguous.Entries, 2)

	// list shows both records; pinning by uuid reaches each one
	out, err := run(t, file, "", "list")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "uuid="))

	passwords := map[string]bool{}
	for _, candidate := range ambiguous.Entries {
		attrs, err := candidate.GetAttributes()
		require.NoError(t, err)
		out, err := run(t, file, "", "get", "svc", "alice", "--uuid", attrs["uuid"])
		require.NoError(t, err)
		passwords[strings.TrimSuffix(out, "\n")] = true
	}
	assert.Equal(t, map[string]bool{"first": true, "second": true}, passwords)
}

func TestUUIDPinMiss(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	_, err := run(t, file, "p\n", "set", "svc", "alice")
	require.NoError(t, err)
	_, err = run(t, file, "", "get", "svc", "alice", "--uuid", "not-a-real-uuid")
	require.ErrorIs(t, err, keyring.ErrNoEntry)
}

func TestSearchCommand(t *testing.T) {
	t.Parallel()
	file := storeFile(t)

	for _, pair := range [][2]string{{"prod-db", "alice"}, {"prod-db", "bob"}, {"staging", "alice"}} {
		_, err := run(t, file, "p\n", "set", pair[0], pair[1])
		require.NoError(t, err)
	}

	out, err := run(t, file, "", "search", "service=^prod-")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "prod-db\t"))
	assert.NotContains(t, out, "staging")

	out, err = run(t, file, "", "search", "service=^prod-", "user=^alice$")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "uuid="))

	_, err = run(t, file, "", "search", "malformed-term")
	require.Error(t, err)

	_, err = run(t, file, "", "search", "flavor=x")
	var invalid *keyring.InvalidError
	require.ErrorAs(t, err, &invalid)
}

func TestListEmptyStore(t *testing.T) {
	t.Parallel()

	out, err := run(t, storeFile(t), "", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}
