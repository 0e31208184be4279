package secure_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-source-cooperative/keyring-core/internal/secure"
)

func TestBufferRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("hunter2")
	buf := secure.NewBuffer(secret)
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), got)

	// repeated reads keep working; opening an enclave must not consume it
	got, err = buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), got)
}

func TestBufferCopiesInput(t *testing.T) {
	t.Parallel()

	original := []byte("mutate me")
	buf := secure.NewBuffer(original)

	// the caller's slice is untouched, and later changes to it are invisible
	assert.Equal(t, []byte("mutate me"), original)
	original[0] = 'X'
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("mutate me"), got)
}

func TestBufferSet(t *testing.T) {
	t.Parallel()

	buf := secure.NewBuffer([]byte("before"))
	buf.Set([]byte("after"))
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), got)
}

func TestEmptySecret(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, {}} {
		buf := secure.NewBuffer(data)
		got, err := buf.Bytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{}, got)
	}

	// shrinking to empty and growing back both work
	buf := secure.NewBuffer([]byte("full"))
	buf.Set(nil)
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Empty(t, got)
	buf.Set([]byte("refilled"))
	got, err = buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("refilled"), got)
}

func TestWipe(t *testing.T) {
	t.Parallel()

	buf := secure.NewBuffer([]byte("doomed"))
	buf.Wipe()
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBinaryContent(t *testing.T) {
	t.Parallel()

	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	buf := secure.NewBuffer(data)
	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	buf := secure.NewBuffer([]byte("initial"))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				buf.Set([]byte("written"))
			} else {
				_, _ = buf.Bytes()
			}
		}(i)
	}
	wg.Wait()

	got, err := buf.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("written"), got)
}
