package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	k1 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))
	k2 := DeriveKey([]byte("secret-password"), []byte("fixed-salt"))

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	k1 := DeriveKey([]byte("secret-password"), []byte("salt-1"))
	k2 := DeriveKey([]byte("secret-password"), []byte("salt-2"))
	assert.NotEqual(t, k1, k2)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	plain := []byte(`{"vault_info":{"title":"Family"}}`)

	sealed, err := Seal(plain, []byte("correct horse"))
	require.NoError(t, err)
	require.True(t, IsSealed(sealed))
	assert.False(t, bytes.Contains(sealed, []byte("Family")), "plaintext must not leak")

	got, err := Open(sealed, []byte("correct horse"))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSeal_FreshSaltEachTime(t *testing.T) {
	a, err := Seal([]byte("x"), []byte("pw"))
	require.NoError(t, err)
	b, err := Seal([]byte("x"), []byte("pw"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestOpen_WrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("right"))
	require.NoError(t, err)

	_, err = Open(sealed, []byte("wrong"))
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestOpen_Tampered(t *testing.T) {
	sealed, err := Seal([]byte("data"), []byte("pw"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = Open(sealed, []byte("pw"))
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestOpen_NotSealedAndTruncated(t *testing.T) {
	_, err := Open([]byte(`{"plain":true}`), []byte("pw"))
	require.ErrorIs(t, err, ErrNotSealed)

	_, err = Open(append([]byte("AFTERYOU1"), 1, 2, 3), []byte("pw"))
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestSeal_EmptyPassphrase(t *testing.T) {
	_, err := Seal([]byte("data"), nil)
	require.ErrorIs(t, err, ErrEmptyPassphrase)
}

func TestSeal_RandFailure(t *testing.T) {
	old := randRead
	t.Cleanup(func() { randRead = old })
	randRead = func(b []byte) (int, error) { return 0, errors.New("no entropy") }

	_, err := Seal([]byte("data"), []byte("pw"))
	require.ErrorContains(t, err, "no entropy")
}
