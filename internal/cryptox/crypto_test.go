package cryptox

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(key1) != 32 {
		t.Errorf("expected 32-byte key, got %d", len(key1))
	}
	if bytes.Equal(key1, DeriveKey(password, []byte("other-salt"))) {
		t.Errorf("different salts must give different keys")
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h1, err := HashPassword("hunter2")
	require.NoError(t, err)
	h2, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "salt must be random")
	assert.Len(t, h1, 2*saltSize+1+64)
	assert.True(t, strings.Contains(h1, ":"))

	ok, err := VerifyPassword("hunter2", h1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", h1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	for _, h := range []string{"", "nocolon", "zz:00", "00:zz"} {
		_, err := VerifyPassword("x", h)
		assert.ErrorIs(t, err, ErrMalformedHash, "hash %q", h)
	}
}
