package storage

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "test-secret", time.Hour)
	require.NoError(t, err)
	return store
}

func TestPutOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	content := []byte("receipt bytes")
	require.NoError(t, store.Put("comp-1/rcpt-1.pdf", content))

	reader, err := store.Open("comp-1/rcpt-1.pdf")
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestOpenMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("comp-1/nope.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestDeleteMissingIsNoError(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete("comp-1/nope.pdf"))
}

func TestRejectsTraversalKeys(t *testing.T) {
	store := newTestStore(t)

	for _, key := range []string{
		"../outside.txt",
		"..",
		"comp-1/../../outside.txt",
		"/etc/passwd",
		".",
		"",
	} {
		t.Run(key, func(t *testing.T) {
			err := store.Put(key, []byte("x"))
			require.Error(t, err, "key %q must be rejected", key)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))

			_, err = store.Open(key)
			assert.Error(t, err)
		})
	}
}

func TestSignVerifyKey(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	expires, sig := store.SignKey("comp-1/rcpt-1.pdf", now)
	assert.Greater(t, expires, now.Unix())

	assert.NoError(t, store.VerifyKey("comp-1/rcpt-1.pdf", expires, sig))

	// Wrong key
	err := store.VerifyKey("comp-1/other.pdf", expires, sig)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))

	// Tampered signature
	err = store.VerifyKey("comp-1/rcpt-1.pdf", expires, sig+"ff")
	assert.Error(t, err)

	// Tampered expiry
	err = store.VerifyKey("comp-1/rcpt-1.pdf", expires+60, sig)
	assert.Error(t, err)
}

func TestVerifyKeyExpired(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "test-secret", -time.Minute)
	require.NoError(t, err)

	expires, sig := store.SignKey("comp-1/rcpt-1.pdf", time.Now())
	err = store.VerifyKey("comp-1/rcpt-1.pdf", expires, sig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestDifferentSecretsProduceDifferentSignatures(t *testing.T) {
	a, err := NewLocalStore(t.TempDir(), "secret-a", time.Hour)
	require.NoError(t, err)
	b, err := NewLocalStore(t.TempDir(), "secret-b", time.Hour)
	require.NoError(t, err)

	now := time.Now()
	expiresA, sigA := a.SignKey("k", now)
	assert.Error(t, b.VerifyKey("k", expiresA, sigA))
}
