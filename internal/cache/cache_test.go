package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "encodings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGetRoundtrip(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "abc123", "account", "method deposit()\n"))

	entry, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", entry.Fingerprint)
	assert.Equal(t, "account", entry.ProgramName)
	assert.Equal(t, "method deposit()\n", entry.ViperText)
	assert.Equal(t, c.RunID(), entry.RunID)
	assert.NotEmpty(t, entry.CreatedAt)
}

func TestGetMiss(t *testing.T) {
	c := openTestCache(t)

	_, err := c.Get(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPutIsIdempotent(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "abc123", "account", "first"))
	require.NoError(t, c.Put(ctx, "abc123", "account", "second"))

	entry, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "first", entry.ViperText)
}

func TestHistory(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	empty, err := c.History(ctx, "account")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	require.NoError(t, c.Put(ctx, "aaa", "account", "v1"))
	require.NoError(t, c.Put(ctx, "bbb", "account", "v2"))
	require.NoError(t, c.Put(ctx, "ccc", "other", "x"))

	entries, err := c.History(ctx, "account")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "aaa", entries[0].Fingerprint)
	assert.Equal(t, "bbb", entries[1].Fingerprint)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "encodings.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(context.Background(), "abc", "p", "text"))
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	entry, err := second.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "text", entry.ViperText)
	assert.NotEqual(t, first.RunID(), second.RunID())
}
