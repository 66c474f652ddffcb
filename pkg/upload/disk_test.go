package upload

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSaveAndClaim(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 0)
	require.NoError(t, err)
	ctx := context.Background()

	tempID, err := store.Save(ctx, "notes.txt", "text/plain", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	require.NotEmpty(t, tempID)

	file, err := store.Claim(ctx, tempID)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", file.Filename)
	assert.Equal(t, "text/plain", file.ContentType)
	assert.Equal(t, int64(5), file.Size)

	body, err := io.ReadAll(file.Reader)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	// Closing removes the temp file; a second claim fails.
	require.NoError(t, file.Close())
	_, err = os.Stat(file.Path)
	assert.True(t, os.IsNotExist(err))
	_, err = store.Claim(ctx, tempID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStoreClaimSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewDiskStore(dir, 0)
	require.NoError(t, err)
	tempID, err := store.Save(ctx, "kept.bin", "application/octet-stream", 4, strings.NewReader("data"))
	require.NoError(t, err)

	// A fresh store instance recovers metadata from the sidecar file.
	fresh, err := NewDiskStore(dir, 0)
	require.NoError(t, err)
	file, err := fresh.Claim(ctx, tempID)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "kept.bin", file.Filename)
}

func TestDiskStoreSizeLimit(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), 4)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Save(ctx, "big.txt", "text/plain", 10, strings.NewReader("0123456789"))
	assert.ErrorIs(t, err, ErrTooLarge)

	// A lying declared size is caught by the actual byte count.
	_, err = store.Save(ctx, "liar.txt", "text/plain", 2, strings.NewReader("0123456789"))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Save(ctx, "ok.txt", "text/plain", 4, strings.NewReader("1234"))
	assert.NoError(t, err)
}

func TestDiskStoreCleanup(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, 0)
	require.NoError(t, err)
	ctx := context.Background()

	oldID, err := store.Save(ctx, "old.txt", "text/plain", 3, strings.NewReader("old"))
	require.NoError(t, err)
	newID, err := store.Save(ctx, "new.txt", "text/plain", 3, strings.NewReader("new"))
	require.NoError(t, err)

	// Backdate the old entry past the cutoff.
	store.mu.Lock()
	store.files[oldID].CreatedAt = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldID), past, past))
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldID+".meta"), past, past))

	require.NoError(t, store.Cleanup(ctx, time.Hour))

	_, err = store.Claim(ctx, oldID)
	assert.ErrorIs(t, err, ErrNotFound)
	file, err := store.Claim(ctx, newID)
	require.NoError(t, err)
	file.Close()
}
