package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/formflow/pkg/adapters/file"
	"github.com/aretw0/formflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunNameReserverContract(t, store)
}

func TestFileStore_ExistingFileIsTaken(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "form42.pdf"), []byte("old"), 0644))

	store := file.New(dir)
	ok, err := store.Reserve(context.Background(), "form42.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_WriteReplacesPlaceholder(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "published")
	store := file.New(dir)

	ok, err := store.Reserve(ctx, "form9.pdf")
	require.NoError(t, err)
	require.True(t, ok)

	info, err := os.Stat(filepath.Join(dir, "form9.pdf"))
	require.NoError(t, err)
	assert.Zero(t, info.Size(), "placeholder should be empty")

	require.NoError(t, store.Write(ctx, "form9.pdf", []byte("%PDF-1.7")))

	data, err := os.ReadFile(filepath.Join(dir, "form9.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"form9.pdf"}, names, "temp files must not linger")
}

func TestFileStore_ReleaseKeepsWrittenDocuments(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.New(dir)

	require.NoError(t, store.Write(ctx, "form1.pdf", []byte("done")))
	require.NoError(t, store.Release(ctx, "form1.pdf"))

	_, err := os.Stat(filepath.Join(dir, "form1.pdf"))
	assert.NoError(t, err)

	assert.NoError(t, store.Release(ctx, "never-reserved.pdf"))
}

func TestFileStore_RejectsPaths(t *testing.T) {
	store := file.New(t.TempDir())

	for _, name := range []string{"", "../escape.pdf", "sub/form1.pdf", ".hidden"} {
		_, err := store.Reserve(context.Background(), name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	names, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
