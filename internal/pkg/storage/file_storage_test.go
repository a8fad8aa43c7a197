package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage_Save(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewDiskStorage(dir)
	require.NoError(t, err)

	t.Run("stores under a generated key, keeping the extension", func(t *testing.T) {
		key, err := fs.Save("notes.txt", strings.NewReader("hello"))
		require.NoError(t, err)

		assert.NotEqual(t, "notes.txt", key)
		assert.True(t, strings.HasSuffix(key, ".txt"))

		data, err := os.ReadFile(filepath.Join(dir, key))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("same original name never collides", func(t *testing.T) {
		first, err := fs.Save("notes.txt", strings.NewReader("first"))
		require.NoError(t, err)
		second, err := fs.Save("notes.txt", strings.NewReader("second"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)

		data, err := os.ReadFile(filepath.Join(dir, first))
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})

	t.Run("path traversal in the original name stays inside the directory", func(t *testing.T) {
		key, err := fs.Save("../../etc/passwd", strings.NewReader("nope"))
		require.NoError(t, err)

		assert.NotContains(t, key, "..")
		assert.FileExists(t, filepath.Join(dir, key))
	})
}

func TestDiskStorage_Remove(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewDiskStorage(dir)
	require.NoError(t, err)

	key, err := fs.Save("notes.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	require.NoError(t, fs.Remove(key))
	assert.NoFileExists(t, filepath.Join(dir, key))
}
