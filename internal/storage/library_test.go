package storage

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdserve/opdserve/internal/calibre"
)

// newTestBase builds a base directory holding one library with a metadata
// file and one book folder.
func newTestBase(t *testing.T) string {
	t.Helper()
	base := t.TempDir()

	bookDir := filepath.Join(base, "Books", "John Doe", "Alpha Forge (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "Books", "metadata.db"), []byte("db"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "cover.jpg"), []byte("jpeg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "Alpha Forge - John Doe.epub"), []byte("epub"), 0o644))
	return base
}

func TestLibraryRoot(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)

	root, err := r.LibraryRoot("Books")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "Books"), root)
}

func TestLibraryRoot_Missing(t *testing.T) {
	r := NewResolver(newTestBase(t))

	_, err := r.LibraryRoot("Nope")
	assert.True(t, errors.Is(err, calibre.ErrNotFound))
}

func TestLibraryRoot_EscapeAttempt(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)

	// Traversal components are cleaned away, so the lookup stays inside
	// the base directory and misses.
	_, err := r.LibraryRoot("../../etc")
	assert.True(t, errors.Is(err, calibre.ErrNotFound))
}

func TestMetadataPath(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)

	root, err := r.LibraryRoot("Books")
	require.NoError(t, err)

	path, err := r.MetadataPath(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "metadata.db"), path)

	_, err = r.MetadataPath(filepath.Join(base, "missing"))
	assert.True(t, errors.Is(err, calibre.ErrNotFound))
}

func TestOpenCover(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)
	root := filepath.Join(base, "Books")

	f, err := r.OpenCover(root, "John Doe/Alpha Forge (1)")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(body))
}

func TestOpenFormat(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)
	root := filepath.Join(base, "Books")

	f, err := r.OpenFormat(root, "John Doe/Alpha Forge (1)", "Alpha Forge - John Doe.epub")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "epub", string(body))

	_, err = r.OpenFormat(root, "John Doe/Alpha Forge (1)", "missing.epub")
	assert.True(t, errors.Is(err, calibre.ErrNotFound))
}

func TestOpenCover_DirectoryIsNotFound(t *testing.T) {
	base := newTestBase(t)
	r := NewResolver(base)
	root := filepath.Join(base, "Books")

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Weird", "cover.jpg"), 0o755))
	_, err := r.OpenCover(root, "Weird")
	assert.True(t, errors.Is(err, calibre.ErrNotFound))
}
