// Package storage resolves Calibre library files on the local filesystem:
// the metadata database, cover images, and book format files. "not found"
// is reported distinctly from other failures via calibre.ErrNotFound.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opdserve/opdserve/internal/calibre"
)

// metadataFilename is the Calibre database name inside a library root.
const metadataFilename = "metadata.db"

// Resolver locates library resources under a base directory holding one
// or more library roots.
type Resolver struct {
	baseDir string
}

// NewResolver creates a resolver rooted at the configured libraries base
// directory.
func NewResolver(baseDir string) *Resolver {
	return &Resolver{baseDir: baseDir}
}

// LibraryRoot resolves a library-relative path to an absolute directory,
// reporting ErrNotFound when it does not exist or is not a directory.
func (r *Resolver) LibraryRoot(library string) (string, error) {
	root := filepath.Join(r.baseDir, filepath.Clean("/"+library))
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("library %q: %w", library, calibre.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("library %q is not a directory: %w", library, calibre.ErrNotFound)
	}
	return root, nil
}

// MetadataPath returns the path of the library's metadata database,
// reporting ErrNotFound when it is missing or not a regular file.
func (r *Resolver) MetadataPath(root string) (string, error) {
	path := filepath.Join(root, metadataFilename)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("library metadata: %w", calibre.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("library metadata is not a regular file: %w", calibre.ErrNotFound)
	}
	return path, nil
}

// OpenCover opens the cover image of a book given its library-relative
// storage folder.
func (r *Resolver) OpenCover(root, bookPath string) (io.ReadCloser, error) {
	return openFile(filepath.Join(root, filepath.Clean("/"+bookPath), calibre.CoverFilename))
}

// OpenFormat opens one book format file given the owning book's storage
// folder and the format's book-relative file name.
func (r *Resolver) OpenFormat(root, bookPath, filename string) (io.ReadCloser, error) {
	return openFile(filepath.Join(root, filepath.Clean("/"+bookPath), filename))
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), calibre.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, fmt.Errorf("%s is not a regular file: %w", filepath.Base(path), calibre.ErrNotFound)
	}
	return f, nil
}
