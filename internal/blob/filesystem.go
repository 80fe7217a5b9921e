package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystem stores each blob as a file named by its key:
//
//	<root>/
//	  content/
//	    <checksum>
type FileSystem struct {
	root       string
	contentDir string
}

// NewFileSystem creates the directory layout under root if needed.
func NewFileSystem(root string) (*FileSystem, error) {
	contentDir := filepath.Join(root, "content")
	if err := os.MkdirAll(contentDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create content directory: %w", err)
	}
	return &FileSystem{root: root, contentDir: contentDir}, nil
}

// Put writes content under key. An existing blob is left untouched.
func (f *FileSystem) Put(_ context.Context, key string, content []byte) error {
	destPath, err := f.path(key)
	if err != nil {
		return err
	}
	if _, err := os.Stat(destPath); err == nil {
		return nil
	}
	return writeFileAtomic(destPath, content)
}

func (f *FileSystem) Get(_ context.Context, key string) ([]byte, error) {
	srcPath, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(srcPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Path returns the file backing key.
func (f *FileSystem) Path(key string) string {
	return filepath.Join(f.contentDir, key)
}

func (f *FileSystem) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return f.Path(key), nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it into place, so readers see either nothing or the whole blob.
func writeFileAtomic(destPath string, content []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

var _ Store = (*FileSystem)(nil)
