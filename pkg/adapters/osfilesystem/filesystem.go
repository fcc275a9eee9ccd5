// Package osfilesystem provides a filesystem implementation using the os package.
package osfilesystem

import (
	"os"
	"path/filepath"

	"github.com/user/vidcomp/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// ReadFile reads the entire contents of a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file, creating parent directories as needed.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// MkdirAll creates a directory and all parent directories.
func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

// Ensure FileSystem implements ports.FileSystem
var _ ports.FileSystem = (*FileSystem)(nil)
