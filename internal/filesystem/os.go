// Package filesystem adapts operating system file primitives to the interfaces consumed by the migration stages.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements the migration FileSystem contract using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Rename renames a path.
func (OSFileSystem) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Abs resolves an absolute path.
func (OSFileSystem) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// ReadFile reads file contents.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to a file with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	return os.WriteFile(path, data, permissions)
}

// Remove deletes a single file or empty directory.
func (OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// WalkDir walks the tree rooted at root in lexical order.
func (OSFileSystem) WalkDir(root string, walkFunction fs.WalkDirFunc) error {
	return filepath.WalkDir(root, walkFunction)
}

// MkdirAll ensures a directory hierarchy exists with the provided permissions.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}
