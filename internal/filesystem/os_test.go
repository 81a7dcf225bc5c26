package filesystem_test

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsmigrate/internal/filesystem"
)

func TestOSFileSystemRoundTrip(testInstance *testing.T) {
	fileSystem := filesystem.OSFileSystem{}
	rootDirectory := testInstance.TempDir()
	sourcePath := filepath.Join(rootDirectory, "nested", "index.ts")

	require.NoError(testInstance, fileSystem.MkdirAll(filepath.Dir(sourcePath), 0o755))
	require.NoError(testInstance, fileSystem.WriteFile(sourcePath, []byte("const a: number = 1;"), 0o640))

	contents, readError := fileSystem.ReadFile(sourcePath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "const a: number = 1;", string(contents))

	fileInfo, statError := fileSystem.Stat(sourcePath)
	require.NoError(testInstance, statError)
	require.Equal(testInstance, fs.FileMode(0o640), fileInfo.Mode().Perm())

	var walkedFiles []string
	require.NoError(testInstance, fileSystem.WalkDir(rootDirectory, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !directoryEntry.IsDir() {
			walkedFiles = append(walkedFiles, path)
		}
		return nil
	}))
	require.Equal(testInstance, []string{sourcePath}, walkedFiles)

	renamedPath := filepath.Join(rootDirectory, "index.js")
	require.NoError(testInstance, fileSystem.Rename(sourcePath, renamedPath))
	require.NoError(testInstance, fileSystem.Remove(renamedPath))

	_, missingError := fileSystem.Stat(renamedPath)
	require.True(testInstance, errors.Is(missingError, fs.ErrNotExist))

	absolutePath, absError := fileSystem.Abs(".")
	require.NoError(testInstance, absError)
	require.True(testInstance, filepath.IsAbs(absolutePath))
}
