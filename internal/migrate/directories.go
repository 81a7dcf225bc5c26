package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	relocationSkippedMessageConstant         = "template directory not found; skipping relocation"
	relocationCompletedMessageConstant       = "Relocated template directory"
	relocationSourceFieldConstant            = "source"
	relocationTargetFieldConstant            = "target"
	inspectRelocationSourceTemplateConstant  = "unable to inspect template directory %s: %w"
	inspectRelocationTargetTemplateConstant  = "unable to inspect relocation target %s: %w"
	relocationSourceNotDirectoryTemplate     = "template path is not a directory: %s"
	relocationParentCreationTemplateConstant = "unable to create parent directory for %s: %w"
	relocationRenameTemplateConstant         = "unable to rename %s to %s: %w"
	relocationDirectoryPermissionsConstant   = fs.FileMode(0o755)
)

// DirectoryRelocator renames the template directory inside the repository.
type DirectoryRelocator struct {
	logger     *zap.Logger
	fileSystem FileSystem
}

// NewDirectoryRelocator constructs a DirectoryRelocator.
func NewDirectoryRelocator(logger *zap.Logger, fileSystem FileSystem) *DirectoryRelocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryRelocator{logger: logger, fileSystem: fileSystem}
}

// Relocate renames source to target, both relative to repositoryRoot. A missing source is skipped,
// so a second run is a no-op. An existing target yields TargetExistsError.
func (relocator *DirectoryRelocator) Relocate(executionContext context.Context, repositoryRoot string, source string, target string) (RelocationOutcome, error) {
	outcome := RelocationOutcome{Source: source, Target: target}
	if contextError := executionContext.Err(); contextError != nil {
		return outcome, contextError
	}

	sourcePath := filepath.Join(repositoryRoot, source)
	targetPath := filepath.Join(repositoryRoot, target)

	pending, inspectionError := relocator.inspect(sourcePath, targetPath)
	if inspectionError != nil {
		return outcome, inspectionError
	}
	if !pending {
		relocator.logger.Info(relocationSkippedMessageConstant, zap.String(relocationSourceFieldConstant, sourcePath))
		return outcome, nil
	}

	if mkdirError := relocator.fileSystem.MkdirAll(filepath.Dir(targetPath), relocationDirectoryPermissionsConstant); mkdirError != nil {
		return outcome, fmt.Errorf(relocationParentCreationTemplateConstant, targetPath, mkdirError)
	}
	if renameError := relocator.fileSystem.Rename(sourcePath, targetPath); renameError != nil {
		return outcome, fmt.Errorf(relocationRenameTemplateConstant, sourcePath, targetPath, renameError)
	}

	relocator.logger.Info(
		relocationCompletedMessageConstant,
		zap.String(relocationSourceFieldConstant, source),
		zap.String(relocationTargetFieldConstant, target),
	)
	outcome.Relocated = true
	return outcome, nil
}

// inspect reports whether a rename is pending and rejects conflicting targets.
func (relocator *DirectoryRelocator) inspect(sourcePath string, targetPath string) (bool, error) {
	sourceInfo, sourceStatError := relocator.fileSystem.Stat(sourcePath)
	if sourceStatError != nil {
		if errors.Is(sourceStatError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(inspectRelocationSourceTemplateConstant, sourcePath, sourceStatError)
	}
	if !sourceInfo.IsDir() {
		return false, fmt.Errorf(relocationSourceNotDirectoryTemplate, sourcePath)
	}

	_, targetStatError := relocator.fileSystem.Stat(targetPath)
	if targetStatError == nil {
		return false, TargetExistsError{Path: targetPath}
	}
	if !errors.Is(targetStatError, fs.ErrNotExist) {
		return false, fmt.Errorf(inspectRelocationTargetTemplateConstant, targetPath, targetStatError)
	}
	return true, nil
}
