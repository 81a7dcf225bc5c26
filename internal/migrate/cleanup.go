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
	configurationFileAbsentMessageConstant  = "configuration file not present"
	configurationFileRemovedMessageConstant = "Removed configuration file"
	configurationFileFieldConstant          = "configuration_file"
	inspectConfigurationFileTemplate        = "unable to inspect configuration file %s: %w"
	removeConfigurationFileTemplate         = "unable to remove configuration file %s: %w"
)

// ConfigurationFileRemover deletes leftover compiler configuration files from the repository root.
type ConfigurationFileRemover struct {
	logger     *zap.Logger
	fileSystem FileSystem
}

// NewConfigurationFileRemover constructs a ConfigurationFileRemover.
func NewConfigurationFileRemover(logger *zap.Logger, fileSystem FileSystem) *ConfigurationFileRemover {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationFileRemover{logger: logger, fileSystem: fileSystem}
}

// Remove deletes each named file under repositoryRoot that exists and returns the names it removed.
// Absent files are not an error.
func (remover *ConfigurationFileRemover) Remove(executionContext context.Context, repositoryRoot string, names []string) ([]string, error) {
	removedNames := []string{}
	for _, name := range names {
		if contextError := executionContext.Err(); contextError != nil {
			return removedNames, contextError
		}

		present, inspectionError := remover.Present(repositoryRoot, name)
		if inspectionError != nil {
			return removedNames, inspectionError
		}
		filePath := filepath.Join(repositoryRoot, name)
		if !present {
			remover.logger.Debug(configurationFileAbsentMessageConstant, zap.String(configurationFileFieldConstant, filePath))
			continue
		}

		if removeError := remover.fileSystem.Remove(filePath); removeError != nil {
			return removedNames, fmt.Errorf(removeConfigurationFileTemplate, filePath, removeError)
		}
		remover.logger.Info(configurationFileRemovedMessageConstant, zap.String(configurationFileFieldConstant, name))
		removedNames = append(removedNames, name)
	}
	return removedNames, nil
}

// Present reports whether the named file exists under repositoryRoot.
func (remover *ConfigurationFileRemover) Present(repositoryRoot string, name string) (bool, error) {
	filePath := filepath.Join(repositoryRoot, name)
	if _, statError := remover.fileSystem.Stat(filePath); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf(inspectConfigurationFileTemplate, filePath, statError)
	}
	return true, nil
}
