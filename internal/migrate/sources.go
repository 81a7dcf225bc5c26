package migrate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/jsmigrate/internal/typestrip"
)

const (
	conversionRootMissingMessageConstant  = "conversion root not found; skipping"
	conversionStartedMessageConstant      = "Converting sources"
	conversionFileMessageConstant         = "Converted source file"
	conversionCompletedMessageConstant    = "Conversion completed"
	conversionRootFieldConstant           = "conversion_root"
	conversionSourceFieldConstant         = "source"
	conversionTargetFieldConstant         = "target"
	conversionWorkersFieldConstant        = "workers"
	convertedFilesFieldConstant           = "converted_files"
	inspectConversionRootTemplateConstant = "unable to inspect conversion root %s: %w"
	conversionRootNotDirectoryTemplate    = "conversion root is not a directory: %s"
	walkConversionRootTemplateConstant    = "unable to walk conversion root %s: %w"
	statSourceFileTemplateConstant        = "unable to stat source file %s: %w"
	readSourceFileTemplateConstant        = "unable to read source file %s: %w"
	decodeSourceFileTemplateConstant      = "unable to decode source file %s: %w"
	writeConvertedFileTemplateConstant    = "unable to write converted file %s: %w"
	removeSourceFileTemplateConstant      = "unable to remove source file %s: %w"
)

// SourceConverter rewrites convertible files beneath a conversion root.
type SourceConverter struct {
	logger          *zap.Logger
	fileSystem      FileSystem
	stripper        CodeStripper
	extensionMapper ExtensionMapper
	workers         int
}

// NewSourceConverter constructs a SourceConverter. Workers below one are treated as one.
func NewSourceConverter(logger *zap.Logger, fileSystem FileSystem, stripper CodeStripper, extensionMapper ExtensionMapper, workers int) *SourceConverter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &SourceConverter{
		logger:          logger,
		fileSystem:      fileSystem,
		stripper:        stripper,
		extensionMapper: extensionMapper,
		workers:         workers,
	}
}

// Convert discovers convertible files under root, writes each converted file, and removes its source.
// A missing root is skipped. Converted files are reported sorted by source path.
func (converter *SourceConverter) Convert(executionContext context.Context, root string) (ConversionOutcome, error) {
	outcome := ConversionOutcome{Root: root, Files: []ConvertedFile{}}

	candidates, discoveryError := converter.Discover(executionContext, root)
	if discoveryError != nil {
		if errors.Is(discoveryError, errConversionRootMissing) {
			converter.logger.Info(conversionRootMissingMessageConstant, zap.String(conversionRootFieldConstant, root))
			outcome.Missing = true
			return outcome, nil
		}
		return outcome, discoveryError
	}

	converter.logger.Info(
		conversionStartedMessageConstant,
		zap.String(conversionRootFieldConstant, root),
		zap.Int(conversionWorkersFieldConstant, converter.workers),
	)

	conversionGroup, groupContext := errgroup.WithContext(executionContext)
	conversionGroup.SetLimit(converter.workers)
	for _, candidate := range candidates {
		candidate := candidate
		conversionGroup.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			return converter.convertFile(candidate)
		})
	}
	if conversionError := conversionGroup.Wait(); conversionError != nil {
		return outcome, conversionError
	}

	outcome.Files = candidates
	converter.logger.Info(
		conversionCompletedMessageConstant,
		zap.String(conversionRootFieldConstant, root),
		zap.Int(convertedFilesFieldConstant, len(candidates)),
	)
	return outcome, nil
}

var errConversionRootMissing = errors.New("conversion root missing")

// Discover lists convertible files under root with their output paths, sorted by source path.
func (converter *SourceConverter) Discover(executionContext context.Context, root string) ([]ConvertedFile, error) {
	rootInfo, statError := converter.fileSystem.Stat(root)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, errConversionRootMissing
		}
		return nil, fmt.Errorf(inspectConversionRootTemplateConstant, root, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(conversionRootNotDirectoryTemplate, root)
	}

	candidates := []ConvertedFile{}
	walkError := converter.fileSystem.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if directoryEntry.IsDir() {
			return nil
		}
		targetPath, convertible := converter.extensionMapper.Target(path)
		if !convertible {
			return nil
		}
		candidates = append(candidates, ConvertedFile{Source: path, Target: targetPath})
		return nil
	})
	if walkError != nil {
		if errors.Is(walkError, context.Canceled) || errors.Is(walkError, context.DeadlineExceeded) {
			return nil, walkError
		}
		return nil, fmt.Errorf(walkConversionRootTemplateConstant, root, walkError)
	}

	sort.Slice(candidates, func(leftIndex int, rightIndex int) bool {
		return candidates[leftIndex].Source < candidates[rightIndex].Source
	})
	return candidates, nil
}

func (converter *SourceConverter) convertFile(candidate ConvertedFile) error {
	sourceInfo, statError := converter.fileSystem.Stat(candidate.Source)
	if statError != nil {
		return fmt.Errorf(statSourceFileTemplateConstant, candidate.Source, statError)
	}

	sourceContent, readError := converter.fileSystem.ReadFile(candidate.Source)
	if readError != nil {
		return fmt.Errorf(readSourceFileTemplateConstant, candidate.Source, readError)
	}

	decodedContent, decodeError := typestrip.Decode(sourceContent)
	if decodeError != nil {
		return fmt.Errorf(decodeSourceFileTemplateConstant, candidate.Source, decodeError)
	}

	convertedContent := converter.stripper.Strip(decodedContent)
	if writeError := converter.fileSystem.WriteFile(candidate.Target, []byte(convertedContent), sourceInfo.Mode().Perm()); writeError != nil {
		return fmt.Errorf(writeConvertedFileTemplateConstant, candidate.Target, writeError)
	}

	if removeError := converter.fileSystem.Remove(candidate.Source); removeError != nil {
		return fmt.Errorf(removeSourceFileTemplateConstant, candidate.Source, removeError)
	}

	converter.logger.Debug(
		conversionFileMessageConstant,
		zap.String(conversionSourceFieldConstant, candidate.Source),
		zap.String(conversionTargetFieldConstant, candidate.Target),
	)
	return nil
}
