package migrate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/jsmigrate/internal/typestrip"
)

const (
	migrationStartedMessageConstant          = "Starting TypeScript to JavaScript migration"
	migrationCompletedMessageConstant        = "Migration completed"
	publishSkippedMessageConstant            = "Skipping publish"
	publishSkippedReasonFieldConstant        = "reason"
	removedFilesFieldConstant                = "removed_files"
	conversionRootsFieldConstant             = "conversion_roots"
	publishedFieldConstant                   = "published"
	publishDisabledReasonConstant            = "disabled"
	publishDeclinedReasonConstant            = "declined"
	publishConfirmationPromptTemplate        = "Commit and push the migration to %s/%s? [y/N]: "
	requiredValueMessageConstant             = "value is required"
	distinctTemplateMessageConstant          = "must differ from template_directory.source"
	positiveWorkersMessageConstant           = "must be at least 1"
	escapesRepositoryMessageConstant         = "must stay inside the repository root"
	repositoryRootFieldNameConstant          = "repository_root"
	templateSourceFieldNameConstant          = "template_directory.source"
	templateTargetFieldNameConstant          = "template_directory.target"
	conversionRootsFieldNameConstant         = "conversion_roots"
	removedFilesFieldNameConstant            = "removed_files"
	workersFieldNameConstant                 = "workers"
	publishRemoteFieldNameConstant           = "publish.remote"
	publishBranchFieldNameConstant           = "publish.branch"
	publishCommitMessageFieldNameConstant    = "publish.commit_message"
	fileSystemMissingMessageConstant         = "file system not configured"
	gitExecutorMissingMessageConstant        = "git executor not configured"
	prompterMissingMessageConstant           = "confirmation prompter not configured"
	resolveRepositoryRootTemplateConstant    = "unable to resolve repository root: %w"
	inspectRepositoryRootTemplateConstant    = "unable to inspect repository root %s: %w"
	repositoryRootNotDirectoryTemplate       = "repository root is not a directory: %s"
	relocationStageErrorTemplateConstant     = "template relocation failed: %w"
	conversionStageErrorTemplateConstant     = "source conversion failed for %s: %w"
	cleanupStageErrorTemplateConstant        = "configuration cleanup failed: %w"
	publishStageErrorTemplateConstant        = "publish failed: %w"
	publishConfirmationErrorTemplateConstant = "unable to read publish confirmation: %w"
	parentDirectoryReferenceConstant         = ".."
)

// ServiceDependencies describes required collaborators for migration.
type ServiceDependencies struct {
	Logger          *zap.Logger
	FileSystem      FileSystem
	GitExecutor     GitExecutor
	Stripper        CodeStripper
	ExtensionMapper ExtensionMapper
	Prompter        ConfirmationPrompter
}

// Service orchestrates the migration stages.
type Service struct {
	logger          *zap.Logger
	fileSystem      FileSystem
	stripper        CodeStripper
	extensionMapper ExtensionMapper
	prompter        ConfirmationPrompter
	relocator       *DirectoryRelocator
	remover         *ConfigurationFileRemover
	publisher       *Publisher
	planner         *Planner
}

var (
	errFileSystemMissing  = errors.New(fileSystemMissingMessageConstant)
	errGitExecutorMissing = errors.New(gitExecutorMissingMessageConstant)
	errPrompterMissing    = errors.New(prompterMissingMessageConstant)
)

// NewService constructs a Service. A nil stripper or extension mapper falls back to the defaults.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.FileSystem == nil {
		return nil, errFileSystemMissing
	}
	if dependencies.GitExecutor == nil {
		return nil, errGitExecutorMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	stripper := dependencies.Stripper
	if stripper == nil {
		stripper = typestrip.NewDefaultStripper()
	}

	extensionMapper := dependencies.ExtensionMapper
	if extensionMapper == nil {
		extensionMapper = typestrip.NewDefaultExtensionMapper()
	}

	return &Service{
		logger:          logger,
		fileSystem:      dependencies.FileSystem,
		stripper:        stripper,
		extensionMapper: extensionMapper,
		prompter:        dependencies.Prompter,
		relocator:       NewDirectoryRelocator(logger, dependencies.FileSystem),
		remover:         NewConfigurationFileRemover(logger, dependencies.FileSystem),
		publisher:       NewPublisher(logger, dependencies.GitExecutor),
		planner:         NewPlanner(logger, dependencies.FileSystem, extensionMapper),
	}, nil
}

// Execute relocates the template directory, converts every conversion root in order, removes
// leftover configuration files, and publishes. The first failing stage aborts the run.
func (service *Service) Execute(executionContext context.Context, options MigrationOptions) (MigrationResult, error) {
	if validationError := validateOptions(options); validationError != nil {
		return MigrationResult{}, validationError
	}

	repositoryRoot, rootError := service.resolveRepositoryRoot(options.RepositoryRoot)
	if rootError != nil {
		return MigrationResult{}, rootError
	}

	result := MigrationResult{
		RepositoryRoot: repositoryRoot,
		Conversions:    []ConversionOutcome{},
		RemovedFiles:   []string{},
	}

	service.logger.Info(
		migrationStartedMessageConstant,
		zap.String(repositoryRootFieldConstant, repositoryRoot),
		zap.Strings(conversionRootsFieldConstant, options.ConversionRoots),
	)

	relocation, relocationError := service.relocator.Relocate(executionContext, repositoryRoot, options.TemplateSource, options.TemplateTarget)
	if relocationError != nil {
		return result, fmt.Errorf(relocationStageErrorTemplateConstant, relocationError)
	}
	result.Relocation = relocation

	converter := NewSourceConverter(service.logger, service.fileSystem, service.stripper, service.extensionMapper, options.Workers)
	for _, conversionRoot := range options.ConversionRoots {
		conversion, conversionError := converter.Convert(executionContext, filepath.Join(repositoryRoot, conversionRoot))
		if conversionError != nil {
			return result, fmt.Errorf(conversionStageErrorTemplateConstant, conversionRoot, conversionError)
		}
		result.Conversions = append(result.Conversions, relativeConversion(repositoryRoot, conversion))
	}

	removedFiles, cleanupError := service.remover.Remove(executionContext, repositoryRoot, options.RemovedFiles)
	result.RemovedFiles = removedFiles
	if cleanupError != nil {
		return result, fmt.Errorf(cleanupStageErrorTemplateConstant, cleanupError)
	}

	publishOutcome, publishError := service.publish(executionContext, repositoryRoot, options)
	result.Publish = publishOutcome
	if publishError != nil {
		return result, publishError
	}

	service.logger.Info(
		migrationCompletedMessageConstant,
		zap.String(repositoryRootFieldConstant, repositoryRoot),
		zap.Int(convertedFilesFieldConstant, result.ConvertedFileCount()),
		zap.Strings(removedFilesFieldConstant, result.RemovedFiles),
		zap.Bool(publishedFieldConstant, result.Publish.Published),
	)
	return result, nil
}

// Plan validates options and reports what Execute would do without touching the repository.
func (service *Service) Plan(executionContext context.Context, options MigrationOptions) (MigrationPlan, error) {
	if validationError := validateOptions(options); validationError != nil {
		return MigrationPlan{}, validationError
	}

	repositoryRoot, rootError := service.resolveRepositoryRoot(options.RepositoryRoot)
	if rootError != nil {
		return MigrationPlan{}, rootError
	}

	resolvedOptions := options
	resolvedOptions.RepositoryRoot = repositoryRoot
	return service.planner.Plan(executionContext, resolvedOptions)
}

func (service *Service) publish(executionContext context.Context, repositoryRoot string, options MigrationOptions) (PublishOutcome, error) {
	if options.SkipPublish {
		service.logger.Info(publishSkippedMessageConstant, zap.String(publishSkippedReasonFieldConstant, publishDisabledReasonConstant))
		return PublishOutcome{SkippedReason: publishDisabledReasonConstant}, nil
	}

	if options.ConfirmPublish && !options.AssumeYes {
		if service.prompter == nil {
			return PublishOutcome{}, errPrompterMissing
		}
		confirmed, promptError := service.prompter.Confirm(fmt.Sprintf(publishConfirmationPromptTemplate, options.Publish.Remote, options.Publish.Branch))
		if promptError != nil {
			return PublishOutcome{}, fmt.Errorf(publishConfirmationErrorTemplateConstant, promptError)
		}
		if !confirmed {
			service.logger.Info(publishSkippedMessageConstant, zap.String(publishSkippedReasonFieldConstant, publishDeclinedReasonConstant))
			return PublishOutcome{SkippedReason: publishDeclinedReasonConstant}, nil
		}
	}

	if publishError := service.publisher.Publish(executionContext, repositoryRoot, options.Publish); publishError != nil {
		return PublishOutcome{}, fmt.Errorf(publishStageErrorTemplateConstant, publishError)
	}
	return PublishOutcome{Published: true, Remote: options.Publish.Remote, Branch: options.Publish.Branch}, nil
}

func (service *Service) resolveRepositoryRoot(repositoryRoot string) (string, error) {
	absoluteRoot, absError := service.fileSystem.Abs(repositoryRoot)
	if absError != nil {
		return "", fmt.Errorf(resolveRepositoryRootTemplateConstant, absError)
	}

	rootInfo, statError := service.fileSystem.Stat(absoluteRoot)
	if statError != nil {
		return "", fmt.Errorf(inspectRepositoryRootTemplateConstant, absoluteRoot, statError)
	}
	if !rootInfo.IsDir() {
		return "", fmt.Errorf(repositoryRootNotDirectoryTemplate, absoluteRoot)
	}
	return absoluteRoot, nil
}

func relativeConversion(repositoryRoot string, conversion ConversionOutcome) ConversionOutcome {
	relative := ConversionOutcome{
		Root:    relativeToRoot(repositoryRoot, conversion.Root),
		Missing: conversion.Missing,
		Files:   make([]ConvertedFile, 0, len(conversion.Files)),
	}
	for _, convertedFile := range conversion.Files {
		relative.Files = append(relative.Files, ConvertedFile{
			Source: relativeToRoot(repositoryRoot, convertedFile.Source),
			Target: relativeToRoot(repositoryRoot, convertedFile.Target),
		})
	}
	return relative
}

type requiredOption struct {
	fieldName string
	value     string
}

func validateOptions(options MigrationOptions) error {
	requiredOptions := []requiredOption{
		{fieldName: repositoryRootFieldNameConstant, value: options.RepositoryRoot},
		{fieldName: templateSourceFieldNameConstant, value: options.TemplateSource},
		{fieldName: templateTargetFieldNameConstant, value: options.TemplateTarget},
	}
	if !options.SkipPublish {
		requiredOptions = append(requiredOptions,
			requiredOption{fieldName: publishRemoteFieldNameConstant, value: options.Publish.Remote},
			requiredOption{fieldName: publishBranchFieldNameConstant, value: options.Publish.Branch},
			requiredOption{fieldName: publishCommitMessageFieldNameConstant, value: options.Publish.CommitMessage},
		)
	}
	for _, option := range requiredOptions {
		if len(strings.TrimSpace(option.value)) == 0 {
			return InvalidInputError{FieldName: option.fieldName, Message: requiredValueMessageConstant}
		}
	}

	if len(options.ConversionRoots) == 0 {
		return InvalidInputError{FieldName: conversionRootsFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if filepath.Clean(options.TemplateSource) == filepath.Clean(options.TemplateTarget) {
		return InvalidInputError{FieldName: templateTargetFieldNameConstant, Message: distinctTemplateMessageConstant}
	}
	if options.Workers < 1 {
		return InvalidInputError{FieldName: workersFieldNameConstant, Message: positiveWorkersMessageConstant}
	}

	relativePaths := []struct {
		fieldName string
		paths     []string
	}{
		{fieldName: templateSourceFieldNameConstant, paths: []string{options.TemplateSource}},
		{fieldName: templateTargetFieldNameConstant, paths: []string{options.TemplateTarget}},
		{fieldName: conversionRootsFieldNameConstant, paths: options.ConversionRoots},
		{fieldName: removedFilesFieldNameConstant, paths: options.RemovedFiles},
	}
	for _, relativePath := range relativePaths {
		for _, path := range relativePath.paths {
			if escapesRepository(path) {
				return InvalidInputError{FieldName: relativePath.fieldName, Message: escapesRepositoryMessageConstant}
			}
		}
	}
	return nil
}

func escapesRepository(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	cleanedPath := filepath.Clean(path)
	return cleanedPath == parentDirectoryReferenceConstant || strings.HasPrefix(cleanedPath, parentDirectoryReferenceConstant+string(filepath.Separator))
}
