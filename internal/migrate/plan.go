package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/jsmigrate/internal/execshell"
)

const (
	relocationActionRenameConstant   = "rename"
	relocationActionSkipConstant     = "skip"
	relocationActionConflictConstant = "conflict"
	planComputedMessageConstant      = "Computed migration plan"
	plannedFilesFieldConstant        = "planned_files"
	yamlIndentConstant               = 2
	commandLineSeparatorConstant     = " "
	renderDocumentErrorTemplate      = "unable to render %s: %w"
	renderPlanSubjectConstant        = "migration plan"
	renderReportSubjectConstant      = "migration report"
)

// PlannedRelocation describes what the relocation stage would do.
type PlannedRelocation struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Action string `yaml:"action"`
}

// MigrationPlan describes the effects of a run without performing them.
type MigrationPlan struct {
	RepositoryRoot string              `yaml:"repository_root"`
	Relocation     PlannedRelocation   `yaml:"relocation"`
	Conversions    []ConversionOutcome `yaml:"conversions"`
	RemovedFiles   []string            `yaml:"removed_files"`
	GitCommands    []string            `yaml:"git_commands"`
}

// Planner computes a MigrationPlan by inspecting the repository read-only.
type Planner struct {
	logger    *zap.Logger
	converter *SourceConverter
	relocator *DirectoryRelocator
	remover   *ConfigurationFileRemover
}

// NewPlanner constructs a Planner.
func NewPlanner(logger *zap.Logger, fileSystem FileSystem, extensionMapper ExtensionMapper) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		logger:    logger,
		converter: NewSourceConverter(logger, fileSystem, nil, extensionMapper, 1),
		relocator: NewDirectoryRelocator(logger, fileSystem),
		remover:   NewConfigurationFileRemover(logger, fileSystem),
	}
}

// Plan reports the relocation, conversions, removals, and git commands a run would perform.
// Conversion roots inside a pending relocation target are scanned at their current location
// and reported at their post-relocation paths.
func (planner *Planner) Plan(executionContext context.Context, options MigrationOptions) (MigrationPlan, error) {
	plan := MigrationPlan{
		RepositoryRoot: options.RepositoryRoot,
		Relocation: PlannedRelocation{
			Source: options.TemplateSource,
			Target: options.TemplateTarget,
			Action: relocationActionSkipConstant,
		},
		Conversions:  []ConversionOutcome{},
		RemovedFiles: []string{},
		GitCommands:  []string{},
	}

	sourcePath := filepath.Join(options.RepositoryRoot, options.TemplateSource)
	targetPath := filepath.Join(options.RepositoryRoot, options.TemplateTarget)
	relocationPending, inspectionError := planner.relocator.inspect(sourcePath, targetPath)
	switch {
	case inspectionError == nil && relocationPending:
		plan.Relocation.Action = relocationActionRenameConstant
	case inspectionError != nil:
		var existsError TargetExistsError
		if !errors.As(inspectionError, &existsError) {
			return MigrationPlan{}, inspectionError
		}
		plan.Relocation.Action = relocationActionConflictConstant
	}

	for _, conversionRoot := range options.ConversionRoots {
		reportedRoot := filepath.Join(options.RepositoryRoot, conversionRoot)
		scannedRoot := reportedRoot
		if relocationPending {
			scannedRoot = substitutePathPrefix(reportedRoot, targetPath, sourcePath)
		}

		conversion := ConversionOutcome{Root: relativeToRoot(options.RepositoryRoot, reportedRoot), Files: []ConvertedFile{}}
		candidates, discoveryError := planner.converter.Discover(executionContext, scannedRoot)
		switch {
		case errors.Is(discoveryError, errConversionRootMissing):
			conversion.Missing = true
		case discoveryError != nil:
			return MigrationPlan{}, discoveryError
		}

		for _, candidate := range candidates {
			conversion.Files = append(conversion.Files, ConvertedFile{
				Source: relativeToRoot(options.RepositoryRoot, substitutePathPrefix(candidate.Source, scannedRoot, reportedRoot)),
				Target: relativeToRoot(options.RepositoryRoot, substitutePathPrefix(candidate.Target, scannedRoot, reportedRoot)),
			})
		}
		plan.Conversions = append(plan.Conversions, conversion)
	}

	for _, removedFile := range options.RemovedFiles {
		present, presenceError := planner.remover.Present(options.RepositoryRoot, removedFile)
		if presenceError != nil {
			return MigrationPlan{}, presenceError
		}
		if present {
			plan.RemovedFiles = append(plan.RemovedFiles, removedFile)
		}
	}

	if !options.SkipPublish {
		for _, publishCommand := range PublishCommands(options.Publish) {
			plan.GitCommands = append(plan.GitCommands, formatCommandLine(publishCommand.Arguments))
		}
	}

	planner.logger.Info(
		planComputedMessageConstant,
		zap.String(repositoryRootFieldConstant, options.RepositoryRoot),
		zap.Int(plannedFilesFieldConstant, plan.plannedFileCount()),
	)
	return plan, nil
}

func (plan MigrationPlan) plannedFileCount() int {
	total := 0
	for _, conversion := range plan.Conversions {
		total += len(conversion.Files)
	}
	return total
}

func relativeToRoot(repositoryRoot string, path string) string {
	relativePath, relativeError := filepath.Rel(repositoryRoot, path)
	if relativeError != nil {
		return path
	}
	return filepath.ToSlash(relativePath)
}

// substitutePathPrefix replaces the leading oldPrefix directory of path with newPrefix.
func substitutePathPrefix(path string, oldPrefix string, newPrefix string) string {
	relativePath, relativeError := filepath.Rel(oldPrefix, path)
	if relativeError != nil || relativePath == ".." || strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.Join(newPrefix, relativePath)
}

func formatCommandLine(arguments []string) string {
	quotedArguments := make([]string, 0, len(arguments)+1)
	quotedArguments = append(quotedArguments, string(execshell.CommandGit))
	for _, argument := range arguments {
		if strings.ContainsAny(argument, " \t\"'") {
			quotedArguments = append(quotedArguments, fmt.Sprintf("%q", argument))
			continue
		}
		quotedArguments = append(quotedArguments, argument)
	}
	return strings.Join(quotedArguments, commandLineSeparatorConstant)
}

// WritePlan renders the plan as YAML.
func WritePlan(writer io.Writer, plan MigrationPlan) error {
	return writeYAMLDocument(writer, renderPlanSubjectConstant, plan)
}

// WriteReport renders the run result as YAML.
func WriteReport(writer io.Writer, result MigrationResult) error {
	return writeYAMLDocument(writer, renderReportSubjectConstant, result)
}

func writeYAMLDocument(writer io.Writer, subject string, document any) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return fmt.Errorf(renderDocumentErrorTemplate, subject, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return fmt.Errorf(renderDocumentErrorTemplate, subject, closeError)
	}
	return nil
}
