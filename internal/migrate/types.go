package migrate

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/temirov/jsmigrate/internal/execshell"
)

// FileSystem exposes the filesystem operations required by the migration stages.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Rename(oldPath string, newPath string) error
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
	Remove(path string) error
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
}

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CodeStripper removes typed syntax from source text.
type CodeStripper interface {
	Strip(code string) string
}

// ExtensionMapper reports the output path for convertible source files.
type ExtensionMapper interface {
	Target(path string) (string, bool)
}

// ConfirmationPrompter asks the operator to confirm an action.
type ConfirmationPrompter interface {
	Confirm(prompt string) (bool, error)
}

// MigrationExecutor runs or previews a migration.
type MigrationExecutor interface {
	Execute(executionContext context.Context, options MigrationOptions) (MigrationResult, error)
	Plan(executionContext context.Context, options MigrationOptions) (MigrationPlan, error)
}

// InvalidInputError describes migration option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", inputError.FieldName, inputError.Message)
}

// TargetExistsError reports a relocation whose destination is already present.
type TargetExistsError struct {
	Path string
}

// Error names the conflicting destination.
func (existsError TargetExistsError) Error() string {
	return fmt.Sprintf("relocation target already exists: %s", existsError.Path)
}

// PublishOptions configures the git publish stage.
type PublishOptions struct {
	Remote        string
	Branch        string
	CommitMessage string
}

// MigrationOptions configures a single migration run.
type MigrationOptions struct {
	RepositoryRoot  string
	TemplateSource  string
	TemplateTarget  string
	ConversionRoots []string
	RemovedFiles    []string
	Workers         int
	Publish         PublishOptions
	SkipPublish     bool
	ConfirmPublish  bool
	AssumeYes       bool
}

// RelocationOutcome reports what the relocation stage did.
type RelocationOutcome struct {
	Source    string `yaml:"source"`
	Target    string `yaml:"target"`
	Relocated bool   `yaml:"relocated"`
}

// ConvertedFile pairs a source file with the file written in its place.
type ConvertedFile struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// ConversionOutcome reports the files converted under one conversion root.
type ConversionOutcome struct {
	Root    string          `yaml:"root"`
	Missing bool            `yaml:"missing,omitempty"`
	Files   []ConvertedFile `yaml:"files"`
}

// PublishOutcome reports whether the changes were committed and pushed.
type PublishOutcome struct {
	Published     bool   `yaml:"published"`
	SkippedReason string `yaml:"skipped_reason,omitempty"`
	Remote        string `yaml:"remote,omitempty"`
	Branch        string `yaml:"branch,omitempty"`
}

// MigrationResult captures the observable outcome of a run.
type MigrationResult struct {
	RepositoryRoot string              `yaml:"repository_root"`
	Relocation     RelocationOutcome   `yaml:"relocation"`
	Conversions    []ConversionOutcome `yaml:"conversions"`
	RemovedFiles   []string            `yaml:"removed_files"`
	Publish        PublishOutcome      `yaml:"publish"`
}

// ConvertedFileCount totals converted files across all roots.
func (result MigrationResult) ConvertedFileCount() int {
	total := 0
	for _, conversion := range result.Conversions {
		total += len(conversion.Files)
	}
	return total
}
