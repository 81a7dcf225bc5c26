// Package testsupport provides stubs shared by migrate tests.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/jsmigrate/internal/execshell"
	migrate "github.com/temirov/jsmigrate/internal/migrate"
)

// GitExecutorStub records git invocations and fails the configured subcommands.
type GitExecutorStub struct {
	FailingSubcommands map[string]error
	ExecutedCommands   []execshell.CommandDetails
}

// ExecuteGit records the invocation and returns the configured failure for its subcommand.
func (executor *GitExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.ExecutedCommands = append(executor.ExecutedCommands, details)
	if len(details.Arguments) > 0 && executor.FailingSubcommands != nil {
		if failure, exists := executor.FailingSubcommands[details.Arguments[0]]; exists {
			return execshell.ExecutionResult{}, failure
		}
	}
	return execshell.ExecutionResult{ExitCode: 0}, nil
}

// ExecutedArguments returns the recorded argument lists in execution order.
func (executor *GitExecutorStub) ExecutedArguments() [][]string {
	argumentLists := make([][]string, 0, len(executor.ExecutedCommands))
	for _, details := range executor.ExecutedCommands {
		argumentLists = append(argumentLists, append([]string{}, details.Arguments...))
	}
	return argumentLists
}

// PrompterStub answers confirmation prompts with a fixed response.
type PrompterStub struct {
	Response        bool
	ResponseError   error
	ReceivedPrompts []string
}

// Confirm records the prompt and returns the configured response.
func (prompter *PrompterStub) Confirm(prompt string) (bool, error) {
	prompter.ReceivedPrompts = append(prompter.ReceivedPrompts, prompt)
	return prompter.Response, prompter.ResponseError
}

// ServiceStub captures migration requests for verification.
type ServiceStub struct {
	Result          migrate.MigrationResult
	ResultError     error
	PlanResult      migrate.MigrationPlan
	PlanError       error
	ExecutedOptions []migrate.MigrationOptions
	PlannedOptions  []migrate.MigrationOptions
}

// Execute records the options and returns the configured result.
func (service *ServiceStub) Execute(_ context.Context, options migrate.MigrationOptions) (migrate.MigrationResult, error) {
	service.ExecutedOptions = append(service.ExecutedOptions, options)
	return service.Result, service.ResultError
}

// Plan records the options and returns the configured plan.
func (service *ServiceStub) Plan(_ context.Context, options migrate.MigrationOptions) (migrate.MigrationPlan, error) {
	service.PlannedOptions = append(service.PlannedOptions, options)
	return service.PlanResult, service.PlanError
}

// WriteTree creates files beneath root from a map of slash-separated relative paths to contents.
func WriteTree(root string, files map[string]string) error {
	for relativePath, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(filePath), 0o755); mkdirError != nil {
			return mkdirError
		}
		if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
			return writeError
		}
	}
	return nil
}

// ReadTree returns every regular file beneath root keyed by slash-separated relative path.
// Entries under a .git directory are ignored.
func ReadTree(root string) (map[string]string, error) {
	files := map[string]string{}
	walkError := filepath.WalkDir(root, func(path string, directoryEntry os.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		content, readError := os.ReadFile(path)
		if readError != nil {
			return readError
		}
		relativePath, relativeError := filepath.Rel(root, path)
		if relativeError != nil {
			return relativeError
		}
		files[filepath.ToSlash(relativePath)] = string(content)
		return nil
	})
	return files, walkError
}

// JoinArguments renders argument lists as space-separated command lines.
func JoinArguments(argumentLists [][]string) []string {
	commandLines := make([]string, 0, len(argumentLists))
	for _, arguments := range argumentLists {
		commandLines = append(commandLines, strings.Join(arguments, " "))
	}
	return commandLines
}

// PresentKeys returns the expectedKeys present in files, in expectedKeys order.
func PresentKeys(files map[string]string, expectedKeys []string) []string {
	matchingKeys := []string{}
	for _, expectedKey := range expectedKeys {
		if _, present := files[expectedKey]; present {
			matchingKeys = append(matchingKeys, expectedKey)
		}
	}
	return matchingKeys
}
