package execshell

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesPublishCommands(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		result          ExecutionResult
		failure         error
		expectedStart   string
		expectedSuccess string
		expectedFailure string
		expectedBroken  string
	}{
		{
			name:            "add",
			arguments:       []string{"add", "."},
			result:          ExecutionResult{ExitCode: 1, StandardError: "fatal: pathspec\n"},
			failure:         errors.New("signal: killed"),
			expectedStart:   "Staging . in /workspace/repo",
			expectedSuccess: "Staged . in /workspace/repo",
			expectedFailure: "Failed to stage . in /workspace/repo (exit code 1: fatal: pathspec)",
			expectedBroken:  "Unable to stage . in /workspace/repo: signal: killed",
		},
		{
			name:            "commit",
			arguments:       []string{"commit", "-m", "refactor: migrate"},
			result:          ExecutionResult{ExitCode: 1},
			expectedStart:   "Creating commit in /workspace/repo with message \"refactor: migrate\"",
			expectedSuccess: "Created commit in /workspace/repo with message \"refactor: migrate\"",
			expectedFailure: "Failed to create commit in /workspace/repo with message \"refactor: migrate\" (exit code 1)",
			expectedBroken:  "Unable to create commit in /workspace/repo with message \"refactor: migrate\": unknown error",
		},
		{
			name:            "push",
			arguments:       []string{"push", "origin", "main"},
			result:          ExecutionResult{ExitCode: 128, StandardError: "rejected"},
			failure:         errors.New("context canceled"),
			expectedStart:   "Pushing main to origin from /workspace/repo",
			expectedSuccess: "Pushed main to origin from /workspace/repo",
			expectedFailure: "Failed to push main to origin from /workspace/repo (exit code 128: rejected)",
			expectedBroken:  "Unable to push main to origin from /workspace/repo: context canceled",
		},
		{
			name:            "generic",
			arguments:       []string{"status", "--short"},
			result:          ExecutionResult{ExitCode: 2},
			expectedStart:   "Running git status --short (in /workspace/repo)",
			expectedSuccess: "Completed git status --short (in /workspace/repo)",
			expectedFailure: "git status --short (in /workspace/repo) failed with exit code 2",
			expectedBroken:  "git status --short (in /workspace/repo) failed: unknown error",
		},
	}

	formatter := CommandMessageFormatter{}
	for testCaseIndex, testCase := range testCases {
		t.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(t *testing.T) {
			command := ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: testCase.arguments, WorkingDirectory: "/workspace/repo"},
			}
			require.Equal(t, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(command))
			require.Equal(t, testCase.expectedFailure, formatter.BuildFailureMessage(command, testCase.result))
			require.Equal(t, testCase.expectedBroken, formatter.BuildExecutionFailureMessage(command, testCase.failure))
		})
	}
}

func TestCommandMessageFormatterUsesFallbackLabels(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"push"}},
	}

	require.Equal(t, "Pushing unknown to unknown from current directory", formatter.BuildStartedMessage(command))
}
