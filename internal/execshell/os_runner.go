package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	gitTerminalPromptVariableConstant     = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptDisabledConstant     = "0"
)

// OSCommandRunner executes commands using os/exec.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run executes the command and reports non-zero exits through ExecutionResult rather than an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), append([]string{}, command.Details.Arguments...)...)
	executable.Dir = command.Details.WorkingDirectory
	executable.Env = buildEnvironment(command)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer
	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	executionResult := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}
	if runError == nil {
		return executionResult, nil
	}

	var exitError *exec.ExitError
	if errors.As(runError, &exitError) && executionContext.Err() == nil {
		executionResult.ExitCode = exitError.ExitCode()
		return executionResult, nil
	}
	if contextError := executionContext.Err(); contextError != nil {
		return ExecutionResult{}, contextError
	}
	return ExecutionResult{}, runError
}

// buildEnvironment inherits the process environment, disables interactive git credential prompts,
// and appends caller overrides in a stable order.
func buildEnvironment(command ShellCommand) []string {
	environment := append([]string{}, os.Environ()...)
	if command.Name == CommandGit {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplateConstant, gitTerminalPromptVariableConstant, gitTerminalPromptDisabledConstant))
	}

	overrideKeys := make([]string, 0, len(command.Details.EnvironmentVariables))
	for environmentKey := range command.Details.EnvironmentVariables {
		overrideKeys = append(overrideKeys, environmentKey)
	}
	sort.Strings(overrideKeys)
	for _, environmentKey := range overrideKeys {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, command.Details.EnvironmentVariables[environmentKey]))
	}
	return environment
}
