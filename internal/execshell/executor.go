package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	commandStartedLogMessageConstant          = "shell command started"
	commandCompletedLogMessageConstant        = "shell command completed"
	commandFailedLogMessageConstant           = "shell command failed"
	commandExecutionFailedLogMessageConstant  = "shell command could not run"
	logFieldCommandNameConstant               = "command"
	logFieldCommandArgumentsConstant          = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	logFieldStandardErrorConstant             = "stderr"
	logFieldStandardOutputConstant            = "stdout"
	commandOutputLogMessageConstant           = "shell command output"
	loggerNotConfiguredMessageConstant        = "shell executor requires a logger"
	commandRunnerNotConfiguredMessageConstant = "shell executor requires a command runner"
	commandFailedErrorTemplateConstant        = "%s %s exited with code %d%s"
	commandExecutionErrorTemplateConstant     = "%s %s could not run: %v"
	commandNameGitStringConstant              = "git"
)

// CommandName identifies an executable.
type CommandName string

// Supported executables.
const (
	CommandGit CommandName = CommandName(commandNameGitStringConstant)
)

// CommandDetails describes a single invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner runs shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

var (
	// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates the executor was constructed without a runner.
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that ran and exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	return fmt.Sprintf(
		commandFailedErrorTemplateConstant,
		failure.Command.Name,
		strings.Join(failure.Command.Details.Arguments, commandArgumentsJoinSeparatorConstant),
		failure.Result.ExitCode,
		CommandMessageFormatter{}.formatStandardErrorSuffix(failure.Result.StandardError),
	)
}

// CommandExecutionError reports a command that could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(
		commandExecutionErrorTemplateConstant,
		failure.Command.Name,
		strings.Join(failure.Command.Details.Arguments, commandArgumentsJoinSeparatorConstant),
		failure.Cause,
	)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// ShellExecutor runs commands through a CommandRunner and reports their lifecycle.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor. When an observer is supplied it receives lifecycle
// events instead of the structured log entries.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObservers ...CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	var eventObserver CommandEventObserver = structuredCommandEventObserver{logger: logger}
	for _, candidateObserver := range eventObservers {
		if candidateObserver != nil {
			eventObserver = candidateObserver
		}
	}

	return &ShellExecutor{logger: logger, commandRunner: commandRunner, eventObserver: eventObserver}, nil
}

// Execute runs the command and converts non-zero exits into CommandFailedError.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.eventObserver.CommandCompleted(command, executionResult)
	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}

// ExecuteGit runs git with the supplied details.
func (executor *ShellExecutor) ExecuteGit(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandGit, Details: details})
}

// structuredCommandEventObserver writes lifecycle events as structured log entries.
type structuredCommandEventObserver struct {
	logger *zap.Logger
}

func (observer structuredCommandEventObserver) CommandStarted(command ShellCommand) {
	observer.logger.Debug(commandStartedLogMessageConstant, observer.commandFields(command)...)
}

func (observer structuredCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	observer.logOutput(command, result)
	fields := append(observer.commandFields(command), zap.Int(logFieldExitCodeConstant, result.ExitCode))
	if result.ExitCode == 0 {
		observer.logger.Info(commandCompletedLogMessageConstant, fields...)
		return
	}
	fields = append(fields, zap.String(logFieldStandardErrorConstant, strings.TrimSpace(result.StandardError)))
	observer.logger.Warn(commandFailedLogMessageConstant, fields...)
}

// logOutput records what the process printed; git reports push progress on stderr.
func (observer structuredCommandEventObserver) logOutput(command ShellCommand, result ExecutionResult) {
	standardOutput := strings.TrimSpace(result.StandardOutput)
	standardError := strings.TrimSpace(result.StandardError)
	if len(standardOutput) == 0 && len(standardError) == 0 {
		return
	}
	fields := append(
		observer.commandFields(command),
		zap.String(logFieldStandardOutputConstant, standardOutput),
		zap.String(logFieldStandardErrorConstant, standardError),
	)
	observer.logger.Debug(commandOutputLogMessageConstant, fields...)
}

func (observer structuredCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	fields := append(observer.commandFields(command), zap.Error(failure))
	observer.logger.Error(commandExecutionFailedLogMessageConstant, fields...)
}

func (observer structuredCommandEventObserver) commandFields(command ShellCommand) []zap.Field {
	return []zap.Field{
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	}
}
