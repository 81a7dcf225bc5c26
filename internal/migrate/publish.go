package migrate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/jsmigrate/internal/execshell"
)

const (
	gitAddCommandNameConstant          = "add"
	gitAddAllPathspecConstant          = "."
	gitCommitCommandNameConstant       = "commit"
	gitMessageFlagConstant             = "-m"
	gitPushCommandNameConstant         = "push"
	publishStartedMessageConstant      = "Committing and pushing migration"
	publishCompletedMessageConstant    = "Published migration"
	publishRemoteFieldConstant         = "remote"
	publishBranchFieldConstant         = "branch"
	repositoryRootFieldConstant        = "repository_root"
	stageChangesErrorTemplateConstant  = "unable to stage migration changes: %w"
	commitChangesErrorTemplateConstant = "unable to commit migration changes: %w"
	pushChangesErrorTemplateConstant   = "unable to push migration changes: %w"
)

// PublishCommand is one git invocation of the publish stage.
type PublishCommand struct {
	Arguments            []string
	errorWrapperTemplate string
}

// PublishCommands returns the add, commit, and push invocations in execution order.
func PublishCommands(options PublishOptions) []PublishCommand {
	return []PublishCommand{
		{Arguments: []string{gitAddCommandNameConstant, gitAddAllPathspecConstant}, errorWrapperTemplate: stageChangesErrorTemplateConstant},
		{Arguments: []string{gitCommitCommandNameConstant, gitMessageFlagConstant, options.CommitMessage}, errorWrapperTemplate: commitChangesErrorTemplateConstant},
		{Arguments: []string{gitPushCommandNameConstant, options.Remote, options.Branch}, errorWrapperTemplate: pushChangesErrorTemplateConstant},
	}
}

// Publisher stages, commits, and pushes the migrated tree.
type Publisher struct {
	logger      *zap.Logger
	gitExecutor GitExecutor
}

// NewPublisher constructs a Publisher.
func NewPublisher(logger *zap.Logger, gitExecutor GitExecutor) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{logger: logger, gitExecutor: gitExecutor}
}

// Publish runs the publish commands in repositoryRoot and stops at the first failure.
func (publisher *Publisher) Publish(executionContext context.Context, repositoryRoot string, options PublishOptions) error {
	publisher.logger.Info(
		publishStartedMessageConstant,
		zap.String(repositoryRootFieldConstant, repositoryRoot),
		zap.String(publishRemoteFieldConstant, options.Remote),
		zap.String(publishBranchFieldConstant, options.Branch),
	)

	for _, publishCommand := range PublishCommands(options) {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		_, executionError := publisher.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
			Arguments:        publishCommand.Arguments,
			WorkingDirectory: repositoryRoot,
		})
		if executionError != nil {
			return fmt.Errorf(publishCommand.errorWrapperTemplate, executionError)
		}
	}

	publisher.logger.Info(
		publishCompletedMessageConstant,
		zap.String(repositoryRootFieldConstant, repositoryRoot),
		zap.String(publishRemoteFieldConstant, options.Remote),
		zap.String(publishBranchFieldConstant, options.Branch),
	)
	return nil
}
