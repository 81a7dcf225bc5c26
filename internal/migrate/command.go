package migrate

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/jsmigrate/internal/execshell"
	"github.com/temirov/jsmigrate/internal/filesystem"
	"github.com/temirov/jsmigrate/internal/ui"
	"github.com/temirov/jsmigrate/internal/utils/flags"
)

const (
	commandUseConstant                    = "migrate"
	commandShortDescriptionConstant       = "Convert TypeScript templates to JavaScript and publish the result"
	commandLongDescriptionConstant        = "migrate renames the templates directory to B_Templates, rewrites .ts and .tsx files under F_Templates and B_Templates into .js and .jsx files, removes tsconfig.json, tsconfig.node.json, and vite-env.d.ts, then runs git add, commit, and push."
	repositoryRootFlagNameConstant        = "root"
	repositoryRootFlagUsageConstant       = "Repository root to migrate"
	workersFlagNameConstant               = "workers"
	workersFlagUsageConstant              = "Number of files converted concurrently"
	commitMessageFlagNameConstant         = "message"
	commitMessageFlagUsageConstant        = "Commit message for the migration commit"
	remoteFlagNameConstant                = "remote"
	remoteFlagUsageConstant               = "Remote receiving the migration push"
	branchFlagNameConstant                = "branch"
	branchFlagUsageConstant               = "Branch receiving the migration push"
	configurationErrorTemplateConstant    = "invalid migrate configuration: %w"
	migrationErrorTemplateConstant        = "migration failed: %w"
	planErrorTemplateConstant             = "migration plan failed: %w"
	migrationFailedLogMessageConstant     = "Migration failed"
	executorCreationErrorTemplateConstant = "unable to construct git executor: %w"
	serviceCreationErrorTemplateConstant  = "unable to construct migration service: %w"
	flagReadErrorTemplateConstant         = "unable to read --%s: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ServiceProvider constructs a migration executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (MigrationExecutor, error)

// CommandBuilder assembles the migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	Executor                     GitExecutor
	FileSystem                   FileSystem
	Prompter                     ConfirmationPrompter
	ServiceProvider              ServiceProvider
}

// Build constructs the migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(repositoryRootFlagNameConstant, "", repositoryRootFlagUsageConstant)
	command.Flags().Int(workersFlagNameConstant, 0, workersFlagUsageConstant)
	command.Flags().String(commitMessageFlagNameConstant, "", commitMessageFlagUsageConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagUsageConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagUsageConstant)
	flags.BindExecutionFlags(command, flags.ExecutionDefaults{}, flags.DefaultExecutionFlagDefinitions())

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options, executionFlags, optionsError := builder.parseOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}
	logger := builder.resolveLogger()

	stripper, stripperError := configuration.BuildStripper()
	if stripperError != nil {
		return fmt.Errorf(configurationErrorTemplateConstant, stripperError)
	}
	extensionMapper, mapperError := configuration.BuildExtensionMapper()
	if mapperError != nil {
		return fmt.Errorf(configurationErrorTemplateConstant, mapperError)
	}

	gitExecutor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorError)
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:          logger,
		FileSystem:      builder.resolveFileSystem(),
		GitExecutor:     gitExecutor,
		Stripper:        stripper,
		ExtensionMapper: extensionMapper,
		Prompter:        builder.resolvePrompter(command),
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	if executionFlags.DryRun {
		plan, planError := service.Plan(command.Context(), options)
		if planError != nil {
			return fmt.Errorf(planErrorTemplateConstant, planError)
		}
		return WritePlan(command.OutOrStdout(), plan)
	}

	result, migrationError := service.Execute(command.Context(), options)
	if migrationError != nil {
		logger.Error(migrationFailedLogMessageConstant, zap.String(repositoryRootFieldConstant, options.RepositoryRoot), zap.Error(migrationError))
		return fmt.Errorf(migrationErrorTemplateConstant, migrationError)
	}
	return WriteReport(command.OutOrStdout(), result)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) (MigrationOptions, flags.ExecutionDefaults, error) {
	executionFlags := flags.ResolveExecutionFlags(
		command,
		flags.ExecutionDefaults{SkipPublish: !configuration.Publish.Enabled},
		flags.DefaultExecutionFlagDefinitions(),
	)

	options := MigrationOptions{
		RepositoryRoot:  configuration.RepositoryRoot,
		TemplateSource:  configuration.TemplateDirectory.Source,
		TemplateTarget:  configuration.TemplateDirectory.Target,
		ConversionRoots: append([]string{}, configuration.ConversionRoots...),
		RemovedFiles:    append([]string{}, configuration.RemovedFiles...),
		Workers:         configuration.Workers,
		Publish: PublishOptions{
			Remote:        configuration.Publish.Remote,
			Branch:        configuration.Publish.Branch,
			CommitMessage: configuration.Publish.CommitMessage,
		},
		SkipPublish:    executionFlags.SkipPublish,
		ConfirmPublish: configuration.ConfirmPublish,
		AssumeYes:      executionFlags.AssumeYes,
	}

	if command == nil {
		return options, executionFlags, nil
	}

	commandFlags := command.Flags()
	stringOverrides := []struct {
		flagName string
		target   *string
		trim     bool
	}{
		{flagName: repositoryRootFlagNameConstant, target: &options.RepositoryRoot, trim: true},
		{flagName: commitMessageFlagNameConstant, target: &options.Publish.CommitMessage},
		{flagName: remoteFlagNameConstant, target: &options.Publish.Remote, trim: true},
		{flagName: branchFlagNameConstant, target: &options.Publish.Branch, trim: true},
	}
	for _, override := range stringOverrides {
		if !commandFlags.Changed(override.flagName) {
			continue
		}
		flagValue, flagError := commandFlags.GetString(override.flagName)
		if flagError != nil {
			return MigrationOptions{}, flags.ExecutionDefaults{}, fmt.Errorf(flagReadErrorTemplateConstant, override.flagName, flagError)
		}
		if override.trim {
			flagValue = strings.TrimSpace(flagValue)
		}
		*override.target = flagValue
	}

	if commandFlags.Changed(workersFlagNameConstant) {
		workers, flagError := commandFlags.GetInt(workersFlagNameConstant)
		if flagError != nil {
			return MigrationOptions{}, flags.ExecutionDefaults{}, fmt.Errorf(flagReadErrorTemplateConstant, workersFlagNameConstant, flagError)
		}
		options.Workers = workers
	}

	return options, executionFlags, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	var logger *zap.Logger
	if builder.LoggerProvider != nil {
		logger = builder.LoggerProvider()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (GitExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	var eventObservers []execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		eventObservers = append(eventObservers, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), eventObservers...)
}

func (builder *CommandBuilder) resolveFileSystem() FileSystem {
	if builder.FileSystem != nil {
		return builder.FileSystem
	}
	return filesystem.OSFileSystem{}
}

func (builder *CommandBuilder) resolvePrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.Prompter != nil {
		return builder.Prompter
	}
	return NewIOConfirmationPrompter(command.InOrStdin(), command.ErrOrStderr())
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (MigrationExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
