// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

import (
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Print the migration plan without changing files or running git"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Automatically confirm prompts"
	// SkipPublishFlagName exposes the shared skip-publish flag name.
	SkipPublishFlagName = "skip-publish"
	// SkipPublishFlagUsage describes the shared skip-publish flag purpose.
	SkipPublishFlagUsage = "Rewrite files without committing or pushing"
)

// ExecutionDefaults describes default flag values shared across commands.
type ExecutionDefaults struct {
	DryRun      bool
	AssumeYes   bool
	SkipPublish bool
}

// ExecutionFlagDefinition captures a single flag's configuration.
type ExecutionFlagDefinition struct {
	Name      string
	Usage     string
	Shorthand string
	Enabled   bool
}

// ExecutionFlagDefinitions groups execution flag definitions.
type ExecutionFlagDefinitions struct {
	DryRun      ExecutionFlagDefinition
	AssumeYes   ExecutionFlagDefinition
	SkipPublish ExecutionFlagDefinition
}

// DefaultExecutionFlagDefinitions enables every execution flag with its shared name and usage.
func DefaultExecutionFlagDefinitions() ExecutionFlagDefinitions {
	return ExecutionFlagDefinitions{
		DryRun:      ExecutionFlagDefinition{Name: DryRunFlagName, Usage: DryRunFlagUsage, Enabled: true},
		AssumeYes:   ExecutionFlagDefinition{Name: AssumeYesFlagName, Usage: AssumeYesFlagUsage, Shorthand: AssumeYesFlagShorthand, Enabled: true},
		SkipPublish: ExecutionFlagDefinition{Name: SkipPublishFlagName, Usage: SkipPublishFlagUsage, Enabled: true},
	}
}

// BindExecutionFlags attaches standardized execution flags to the provided command using persistent scope.
func BindExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) {
	if command == nil {
		return
	}

	persistentFlagSet := command.PersistentFlags()

	bindBoolFlag(persistentFlagSet, definitions.DryRun, defaults.DryRun)
	bindBoolFlag(persistentFlagSet, definitions.AssumeYes, defaults.AssumeYes)
	bindBoolFlag(persistentFlagSet, definitions.SkipPublish, defaults.SkipPublish)
}

// ResolveExecutionFlags reads execution flags from the command, keeping defaults for flags that were not set explicitly.
func ResolveExecutionFlags(command *cobra.Command, defaults ExecutionDefaults, definitions ExecutionFlagDefinitions) ExecutionDefaults {
	resolved := defaults
	if command == nil {
		return resolved
	}

	resolved.DryRun = resolveBoolFlag(command, definitions.DryRun, defaults.DryRun)
	resolved.AssumeYes = resolveBoolFlag(command, definitions.AssumeYes, defaults.AssumeYes)
	resolved.SkipPublish = resolveBoolFlag(command, definitions.SkipPublish, defaults.SkipPublish)
	return resolved
}

func bindBoolFlag(flagSet *pflag.FlagSet, definition ExecutionFlagDefinition, defaultValue bool) {
	if flagSet == nil {
		return
	}
	if !definition.Enabled {
		return
	}
	if len(definition.Name) == 0 {
		return
	}
	if flagSet.Lookup(definition.Name) != nil {
		return
	}

	if len(definition.Shorthand) > 0 {
		flagSet.BoolP(definition.Name, definition.Shorthand, defaultValue, definition.Usage)
		return
	}

	flagSet.Bool(definition.Name, defaultValue, definition.Usage)
}

func resolveBoolFlag(command *cobra.Command, definition ExecutionFlagDefinition, defaultValue bool) bool {
	if !definition.Enabled || len(definition.Name) == 0 {
		return defaultValue
	}

	flag := command.Flags().Lookup(definition.Name)
	if flag == nil {
		flag = command.InheritedFlags().Lookup(definition.Name)
	}
	if flag == nil || !flag.Changed {
		return defaultValue
	}

	flagValue, parseError := strconv.ParseBool(flag.Value.String())
	if parseError != nil {
		return defaultValue
	}
	return flagValue
}
