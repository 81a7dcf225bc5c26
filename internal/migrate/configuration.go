package migrate

import (
	"strings"

	"github.com/temirov/jsmigrate/internal/typestrip"
)

const (
	defaultRepositoryRootConstant      = "."
	defaultTemplateSourceConstant      = "templates"
	defaultTemplateTargetConstant      = "B_Templates"
	defaultFrontendRootConstant        = "F_Templates"
	defaultRemoteNameConstant          = "origin"
	defaultBranchNameConstant          = "main"
	defaultCommitMessageConstant       = "refactor: migrate TypeScript to JavaScript and rename templates to B_Templates"
	defaultWorkersConstant             = 1
	tsconfigFileNameConstant           = "tsconfig.json"
	tsconfigNodeFileNameConstant       = "tsconfig.node.json"
	viteEnvironmentFileNameConstant    = "vite-env.d.ts"
	configurationKeySeparatorConstant  = "."
	repositoryRootKeyConstant          = "repository_root"
	templateSourceKeyConstant          = "template_directory.source"
	templateTargetKeyConstant          = "template_directory.target"
	conversionRootsKeyConstant         = "conversion_roots"
	extensionMappingsKeyConstant       = "extension_mappings"
	stripPatternsKeyConstant           = "strip_patterns"
	specifierReplacementsKeyConstant   = "specifier_replacements"
	removedFilesKeyConstant            = "removed_files"
	workersKeyConstant                 = "workers"
	confirmPublishKeyConstant          = "confirm_publish"
	publishEnabledKeyConstant          = "publish.enabled"
	publishRemoteKeyConstant           = "publish.remote"
	publishBranchKeyConstant           = "publish.branch"
	publishCommitMessageKeyConstant    = "publish.commit_message"
	extensionMappingSourceKeyConstant  = "source"
	extensionMappingTargetKeyConstant  = "target"
	specifierReplacementOldKeyConstant = "old"
	specifierReplacementNewKeyConstant = "new"
)

// TemplateDirectoryConfiguration names the directory relocated before conversion.
type TemplateDirectoryConfiguration struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
}

// ExtensionMappingConfiguration maps a source extension to its converted extension.
type ExtensionMappingConfiguration struct {
	Source string `mapstructure:"source"`
	Target string `mapstructure:"target"`
}

// SpecifierReplacementConfiguration describes a literal import specifier rewrite.
type SpecifierReplacementConfiguration struct {
	Old string `mapstructure:"old"`
	New string `mapstructure:"new"`
}

// PublishConfiguration controls the git publish stage.
type PublishConfiguration struct {
	Enabled       bool   `mapstructure:"enabled"`
	Remote        string `mapstructure:"remote"`
	Branch        string `mapstructure:"branch"`
	CommitMessage string `mapstructure:"commit_message"`
}

// CommandConfiguration captures persisted configuration for the migrate command.
type CommandConfiguration struct {
	RepositoryRoot        string                              `mapstructure:"repository_root"`
	TemplateDirectory     TemplateDirectoryConfiguration      `mapstructure:"template_directory"`
	ConversionRoots       []string                            `mapstructure:"conversion_roots"`
	ExtensionMappings     []ExtensionMappingConfiguration     `mapstructure:"extension_mappings"`
	StripPatterns         []string                            `mapstructure:"strip_patterns"`
	SpecifierReplacements []SpecifierReplacementConfiguration `mapstructure:"specifier_replacements"`
	RemovedFiles          []string                            `mapstructure:"removed_files"`
	Workers               int                                 `mapstructure:"workers"`
	ConfirmPublish        bool                                `mapstructure:"confirm_publish"`
	Publish               PublishConfiguration                `mapstructure:"publish"`
}

// DefaultCommandConfiguration returns the configuration reproducing the stock migration.
func DefaultCommandConfiguration() CommandConfiguration {
	extensionMappings := make([]ExtensionMappingConfiguration, 0, len(typestrip.DefaultExtensionMappings()))
	for _, mapping := range typestrip.DefaultExtensionMappings() {
		extensionMappings = append(extensionMappings, ExtensionMappingConfiguration{Source: mapping.Source, Target: mapping.Target})
	}

	specifierReplacements := make([]SpecifierReplacementConfiguration, 0, len(typestrip.DefaultSpecifierReplacements()))
	for _, replacement := range typestrip.DefaultSpecifierReplacements() {
		specifierReplacements = append(specifierReplacements, SpecifierReplacementConfiguration{Old: replacement.Old, New: replacement.New})
	}

	return CommandConfiguration{
		RepositoryRoot: defaultRepositoryRootConstant,
		TemplateDirectory: TemplateDirectoryConfiguration{
			Source: defaultTemplateSourceConstant,
			Target: defaultTemplateTargetConstant,
		},
		ConversionRoots:       []string{defaultFrontendRootConstant, defaultTemplateTargetConstant},
		ExtensionMappings:     extensionMappings,
		StripPatterns:         typestrip.DefaultStripPatterns(),
		SpecifierReplacements: specifierReplacements,
		RemovedFiles:          []string{tsconfigFileNameConstant, tsconfigNodeFileNameConstant, viteEnvironmentFileNameConstant},
		Workers:               defaultWorkersConstant,
		ConfirmPublish:        false,
		Publish: PublishConfiguration{
			Enabled:       true,
			Remote:        defaultRemoteNameConstant,
			Branch:        defaultBranchNameConstant,
			CommitMessage: defaultCommitMessageConstant,
		},
	}
}

// DefaultConfigurationValues flattens DefaultCommandConfiguration into configuration keys under keyPrefix.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()

	extensionMappings := make([]map[string]any, 0, len(defaults.ExtensionMappings))
	for _, mapping := range defaults.ExtensionMappings {
		extensionMappings = append(extensionMappings, map[string]any{
			extensionMappingSourceKeyConstant: mapping.Source,
			extensionMappingTargetKeyConstant: mapping.Target,
		})
	}

	specifierReplacements := make([]map[string]any, 0, len(defaults.SpecifierReplacements))
	for _, replacement := range defaults.SpecifierReplacements {
		specifierReplacements = append(specifierReplacements, map[string]any{
			specifierReplacementOldKeyConstant: replacement.Old,
			specifierReplacementNewKeyConstant: replacement.New,
		})
	}

	flattened := map[string]any{
		repositoryRootKeyConstant:        defaults.RepositoryRoot,
		templateSourceKeyConstant:        defaults.TemplateDirectory.Source,
		templateTargetKeyConstant:        defaults.TemplateDirectory.Target,
		conversionRootsKeyConstant:       defaults.ConversionRoots,
		extensionMappingsKeyConstant:     extensionMappings,
		stripPatternsKeyConstant:         defaults.StripPatterns,
		specifierReplacementsKeyConstant: specifierReplacements,
		removedFilesKeyConstant:          defaults.RemovedFiles,
		workersKeyConstant:               defaults.Workers,
		confirmPublishKeyConstant:        defaults.ConfirmPublish,
		publishEnabledKeyConstant:        defaults.Publish.Enabled,
		publishRemoteKeyConstant:         defaults.Publish.Remote,
		publishBranchKeyConstant:         defaults.Publish.Branch,
		publishCommitMessageKeyConstant:  defaults.Publish.CommitMessage,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(keyPrefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return flattened
	}

	prefixed := make(map[string]any, len(flattened))
	for key, value := range flattened {
		prefixed[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixed
}

// LineSeparatedConfigurationKeys lists keys whose environment overrides hold one entry per line.
// Strip patterns may contain commas, so they cannot use comma-separated environment values.
func LineSeparatedConfigurationKeys(keyPrefix string) []string {
	trimmedPrefix := strings.Trim(strings.TrimSpace(keyPrefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return []string{stripPatternsKeyConstant}
	}
	return []string{trimmedPrefix + configurationKeySeparatorConstant + stripPatternsKeyConstant}
}

// Sanitize trims configured values and restores defaults for empty entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RepositoryRoot = valueOrDefault(configuration.RepositoryRoot, defaults.RepositoryRoot)
	sanitized.TemplateDirectory.Source = valueOrDefault(configuration.TemplateDirectory.Source, defaults.TemplateDirectory.Source)
	sanitized.TemplateDirectory.Target = valueOrDefault(configuration.TemplateDirectory.Target, defaults.TemplateDirectory.Target)
	sanitized.ConversionRoots = listOrDefault(configuration.ConversionRoots, defaults.ConversionRoots)
	sanitized.RemovedFiles = listOrDefault(configuration.RemovedFiles, defaults.RemovedFiles)
	sanitized.StripPatterns = nonEmptyOrDefault(configuration.StripPatterns, defaults.StripPatterns)

	sanitized.ExtensionMappings = nil
	for _, mapping := range configuration.ExtensionMappings {
		trimmedMapping := ExtensionMappingConfiguration{Source: strings.TrimSpace(mapping.Source), Target: strings.TrimSpace(mapping.Target)}
		if len(trimmedMapping.Source) == 0 && len(trimmedMapping.Target) == 0 {
			continue
		}
		sanitized.ExtensionMappings = append(sanitized.ExtensionMappings, trimmedMapping)
	}
	if len(sanitized.ExtensionMappings) == 0 {
		sanitized.ExtensionMappings = defaults.ExtensionMappings
	}

	sanitized.SpecifierReplacements = nil
	for _, replacement := range configuration.SpecifierReplacements {
		if len(replacement.Old) == 0 {
			continue
		}
		sanitized.SpecifierReplacements = append(sanitized.SpecifierReplacements, replacement)
	}
	if len(sanitized.SpecifierReplacements) == 0 {
		sanitized.SpecifierReplacements = defaults.SpecifierReplacements
	}

	if sanitized.Workers < 1 {
		sanitized.Workers = defaults.Workers
	}

	sanitized.Publish.Remote = valueOrDefault(configuration.Publish.Remote, defaults.Publish.Remote)
	sanitized.Publish.Branch = valueOrDefault(configuration.Publish.Branch, defaults.Publish.Branch)
	sanitized.Publish.CommitMessage = valueOrDefault(configuration.Publish.CommitMessage, defaults.Publish.CommitMessage)

	return sanitized
}

// BuildStripper compiles the configured strip patterns and specifier replacements.
func (configuration CommandConfiguration) BuildStripper() (*typestrip.Stripper, error) {
	replacements := make([]typestrip.SpecifierReplacement, 0, len(configuration.SpecifierReplacements))
	for _, replacement := range configuration.SpecifierReplacements {
		replacements = append(replacements, typestrip.SpecifierReplacement{Old: replacement.Old, New: replacement.New})
	}
	return typestrip.NewStripper(configuration.StripPatterns, replacements)
}

// BuildExtensionMapper validates the configured extension mappings.
func (configuration CommandConfiguration) BuildExtensionMapper() (typestrip.ExtensionMapper, error) {
	mappings := make([]typestrip.ExtensionMapping, 0, len(configuration.ExtensionMappings))
	for _, mapping := range configuration.ExtensionMappings {
		mappings = append(mappings, typestrip.ExtensionMapping{Source: mapping.Source, Target: mapping.Target})
	}
	return typestrip.NewExtensionMapper(mappings)
}

func valueOrDefault(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}

func listOrDefault(values []string, defaultValues []string) []string {
	var trimmedValues []string
	for _, value := range values {
		trimmedValue := strings.TrimSpace(value)
		if len(trimmedValue) == 0 {
			continue
		}
		trimmedValues = append(trimmedValues, trimmedValue)
	}
	if len(trimmedValues) == 0 {
		return defaultValues
	}
	return trimmedValues
}

func nonEmptyOrDefault(values []string, defaultValues []string) []string {
	var retainedValues []string
	for _, value := range values {
		if len(strings.TrimSpace(value)) == 0 {
			continue
		}
		retainedValues = append(retainedValues, value)
	}
	if len(retainedValues) == 0 {
		return defaultValues
	}
	return retainedValues
}
