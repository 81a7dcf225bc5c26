package utils

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	environmentListSeparatorConstant                = ","
	environmentLineSeparatorConstant                = "\n"
	environmentCarriageReturnConstant               = "\r"
	environmentVariableNameTemplateConstant         = "%s_%s"
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
)

// ConfigurationLoader wraps Viper to load structured configuration files and environment overrides.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	environmentKeyReplacer    *strings.Replacer
	embeddedConfiguration     []byte
	embeddedConfigurationType string
	lineSeparatedKeys         []string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader that searches known paths and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	duplicatedSearchPaths := make([]string, len(searchPaths))
	copy(duplicatedSearchPaths, searchPaths)

	return &ConfigurationLoader{
		configurationName:      configurationName,
		configurationType:      configurationType,
		environmentPrefix:      environmentPrefix,
		searchPaths:            duplicatedSearchPaths,
		environmentKeyReplacer: strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant),
	}
}

// SetEmbeddedConfiguration stores embedded configuration data merged before user-provided configuration files.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}

	loader.embeddedConfiguration = nil
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)

	if len(configurationData) == 0 {
		return
	}

	duplicatedData := make([]byte, len(configurationData))
	copy(duplicatedData, configurationData)
	loader.embeddedConfiguration = duplicatedData
}

// SetLineSeparatedEnvironmentKeys marks keys whose environment values are split on newlines instead of commas.
func (loader *ConfigurationLoader) SetLineSeparatedEnvironmentKeys(configurationKeys ...string) {
	if loader == nil {
		return
	}
	loader.lineSeparatedKeys = append([]string{}, configurationKeys...)
}

// LoadConfiguration populates targetConfiguration using embedded defaults, configuration files, defaults, and environment variables.
//
// Environment variables are only consulted for keys that are known through defaults, embedded configuration, or a file.
// Comma-separated environment values decode into string slices, except for keys registered through
// SetLineSeparatedEnvironmentKeys, which hold one entry per line.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if len(loader.embeddedConfiguration) > 0 {
		configurationType := loader.configurationType
		if len(loader.embeddedConfigurationType) > 0 {
			configurationType = loader.embeddedConfigurationType
		}

		viperInstance.SetConfigType(configurationType)
		mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration))
		if mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
		}

		viperInstance.SetConfigType(loader.configurationType)
	}

	for _, searchPath := range loader.searchPaths {
		viperInstance.AddConfigPath(searchPath)
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	if loader.environmentKeyReplacer != nil {
		viperInstance.SetEnvKeyReplacer(loader.environmentKeyReplacer)
	}
	viperInstance.AutomaticEnv()

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	readError := viperInstance.MergeInConfig()
	if readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	for _, configurationKey := range loader.lineSeparatedKeys {
		environmentValue, environmentPresent := os.LookupEnv(loader.environmentVariableName(configurationKey))
		if !environmentPresent {
			continue
		}
		viperInstance.Set(configurationKey, splitEnvironmentLines(environmentValue))
	}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(environmentListSeparatorConstant),
	))

	unmarshalError := viperInstance.Unmarshal(targetConfiguration, decodeHook)
	if unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	loadedConfiguration := LoadedConfiguration{
		ConfigFileUsed: viperInstance.ConfigFileUsed(),
	}

	return loadedConfiguration, nil
}

func (loader *ConfigurationLoader) environmentVariableName(configurationKey string) string {
	environmentKey := strings.ToUpper(configurationKey)
	if loader.environmentKeyReplacer != nil {
		environmentKey = loader.environmentKeyReplacer.Replace(environmentKey)
	}
	if len(loader.environmentPrefix) == 0 {
		return environmentKey
	}
	return fmt.Sprintf(environmentVariableNameTemplateConstant, strings.ToUpper(loader.environmentPrefix), environmentKey)
}

func splitEnvironmentLines(environmentValue string) []string {
	entries := []string{}
	for _, line := range strings.Split(environmentValue, environmentLineSeparatorConstant) {
		trimmedLine := strings.TrimRight(line, environmentCarriageReturnConstant)
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}
		entries = append(entries, trimmedLine)
	}
	return entries
}
