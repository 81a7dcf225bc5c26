package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/jsmigrate/cmd/cli"
	"github.com/temirov/jsmigrate/internal/migrate"
	"github.com/temirov/jsmigrate/internal/migrate/testsupport"
)

const (
	applicationSubtestNameTemplateConstant = "%d_%s"
	testConfigurationFileNameConstant      = "config.yaml"
	testConfigFlagTemplateConstant         = "--config=%s"
	testRootFlagTemplateConstant           = "--root=%s"
	testMigrateCommandNameConstant         = "migrate"
	testWorkersEnvironmentNameConstant     = "JSMIGRATE_TOOLS_MIGRATE_WORKERS"
	testLogLevelEnvironmentNameConstant    = "JSMIGRATE_COMMON_LOG_LEVEL"
	testConfigurationOverrideContent       = "common:\n  log_level: error\n  log_format: console\ntools:\n  migrate:\n    conversion_roots:\n      - frontend\n    publish:\n      branch: develop\n      commit_message: \"chore: drop typescript\"\n"
)

func runApplication(testInstance *testing.T, arguments []string) (*cli.Application, *bytes.Buffer, error) {
	testInstance.Helper()
	application, applicationError := cli.NewApplication()
	require.NoError(testInstance, applicationError)

	outputBuffer := &bytes.Buffer{}
	rootCommand := application.RootCommand()
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(&bytes.Buffer{})
	rootCommand.SetIn(strings.NewReader(""))
	rootCommand.SetArgs(arguments)

	return application, outputBuffer, application.ExecuteContext(context.Background())
}

func writeConfigurationFile(testInstance *testing.T, content string) string {
	testInstance.Helper()
	configurationFilePath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o600))
	return configurationFilePath
}

func TestApplicationRegistersMigrateCommand(testInstance *testing.T) {
	application, applicationError := cli.NewApplication()
	require.NoError(testInstance, applicationError)

	migrateCommand, _, findError := application.RootCommand().Find([]string{testMigrateCommandNameConstant})
	require.NoError(testInstance, findError)
	require.Equal(testInstance, testMigrateCommandNameConstant, migrateCommand.Name())

	for _, flagName := range []string{"root", "workers", "message", "remote", "branch"} {
		require.NotNil(testInstance, migrateCommand.Flags().Lookup(flagName), flagName)
	}
	for _, flagName := range []string{"dry-run", "yes", "skip-publish"} {
		require.NotNil(testInstance, migrateCommand.PersistentFlags().Lookup(flagName), flagName)
	}
	for _, flagName := range []string{"config", "log-level", "log-format"} {
		require.NotNil(testInstance, application.RootCommand().PersistentFlags().Lookup(flagName), flagName)
	}
}

func TestEmbeddedDefaultsMatchMigrateDefaults(testInstance *testing.T) {
	configurationFilePath := writeConfigurationFile(testInstance, "")

	application, _, executionError := runApplication(testInstance, []string{fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath)})
	require.NoError(testInstance, executionError)

	configuration := application.Configuration()
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, "structured", configuration.Common.LogFormat)
	if difference := cmp.Diff(migrate.DefaultCommandConfiguration(), configuration.Tools.Migrate); len(difference) > 0 {
		testInstance.Fatalf("embedded defaults diverge (-want +got):\n%s", difference)
	}
}

func TestEmbeddedDefaultConfigurationReturnsCopy(testInstance *testing.T) {
	firstContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, firstContent)

	firstContent[0] = '#'
	secondContent, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, firstContent[0], secondContent[0])
}

func TestApplicationConfigurationOverrides(testInstance *testing.T) {
	testCases := []struct {
		name              string
		environment       map[string]string
		extraArguments    []string
		expectedLogLevel  string
		expectedLogFormat string
		expectedWorkers   int
	}{
		{
			name:              "configuration_file",
			expectedLogLevel:  "error",
			expectedLogFormat: "console",
			expectedWorkers:   1,
		},
		{
			name:              "environment_over_file",
			environment:       map[string]string{testWorkersEnvironmentNameConstant: "4", testLogLevelEnvironmentNameConstant: "warn"},
			expectedLogLevel:  "warn",
			expectedLogFormat: "console",
			expectedWorkers:   4,
		},
		{
			name:              "flags_over_environment",
			environment:       map[string]string{testLogLevelEnvironmentNameConstant: "warn"},
			extraArguments:    []string{"--log-level=debug", "--log-format=structured"},
			expectedLogLevel:  "debug",
			expectedLogFormat: "structured",
			expectedWorkers:   1,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(applicationSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			for environmentName, environmentValue := range testCase.environment {
				testInstance.Setenv(environmentName, environmentValue)
			}
			configurationFilePath := writeConfigurationFile(testInstance, testConfigurationOverrideContent)

			arguments := append([]string{fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath)}, testCase.extraArguments...)
			application, _, executionError := runApplication(testInstance, arguments)
			require.NoError(testInstance, executionError)

			configuration := application.Configuration()
			require.Equal(testInstance, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedLogFormat, configuration.Common.LogFormat)
			require.Equal(testInstance, testCase.expectedWorkers, configuration.Tools.Migrate.Workers)
			require.Equal(testInstance, []string{"frontend"}, configuration.Tools.Migrate.ConversionRoots)
			require.Equal(testInstance, "develop", configuration.Tools.Migrate.Publish.Branch)
			require.Equal(testInstance, "origin", configuration.Tools.Migrate.Publish.Remote)
			require.Equal(testInstance, "chore: drop typescript", configuration.Tools.Migrate.Publish.CommitMessage)
		})
	}
}

func TestApplicationRejectsInvalidLogging(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "log_level", arguments: []string{"--log-level=verbose"}},
		{name: "log_format", arguments: []string{"--log-format=xml"}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(applicationSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			configurationFilePath := writeConfigurationFile(testInstance, "")
			arguments := append([]string{fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath)}, testCase.arguments...)

			_, _, executionError := runApplication(testInstance, arguments)
			require.Error(testInstance, executionError)
			require.ErrorContains(testInstance, executionError, "unable to create logger")
		})
	}
}

func TestApplicationRejectsMissingConfigurationFile(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), "absent.yaml")

	_, _, executionError := runApplication(testInstance, []string{fmt.Sprintf(testConfigFlagTemplateConstant, missingPath)})
	require.ErrorContains(testInstance, executionError, "unable to load configuration")
}

func TestMigrateDryRunThroughApplication(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	repositoryFiles := map[string]string{
		"templates/api.ts":        "export const port: number = 8080;\n",
		"F_Templates/src/App.tsx": "import Header from './Header.tsx';\n",
		"tsconfig.json":           "{}\n",
	}
	require.NoError(testInstance, testsupport.WriteTree(repositoryRoot, repositoryFiles))
	configurationFilePath := writeConfigurationFile(testInstance, "")

	_, outputBuffer, executionError := runApplication(testInstance, []string{
		fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath),
		testMigrateCommandNameConstant,
		fmt.Sprintf(testRootFlagTemplateConstant, repositoryRoot),
		"--dry-run",
	})
	require.NoError(testInstance, executionError)

	var plan migrate.MigrationPlan
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &plan))
	require.Equal(testInstance, "rename", plan.Relocation.Action)
	require.Equal(testInstance, []string{"tsconfig.json"}, plan.RemovedFiles)
	require.Len(testInstance, plan.GitCommands, 3)

	currentFiles, readError := testsupport.ReadTree(repositoryRoot)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, repositoryFiles, currentFiles)
}

func TestMigrateSkipPublishThroughApplication(testInstance *testing.T) {
	repositoryRoot := testInstance.TempDir()
	require.NoError(testInstance, testsupport.WriteTree(repositoryRoot, map[string]string{
		"templates/api.ts":        "export const port: number = 8080;\n",
		"F_Templates/src/App.tsx": "import Header from './Header.tsx';\n",
		"tsconfig.json":           "{}\n",
		"vite-env.d.ts":           "/// <reference types=\"vite/client\" />\n",
	}))
	configurationFilePath := writeConfigurationFile(testInstance, "")

	_, outputBuffer, executionError := runApplication(testInstance, []string{
		fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath),
		testMigrateCommandNameConstant,
		fmt.Sprintf(testRootFlagTemplateConstant, repositoryRoot),
		"--skip-publish",
	})
	require.NoError(testInstance, executionError)

	var report migrate.MigrationResult
	require.NoError(testInstance, yaml.Unmarshal(outputBuffer.Bytes(), &report))
	require.True(testInstance, report.Relocation.Relocated)
	require.False(testInstance, report.Publish.Published)
	require.Equal(testInstance, "disabled", report.Publish.SkippedReason)
	require.Equal(testInstance, 2, report.ConvertedFileCount())

	currentFiles, readError := testsupport.ReadTree(repositoryRoot)
	require.NoError(testInstance, readError)
	expectedFiles := map[string]string{
		"B_Templates/api.js":      "export const port = 8080;\n",
		"F_Templates/src/App.jsx": "import Header from './Header.jsx';\n",
	}
	if difference := cmp.Diff(expectedFiles, currentFiles); len(difference) > 0 {
		testInstance.Fatalf("unexpected tree (-want +got):\n%s", difference)
	}
}

func TestApplicationReadsStripPatternsFromEnvironment(testInstance *testing.T) {
	genericParameterPattern := `<[A-Za-z0-9_,\s]+>`
	typeAnnotationPattern := `:\s*[A-Za-z0-9_<>\[\]\|\&]+`
	testInstance.Setenv("JSMIGRATE_TOOLS_MIGRATE_STRIP_PATTERNS", typeAnnotationPattern+"\n"+genericParameterPattern)
	configurationFilePath := writeConfigurationFile(testInstance, "")

	application, _, executionError := runApplication(testInstance, []string{fmt.Sprintf(testConfigFlagTemplateConstant, configurationFilePath)})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{typeAnnotationPattern, genericParameterPattern}, application.Configuration().Tools.Migrate.StripPatterns)
}
