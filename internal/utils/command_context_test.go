package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsmigrate/internal/utils"
)

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	executionContext := accessor.WithConfigurationFilePath(context.Background(), "/workspace/config.yaml")
	executionContext = accessor.WithLogLevel(executionContext, string(utils.LogLevelDebug))
	executionContext = accessor.WithLogFormat(executionContext, string(utils.LogFormatConsole))

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(executionContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, "/workspace/config.yaml", configurationFilePath)

	logLevel, logLevelAvailable := accessor.LogLevel(executionContext)
	require.True(testInstance, logLevelAvailable)
	require.Equal(testInstance, string(utils.LogLevelDebug), logLevel)

	logFormat, logFormatAvailable := accessor.LogFormat(executionContext)
	require.True(testInstance, logFormatAvailable)
	require.Equal(testInstance, string(utils.LogFormatConsole), logFormat)
}

func TestCommandContextAccessorMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, configurationFilePathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationFilePathAvailable)

	_, logLevelAvailable := accessor.LogLevel(context.Background())
	require.False(testInstance, logLevelAvailable)
}
