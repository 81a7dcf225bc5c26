package typestrip_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsmigrate/internal/typestrip"
)

func TestExtensionMapperTarget(testInstance *testing.T) {
	testCases := []struct {
		name            string
		path            string
		expectedTarget  string
		expectedMapping bool
	}{
		{name: "typescript", path: "F_Templates/src/main.ts", expectedTarget: "F_Templates/src/main.js", expectedMapping: true},
		{name: "typescript_jsx", path: "B_Templates/App.tsx", expectedTarget: "B_Templates/App.jsx", expectedMapping: true},
		{name: "declaration_file", path: "src/vite-env.d.ts", expectedTarget: "src/vite-env.d.js", expectedMapping: true},
		{name: "javascript_untouched", path: "src/main.js"},
		{name: "uppercase_extension_untouched", path: "src/LEGACY.TS"},
		{name: "no_extension", path: "src/Makefile"},
		{name: "bare_dotfile", path: "src/.ts"},
		{name: "dotted_directory", path: "src.ts/readme"},
	}

	mapper := typestrip.NewDefaultExtensionMapper()
	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			target, mapped := mapper.Target(testCase.path)
			require.Equal(testInstance, testCase.expectedMapping, mapped)
			require.Equal(testInstance, testCase.expectedTarget, target)
		})
	}
}

func TestNewExtensionMapperValidation(testInstance *testing.T) {
	testCases := []struct {
		name     string
		mappings []typestrip.ExtensionMapping
	}{
		{name: "empty"},
		{name: "missing_dot", mappings: []typestrip.ExtensionMapping{{Source: "ts", Target: ".js"}}},
		{name: "bare_dot", mappings: []typestrip.ExtensionMapping{{Source: ".ts", Target: "."}}},
		{name: "compound_extension", mappings: []typestrip.ExtensionMapping{{Source: ".d.ts", Target: ".js"}}},
		{name: "duplicate_source", mappings: []typestrip.ExtensionMapping{{Source: ".ts", Target: ".js"}, {Source: ".ts", Target: ".mjs"}}},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			_, creationError := typestrip.NewExtensionMapper(testCase.mappings)
			require.Error(testInstance, creationError)
		})
	}

	_, emptyError := typestrip.NewExtensionMapper(nil)
	require.ErrorIs(testInstance, emptyError, typestrip.ErrNoExtensionMappings)
}

func TestExtensionMapperCustomMapping(testInstance *testing.T) {
	mapper, creationError := typestrip.NewExtensionMapper([]typestrip.ExtensionMapping{{Source: ".mts", Target: ".mjs"}})
	require.NoError(testInstance, creationError)

	target, mapped := mapper.Target("lib/index.mts")
	require.True(testInstance, mapped)
	require.Equal(testInstance, "lib/index.mjs", target)

	_, defaultMapped := mapper.Target("lib/index.ts")
	require.False(testInstance, defaultMapped)
}
