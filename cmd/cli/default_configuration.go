package cli

import _ "embed"

//go:embed default_config.yaml
var embeddedDefaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the bundled default configuration together with its format.
// The bundled values reproduce migrate.DefaultCommandConfiguration so a bare invocation behaves like the stock migration.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	configurationContent := make([]byte, len(embeddedDefaultConfigurationContent))
	copy(configurationContent, embeddedDefaultConfigurationContent)
	return configurationContent, configurationTypeConstant
}
