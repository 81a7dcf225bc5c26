// Package utils exposes reusable helpers consumed by the jsmigrate commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, embedded defaults, and zap logging,
// plus the command context accessor shared between the root command and the
// migrate subcommand.
package utils
