// Package cli constructs the jsmigrate command-line interface, wiring the
// Cobra command hierarchy, the embedded default configuration, and structured
// logging.
package cli
