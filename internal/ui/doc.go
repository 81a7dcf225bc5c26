// Package ui renders git command lifecycle events for people watching the console.
//
// Structured log output keeps its machine-readable fields; the console logger
// replaces them with sentences such as "Pushing main to origin from /repo".
package ui
