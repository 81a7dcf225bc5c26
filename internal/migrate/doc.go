// Package migrate converts a template project from TypeScript to JavaScript.
//
// A run relocates the backend template directory, rewrites TypeScript sources
// under the conversion roots into JavaScript files, deletes leftover compiler
// configuration, and publishes the result with git add, commit, and push.
// Stages run in that order and the first failure aborts the run.
package migrate
