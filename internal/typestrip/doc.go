// Package typestrip removes superficial TypeScript syntax from source text.
//
// The transformation is purely textual: an ordered list of regular expressions
// is applied with replace-all-by-empty, followed by literal rewrites of import
// specifiers. No parsing takes place, so constructs the expressions do not
// anticipate pass through unchanged or are damaged in predictable ways.
package typestrip
