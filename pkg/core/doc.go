// Package core holds the top-level operations invoked by the CLI.
//
// InitRepository is the only operation today: it guards against
// re-initialization and nesting with a repo.Locator, builds the standard
// layout with pkg/layout and writes it with pkg/tree.
package core
