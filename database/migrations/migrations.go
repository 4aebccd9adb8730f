// Package migrations holds the schema migrations. Each file registers itself
// from init(); import the package for its side effects to make them
// available to the runner.
package migrations
