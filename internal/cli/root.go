// Package cli implements the graf command-line interface.
//
// This package provides commands for parsing GrAF annotation documents,
// querying their annotations, re-rendering them canonically and drawing
// node-link diagrams. The CLI is built using cobra and logs via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - parse: Load a document and its dependencies and print a summary
//   - render: Write the merged graph as canonical GrAF XML
//   - query: Select annotations by label, features and space
//   - dot: Draw the graph with Graphviz (DOT, SVG, PNG)
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/graf/config.toml (or
// ~/.config/graf/config.toml), or from the file named with --config, which
// may be TOML or YAML:
//
//	header = "corpus/doc.hdr"   # resolve dependencies through a header
//	ids = "uuid"                # "sequential" (default) or "uuid"
//	indent = 2                  # spaces per level in rendered XML
//
// Command-line flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, including
// per-dependency timings reported through the observability hooks. Loggers
// are passed through context.Context.
//
// # Example
//
//	func main() {
//	    if err := cli.Execute(context.Background()); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"os"
)

// Execute runs the graf CLI with os.Args and returns an error if the
// command fails. Log output goes to stderr.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
