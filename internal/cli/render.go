package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/graf/pkg/io"
)

// renderCommand creates the render command, which writes the canonical GrAF
// XML form of a document and its merged dependencies.
func (c *CLI) renderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Re-render a GrAF document in canonical form",
		Long: `Parse a GrAF XML document with its dependencies and write the merged
graph as canonical GrAF XML: regions in anchor order, nodes sorted by ID,
edges in document order, each annotation following its node or edge.

Rendering is deterministic, so the output is suitable for diffing.

Examples:
  graf render doc-penn.xml                # to stdout
  graf render doc-penn.xml -o merged.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			data, err := pkgio.MarshalXML(g, c.writeOptions()...)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, data); err != nil {
				return err
			}
			if output != "" && output != stdinArg {
				w := cmd.ErrOrStderr()
				printSuccess(w, "Rendered %s", g.Summary())
				printFile(w, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
