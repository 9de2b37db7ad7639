package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graf/pkg/render/nodelink"
)

// Diagram output formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

var diagramFormats = []string{formatDOT, formatSVG, formatPNG}

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	output   string
	format   string
	detailed bool
}

// resolveFormat returns the explicit format, else the output file's
// extension, else DOT.
func (o *dotOpts) resolveFormat() (string, error) {
	f := strings.ToLower(o.format)
	if f == "" {
		f = strings.ToLower(strings.TrimPrefix(filepath.Ext(o.output), "."))
	}
	switch f {
	case "", "gv":
		return formatDOT, nil
	case formatDOT, formatSVG, formatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported diagram format %q (want one of %s)", f, strings.Join(diagramFormats, ", "))
}

// dotCommand creates the dot command, which draws a node-link diagram.
func (c *CLI) dotCommand() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot <file>",
		Short: "Draw a GrAF document as a node-link diagram",
		Long: `Draw the merged annotation graph as a node-link diagram.

The format is taken from --format, else from the output file extension, and
defaults to Graphviz DOT source. SVG and PNG are rendered in-process.

Examples:
  graf dot doc-penn.xml | dot -Tpdf > tree.pdf
  graf dot doc-penn.xml --detailed -o tree.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.resolveFormat()
			if err != nil {
				return err
			}
			g, err := c.readGraph(cmd, args[0])
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.detailed})
			var data []byte
			switch format {
			case formatSVG:
				data, err = nodelink.RenderSVG(dot)
			case formatPNG:
				data, err = nodelink.RenderPNG(dot)
			default:
				data = []byte(dot)
			}
			if err != nil {
				return err
			}

			if err := writeOutput(cmd, opts.output, data); err != nil {
				return err
			}
			if opts.output != "" && opts.output != stdinArg {
				w := cmd.ErrOrStderr()
				printSuccess(w, "Rendered %s diagram", strings.ToUpper(format))
				printFile(w, opts.output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: "+strings.Join(diagramFormats, ", "))
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include annotations and regions in labels")
	return cmd
}
