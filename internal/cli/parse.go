package cli

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

// parseCommand creates the parse command, which loads a document with its
// dependencies and prints a summary.
func (c *CLI) parseCommand() *cobra.Command {
	var showUsage bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a GrAF document and print a summary",
		Long: `Parse a GrAF XML document, resolve its dependsOn declarations and
print a summary of the merged graph.

Dependencies are looked up next to the file using the <base>-<type>.xml
naming convention, or through the document header given with --header.

Examples:
  graf parse corpus/doc-penn.xml
  graf parse --header corpus/doc.hdr corpus/doc-ptb.xml
  cat doc-seg.xml | graf parse -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printTitle(w, args[0])
			printStats(w, g)

			h := g.Header()
			if deps := h.DependsOn(); len(deps) > 0 {
				printKeyValue(w, "depends on", strings.Join(deps, ", "))
			}
			if spaces := g.Spaces(); len(spaces) > 0 {
				names := make([]string, len(spaces))
				for i, s := range spaces {
					names[i] = s.ID
					if s.Type != "" {
						names[i] += " (" + s.Type + ")"
					}
				}
				printKeyValue(w, "spaces", strings.Join(names, ", "))
			}
			if roots := h.Roots(); len(roots) > 0 {
				printKeyValue(w, "roots", strings.Join(roots, ", "))
			}
			if !g.Features.Empty() {
				printKeyValue(w, "features", g.Features.String())
			}
			if g.Content != "" {
				printKeyValue(w, "primary data", strconv.Itoa(utf8.RuneCountInString(g.Content))+" chars")
			}

			if showUsage {
				if usage := g.Usage(); len(usage) > 0 {
					printInfo(w, "annotation labels")
					printUsage(w, usage)
				} else {
					printDetail(w, "no annotations")
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showUsage, "labels", "l", false, "print the annotation label histogram")
	return cmd
}
