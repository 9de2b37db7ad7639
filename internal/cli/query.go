package cli

import (
	"iter"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graf/pkg/errors"
	"github.com/matzehuels/graf/pkg/feature"
	"github.com/matzehuels/graf/pkg/graph"
)

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	label    string
	features []string // path=value pairs
	space    string
	invert   bool
	count    bool
}

// query builds a graph query from the flags.
func (o *queryOpts) query() (graph.Query, error) {
	q := graph.Query{Label: o.label, Space: o.space}
	if len(o.features) == 0 {
		return q, nil
	}
	fs := feature.New("")
	for _, kv := range o.features {
		path, value, ok := strings.Cut(kv, "=")
		if !ok || path == "" {
			return q, errors.New(errors.ErrCodeInvalidPath, "feature filter %q must have the form path=value", kv)
		}
		if err := fs.Set(path, feature.Atom(value)); err != nil {
			return q, err
		}
	}
	q.Features = fs
	return q, nil
}

// queryCommand creates the query command, which selects annotations by
// label, feature values and annotation space.
func (c *CLI) queryCommand() *cobra.Command {
	var opts queryOpts

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Select annotations from a GrAF document",
		Long: `Select annotations by label, feature values and annotation space.

A feature filter matches annotations whose feature structure contains the
given value at the given path; nested features use "/" separators. All
filters must hold. With --not, annotations that fail the filters are listed.

Examples:
  graf query doc-penn.xml --label tok --feature msd=NN
  graf query doc-penn.xml --space xces --feature morph/number=sg
  graf query doc-penn.xml --label tok --count`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.query()
			if err != nil {
				return err
			}
			g, err := c.readGraph(cmd, args[0])
			if err != nil {
				return err
			}
			if q.Space != "" {
				if _, ok := g.Space(q.Space); !ok {
					return errors.New(errors.ErrCodeUnknownSpace, "annotation space %q is not declared", q.Space)
				}
			}

			w := cmd.OutOrStdout()
			n := 0
			for a := range selectAnnotations(g, q, opts.invert) {
				n++
				if !opts.count {
					printAnnotation(w, a)
				}
			}
			switch {
			case opts.count:
				printKeyValue(w, "matches", StyleNumber.Render(strconv.Itoa(n)))
			case n == 0:
				printWarning(cmd.ErrOrStderr(), "no annotation matches %s", q)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.label, "label", "", "annotation label")
	cmd.Flags().StringArrayVarP(&opts.features, "feature", "f", nil, "feature filter path=value (repeatable)")
	cmd.Flags().StringVar(&opts.space, "space", "", "annotation space ID")
	cmd.Flags().BoolVar(&opts.invert, "not", false, "list annotations that do not match")
	cmd.Flags().BoolVarP(&opts.count, "count", "c", false, "print only the number of matches")
	return cmd
}

// selectAnnotations yields the annotations of g matching q, or failing it
// when invert is set. Space-scoped queries iterate the space directly.
func selectAnnotations(g *graph.Graph, q graph.Query, invert bool) iter.Seq[*graph.Annotation] {
	if s, ok := g.Space(q.Space); ok && q.Space != "" {
		if invert {
			return s.SelectNot(q)
		}
		return s.Select(q)
	}
	if !invert {
		return g.Select(q)
	}
	return func(yield func(*graph.Annotation) bool) {
		for a := range g.Select(graph.Query{}) {
			if !q.Matches(a) && !yield(a) {
				return
			}
		}
	}
}
