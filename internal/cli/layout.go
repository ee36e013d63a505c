package cli

import (
	"github.com/spf13/cobra"

	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/pipeline"
)

// layoutCommand re-derives positions from the current connections, e.g.
// after a journey was edited by hand.
func (c *CLI) layoutCommand() *cobra.Command {
	var output, root string

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Lay out a journey as a tree from its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			opts := pipeline.Options{Logger: c.Logger}
			opts.ApplyConfig(cfg)
			nodes := c.newRunner(cfg, nil, nil).Relayout(cmd.Context(), doc.Nodes, root, opts)

			c.Logger.Debug("laid out journey", "nodes", len(nodes), "root", root)
			return writeDocument(c.Out, output, jio.Document{
				Description:  doc.Description,
				Requirements: doc.Requirements,
				Nodes:        nodes,
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&root, "root", "", "root node (default: entrance)")
	return cmd
}
