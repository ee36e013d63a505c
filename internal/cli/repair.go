package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/pipeline"
)

func (c *CLI) repairCommand() *cobra.Command {
	var (
		req              reqFlags
		output           string
		layout           string
		preserveBranches bool
	)

	cmd := &cobra.Command{
		Use:   "repair <file>",
		Short: "Repair, normalize and lay out a journey document",
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

			opts := pipeline.Options{
				Layout:           layout,
				PreserveBranches: preserveBranches,
				Logger:           c.Logger,
			}
			opts.ApplyConfig(cfg)
			if err := opts.ValidateForLayout(); err != nil {
				return err
			}

			want := req.resolve(documentRequirements(doc))
			res := c.newRunner(cfg, nil, nil).Process(cmd.Context(), doc.Nodes, want, opts)
			log.FromContext(cmd.Context()).Info("repaired journey", "mode", res.Repair.Mode, "added", len(res.Repair.Added), "removed", len(res.Repair.Removed))

			out := jio.Document{Description: doc.Description, Requirements: want, Nodes: res.Nodes}
			return writeDocument(c.Out, output, out)
		},
	}
	req.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&layout, "layout", pipeline.DefaultLayout, "layout algorithm: linear, tree")
	cmd.Flags().BoolVar(&preserveBranches, "preserve-branches", false, "keep branch yes/no targets")
	return cmd
}
