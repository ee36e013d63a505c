package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/errors"
	"github.com/matzehuels/journey/pkg/journey/inspect"
	"github.com/matzehuels/journey/pkg/journey/repair"
)

func (c *CLI) validateCommand() *cobra.Command {
	var (
		req  reqFlags
		root string
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a journey against its requirements",
		Long: `Check a journey document against its node count requirements and report
structural findings. Exits non-zero when the journey would need repair.

Requirements come from --email/--push/--wait/--branch, then the document's
requirements, then its description.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			want := req.resolve(documentRequirements(doc))
			v := repair.Validate(doc.Nodes, want)
			report := inspect.Inspect(doc.Nodes, root)

			fmt.Fprintln(c.Out, countsTable(want, v.Counts))
			printReport(c.Out, report)

			switch {
			case !v.HasEntrance || !v.HasExit:
				return errors.New(errors.ErrCodeInvalidInput, "journey needs an entrance and an exit (would be rebuilt)")
			case !v.Sound():
				return errors.New(errors.ErrCodeInvalidInput, "journey has %d entrances and %d exits or they are out of place", v.Entrances, v.Exits)
			case !v.Valid:
				return errors.New(errors.ErrCodeInvalidInput, "node counts do not match the requirements")
			}
			printSuccess(c.Out, "%d nodes satisfy the requirements", len(doc.Nodes))
			return nil
		},
	}
	req.register(cmd)
	cmd.Flags().StringVar(&root, "root", "", "root node for reachability (default: entrance)")
	return cmd
}
