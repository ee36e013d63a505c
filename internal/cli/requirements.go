package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/journey"
)

func (c *CLI) requirementsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "requirements <description>",
		Short: "Show the node counts a description asks for",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := journey.ExtractRequirements(args[0])
			if asJSON {
				enc := json.NewEncoder(c.Out)
				enc.SetIndent("", "  ")
				return enc.Encode(req)
			}
			fmt.Fprintln(c.Out, countsTable(req, journey.Counts{}))
			if req.Total > 0 {
				printKeyValue(c.Out, "total", strconv.Itoa(req.Total))
			}
			if req.IsZero() {
				printInfo(c.Out, "No counts found; every type is unconstrained")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print requirements as JSON")
	return cmd
}
