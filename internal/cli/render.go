package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/pipeline"
)

func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		formats  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a journey document to diagrams",
		Long: `Render a journey document using its stored positions.

SVG, PNG and PDF are drawn with Graphviz; dot and mermaid emit diagram
source. Files are written next to the input unless -o names a base path.`,
		Example: `  journey render welcome.json
  journey render welcome.json -f svg,mermaid -o out/welcome`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := parseFormats(formats)
			if len(list) == 0 {
				list = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(list); err != nil {
				return err
			}

			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			artifacts, err := pipeline.Render(cmd.Context(), doc.Nodes, list, pipeline.Options{
				Description:  doc.Description,
				Requirements: &doc.Requirements,
				Detailed:     detailed,
			})
			if err != nil {
				return err
			}
			prog.done("rendered journey", "nodes", len(doc.Nodes), "formats", len(list))

			paths, err := writeArtifacts(basePath(output, args[0]), list, artifacts)
			if err != nil {
				return err
			}
			printSuccess(c.Out, "Rendered %s", args[0])
			for _, p := range paths {
				printFile(c.Out, p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "format(s): svg (default), png, pdf, dot, mermaid, json, yaml")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show node details")
	return cmd
}
