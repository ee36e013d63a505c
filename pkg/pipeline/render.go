package pipeline

import (
	"bytes"
	"context"
	"fmt"

	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/render/mermaid"
	"github.com/matzehuels/journey/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats, keyed by
// format. DOT is computed once and shared by the Graphviz formats.
func Render(ctx context.Context, nodes []journey.Node, formats []string, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}

	dot := nodelink.ToDOT(nodes, nodelink.Options{Detailed: opts.Detailed})
	doc := jio.Document{
		Description:  opts.Description,
		Requirements: opts.ResolveRequirements(),
		Nodes:        nodes,
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, 2.0)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatMermaid:
			data = []byte(mermaid.Generate(nodes))
		case FormatJSON, FormatYAML:
			var buf bytes.Buffer
			err = jio.Write(&buf, doc, jio.Format(format))
			data = buf.Bytes()
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
