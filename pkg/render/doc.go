// Package render draws journeys for people rather than for the canvas.
//
// Two renderers live in subpackages:
//
//   - [nodelink]: Graphviz DOT with every node pinned at its canvas
//     position, rendered in-process to SVG
//   - [mermaid]: Mermaid flowchart text for docs and pull requests
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert tool
// (from librsvg).
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// [nodelink]: github.com/matzehuels/journey/pkg/render/nodelink
// [mermaid]: github.com/matzehuels/journey/pkg/render/mermaid
package render
