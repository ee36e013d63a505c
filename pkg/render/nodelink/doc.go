// Package nodelink renders journeys as Graphviz node-link diagrams.
//
// # Usage
//
//	dot := nodelink.ToDOT(nodes, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Layout
//
// The DOT output pins every node at its canvas position (pos="x,y!" with
// inputscale=72, so one unit is one point) and asks for the neato engine,
// which respects pinned coordinates. The picture therefore matches what
// the editor canvas shows after layout.Tree or transform.Normalize.
//
// # Shapes
//
// Entrance nodes are ovals, messages are boxes, waits hexagons, branches
// diamonds and exits double circles. Branch edges are labelled yes and no.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG go through [render.ToPDF] and [render.ToPNG],
// which need rsvg-convert from librsvg and fail with UNSUPPORTED without it.
package nodelink
