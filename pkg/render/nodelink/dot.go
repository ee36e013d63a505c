package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the type-specific payload (wait duration, subject,
	// segments, exit conditions) to node labels.
	Detailed bool
}

type nodeStyle struct {
	shape string
	fill  string
}

var styles = map[journey.NodeType]nodeStyle{
	journey.TypeEntrance: {"oval", "#d1fae5"},
	journey.TypeEmail:    {"box", "#dbeafe"},
	journey.TypePush:     {"box", "#ede9fe"},
	journey.TypeWait:     {"hexagon", "#fef3c7"},
	journey.TypeBranch:   {"diamond", "#fde2e2"},
	journey.TypeExit:     {"doublecircle", "#e5e7eb"},
}

// ToDOT converts nodes to Graphviz DOT. Every node is pinned at its canvas
// position (y grows downward on the canvas, so it is negated). Edges to
// unknown ids are skipped; branch edges carry yes/no labels.
func ToDOT(nodes []journey.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=\"filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	idx := journey.Index(nodes)
	for _, n := range nodes {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, to := range n.Connections {
			if _, ok := idx[to]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, to)
			}
		}
		if n.Branches == nil {
			continue
		}
		for _, to := range n.Branches.Yes {
			if _, ok := idx[to]; ok {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"yes\"];\n", n.ID, to)
			}
		}
		for _, to := range n.Branches.No {
			if _, ok := idx[to]; ok {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"no\", style=dashed];\n", n.ID, to)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n journey.Node, detailed bool) string {
	title := n.Title
	if title == "" {
		title = n.ID
	}
	label := n.Type.Label() + "\n" + title
	if !detailed {
		return label
	}

	var extra []string
	switch p := n.Payload().(type) {
	case journey.EntrancePayload:
		if len(p.Segments) > 0 {
			extra = append(extra, "segments: "+strings.Join(p.Segments, ", "))
		}
	case journey.MessagePayload:
		if p.Content.Subject != "" {
			extra = append(extra, "subject: "+p.Content.Subject)
		}
		if p.Content.Title != "" {
			extra = append(extra, "title: "+p.Content.Title)
		}
	case journey.WaitPayload:
		if p.Duration != "" {
			extra = append(extra, "wait: "+p.Duration)
		}
	case journey.ExitPayload:
		if len(p.Conditions) > 0 {
			extra = append(extra, "exit: "+strings.Join(p.Conditions, ", "))
		}
	}
	if len(extra) == 0 {
		return label
	}
	return label + "\n" + strings.Join(extra, "\n")
}

func fmtAttrs(n journey.Node, label string) []string {
	st, ok := styles[n.Type]
	if !ok {
		st = nodeStyle{"box", "white"}
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		"shape=" + st.shape,
		fmt.Sprintf("fillcolor=%q", st.fill),
		fmt.Sprintf("pos=\"%s,%s!\"", fmtFloat(n.Position.X), fmtFloat(flipY(n.Position.Y))),
	}
}

// flipY maps canvas y (downward) to Graphviz y (upward) without producing -0.
func flipY(y float64) float64 {
	if y == 0 {
		return 0
	}
	return -y
}

func fmtFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG renders DOT to SVG with the neato engine, which keeps pinned
// positions.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders DOT as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

// RenderPDF renders DOT as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
