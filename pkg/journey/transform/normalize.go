package transform

import (
	"slices"

	"github.com/matzehuels/journey/pkg/journey"
)

// PositionOptions controls index-derived position seeding.
type PositionOptions struct {
	CenterX         float64
	VerticalSpacing float64
}

func (o *PositionOptions) setDefaults() {
	if o.CenterX == 0 {
		o.CenterX = journey.DefaultCenterX
	}
	if o.VerticalSpacing <= 0 {
		o.VerticalSpacing = journey.DefaultVerticalSpacing
	}
}

// SeedPositions returns a copy of nodes placed in a single column in list
// order: x = CenterX, y = index * VerticalSpacing.
func SeedPositions(nodes []journey.Node, opts PositionOptions) []journey.Node {
	opts.setDefaults()
	out := journey.Clone(nodes)
	for i := range out {
		out[i].Position = journey.Position{
			X: opts.CenterX,
			Y: float64(i) * opts.VerticalSpacing,
		}
	}
	return out
}

// LinearizeOptions controls connection normalization.
type LinearizeOptions struct {
	// PreserveBranches keeps the yes/no targets of Branch nodes that have
	// any. Such nodes get no linear connection, and neither does any Exit.
	// When false, every node is flattened into the chain and Branch nodes
	// lose their targets.
	PreserveBranches bool
}

// Linearize re-derives a strict successor chain from vertical order.
//
// Nodes are stably sorted by position.y. Every node except the last gets a
// single connection to the node after it; the last gets none. By default
// this flattens branches: a Branch node keeps only the linear connection.
// Linearize never mutates nodes.
func Linearize(nodes []journey.Node, opts LinearizeOptions) []journey.Node {
	out := journey.Clone(nodes)
	slices.SortStableFunc(out, func(a, b journey.Node) int {
		switch {
		case a.Position.Y < b.Position.Y:
			return -1
		case a.Position.Y > b.Position.Y:
			return 1
		}
		return 0
	})

	for i := range out {
		n := &out[i]
		if opts.PreserveBranches && n.Type == journey.TypeBranch {
			if _, ok := n.Successor().(journey.Fork); ok {
				n.Connections = []string{}
				continue
			}
		}
		n.Branches = nil
		if i == len(out)-1 || (opts.PreserveBranches && n.Type == journey.TypeExit) {
			n.Connections = []string{}
			continue
		}
		n.Connections = []string{out[i+1].ID}
	}
	return out
}

// Normalize seeds positions in list order and then linearizes. It is the
// pass applied to freshly generated or repaired journeys.
func Normalize(nodes []journey.Node, pos PositionOptions, lin LinearizeOptions) []journey.Node {
	return Linearize(SeedPositions(nodes, pos), lin)
}
