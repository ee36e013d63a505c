package layout

import "github.com/matzehuels/journey/pkg/journey"

// Options controls tree layout spacing.
type Options struct {
	CenterX           float64 `json:"centerX" toml:"center_x"`
	VerticalSpacing   float64 `json:"verticalSpacing" toml:"vertical_spacing"`
	HorizontalSpacing float64 `json:"horizontalSpacing" toml:"horizontal_spacing"`
}

// DefaultOptions returns the canvas defaults (400, 150, 250).
func DefaultOptions() Options {
	return Options{
		CenterX:           journey.DefaultCenterX,
		VerticalSpacing:   journey.DefaultVerticalSpacing,
		HorizontalSpacing: journey.DefaultHorizontalSpacing,
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.CenterX == 0 {
		o.CenterX = d.CenterX
	}
	if o.VerticalSpacing <= 0 {
		o.VerticalSpacing = d.VerticalSpacing
	}
	if o.HorizontalSpacing <= 0 {
		o.HorizontalSpacing = d.HorizontalSpacing
	}
}

// edges is the adjacency of a journey split the way the traversal reads it.
type edges struct {
	connections map[string][]string
	branches    map[string]journey.Branches
	known       map[string]bool
}

func buildEdges(nodes []journey.Node) edges {
	e := edges{
		connections: make(map[string][]string, len(nodes)),
		branches:    make(map[string]journey.Branches),
		known:       make(map[string]bool, len(nodes)),
	}
	for _, n := range nodes {
		if e.known[n.ID] {
			continue
		}
		e.known[n.ID] = true
		e.connections[n.ID] = n.Connections
		if n.Type == journey.TypeBranch && n.Branches != nil && len(n.Branches.Yes)+len(n.Branches.No) > 0 {
			e.branches[n.ID] = *n.Branches
		}
	}
	return e
}

// traversal is the mutable state of one layout run.
type traversal struct {
	visited   map[string]bool
	positions map[string]journey.Position
}

func newTraversal() *traversal {
	return &traversal{
		visited:   make(map[string]bool),
		positions: make(map[string]journey.Position),
	}
}

// Tree positions nodes by depth-first traversal from rootID and returns a
// new collection with positions attached.
//
// An empty or unknown rootID starts at the Entrance, or at the first node
// when there is none. Each node is placed at y = depth * VerticalSpacing and
// x = CenterX + offset. Linear successors inherit the offset; a Branch sends
// its yes targets to offset - HorizontalSpacing and its no targets to
// offset + HorizontalSpacing, visiting yes first. A Branch with yes or no
// targets ignores its connections; one without falls back to them.
//
// The first visit wins, so a node reachable through several parents takes
// the position of the earliest path, and cycles terminate. References to
// missing nodes are ignored. Unreachable nodes keep their previous position.
func Tree(nodes []journey.Node, rootID string, opts Options) []journey.Node {
	opts.setDefaults()
	out := journey.Clone(nodes)
	if len(out) == 0 {
		return out
	}

	g := buildEdges(out)
	root := resolveRoot(out, rootID, g)

	st := newTraversal()
	visit(root, 0, 0, g, opts, st)

	for i := range out {
		if pos, ok := st.positions[out[i].ID]; ok {
			out[i].Position = pos
		}
	}
	return out
}

func resolveRoot(nodes []journey.Node, rootID string, g edges) string {
	if rootID != "" && g.known[rootID] {
		return rootID
	}
	if i := journey.FindEntrance(nodes); i >= 0 {
		return nodes[i].ID
	}
	return nodes[0].ID
}

func visit(id string, depth int, offset float64, g edges, opts Options, st *traversal) {
	if !g.known[id] || st.visited[id] {
		return
	}
	st.visited[id] = true
	st.positions[id] = journey.Position{
		X: opts.CenterX + offset,
		Y: float64(depth) * opts.VerticalSpacing,
	}

	if b, ok := g.branches[id]; ok {
		for _, child := range b.Yes {
			visit(child, depth+1, offset-opts.HorizontalSpacing, g, opts, st)
		}
		for _, child := range b.No {
			visit(child, depth+1, offset+opts.HorizontalSpacing, g, opts, st)
		}
		return
	}
	for _, child := range g.connections[id] {
		visit(child, depth+1, offset, g, opts, st)
	}
}
