// Package inspect reports on the reachability and shape of a journey graph.
//
// Inspection is informational: dangling references, unreachable nodes and
// cycles are all tolerated by layout and rendering, but editors and the API
// surface them so a user can fix the journey by hand.
package inspect

import (
	"errors"
	"sort"

	"github.com/dominikbraun/graph"

	"github.com/matzehuels/journey/pkg/journey"
)

// Report summarizes a journey graph.
type Report struct {
	Root string `json:"root"`

	// Reachable lists nodes reachable from Root, in list order.
	Reachable []string `json:"reachable"`

	// Unreachable lists nodes not reachable from Root, in list order.
	Unreachable []string `json:"unreachable"`

	// Dangling lists "from->to" references whose target does not exist.
	Dangling []string `json:"dangling"`

	// DeadEnds lists non-Exit nodes without a resolvable successor.
	DeadEnds []string `json:"deadEnds"`

	// Duplicates lists IDs that occur more than once.
	Duplicates []string `json:"duplicates"`

	// Cyclic is true when some edge closes a cycle.
	Cyclic bool `json:"cyclic"`
}

// Clean reports whether nothing unusual was found.
func (r Report) Clean() bool {
	return len(r.Unreachable) == 0 && len(r.Dangling) == 0 &&
		len(r.DeadEnds) == 0 && len(r.Duplicates) == 0 && !r.Cyclic
}

// Inspect builds a directed graph from the nodes' connections and branches
// and reports on it. An empty rootID uses the Entrance, or the first node.
func Inspect(nodes []journey.Node, rootID string) Report {
	r := Report{
		Reachable:   []string{},
		Unreachable: []string{},
		Dangling:    []string{},
		DeadEnds:    []string{},
		Duplicates:  []string{},
	}
	if len(nodes) == 0 {
		return r
	}

	// g carries every edge for reachability; acyclic rejects back edges.
	g := graph.New(graph.StringHash, graph.Directed())
	acyclic := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, n := range nodes {
		err := g.AddVertex(n.ID)
		if errors.Is(err, graph.ErrVertexAlreadyExists) {
			r.Duplicates = append(r.Duplicates, n.ID)
			continue
		}
		_ = acyclic.AddVertex(n.ID)
	}
	known := journey.Index(nodes)
	added := make(map[[2]string]bool)

	for _, n := range nodes {
		resolved := 0
		for _, to := range n.Edges() {
			if _, ok := known[to]; !ok {
				r.Dangling = append(r.Dangling, n.ID+"->"+to)
				continue
			}
			resolved++
			edge := [2]string{n.ID, to}
			if added[edge] {
				continue
			}
			added[edge] = true
			_ = g.AddEdge(n.ID, to)
			// Both vertices exist and the edge is new, so under
			// PreventCycles any failure is a rejected back edge.
			if err := acyclic.AddEdge(n.ID, to); err != nil {
				r.Cyclic = true
			}
		}
		if n.Type != journey.TypeExit && resolved == 0 {
			r.DeadEnds = append(r.DeadEnds, n.ID)
		}
	}

	r.Root = rootID
	if _, ok := known[r.Root]; !ok {
		r.Root = nodes[0].ID
		if i := journey.FindEntrance(nodes); i >= 0 {
			r.Root = nodes[i].ID
		}
	}

	reached := make(map[string]bool, len(nodes))
	_ = graph.BFS(g, r.Root, func(id string) bool {
		reached[id] = true
		return false
	})
	listed := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if listed[n.ID] {
			continue
		}
		listed[n.ID] = true
		if reached[n.ID] {
			r.Reachable = append(r.Reachable, n.ID)
		} else {
			r.Unreachable = append(r.Unreachable, n.ID)
		}
	}
	sort.Strings(r.Duplicates)
	return r
}
