package repair

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/journey/pkg/journey"
)

// Defaults for synthesized nodes.
const (
	DefaultWait        = "2 Days"
	DefaultMessageBody = "Add your message here."
)

var (
	// DefaultExitConditions are attached to the Exit of a canonical journey.
	DefaultExitConditions = []string{"Journey completed"}

	// DefaultSegments are attached to the Entrance of a canonical journey.
	DefaultSegments = []string{"All users"}
)

// Mode describes how [Repair] produced its result.
type Mode string

const (
	// ModeNone means the input was already valid and sound.
	ModeNone Mode = "none"
	// ModeAdjust means nodes were added or removed incrementally.
	ModeAdjust Mode = "adjust"
	// ModeRebuild means the input was discarded for the canonical template.
	ModeRebuild Mode = "rebuild"
)

// Options configures repair. The zero value is usable.
type Options struct {
	// DefaultWait is the duration given to synthesized Wait nodes.
	DefaultWait string

	// DefaultExitConditions and DefaultSegments decorate canonical
	// Exit and Entrance nodes.
	DefaultExitConditions []string
	DefaultSegments       []string

	// NewID generates IDs for nodes added during incremental adjustment.
	// Defaults to "<type>-<uuid>".
	NewID func(t journey.NodeType) string

	// PreserveBranches keeps every Exit in place so each branch arm can end
	// in its own Exit. Without it the journey is collapsed to a single
	// trailing Exit, matching the flattening normalizer.
	PreserveBranches bool

	// Logger receives repair outcomes. Defaults to a discard logger.
	Logger *log.Logger
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.DefaultWait == "" {
		o.DefaultWait = DefaultWait
	}
	if o.DefaultExitConditions == nil {
		o.DefaultExitConditions = DefaultExitConditions
	}
	if o.DefaultSegments == nil {
		o.DefaultSegments = DefaultSegments
	}
	if o.NewID == nil {
		o.NewID = func(t journey.NodeType) string {
			return string(t) + "-" + uuid.NewString()
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Result is the outcome of [Repair].
type Result struct {
	Nodes   []journey.Node `json:"nodes"`
	Mode    Mode           `json:"mode"`
	Added   []string       `json:"added"`
	Removed []string       `json:"removed"`
}

// Repair transforms nodes into a collection that satisfies req and the
// structural invariants. It never fails and never mutates nodes.
//
// Without an Entrance or an Exit the candidate is discarded and the
// canonical journey is built (see [BuildCanonical]). Otherwise each of
// email, push, wait and branch is adjusted independently using counts:
// a deficit synthesizes nodes just before the Exit, a surplus removes the
// first nodes of that type in list order. Duplicate Entrance or Exit nodes
// are dropped (the first Entrance and the last Exit survive) and the
// survivors are moved to the front and back.
//
// With PreserveBranches set, a journey whose counts already match is left
// alone as long as it has one Entrance at the front, however many Exits it
// has. Adjustment in that mode drops extra Entrances only; every Exit stays
// where it is with its outgoing edges cleared.
//
// Synthesized nodes have empty connections; run the result through
// transform.Linearize to thread them.
func Repair(nodes []journey.Node, req journey.Requirements, counts journey.Counts, opts Options) Result {
	opts.SetDefaults()
	v := Validate(nodes, req)

	if !v.HasEntrance || !v.HasExit {
		out := BuildCanonical(req, opts)
		res := Result{Nodes: out, Mode: ModeRebuild, Added: ids(out), Removed: ids(nodes)}
		opts.Logger.Info("rebuilt journey from template",
			"entrance", v.HasEntrance,
			"exit", v.HasExit,
			"nodes", len(out))
		return res
	}

	sound := v.Sound()
	if opts.PreserveBranches {
		sound = v.BranchSound()
	}
	if v.Valid && sound {
		opts.Logger.Debug("journey already satisfies requirements", "nodes", len(nodes), "exits", v.Exits)
		return Result{Nodes: journey.Clone(nodes), Mode: ModeNone, Added: []string{}, Removed: []string{}}
	}

	out, removed := restructure(journey.Clone(nodes), opts.PreserveBranches)
	res := Result{Mode: ModeAdjust, Added: []string{}, Removed: removed}

	for _, t := range journey.ConstrainedTypes {
		want := req.For(t)
		if want == 0 {
			continue
		}
		have := counts.For(t)
		switch {
		case have < want:
			added := make([]journey.Node, 0, want-have)
			for i := have + 1; i <= want; i++ {
				n := synthesize(t, opts.NewID(t), i, opts)
				added = append(added, n)
				res.Added = append(res.Added, n.ID)
			}
			out = insertBeforeExit(out, added)
			opts.Logger.Debug("added nodes", "type", t, "count", len(added))
		case have > want:
			var dropped []string
			out, dropped = removeFirst(out, t, have-want)
			res.Removed = append(res.Removed, dropped...)
			opts.Logger.Debug("removed nodes", "type", t, "count", len(dropped))
		}
	}

	res.Nodes = out
	opts.Logger.Info("adjusted journey",
		"added", len(res.Added),
		"removed", len(res.Removed),
		"nodes", len(out))
	return res
}

// restructure keeps the first Entrance at the front and drops any other
// Entrance. With keepExits every Exit stays in place; otherwise only the
// last Exit survives and moves to the back. Kept Exits lose their outgoing
// edges.
func restructure(nodes []journey.Node, keepExits bool) ([]journey.Node, []string) {
	entrance := journey.FindEntrance(nodes)
	exit := -1
	for i, n := range nodes {
		if n.Type == journey.TypeExit {
			exit = i
		}
	}

	var removed []string
	out := make([]journey.Node, 0, len(nodes))
	out = append(out, nodes[entrance])
	for i, n := range nodes {
		if i == entrance || (i == exit && !keepExits) {
			continue
		}
		switch {
		case n.Type == journey.TypeEntrance, n.Type == journey.TypeExit && !keepExits:
			removed = append(removed, n.ID)
			continue
		case n.Type == journey.TypeExit:
			n = terminal(n)
		}
		out = append(out, n)
	}
	if !keepExits {
		out = append(out, terminal(nodes[exit]))
	}

	if removed == nil {
		removed = []string{}
	}
	return out, removed
}

func terminal(n journey.Node) journey.Node {
	n.Connections = []string{}
	n.Branches = nil
	return n
}

// insertBeforeExit inserts added just before the trailing Exit.
func insertBeforeExit(nodes, added []journey.Node) []journey.Node {
	at := len(nodes)
	if at > 0 && nodes[at-1].Type == journey.TypeExit {
		at--
	}
	return slices.Insert(nodes, at, added...)
}

// removeFirst drops the first n nodes of type t in list order.
func removeFirst(nodes []journey.Node, t journey.NodeType, n int) ([]journey.Node, []string) {
	out := make([]journey.Node, 0, len(nodes))
	var dropped []string
	for _, node := range nodes {
		if node.Type == t && len(dropped) < n {
			dropped = append(dropped, node.ID)
			continue
		}
		out = append(out, node)
	}
	return out, dropped
}

func synthesize(t journey.NodeType, id string, n int, opts Options) journey.Node {
	switch t {
	case journey.TypeEmail, journey.TypePush:
		return newMessage(t, id, n)
	case journey.TypeWait:
		return journey.NewWait(id, placeholderTitle(t, n), opts.DefaultWait)
	default:
		return journey.NewBranch(id, placeholderTitle(t, n), "", "")
	}
}

func ids(nodes []journey.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
