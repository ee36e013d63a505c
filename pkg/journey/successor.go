package journey

// =============================================================================
// Successor - Outgoing Edge View
// =============================================================================

// Successor is the typed view of a node's outgoing edges. It is either
// [Linear] or [Fork]; a nil Successor means the node has no outgoing edge
// (an Exit, or a dead end).
type Successor interface {
	// Targets returns every referenced node ID in traversal order.
	Targets() []string
	successor()
}

// Linear is a single-successor edge.
type Linear struct {
	Next string
}

// Targets returns the next node ID.
func (l Linear) Targets() []string { return []string{l.Next} }

func (Linear) successor() {}

// Fork is the yes/no edge pair of a Branch node. Either side may be empty.
type Fork struct {
	Yes string
	No  string
}

// Targets returns the yes target followed by the no target, skipping empty sides.
func (f Fork) Targets() []string {
	var out []string
	if f.Yes != "" {
		out = append(out, f.Yes)
	}
	if f.No != "" {
		out = append(out, f.No)
	}
	return out
}

func (Fork) successor() {}

// Successor returns the typed outgoing edge of n.
//
// Branch nodes with at least one branch target yield a [Fork]. Any other
// non-Exit node with a connection yields a [Linear] to its first connection,
// which also covers Branch nodes flattened by linearization. Exit nodes and
// nodes without edges yield nil.
func (n Node) Successor() Successor {
	if n.Type == TypeExit {
		return nil
	}
	if n.Type == TypeBranch && n.Branches != nil {
		f := Fork{Yes: first(n.Branches.Yes), No: first(n.Branches.No)}
		if f.Yes != "" || f.No != "" {
			return f
		}
	}
	if next := first(n.Connections); next != "" {
		return Linear{Next: next}
	}
	return nil
}

// WithSuccessor returns a copy of n whose edge fields encode s.
// A nil s clears both connections and branches.
func (n Node) WithSuccessor(s Successor) Node {
	out := n.Clone()
	out.Connections = []string{}
	out.Branches = nil
	switch s := s.(type) {
	case Linear:
		out.Connections = []string{s.Next}
	case Fork:
		out.Branches = &Branches{Yes: single(s.Yes), No: single(s.No)}
	}
	return out
}

// Edges returns every outgoing target of n: connections first, then
// yes-branch targets, then no-branch targets. Unlike [Node.Successor] it
// keeps every listed ID, including duplicates across lists.
func (n Node) Edges() []string {
	var out []string
	out = append(out, n.Connections...)
	if n.Branches != nil {
		out = append(out, n.Branches.Yes...)
		out = append(out, n.Branches.No...)
	}
	return out
}

func first(ids []string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

func single(id string) []string {
	if id == "" {
		return []string{}
	}
	return []string{id}
}
