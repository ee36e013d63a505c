package journey

import (
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// Node Types
// =============================================================================

// NodeType identifies the kind of step a node represents.
// The wire form is lower case; decoding accepts any letter case.
type NodeType string

// Node types.
const (
	TypeEntrance NodeType = "entrance"
	TypePush     NodeType = "push"
	TypeEmail    NodeType = "email"
	TypeWait     NodeType = "wait"
	TypeBranch   NodeType = "branch"
	TypeExit     NodeType = "exit"
)

// Types lists every node type in canonical journey order.
var Types = []NodeType{TypeEntrance, TypePush, TypeEmail, TypeWait, TypeBranch, TypeExit}

// ConstrainedTypes lists the types that carry count requirements, in the
// fixed order used by validation and repair.
var ConstrainedTypes = []NodeType{TypeEmail, TypePush, TypeWait, TypeBranch}

// ParseNodeType converts s to a NodeType, ignoring case and surrounding space.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case TypeEntrance, TypePush, TypeEmail, TypeWait, TypeBranch, TypeExit:
		return true
	}
	return false
}

// Label returns the display form of t ("Email", "Push", ...).
func (t NodeType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// UnmarshalJSON decodes a node type case-insensitively and rejects unknown values.
func (t *NodeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("node type: %w", err)
	}
	parsed, err := ParseNodeType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalText supports YAML and other text decoders.
func (t *NodeType) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// =============================================================================
// Node - Journey Step
// =============================================================================

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x" bson:"x"`
	Y float64 `json:"y" yaml:"y" bson:"y"`
}

// Branches holds the two named outgoing edges of a Branch node.
type Branches struct {
	Yes []string `json:"yes" yaml:"yes" bson:"yes"`
	No  []string `json:"no" yaml:"no" bson:"no"`
}

// MessageContent is the message attached to Push and Email nodes.
type MessageContent struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty" bson:"title,omitempty"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty" bson:"body,omitempty"`
	Subject string `json:"subject,omitempty" yaml:"subject,omitempty" bson:"subject,omitempty"`
}

// Node is a single journey step in its wire shape.
//
// Optional fields are meaningful only for some types: WaitDuration for Wait,
// Branches for Branch, MessageContent for Push and Email, Segments for
// Entrance and ExitConditions for Exit. Use [Node.Payload] and
// [Node.Successor] for typed access instead of probing fields by type.
type Node struct {
	ID             string          `json:"id" yaml:"id" bson:"id"`
	Type           NodeType        `json:"type" yaml:"type" bson:"type"`
	Title          string          `json:"title" yaml:"title" bson:"title"`
	Description    string          `json:"description" yaml:"description" bson:"description"`
	WaitDuration   string          `json:"waitDuration,omitempty" yaml:"waitDuration,omitempty" bson:"wait_duration,omitempty"`
	Position       Position        `json:"position" yaml:"position" bson:"position"`
	Connections    []string        `json:"connections" yaml:"connections" bson:"connections"`
	Branches       *Branches       `json:"branches,omitempty" yaml:"branches,omitempty" bson:"branches,omitempty"`
	MessageContent *MessageContent `json:"messageContent,omitempty" yaml:"messageContent,omitempty" bson:"message_content,omitempty"`
	Segments       []string        `json:"segments,omitempty" yaml:"segments,omitempty" bson:"segments,omitempty"`
	ExitConditions []string        `json:"exitConditions,omitempty" yaml:"exitConditions,omitempty" bson:"exit_conditions,omitempty"`
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	out.Connections = cloneStrings(n.Connections)
	out.Segments = cloneStrings(n.Segments)
	out.ExitConditions = cloneStrings(n.ExitConditions)
	if n.Branches != nil {
		out.Branches = &Branches{Yes: cloneStrings(n.Branches.Yes), No: cloneStrings(n.Branches.No)}
	}
	if n.MessageContent != nil {
		mc := *n.MessageContent
		out.MessageContent = &mc
	}
	return out
}

// Clone deep-copies a node collection. A nil input yields nil.
func Clone(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// =============================================================================
// Requirements and Counts
// =============================================================================

// Requirements are caller-specified target counts per constrained type.
// Zero means unconstrained, not "must be zero". Total is an unenforced hint
// for the overall step count.
type Requirements struct {
	Email  int `json:"email" yaml:"email" bson:"email"`
	Push   int `json:"push" yaml:"push" bson:"push"`
	Wait   int `json:"wait" yaml:"wait" bson:"wait"`
	Branch int `json:"branch" yaml:"branch" bson:"branch"`
	Total  int `json:"total,omitempty" yaml:"total,omitempty" bson:"total,omitempty"`
}

// For returns the requirement for t, or 0 for unconstrained types.
func (r Requirements) For(t NodeType) int {
	switch t {
	case TypeEmail:
		return r.Email
	case TypePush:
		return r.Push
	case TypeWait:
		return r.Wait
	case TypeBranch:
		return r.Branch
	}
	return 0
}

// IsZero reports whether no type is constrained.
func (r Requirements) IsZero() bool {
	return r.Email == 0 && r.Push == 0 && r.Wait == 0 && r.Branch == 0
}

// Counts holds the number of nodes per constrained type.
type Counts struct {
	Email  int `json:"email"`
	Push   int `json:"push"`
	Wait   int `json:"wait"`
	Branch int `json:"branch"`
}

// For returns the count for t, or 0 for types that are not counted.
func (c Counts) For(t NodeType) int {
	switch t {
	case TypeEmail:
		return c.Email
	case TypePush:
		return c.Push
	case TypeWait:
		return c.Wait
	case TypeBranch:
		return c.Branch
	}
	return 0
}

// Count tallies the constrained node types in nodes.
func Count(nodes []Node) Counts {
	var c Counts
	for _, n := range nodes {
		switch n.Type {
		case TypeEmail:
			c.Email++
		case TypePush:
			c.Push++
		case TypeWait:
			c.Wait++
		case TypeBranch:
			c.Branch++
		}
	}
	return c
}

// =============================================================================
// Lookup Helpers
// =============================================================================

// FindEntrance returns the index of the first Entrance node, or -1.
func FindEntrance(nodes []Node) int {
	return FindType(nodes, TypeEntrance)
}

// FindType returns the index of the first node of type t, or -1.
func FindType(nodes []Node, t NodeType) int {
	for i, n := range nodes {
		if n.Type == t {
			return i
		}
	}
	return -1
}

// Index maps node IDs to their position in nodes. When IDs repeat, the first
// occurrence wins.
func Index(nodes []Node) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = i
		}
	}
	return idx
}

// =============================================================================
// Canvas Defaults
// =============================================================================

// Canvas spacing shared by position seeding and tree layout.
const (
	DefaultCenterX           = 400.0
	DefaultVerticalSpacing   = 150.0
	DefaultHorizontalSpacing = 250.0
)
