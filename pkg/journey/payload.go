package journey

// =============================================================================
// Payload - Per-Type Node Data
// =============================================================================

// Payload is the type-specific data of a node. Each node type has exactly one
// payload variant; a switch over Payload replaces probing optional fields by
// type name.
type Payload interface {
	// NodeType returns the type this payload belongs to.
	NodeType() NodeType
}

// EntrancePayload holds the audience segments of an Entrance node.
type EntrancePayload struct {
	Segments []string
}

// MessagePayload holds the message of a Push or Email node.
type MessagePayload struct {
	Kind    NodeType // TypePush or TypeEmail
	Content MessageContent
}

// WaitPayload holds the delay of a Wait node.
type WaitPayload struct {
	Duration string
}

// BranchPayload holds the outgoing targets of a Branch node.
type BranchPayload struct {
	Yes []string
	No  []string
}

// ExitPayload holds the exit conditions of an Exit node.
type ExitPayload struct {
	Conditions []string
}

func (EntrancePayload) NodeType() NodeType { return TypeEntrance }
func (p MessagePayload) NodeType() NodeType {
	if p.Kind == TypeEmail {
		return TypeEmail
	}
	return TypePush
}
func (WaitPayload) NodeType() NodeType   { return TypeWait }
func (BranchPayload) NodeType() NodeType { return TypeBranch }
func (ExitPayload) NodeType() NodeType   { return TypeExit }

// Payload returns the typed data of n, or nil if n has an unknown type.
func (n Node) Payload() Payload {
	switch n.Type {
	case TypeEntrance:
		return EntrancePayload{Segments: cloneStrings(n.Segments)}
	case TypePush, TypeEmail:
		p := MessagePayload{Kind: n.Type}
		if n.MessageContent != nil {
			p.Content = *n.MessageContent
		}
		return p
	case TypeWait:
		return WaitPayload{Duration: n.WaitDuration}
	case TypeBranch:
		p := BranchPayload{}
		if n.Branches != nil {
			p.Yes = cloneStrings(n.Branches.Yes)
			p.No = cloneStrings(n.Branches.No)
		}
		return p
	case TypeExit:
		return ExitPayload{Conditions: cloneStrings(n.ExitConditions)}
	}
	return nil
}

// =============================================================================
// Constructors
// =============================================================================

// NewEntrance builds an Entrance node.
func NewEntrance(id, title string, segments ...string) Node {
	return Node{
		ID:          id,
		Type:        TypeEntrance,
		Title:       title,
		Connections: []string{},
		Segments:    cloneStrings(segments),
	}
}

// NewEmail builds an Email node carrying content.
func NewEmail(id, title string, content MessageContent) Node {
	return newMessage(id, title, TypeEmail, content)
}

// NewPush builds a Push node carrying content.
func NewPush(id, title string, content MessageContent) Node {
	return newMessage(id, title, TypePush, content)
}

func newMessage(id, title string, t NodeType, content MessageContent) Node {
	mc := content
	return Node{
		ID:             id,
		Type:           t,
		Title:          title,
		Connections:    []string{},
		MessageContent: &mc,
	}
}

// NewWait builds a Wait node with the given duration ("2 Days").
func NewWait(id, title, duration string) Node {
	return Node{
		ID:           id,
		Type:         TypeWait,
		Title:        title,
		WaitDuration: duration,
		Connections:  []string{},
	}
}

// NewBranch builds a Branch node. Empty yes or no targets are allowed.
func NewBranch(id, title, yes, no string) Node {
	return Node{
		ID:          id,
		Type:        TypeBranch,
		Title:       title,
		Connections: []string{},
		Branches:    &Branches{Yes: single(yes), No: single(no)},
	}
}

// NewExit builds an Exit node.
func NewExit(id, title string, conditions ...string) Node {
	return Node{
		ID:             id,
		Type:           TypeExit,
		Title:          title,
		Connections:    []string{},
		ExitConditions: cloneStrings(conditions),
	}
}
