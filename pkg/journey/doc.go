// Package journey defines the journey graph model: nodes, their typed views,
// requirement extraction and parsing of generated candidate graphs.
//
// A journey is a directed flow of marketing steps. Every journey starts at a
// single Entrance node and ends at one or more Exit nodes; in between sit
// Email, Push, Wait and Branch steps.
//
// # Architecture
//
// The package is the leaf of the journey core:
//
//   - [Node]: the wire shape, shared by JSON, YAML and BSON encodings
//   - [Successor], [Payload]: typed views over the flat wire shape
//   - [Parse]: candidate text to nodes, failing with [*ParseError]
//   - [ExtractRequirements]: free text to per-type [Requirements]
//
// The algorithms live in subpackages:
//
//   - journey/repair: validation against requirements and repair
//   - journey/transform: position seeding and linear connection normalization
//   - journey/layout: branch-preserving tree layout
//   - journey/inspect: reachability and cycle reports
//
// # Node Shape
//
// Nodes are serialized as:
//
//	{
//	  "id": "email-1",
//	  "type": "email",
//	  "title": "Email 1",
//	  "description": "",
//	  "position": {"x": 400, "y": 150},
//	  "connections": ["wait-1"],
//	  "messageContent": {"subject": "Welcome"}
//	}
//
// Branch nodes carry "branches": {"yes": [...], "no": [...]} instead of a
// connection. Type names decode case-insensitively and are written in lower
// case.
//
// # Typed Views
//
// Rather than reading optional fields based on the node type, use the views:
//
//	switch s := n.Successor().(type) {
//	case journey.Linear:
//	    next(s.Next)
//	case journey.Fork:
//	    fork(s.Yes, s.No)
//	}
//
//	if p, ok := n.Payload().(journey.WaitPayload); ok {
//	    fmt.Println(p.Duration)
//	}
//
// # Requirements
//
// A [Requirements] value holds target counts for Email, Push, Wait and Branch
// nodes. A zero count means "unconstrained", never "must be zero".
//
// # Ownership
//
// Operations in this package and its subpackages never mutate their input.
// Each returns a new collection; use [Clone] when holding on to a slice that
// will be edited.
package journey
