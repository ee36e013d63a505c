package repair

import "github.com/matzehuels/journey/pkg/journey"

// Validation is the outcome of checking nodes against requirements.
type Validation struct {
	// Valid is true when every nonzero requirement equals its count.
	Valid bool `json:"valid"`

	// Counts holds the number of nodes per constrained type.
	Counts journey.Counts `json:"counts"`

	HasEntrance bool `json:"hasEntrance"`
	HasExit     bool `json:"hasExit"`

	// Entrances and Exits count the structural nodes.
	Entrances int `json:"entrances"`
	Exits     int `json:"exits"`

	// Ordered is true when the first node is an Entrance and the last is an Exit.
	Ordered bool `json:"ordered"`

	// EntranceFirst is true when the first node is an Entrance.
	EntranceFirst bool `json:"entranceFirst"`
}

// Sound reports whether the structure needs no repair: exactly one Entrance
// at the front and exactly one Exit at the back.
func (v Validation) Sound() bool {
	return v.Entrances == 1 && v.Exits == 1 && v.Ordered
}

// BranchSound is the structural check for branch-preserving journeys: one
// Entrance at the front and any number of Exits anywhere.
func (v Validation) BranchSound() bool {
	return v.Entrances == 1 && v.EntranceFirst && v.HasExit
}

// Validate counts nodes per constrained type and compares them with req.
// A zero requirement leaves its type unconstrained. Validate has no side
// effects.
func Validate(nodes []journey.Node, req journey.Requirements) Validation {
	v := Validation{
		Counts: journey.Count(nodes),
		Valid:  true,
	}
	for _, t := range journey.ConstrainedTypes {
		if want := req.For(t); want != 0 && v.Counts.For(t) != want {
			v.Valid = false
		}
	}
	for _, n := range nodes {
		switch n.Type {
		case journey.TypeEntrance:
			v.Entrances++
		case journey.TypeExit:
			v.Exits++
		}
	}
	v.HasEntrance = v.Entrances > 0
	v.HasExit = v.Exits > 0
	v.EntranceFirst = len(nodes) > 0 && nodes[0].Type == journey.TypeEntrance
	v.Ordered = v.EntranceFirst && nodes[len(nodes)-1].Type == journey.TypeExit
	return v
}
