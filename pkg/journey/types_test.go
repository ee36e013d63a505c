package journey

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		in      string
		want    NodeType
		wantErr bool
	}{
		{"entrance", TypeEntrance, false},
		{"Email", TypeEmail, false},
		{" PUSH ", TypePush, false},
		{"wAiT", TypeWait, false},
		{"sms", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseNodeType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseNodeType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseNodeType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNodeTypeLabel(t *testing.T) {
	if got := TypeEmail.Label(); got != "Email" {
		t.Errorf("Label() = %q, want %q", got, "Email")
	}
	if got := NodeType("").Label(); got != "" {
		t.Errorf("Label() = %q, want empty", got)
	}
}

func TestNodeMarshalLowerCase(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"id":"e","type":"EXIT"}`), &n); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var back map[string]any
	_ = json.Unmarshal(data, &back)
	if back["type"] != "exit" {
		t.Errorf("type = %v, want exit", back["type"])
	}
	if _, ok := back["branches"]; ok {
		t.Error("branches present, want omitted")
	}
}

func TestClone(t *testing.T) {
	orig := []Node{
		NewBranch("b", "Branch 1", "y", "n"),
		NewEmail("e", "Email 1", MessageContent{Subject: "Hi"}),
	}
	orig[1].Connections = []string{"b"}

	cp := Clone(orig)
	cp[0].Branches.Yes[0] = "changed"
	cp[1].MessageContent.Subject = "changed"
	cp[1].Connections[0] = "changed"

	if orig[0].Branches.Yes[0] != "y" {
		t.Errorf("original Branches.Yes = %v, want [y]", orig[0].Branches.Yes)
	}
	if orig[1].MessageContent.Subject != "Hi" {
		t.Errorf("original Subject = %q, want Hi", orig[1].MessageContent.Subject)
	}
	if orig[1].Connections[0] != "b" {
		t.Errorf("original Connections = %v, want [b]", orig[1].Connections)
	}
	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}

func TestCountAndLookup(t *testing.T) {
	nodes := []Node{
		NewEntrance("in", "Start"),
		NewEmail("e1", "Email 1", MessageContent{}),
		NewWait("w1", "Wait", "1 Day"),
		NewEmail("e2", "Email 2", MessageContent{}),
		NewPush("p1", "Push 1", MessageContent{}),
		NewBranch("b1", "Branch", "", ""),
		NewExit("out", "Exit"),
	}
	want := Counts{Email: 2, Push: 1, Wait: 1, Branch: 1}
	if got := Count(nodes); got != want {
		t.Errorf("Count() = %+v, want %+v", got, want)
	}
	if got := FindEntrance(nodes); got != 0 {
		t.Errorf("FindEntrance() = %d, want 0", got)
	}
	if got := FindType(nodes, TypeExit); got != 6 {
		t.Errorf("FindType(exit) = %d, want 6", got)
	}
	if got := FindType(nodes[1:], TypeEntrance); got != -1 {
		t.Errorf("FindType(entrance) = %d, want -1", got)
	}

	dup := append(Clone(nodes), NewWait("e1", "dup", ""))
	if got := Index(dup)["e1"]; got != 1 {
		t.Errorf("Index()[e1] = %d, want 1 (first occurrence)", got)
	}
}

func TestRequirementsFor(t *testing.T) {
	r := Requirements{Email: 1, Push: 2, Wait: 3, Branch: 4}
	for i, typ := range ConstrainedTypes {
		if got := r.For(typ); got != i+1 {
			t.Errorf("For(%s) = %d, want %d", typ, got, i+1)
		}
	}
	if got := r.For(TypeExit); got != 0 {
		t.Errorf("For(exit) = %d, want 0", got)
	}
	if r.IsZero() {
		t.Error("IsZero() = true, want false")
	}
	if !(Requirements{Total: 5}).IsZero() {
		t.Error("IsZero() with only Total = false, want true")
	}
}

func TestSuccessor(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want Successor
	}{
		{"Linear", Node{Type: TypeEmail, Connections: []string{"x", "y"}}, Linear{Next: "x"}},
		{"DeadEnd", Node{Type: TypeWait}, nil},
		{"Exit", Node{Type: TypeExit, Connections: []string{"x"}}, nil},
		{"Fork", NewBranch("b", "", "y", "n"), Fork{Yes: "y", No: "n"}},
		{"ForkYesOnly", NewBranch("b", "", "y", ""), Fork{Yes: "y"}},
		{"FlattenedBranch", Node{Type: TypeBranch, Connections: []string{"next"}}, Linear{Next: "next"}},
		{"EmptyBranch", NewBranch("b", "", "", ""), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Successor(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Successor() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestWithSuccessor(t *testing.T) {
	n := NewBranch("b", "Branch", "y", "n")

	lin := n.WithSuccessor(Linear{Next: "z"})
	if lin.Branches != nil || !reflect.DeepEqual(lin.Connections, []string{"z"}) {
		t.Errorf("Linear: Connections = %v, Branches = %v", lin.Connections, lin.Branches)
	}
	if n.Branches == nil {
		t.Error("WithSuccessor mutated receiver")
	}

	fork := NewWait("w", "", "").WithSuccessor(Fork{Yes: "a"})
	if got := fork.Branches.Yes; !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Fork: Branches.Yes = %v, want [a]", got)
	}
	if len(fork.Connections) != 0 {
		t.Errorf("Fork: Connections = %v, want empty", fork.Connections)
	}

	none := n.WithSuccessor(nil)
	if none.Successor() != nil {
		t.Errorf("nil: Successor() = %#v, want nil", none.Successor())
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want Payload
	}{
		{"Entrance", NewEntrance("i", "", "new-users"), EntrancePayload{Segments: []string{"new-users"}}},
		{"Email", NewEmail("e", "", MessageContent{Subject: "S"}), MessagePayload{Kind: TypeEmail, Content: MessageContent{Subject: "S"}}},
		{"PushWithoutContent", Node{Type: TypePush}, MessagePayload{Kind: TypePush}},
		{"Wait", NewWait("w", "", "2 Days"), WaitPayload{Duration: "2 Days"}},
		{"Branch", NewBranch("b", "", "y", ""), BranchPayload{Yes: []string{"y"}, No: []string{}}},
		{"Exit", NewExit("x", "", "converted"), ExitPayload{Conditions: []string{"converted"}}},
		{"Unknown", Node{Type: "sms"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.node.Payload()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Payload() = %#v, want %#v", got, tt.want)
			}
			if got != nil && got.NodeType() != tt.node.Type {
				t.Errorf("NodeType() = %v, want %v", got.NodeType(), tt.node.Type)
			}
		})
	}
}

func TestEdges(t *testing.T) {
	n := Node{Connections: []string{"a"}, Branches: &Branches{Yes: []string{"b"}, No: []string{"c", "a"}}}
	want := []string{"a", "b", "c", "a"}
	if got := n.Edges(); !reflect.DeepEqual(got, want) {
		t.Errorf("Edges() = %v, want %v", got, want)
	}
}
