package transform

import (
	"reflect"
	"testing"

	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/journey/layout"
)

func TestSeedPositions(t *testing.T) {
	nodes := []journey.Node{
		journey.NewEntrance("in", ""),
		journey.NewEmail("e", "", journey.MessageContent{}),
		journey.NewExit("out", ""),
	}
	got := SeedPositions(nodes, PositionOptions{})

	for i, n := range got {
		want := journey.Position{X: 400, Y: float64(i) * 150}
		if n.Position != want {
			t.Errorf("%s position = %+v, want %+v", n.ID, n.Position, want)
		}
	}
	if nodes[2].Position != (journey.Position{}) {
		t.Error("SeedPositions mutated input")
	}

	custom := SeedPositions(nodes, PositionOptions{CenterX: 10, VerticalSpacing: 5})
	if custom[2].Position != (journey.Position{X: 10, Y: 10}) {
		t.Errorf("custom position = %+v, want {10 10}", custom[2].Position)
	}
}

func TestLinearizeSortsByY(t *testing.T) {
	at := func(n journey.Node, y float64) journey.Node {
		n.Position.Y = y
		return n
	}
	nodes := []journey.Node{
		at(journey.NewExit("out", ""), 300),
		at(journey.NewWait("w", "", "1 Day"), 150),
		at(journey.NewEntrance("in", ""), 0),
		at(journey.NewEmail("e", "", journey.MessageContent{}), 150),
	}
	nodes[0].Connections = []string{"in"}

	got := Linearize(nodes, LinearizeOptions{})

	wantOrder := []string{"in", "w", "e", "out"}
	for i, n := range got {
		if n.ID != wantOrder[i] {
			t.Fatalf("order[%d] = %s, want %s", i, n.ID, wantOrder[i])
		}
	}
	for i := 0; i < len(got)-1; i++ {
		if !reflect.DeepEqual(got[i].Connections, []string{got[i+1].ID}) {
			t.Errorf("%s connections = %v, want [%s]", got[i].ID, got[i].Connections, got[i+1].ID)
		}
	}
	if last := got[len(got)-1]; len(last.Connections) != 0 || last.Connections == nil {
		t.Errorf("last connections = %#v, want empty slice", last.Connections)
	}
	if !reflect.DeepEqual(nodes[0].Connections, []string{"in"}) {
		t.Error("Linearize mutated input")
	}
}

// Flattening the laid-out branch graph drops the yes/no split.
func TestLinearizeFlattensLaidOutBranch(t *testing.T) {
	nodes := []journey.Node{
		{ID: "root", Type: journey.TypeEntrance, Connections: []string{"split"}},
		journey.NewBranch("split", "Opened?", "a", "b"),
		journey.NewEmail("a", "", journey.MessageContent{}),
		journey.NewPush("b", "", journey.MessageContent{}),
	}
	laidOut := layout.Tree(nodes, "", layout.DefaultOptions())

	tests := []struct {
		name         string
		opts         LinearizeOptions
		wantConns    []string
		wantBranches bool
	}{
		{"Flatten", LinearizeOptions{}, []string{"a"}, false},
		{"PreserveBranches", LinearizeOptions{PreserveBranches: true}, []string{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Linearize(laidOut, tt.opts)
			idx := journey.Index(got)
			split := got[idx["split"]]

			if idx["split"] != 1 {
				t.Errorf("split index = %d, want 1", idx["split"])
			}
			if !reflect.DeepEqual(split.Connections, tt.wantConns) {
				t.Errorf("split connections = %v, want %v", split.Connections, tt.wantConns)
			}
			if (split.Branches != nil) != tt.wantBranches {
				t.Errorf("split branches = %+v, want present=%v", split.Branches, tt.wantBranches)
			}
			if !reflect.DeepEqual(got[idx["a"]].Connections, []string{"b"}) {
				t.Errorf("a connections = %v, want [b]", got[idx["a"]].Connections)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	nodes := []journey.Node{
		journey.NewEntrance("in", ""),
		journey.NewBranch("b", "", "x", "y"),
		journey.NewExit("out", ""),
	}
	got := Normalize(nodes, PositionOptions{}, LinearizeOptions{})

	want := []string{"in", "b", "out"}
	for i, n := range got {
		if n.ID != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, n.ID, want[i])
		}
		if n.Position.Y != float64(i)*150 {
			t.Errorf("%s y = %v, want %v", n.ID, n.Position.Y, float64(i)*150)
		}
	}
	if got[1].Branches != nil {
		t.Errorf("branches = %+v, want nil", got[1].Branches)
	}
}

func TestNormalizeKeepsArmExits(t *testing.T) {
	nodes := []journey.Node{
		journey.NewEntrance("in", ""),
		journey.NewBranch("b", "", "a", "c"),
		journey.NewEmail("a", "", journey.MessageContent{}),
		journey.NewExit("x1", ""),
		journey.NewPush("c", "", journey.MessageContent{}),
		journey.NewExit("x2", ""),
	}
	tests := []struct {
		name string
		opts LinearizeOptions
		want map[string][]string
	}{
		{"PreserveBranches", LinearizeOptions{PreserveBranches: true}, map[string][]string{
			"in": {"b"}, "b": {}, "a": {"x1"}, "x1": {}, "c": {"x2"}, "x2": {},
		}},
		{"Flatten", LinearizeOptions{}, map[string][]string{
			"in": {"b"}, "b": {"a"}, "a": {"x1"}, "x1": {"c"}, "c": {"x2"}, "x2": {},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(nodes, PositionOptions{}, tt.opts)
			for _, n := range got {
				if !reflect.DeepEqual(n.Connections, tt.want[n.ID]) {
					t.Errorf("%s connections = %v, want %v", n.ID, n.Connections, tt.want[n.ID])
				}
			}
		})
	}
}
