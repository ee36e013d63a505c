package repair

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/matzehuels/journey/pkg/journey"
)

// seqIDs returns a deterministic ID generator for tests.
func seqIDs() func(journey.NodeType) string {
	n := 0
	return func(t journey.NodeType) string {
		n++
		return fmt.Sprintf("new-%s-%d", t, n)
	}
}

func chainOf(nodes ...journey.Node) []journey.Node {
	for i := range nodes[:len(nodes)-1] {
		nodes[i].Connections = []string{nodes[i+1].ID}
	}
	return nodes
}

func types(nodes []journey.Node) []journey.NodeType {
	out := make([]journey.NodeType, len(nodes))
	for i, n := range nodes {
		out[i] = n.Type
	}
	return out
}

func TestValidate(t *testing.T) {
	nodes := chainOf(
		journey.NewEntrance("in", "Start"),
		journey.NewPush("p1", "Push 1", journey.MessageContent{}),
		journey.NewPush("p2", "Push 2", journey.MessageContent{}),
		journey.NewEmail("e1", "Email 1", journey.MessageContent{}),
		journey.NewExit("out", "Exit"),
	)

	tests := []struct {
		name      string
		req       journey.Requirements
		wantValid bool
	}{
		{"Unconstrained", journey.Requirements{}, true},
		{"Exact", journey.Requirements{Push: 2, Email: 1}, true},
		{"PushShort", journey.Requirements{Push: 3, Email: 1}, false},
		{"WaitMissing", journey.Requirements{Wait: 1}, false},
		{"TotalIgnored", journey.Requirements{Total: 99}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(nodes, tt.req)
			if v.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", v.Valid, tt.wantValid)
			}
			if v.Counts.Push != 2 {
				t.Errorf("Counts.Push = %d, want 2", v.Counts.Push)
			}
			if !v.Sound() {
				t.Error("Sound() = false, want true")
			}
		})
	}
}

func TestValidateStructure(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []journey.Node
		wantSound bool
		wantEntr  bool
		wantExit  bool
	}{
		{"Empty", nil, false, false, false},
		{"NoExit", []journey.Node{journey.NewEntrance("in", "")}, false, true, false},
		{"ExitFirst", []journey.Node{journey.NewExit("x", ""), journey.NewEntrance("in", "")}, false, true, true},
		{"TwoExits", []journey.Node{journey.NewEntrance("in", ""), journey.NewExit("x1", ""), journey.NewExit("x2", "")}, false, true, true},
		{"Minimal", []journey.Node{journey.NewEntrance("in", ""), journey.NewExit("x", "")}, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Validate(tt.nodes, journey.Requirements{})
			if v.Sound() != tt.wantSound {
				t.Errorf("Sound() = %v, want %v", v.Sound(), tt.wantSound)
			}
			if v.HasEntrance != tt.wantEntr {
				t.Errorf("HasEntrance = %v, want %v", v.HasEntrance, tt.wantEntr)
			}
			if v.HasExit != tt.wantExit {
				t.Errorf("HasExit = %v, want %v", v.HasExit, tt.wantExit)
			}
		})
	}
}

// Scenario: two emails requested, candidate without an Entrance.
func TestRepairRebuildsWithoutEntrance(t *testing.T) {
	req := journey.Requirements{Email: 2}
	candidate := []journey.Node{
		journey.NewEmail("a", "Hello", journey.MessageContent{}),
		journey.NewExit("b", "Bye"),
	}

	res := Repair(candidate, req, journey.Count(candidate), Options{})

	if res.Mode != ModeRebuild {
		t.Fatalf("Mode = %v, want %v", res.Mode, ModeRebuild)
	}
	wantTypes := []journey.NodeType{
		journey.TypeEntrance, journey.TypeEmail, journey.TypeWait, journey.TypeEmail, journey.TypeExit,
	}
	if got := types(res.Nodes); !reflect.DeepEqual(got, wantTypes) {
		t.Fatalf("types = %v, want %v", got, wantTypes)
	}
	if res.Nodes[1].Title != "Email 1" || res.Nodes[3].Title != "Email 2" {
		t.Errorf("titles = %q, %q, want Email 1, Email 2", res.Nodes[1].Title, res.Nodes[3].Title)
	}
	if res.Nodes[2].WaitDuration != "2 Days" {
		t.Errorf("WaitDuration = %q, want 2 Days", res.Nodes[2].WaitDuration)
	}
	wantIDs := []string{"entrance", "email-1", "wait-1", "email-2", "exit"}
	for i, n := range res.Nodes {
		if n.ID != wantIDs[i] {
			t.Errorf("nodes[%d].ID = %q, want %q", i, n.ID, wantIDs[i])
		}
		if i < len(res.Nodes)-1 {
			if !reflect.DeepEqual(n.Connections, []string{wantIDs[i+1]}) {
				t.Errorf("nodes[%d].Connections = %v, want [%s]", i, n.Connections, wantIDs[i+1])
			}
		} else if len(n.Connections) != 0 {
			t.Errorf("exit Connections = %v, want empty", n.Connections)
		}
	}
	if !reflect.DeepEqual(res.Removed, []string{"a", "b"}) {
		t.Errorf("Removed = %v, want [a b]", res.Removed)
	}
}

// Scenario: "Send 3 push notifications and 1 email" against push=2, email=1.
func TestRepairAppendsMissingPush(t *testing.T) {
	req := journey.ExtractRequirements("Send 3 push notifications and 1 email")
	if req != (journey.Requirements{Push: 3, Email: 1}) {
		t.Fatalf("requirements = %+v, want push=3 email=1", req)
	}
	candidate := chainOf(
		journey.NewEntrance("in", "Start"),
		journey.NewPush("p1", "Push 1", journey.MessageContent{}),
		journey.NewEmail("e1", "Email 1", journey.MessageContent{}),
		journey.NewPush("p2", "Push 2", journey.MessageContent{}),
		journey.NewExit("out", "Exit"),
	)

	v := Validate(candidate, req)
	if v.Valid {
		t.Fatal("Valid = true, want false")
	}
	if v.Counts.Push != 2 {
		t.Fatalf("Counts.Push = %d, want 2", v.Counts.Push)
	}

	res := Repair(candidate, req, v.Counts, Options{NewID: seqIDs()})
	if res.Mode != ModeAdjust {
		t.Fatalf("Mode = %v, want %v", res.Mode, ModeAdjust)
	}
	if !reflect.DeepEqual(res.Added, []string{"new-push-1"}) {
		t.Errorf("Added = %v, want [new-push-1]", res.Added)
	}
	if len(res.Removed) != 0 {
		t.Errorf("Removed = %v, want none", res.Removed)
	}
	counts := journey.Count(res.Nodes)
	if counts.Push != 3 || counts.Email != 1 {
		t.Errorf("counts = %+v, want push=3 email=1", counts)
	}
	added := res.Nodes[len(res.Nodes)-2]
	if added.ID != "new-push-1" || added.Title != "Push 3" {
		t.Errorf("added node = %s %q, want new-push-1 \"Push 3\"", added.ID, added.Title)
	}
	if len(added.Connections) != 0 {
		t.Errorf("added Connections = %v, want empty", added.Connections)
	}
	if res.Nodes[len(res.Nodes)-1].Type != journey.TypeExit {
		t.Error("last node is not the Exit")
	}
}

func TestRepairRemovesFirstSurplus(t *testing.T) {
	candidate := chainOf(
		journey.NewEntrance("in", ""),
		journey.NewWait("w1", "", "1 Day"),
		journey.NewEmail("e1", "", journey.MessageContent{}),
		journey.NewWait("w2", "", "1 Day"),
		journey.NewWait("w3", "", "1 Day"),
		journey.NewExit("out", ""),
	)
	req := journey.Requirements{Wait: 1}

	res := Repair(candidate, req, journey.Count(candidate), Options{})

	if !reflect.DeepEqual(res.Removed, []string{"w1", "w2"}) {
		t.Errorf("Removed = %v, want [w1 w2]", res.Removed)
	}
	want := []string{"in", "e1", "w3", "out"}
	if got := ids(res.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if len(candidate) != 6 {
		t.Errorf("input mutated: len = %d, want 6", len(candidate))
	}
}

func TestRepairStructuralCleanup(t *testing.T) {
	candidate := []journey.Node{
		journey.NewEmail("e1", "", journey.MessageContent{}),
		journey.NewExit("x1", ""),
		journey.NewEntrance("in1", ""),
		journey.NewEntrance("in2", ""),
		journey.NewExit("x2", ""),
		journey.NewPush("p1", "", journey.MessageContent{}),
	}
	candidate[4].Connections = []string{"p1"}

	res := Repair(candidate, journey.Requirements{}, journey.Count(candidate), Options{})

	if res.Mode != ModeAdjust {
		t.Fatalf("Mode = %v, want %v", res.Mode, ModeAdjust)
	}
	want := []string{"in1", "e1", "p1", "x2"}
	if got := ids(res.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(res.Removed, []string{"x1", "in2"}) {
		t.Errorf("Removed = %v, want [x1 in2]", res.Removed)
	}
	if got := res.Nodes[3].Connections; len(got) != 0 {
		t.Errorf("exit Connections = %v, want empty", got)
	}
	if candidate[4].Connections[0] != "p1" {
		t.Error("input exit connections mutated")
	}
}

// branchWithArmExits ends each arm of a single branch in its own Exit.
func branchWithArmExits() []journey.Node {
	return []journey.Node{
		journey.NewEntrance("in", "").WithSuccessor(journey.Linear{Next: "b"}),
		journey.NewBranch("b", "Opened?", "a", "c"),
		journey.NewEmail("a", "", journey.MessageContent{}).WithSuccessor(journey.Linear{Next: "x1"}),
		journey.NewExit("x1", ""),
		journey.NewPush("c", "", journey.MessageContent{}).WithSuccessor(journey.Linear{Next: "x2"}),
		journey.NewExit("x2", ""),
	}
}

func TestRepairPreserveBranchesKeepsArmExits(t *testing.T) {
	candidate := branchWithArmExits()
	req := journey.Requirements{Email: 1, Push: 1, Branch: 1}

	v := Validate(candidate, req)
	if !v.Valid || v.Sound() || !v.BranchSound() {
		t.Fatalf("Valid = %v, Sound() = %v, BranchSound() = %v, want true false true", v.Valid, v.Sound(), v.BranchSound())
	}

	res := Repair(candidate, req, v.Counts, Options{PreserveBranches: true})
	if res.Mode != ModeNone {
		t.Errorf("Mode = %v, want %v", res.Mode, ModeNone)
	}
	if !reflect.DeepEqual(ids(res.Nodes), ids(candidate)) {
		t.Errorf("ids = %v, want %v", ids(res.Nodes), ids(candidate))
	}

	// Without branch preservation the arms collapse into one trailing Exit.
	flat := Repair(candidate, req, v.Counts, Options{})
	if flat.Mode != ModeAdjust || !reflect.DeepEqual(flat.Removed, []string{"x1"}) {
		t.Errorf("flattening repair = %v removed %v, want adjust removed [x1]", flat.Mode, flat.Removed)
	}
}

func TestRepairPreserveBranchesAdjustKeepsExits(t *testing.T) {
	candidate := append(branchWithArmExits(), journey.NewEntrance("in2", ""))
	req := journey.Requirements{Email: 1, Push: 2, Branch: 1}

	res := Repair(candidate, req, journey.Count(candidate), Options{NewID: seqIDs(), PreserveBranches: true})

	if res.Mode != ModeAdjust {
		t.Fatalf("Mode = %v, want %v", res.Mode, ModeAdjust)
	}
	want := []string{"in", "b", "a", "x1", "c", "new-push-1", "x2"}
	if got := ids(res.Nodes); !reflect.DeepEqual(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(res.Removed, []string{"in2"}) {
		t.Errorf("Removed = %v, want [in2]", res.Removed)
	}
	if v := Validate(res.Nodes, req); v.Exits != 2 || !v.Valid || !v.BranchSound() {
		t.Errorf("repaired = %+v, want valid with both exits", v)
	}
}

func TestRepairWaitPlaceholderTitle(t *testing.T) {
	candidate := chainOf(
		journey.NewEntrance("in", ""),
		journey.NewWait("w1", "Pause", "1 Day"),
		journey.NewExit("out", ""),
	)
	res := Repair(candidate, journey.Requirements{Wait: 3}, journey.Count(candidate), Options{NewID: seqIDs()})

	var titles, durations []string
	for _, n := range res.Nodes {
		if n.Type == journey.TypeWait {
			titles = append(titles, n.Title)
			durations = append(durations, n.WaitDuration)
		}
	}
	if want := []string{"Pause", "Wait 2", "Wait 3"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
	if want := []string{"1 Day", DefaultWait, DefaultWait}; !reflect.DeepEqual(durations, want) {
		t.Errorf("durations = %v, want %v", durations, want)
	}
}

func TestRepairIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		nodes []journey.Node
		req   journey.Requirements
	}{
		{
			name:  "Rebuild",
			nodes: []journey.Node{journey.NewPush("p", "", journey.MessageContent{})},
			req:   journey.Requirements{Email: 3, Push: 2, Wait: 5, Branch: 1},
		},
		{
			name:  "RebuildFewWaits",
			nodes: nil,
			req:   journey.Requirements{Email: 4, Push: 3, Wait: 2},
		},
		{
			name: "Adjust",
			nodes: chainOf(
				journey.NewEntrance("in", ""),
				journey.NewEmail("e1", "", journey.MessageContent{}),
				journey.NewEmail("e2", "", journey.MessageContent{}),
				journey.NewExit("out", ""),
			),
			req: journey.Requirements{Email: 1, Push: 2, Wait: 1, Branch: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{NewID: seqIDs()}
			first := Repair(tt.nodes, tt.req, journey.Count(tt.nodes), opts)
			second := Repair(first.Nodes, tt.req, journey.Count(first.Nodes), opts)

			if second.Mode != ModeNone {
				t.Errorf("second Mode = %v, want %v", second.Mode, ModeNone)
			}
			if len(second.Added) != 0 || len(second.Removed) != 0 {
				t.Errorf("second pass added %v removed %v, want nothing", second.Added, second.Removed)
			}
			if !reflect.DeepEqual(first.Nodes, second.Nodes) {
				t.Error("second pass changed nodes")
			}
		})
	}
}

func TestRepairSatisfiesRequirements(t *testing.T) {
	reqs := []journey.Requirements{
		{Email: 1},
		{Push: 4},
		{Email: 2, Push: 2, Wait: 1},
		{Email: 3, Wait: 6},
		{Branch: 2, Wait: 3},
		{Email: 5, Push: 1, Wait: 2, Branch: 1},
	}
	candidates := map[string][]journey.Node{
		"Empty": nil,
		"Linear": chainOf(
			journey.NewEntrance("in", ""),
			journey.NewPush("p1", "", journey.MessageContent{}),
			journey.NewWait("w1", "", "1 Day"),
			journey.NewEmail("e1", "", journey.MessageContent{}),
			journey.NewExit("out", ""),
		),
	}
	for name, nodes := range candidates {
		for _, req := range reqs {
			t.Run(fmt.Sprintf("%s/%+v", name, req), func(t *testing.T) {
				res := Repair(nodes, req, journey.Count(nodes), Options{NewID: seqIDs()})
				v := Validate(res.Nodes, req)
				if !v.Valid {
					t.Errorf("Valid = false, counts %+v", v.Counts)
				}
				if !v.Sound() {
					t.Errorf("Sound() = false: entrances=%d exits=%d ordered=%v", v.Entrances, v.Exits, v.Ordered)
				}
				seen := map[string]bool{}
				for _, n := range res.Nodes {
					if seen[n.ID] {
						t.Errorf("duplicate id %q", n.ID)
					}
					seen[n.ID] = true
				}
			})
		}
	}
}

func TestBuildCanonical(t *testing.T) {
	tests := []struct {
		name string
		req  journey.Requirements
		want []string
	}{
		{
			name: "Empty",
			req:  journey.Requirements{},
			want: []string{"entrance", "exit"},
		},
		{
			name: "PushesWithExtraWaits",
			req:  journey.Requirements{Push: 2, Wait: 3},
			want: []string{"entrance", "push-1", "wait-1", "push-2", "wait-2", "wait-3", "exit"},
		},
		{
			name: "WaitBudgetBelowInterWaits",
			req:  journey.Requirements{Email: 3, Push: 2, Wait: 2},
			want: []string{"entrance", "email-1", "wait-1", "email-2", "wait-2", "email-3", "push-1", "push-2", "exit"},
		},
		{
			name: "SingleWaitAfterFirstEmail",
			req:  journey.Requirements{Email: 3, Wait: 1},
			want: []string{"entrance", "email-1", "wait-1", "email-2", "email-3", "exit"},
		},
		{
			name: "Branches",
			req:  journey.Requirements{Email: 1, Branch: 2},
			want: []string{"entrance", "email-1", "branch-1", "branch-2", "exit"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(BuildCanonical(tt.req, Options{}))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildCanonical() ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildCanonicalDefaults(t *testing.T) {
	nodes := BuildCanonical(journey.Requirements{Email: 1, Branch: 1}, Options{DefaultWait: "3 Hours"})

	exit := nodes[len(nodes)-1]
	if !reflect.DeepEqual(exit.ExitConditions, DefaultExitConditions) {
		t.Errorf("ExitConditions = %v, want %v", exit.ExitConditions, DefaultExitConditions)
	}
	branch := nodes[2]
	if branch.Branches == nil || len(branch.Branches.Yes) != 0 || len(branch.Branches.No) != 0 {
		t.Errorf("Branches = %+v, want empty yes/no", branch.Branches)
	}
	if branch.Title != "Branch 1" {
		t.Errorf("Title = %q, want Branch 1", branch.Title)
	}
	email := nodes[1]
	if email.MessageContent == nil || email.MessageContent.Subject != "Email 1" {
		t.Errorf("MessageContent = %+v, want subject Email 1", email.MessageContent)
	}

	waits := BuildCanonical(journey.Requirements{Wait: 1}, Options{DefaultWait: "3 Hours"})
	if waits[1].WaitDuration != "3 Hours" {
		t.Errorf("WaitDuration = %q, want 3 Hours", waits[1].WaitDuration)
	}
}
