package mermaid

import (
	"strings"
	"testing"

	"github.com/matzehuels/journey/pkg/journey"
)

func TestGenerate(t *testing.T) {
	entrance := journey.NewEntrance("entrance", "Start")
	entrance.Connections = []string{"wait-1"}
	wait := journey.NewWait("wait-1", "Pause", "2 Days")
	wait.Connections = []string{"branch-1"}
	branch := journey.NewBranch("branch-1", `Clicked "buy"?`, "exit", "missing")
	exit := journey.NewExit("exit", "Done")

	got := Generate([]journey.Node{entrance, wait, branch, exit})
	want := strings.Join([]string{
		"flowchart TD",
		`    n0(["Entrance: Start"])`,
		`    n1[/"Wait: Pause (2 Days)"/]`,
		`    n2{"Branch: Clicked #quot;buy#quot;?"}`,
		`    n3(("Exit: Done"))`,
		"    n0 --> n1",
		"    n1 --> n2",
		"    n2 -->|yes| n3",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

func TestGenerateDuplicateIDs(t *testing.T) {
	a := journey.NewEmail("x", "First", journey.MessageContent{})
	b := journey.NewEmail("x", "Second", journey.MessageContent{})
	got := Generate([]journey.Node{a, b})
	if strings.Contains(got, "Second") {
		t.Errorf("Generate() rendered a shadowed duplicate:\n%s", got)
	}
}

func TestGenerateEmpty(t *testing.T) {
	if got := Generate(nil); got != "flowchart TD\n" {
		t.Errorf("Generate(nil) = %q", got)
	}
}
