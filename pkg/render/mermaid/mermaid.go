// Package mermaid renders journeys as Mermaid flowcharts.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/matzehuels/journey/pkg/journey"
)

// Generate returns a top-down Mermaid flowchart for nodes. Node ids are
// replaced by positional aliases (n0, n1, ...) because journey ids may
// contain characters Mermaid does not accept. Edges to unknown ids are
// skipped.
func Generate(nodes []journey.Node) string {
	var b strings.Builder
	b.WriteString("flowchart TD\n")

	idx := journey.Index(nodes)
	alias := func(id string) string { return fmt.Sprintf("n%d", idx[id]) }

	for i, n := range nodes {
		if idx[n.ID] != i {
			continue
		}
		fmt.Fprintf(&b, "    %s%s\n", alias(n.ID), shape(n.Type, label(n)))
	}
	for i, n := range nodes {
		if idx[n.ID] != i {
			continue
		}
		edge := func(to, text string) {
			if _, ok := idx[to]; !ok {
				return
			}
			if text == "" {
				fmt.Fprintf(&b, "    %s --> %s\n", alias(n.ID), alias(to))
				return
			}
			fmt.Fprintf(&b, "    %s -->|%s| %s\n", alias(n.ID), text, alias(to))
		}
		for _, to := range n.Connections {
			edge(to, "")
		}
		if n.Branches != nil {
			for _, to := range n.Branches.Yes {
				edge(to, "yes")
			}
			for _, to := range n.Branches.No {
				edge(to, "no")
			}
		}
	}
	return b.String()
}

func label(n journey.Node) string {
	title := n.Title
	if title == "" {
		title = n.ID
	}
	text := n.Type.Label() + ": " + title
	if n.Type == journey.TypeWait && n.WaitDuration != "" {
		text += " (" + n.WaitDuration + ")"
	}
	return `"` + escape(text) + `"`
}

func shape(t journey.NodeType, text string) string {
	switch t {
	case journey.TypeEntrance:
		return "([" + text + "])"
	case journey.TypeExit:
		return "((" + text + "))"
	case journey.TypeBranch:
		return "{" + text + "}"
	case journey.TypeWait:
		return "[/" + text + "/]"
	}
	return "[" + text + "]"
}

var escaper = strings.NewReplacer(`"`, "#quot;", "\n", " ")

func escape(s string) string {
	return escaper.Replace(s)
}
