// Package generate turns a journey description into candidate graph text.
//
// The text generator is an external collaborator: [Client] talks to any
// OpenAI-compatible chat-completions endpoint, [Static] replays fixed text
// and [Cached] memoizes another Generator. The output is untrusted; callers
// run it through journey.Parse and the repair pipeline.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/journey/pkg/journey"
)

// Generator produces raw candidate text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Generate(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Static always returns Text.
type Static struct {
	Text string
}

func (s Static) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.Text, nil
}

// Prompt builds the instruction text sent to the generator.
func Prompt(description string, req journey.Requirements) string {
	var b strings.Builder
	b.WriteString("Design a customer journey as a JSON array of nodes.\n\n")
	b.WriteString("Each node has: id (unique string), type (one of entrance, push, email, wait, branch, exit), ")
	b.WriteString("title, description, position {x, y}, connections (array of next node ids).\n")
	b.WriteString("Type-specific fields:\n")
	b.WriteString("- entrance: segments (array of audience names)\n")
	b.WriteString("- push: messageContent {title, body}\n")
	b.WriteString("- email: messageContent {subject, body}\n")
	b.WriteString("- wait: waitDuration (for example \"2 Days\")\n")
	b.WriteString("- branch: branches {yes: [id], no: [id]} instead of connections\n")
	b.WriteString("- exit: exitConditions (array), no connections\n\n")
	b.WriteString("Rules: exactly one entrance as the first node, one exit as the last node, ")
	b.WriteString("every other node connects to the next step.\n")

	if !req.IsZero() {
		b.WriteString("\nThe journey must contain exactly:\n")
		for _, t := range journey.ConstrainedTypes {
			if n := req.For(t); n > 0 {
				fmt.Fprintf(&b, "- %d %s node(s)\n", n, t)
			}
		}
	}
	if req.Total > 0 {
		fmt.Fprintf(&b, "\nAim for about %d steps in total.\n", req.Total)
	}

	b.WriteString("\nDescription:\n")
	b.WriteString(strings.TrimSpace(description))
	b.WriteString("\n\nRespond with the JSON array only.")
	return b.String()
}
