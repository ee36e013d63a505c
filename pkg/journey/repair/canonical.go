package repair

import (
	"fmt"

	"github.com/matzehuels/journey/pkg/journey"
)

// BuildCanonical builds the template journey for req:
//
//	Entrance → Email×E (Wait between each) → Push×P (Wait between each)
//	         → standalone Waits → Branch×B → Exit
//
// Standalone waits top the wait count up to req.Wait. When req.Wait is set
// and smaller than the E-1 + P-1 inter-message waits, only req.Wait of them
// are placed, emails first, so the result always satisfies req exactly.
//
// IDs are deterministic (entrance, email-1, wait-1, push-1, branch-1, exit)
// and every node's connections point at the next node. Branch nodes get no
// yes/no targets.
func BuildCanonical(req journey.Requirements, opts Options) []journey.Node {
	opts.SetDefaults()
	b := &chain{opts: opts}

	interWaits := max(0, req.Email-1) + max(0, req.Push-1)
	budget := interWaits
	if req.Wait > 0 && req.Wait < interWaits {
		budget = req.Wait
	}

	b.add(journey.NewEntrance("entrance", "Entrance", opts.DefaultSegments...))
	for i := 1; i <= req.Email; i++ {
		if i > 1 && budget > 0 {
			b.wait()
			budget--
		}
		b.add(newMessage(journey.TypeEmail, fmt.Sprintf("email-%d", i), i))
	}
	for i := 1; i <= req.Push; i++ {
		if i > 1 && budget > 0 {
			b.wait()
			budget--
		}
		b.add(newMessage(journey.TypePush, fmt.Sprintf("push-%d", i), i))
	}
	for range max(0, req.Wait-interWaits) {
		b.wait()
	}
	for i := 1; i <= req.Branch; i++ {
		n := journey.NewBranch(fmt.Sprintf("branch-%d", i), placeholderTitle(journey.TypeBranch, i), "", "")
		b.add(n)
	}
	b.add(journey.NewExit("exit", "Exit", opts.DefaultExitConditions...))
	return b.nodes
}

// chain appends nodes and threads each predecessor's connection to the new node.
type chain struct {
	opts  Options
	nodes []journey.Node
	waits int
}

func (c *chain) add(n journey.Node) {
	if len(c.nodes) > 0 {
		c.nodes[len(c.nodes)-1].Connections = []string{n.ID}
	}
	n.Connections = []string{}
	c.nodes = append(c.nodes, n)
}

func (c *chain) wait() {
	c.waits++
	c.add(journey.NewWait(fmt.Sprintf("wait-%d", c.waits), c.opts.DefaultWait, c.opts.DefaultWait))
}

func placeholderTitle(t journey.NodeType, n int) string {
	return fmt.Sprintf("%s %d", t.Label(), n)
}

func newMessage(t journey.NodeType, id string, n int) journey.Node {
	title := placeholderTitle(t, n)
	if t == journey.TypeEmail {
		return journey.NewEmail(id, title, journey.MessageContent{
			Subject: title,
			Body:    DefaultMessageBody,
		})
	}
	return journey.NewPush(id, title, journey.MessageContent{
		Title: title,
		Body:  DefaultMessageBody,
	})
}
