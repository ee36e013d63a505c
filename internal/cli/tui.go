package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/store"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	detailPaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// JourneyModel - Interactive node browser
// =============================================================================

// JourneyModel is the bubbletea model for browsing a journey's nodes.
// Enter follows the selected node's first successor; backspace returns.
type JourneyModel struct {
	Title  string
	Nodes  []journey.Node
	Cursor int
	Height int
	Offset int

	index   map[string]int
	history []int
}

// NewJourneyModel creates a browser over nodes.
func NewJourneyModel(title string, nodes []journey.Node) JourneyModel {
	return JourneyModel{
		Title:  title,
		Nodes:  nodes,
		Height: 12,
		index:  journey.Index(nodes),
	}
}

func (m JourneyModel) Init() tea.Cmd {
	return nil
}

func (m JourneyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(m.Cursor - 1)
		case "down", "j":
			m.move(m.Cursor + 1)
		case "home", "g":
			m.move(0)
		case "end", "G":
			m.move(len(m.Nodes) - 1)
		case "enter", "l":
			if next, ok := m.successor(); ok {
				m.history = append(m.history, m.Cursor)
				m.move(next)
			}
		case "backspace", "h":
			if n := len(m.history); n > 0 {
				prev := m.history[n-1]
				m.history = m.history[:n-1]
				m.move(prev)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-14)
		m.move(m.Cursor)
	}
	return m, nil
}

// move places the cursor at i, clamped, and scrolls it into view.
func (m *JourneyModel) move(i int) {
	if len(m.Nodes) == 0 {
		return
	}
	m.Cursor = min(max(i, 0), len(m.Nodes)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// successor returns the list index of the first resolvable edge target.
func (m JourneyModel) successor() (int, bool) {
	if len(m.Nodes) == 0 {
		return 0, false
	}
	for _, id := range m.Nodes[m.Cursor].Edges() {
		if i, ok := m.index[id]; ok {
			return i, true
		}
	}
	return 0, false
}

func (m JourneyModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(m.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Type.Label(), n.Title, strings.Join(n.Edges(), ", ")})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Type", "Title", "Next").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(detailPaneStyle.Render(nodeDetail(m.Nodes[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Nodes))))

	return b.String()
}

// nodeDetail renders the selected node's payload.
func nodeDetail(n journey.Node) string {
	var lines []string
	add := func(k, v string) {
		if v != "" {
			lines = append(lines, detailKeyStyle.Render(k)+" "+v)
		}
	}

	add("id", n.ID)
	add("type", n.Type.Label())
	add("position", fmt.Sprintf("(%g, %g)", n.Position.X, n.Position.Y))
	switch p := n.Payload().(type) {
	case journey.EntrancePayload:
		add("segments", strings.Join(p.Segments, ", "))
	case journey.MessagePayload:
		add("subject", p.Content.Subject)
		add("title", p.Content.Title)
		add("body", p.Content.Body)
	case journey.WaitPayload:
		add("duration", p.Duration)
	case journey.BranchPayload:
		add("yes", strings.Join(p.Yes, ", "))
		add("no", strings.Join(p.No, ", "))
	case journey.ExitPayload:
		add("conditions", strings.Join(p.Conditions, ", "))
	}
	add("connections", strings.Join(n.Connections, ", "))
	return strings.Join(lines, "\n")
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Browse a journey's nodes interactively",
		Example: `  journey browse welcome.json
  journey browse --key welcome`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				title string
				nodes []journey.Node
			)
			switch {
			case key != "":
				err := c.withStore(cmd.Context(), func(st store.Store) error {
					rec, err := store.Load(cmd.Context(), st, key)
					if err != nil {
						return err
					}
					title, nodes = key, rec.Nodes
					return nil
				})
				if err != nil {
					return err
				}
			case len(args) == 1:
				doc, err := readDocument(args[0])
				if err != nil {
					return err
				}
				title, nodes = args[0], doc.Nodes
			default:
				return fmt.Errorf("browse needs a file or --key")
			}

			p := tea.NewProgram(NewJourneyModel(title, nodes), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "browse a stored journey")
	return cmd
}
