package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	jio "github.com/matzehuels/journey/pkg/io"
	"github.com/matzehuels/journey/pkg/store"
)

// storeCommand manages journeys in the configured store backend.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage stored journeys",
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storePutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <file>",
		Short: "Store a journey document under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[1])
			if err != nil {
				return err
			}
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec := store.Record{
					Key:          args[0],
					Description:  doc.Description,
					Requirements: doc.Requirements,
					Nodes:        doc.Nodes,
				}
				if err := store.Save(cmd.Context(), st, rec); err != nil {
					return err
				}
				printSuccess(c.Out, "Stored %s (%d nodes)", args[0], len(doc.Nodes))
				return nil
			})
		},
	}
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a stored journey document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				rec, err := store.Load(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				return writeDocument(c.Out, output, jio.Document{
					Description:  rec.Description,
					Requirements: rec.Requirements,
					Nodes:        rec.Nodes,
				})
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	var keysOnly bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored journeys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				keys, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if keysOnly {
					for _, k := range keys {
						fmt.Fprintln(c.Out, k)
					}
					return nil
				}
				if len(keys) == 0 {
					printInfo(c.Out, "No stored journeys")
					return nil
				}

				rows := make([][]string, 0, len(keys))
				for _, k := range keys {
					rec, err := store.Load(cmd.Context(), st, k)
					if err != nil {
						log.FromContext(cmd.Context()).Warn("skipping unreadable journey", "key", k, "err", err)
						continue
					}
					rows = append(rows, []string{k, strconv.Itoa(len(rec.Nodes)), formatUpdated(rec.UpdatedAt), truncate(rec.Description, 48)})
				}
				fmt.Fprintln(c.Out, table.New().
					Border(lipgloss.RoundedBorder()).
					BorderStyle(StyleDim).
					Headers("Key", "Nodes", "Updated", "Description").
					Rows(rows...).
					StyleFunc(func(row, col int) lipgloss.Style {
						if row == table.HeaderRow {
							return styleHeader
						}
						return lipgloss.NewStyle().Padding(0, 1)
					}).
					Render())
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&keysOnly, "quiet", "q", false, "print keys only")
	return cmd
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>...",
		Aliases: []string{"delete"},
		Short:   "Delete stored journeys",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd.Context(), func(st store.Store) error {
				for _, k := range args {
					if err := st.Delete(cmd.Context(), k); err != nil {
						return fmt.Errorf("delete %s: %w", k, err)
					}
				}
				printSuccess(c.Out, "Deleted %d journey(s)", len(args))
				return nil
			})
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
