package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/journey/inspect"
	"github.com/matzehuels/journey/pkg/journey/repair"
	"github.com/matzehuels/journey/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleRepaired  = lipgloss.NewStyle().Foreground(colorYellow)
	styleUntouched = lipgloss.NewStyle().Foreground(colorGreen)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Journey Summaries
// =============================================================================

// printStats prints node count, repair mode and timings on one line.
func printStats(w io.Writer, res *pipeline.Result) {
	parts := []string{fmt.Sprintf("%d nodes", res.Stats.NodeCount)}
	if res.Stats.GenerateTime > 0 {
		parts = append(parts, "generated in "+res.Stats.GenerateTime.Round(1e6).String())
	}

	mode := string(res.Repair.Mode)
	modeStyle := styleUntouched
	if res.Repair.Mode != repair.ModeNone {
		modeStyle = styleRepaired
		mode = fmt.Sprintf("%s +%d -%d", mode, len(res.Repair.Added), len(res.Repair.Removed))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	line += StyleDim.Render(" · ") + modeStyle.Render(mode)
	fmt.Fprintln(w, line)
}

// countsTable renders wanted and actual counts per constrained type.
func countsTable(req journey.Requirements, counts journey.Counts) string {
	rows := make([][]string, 0, len(journey.ConstrainedTypes))
	for _, t := range journey.ConstrainedTypes {
		want := "any"
		if n := req.For(t); n > 0 {
			want = strconv.Itoa(n)
		}
		rows = append(rows, []string{t.Label(), want, strconv.Itoa(counts.For(t))})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Type", "Wanted", "Actual").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

// printReport lists structural findings, or a single success line.
func printReport(w io.Writer, r inspect.Report) {
	if r.Clean() {
		printSuccess(w, "Structure is sound (root %s)", r.Root)
		return
	}
	findings := []struct {
		label string
		ids   []string
	}{
		{"unreachable", r.Unreachable},
		{"dangling", r.Dangling},
		{"dead ends", r.DeadEnds},
		{"duplicates", r.Duplicates},
	}
	for _, f := range findings {
		if len(f.ids) > 0 {
			printWarning(w, "%s: %s", f.label, strings.Join(f.ids, ", "))
		}
	}
	if r.Cyclic {
		printWarning(w, "connections contain a cycle")
	}
}
