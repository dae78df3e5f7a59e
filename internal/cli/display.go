package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"qatrack/backend"
	"qatrack/internal/category"
	"qatrack/internal/store"
	"qatrack/internal/views"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	nameStyle    = lipgloss.NewStyle().Bold(true)
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	doneStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	neutralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

var statusStyles = map[backend.Status]lipgloss.Style{
	backend.StatusPending: neutralStyle,
	backend.StatusSuccess: doneStyle,
	backend.StatusError:   failedStyle,
	backend.StatusWarning: warnStyle,
	backend.StatusSkipped: dimStyle,
}

// GetTerminalWidth returns the current terminal width, defaulting to 80 if unable to detect
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return width
}

func borderWidth() int {
	w := GetTerminalWidth() - 2
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

// BadgeText renders a suite badge
func BadgeText(b views.Badge) string {
	switch b.Kind {
	case views.BadgeFailed:
		return failedStyle.Render(fmt.Sprintf("✗ %d failed", b.Count))
	case views.BadgeDone:
		return doneStyle.Render("✓ done")
	default:
		if b.Count == 0 {
			return neutralStyle.Render("·")
		}
		return neutralStyle.Render(fmt.Sprintf("%d open", b.Count))
	}
}

// ShowSuites prints the suite list with badges and the global attention counter
func ShowSuites(w io.Writer, suites []backend.TestSuite, stats []views.SuiteStats) {
	width := borderWidth()
	header := "─ Test Suites "
	fmt.Fprintf(w, "\n%s\n", headerStyle.Render("┌"+header+strings.Repeat("─", max(0, width-utf8.RuneCountInString(header)))+"┐"))

	for i, suite := range suites {
		var st views.SuiteStats
		if i < len(stats) {
			st = stats[i]
		}
		fmt.Fprintf(w, "  %s %s %s %s\n",
			dimStyle.Render(fmt.Sprintf("%2d.", i+1)),
			nameStyle.Render(fmt.Sprintf("%-30s", truncate(suite.Name, 30))),
			dimStyle.Render(fmt.Sprintf("(%d cases)", st.Total)),
			BadgeText(st.Badge()),
		)
	}

	fmt.Fprintf(w, "%s\n", headerStyle.Render("└"+strings.Repeat("─", width)+"┘"))
	fmt.Fprintf(w, "  %d items need attention\n", views.AggregateGlobalOpen(stats))
}

// ShowCases prints one page of cases as a table of the given fields
func ShowCases(w io.Writer, page views.PageResult, fields []string) {
	if page.TotalItems == 0 {
		fmt.Fprintln(w, dimStyle.Render("No test cases."))
		return
	}

	widths := columnWidths(fields, GetTerminalWidth())

	var header []string
	for i, f := range fields {
		def, _ := views.GetFieldDefinition(f)
		header = append(header, pad(def.Label, widths[i]))
	}
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(strings.Join(header, "  "), " ")))

	for _, c := range page.Items {
		var cols []string
		for i, f := range fields {
			cell := pad(truncate(views.FieldValue(c, f), widths[i]), widths[i])
			if f == "status" {
				cell = statusStyles[c.Status].Render(cell)
			}
			if f == "sync" && c.SyncState == backend.SyncFailed {
				cell = failedStyle.Render(cell)
			}
			cols = append(cols, cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cols, "  "), " "))
	}

	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("Page %d/%d, %d cases", page.Page, page.TotalPages, page.TotalItems)))
}

// columnWidths gives every field its registry width; unlimited fields share what is left
func columnWidths(fields []string, termWidth int) []int {
	widths := make([]int, len(fields))
	used := 0
	flexible := 0
	for i, f := range fields {
		def, _ := views.GetFieldDefinition(f)
		widths[i] = def.Width
		if def.Width == 0 {
			flexible++
		}
		used += def.Width + 2
	}
	if flexible > 0 {
		share := (termWidth - used) / flexible
		if share < 10 {
			share = 10
		}
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

// ShowCase prints all fields of a single case
func ShowCase(w io.Writer, c backend.TestCase) {
	fmt.Fprintf(w, "%s  %s\n", nameStyle.Render(c.TestID), c.Title)
	fmt.Fprintf(w, "  status: %s   sync: %s\n", statusStyles[c.Status].Render(string(c.Status)), c.SyncState)
	if c.Description != "" {
		fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(c.Description, "\n", "\n  "))
	}
	if c.Note != "" {
		fmt.Fprintf(w, "  note: %s\n", c.Note)
	}
	if c.LastSyncError != "" {
		fmt.Fprintf(w, "  %s\n", failedStyle.Render("last sync error: "+c.LastSyncError))
	}
}

// ShowCategoryTree prints the tree with box-drawing indentation
func ShowCategoryTree(w io.Writer, tree *category.Tree) {
	if tree.Len() == 0 {
		fmt.Fprintln(w, dimStyle.Render("No categories."))
		return
	}

	var visit func(nodes []*category.Node, prefix string)
	visit = func(nodes []*category.Node, prefix string) {
		for i, n := range nodes {
			branch, next := "├── ", "│   "
			if i == len(nodes)-1 {
				branch, next = "└── ", "    "
			}
			label := n.Name
			if n.Count > 0 {
				label += dimStyle.Render(fmt.Sprintf(" (%d)", n.Count))
			}
			if n.Truncated {
				label += warnStyle.Render(" [cycle]")
			}
			fmt.Fprintf(w, "%s%s%s\n", prefix, branch, label)
			visit(n.Children, prefix+next)
		}
	}
	visit(tree.Roots, "")
}

// ShowSyncSummary prints the result of a bulk retry and the cases still failing
func ShowSyncSummary(w io.Writer, summary store.SyncSummary, stillFailing []backend.TestCase) {
	if summary.Succeeded+summary.Failed == 0 {
		fmt.Fprintln(w, doneStyle.Render("Everything is in sync."))
		return
	}
	fmt.Fprintf(w, "%s, %s\n",
		doneStyle.Render(fmt.Sprintf("%d synced", summary.Succeeded)),
		failedStyle.Render(fmt.Sprintf("%d failed", summary.Failed)),
	)
	for _, c := range stillFailing {
		fmt.Fprintf(w, "  %s %s\n", nameStyle.Render(c.TestID), dimStyle.Render(c.LastSyncError))
	}
}

func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:width-1]) + "…"
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
