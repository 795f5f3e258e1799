package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/lukedgr/nodejstools/internal/diag"
	"github.com/lukedgr/nodejstools/internal/driver"
)

var (
	modulePathStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	unchangedStyle  = lipgloss.NewStyle().Faint(true)
	bindingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// renderReport prints the per-module export summary. Name columns are
// padded by display width so non-ASCII identifiers stay aligned.
func renderReport(w io.Writer, result *driver.AnalyzeResult, colored bool) {
	for _, m := range result.Modules {
		header := m.Path
		if colored {
			header = modulePathStyle.Render(header)
		}
		if m.Unchanged {
			suffix := " (unchanged)"
			if colored {
				suffix = unchangedStyle.Render(suffix)
			}
			header += suffix
		}
		fmt.Fprintln(w, header)

		width := 0
		for _, e := range m.Exports {
			if nw := runewidth.StringWidth(e.Name); nw > width {
				width = nw
			}
		}
		for _, e := range m.Exports {
			name := e.Name + strings.Repeat(" ", width-runewidth.StringWidth(e.Name))
			if colored {
				name = bindingStyle.Render(name)
			}
			fmt.Fprintf(w, "  %s  %s\n", name, e.Types)
		}
		if len(m.Exports) == 0 {
			fmt.Fprintln(w, "  (no module-level bindings)")
		}
	}
}

var (
	sevErrorColor = color.New(color.FgRed, color.Bold)
	sevWarnColor  = color.New(color.FgYellow)
	sevInfoColor  = color.New(color.FgCyan)
)

func printDiagnostics(w io.Writer, result *driver.AnalyzeResult, colored bool) {
	for _, d := range result.Bag.Items() {
		label := d.Severity.String()
		if colored {
			switch d.Severity {
			case diag.SevError:
				label = sevErrorColor.Sprint(label)
			case diag.SevWarning:
				label = sevWarnColor.Sprint(label)
			default:
				label = sevInfoColor.Sprint(label)
			}
		}
		if d.Primary.Empty() && d.Primary.File == 0 {
			fmt.Fprintf(w, "%s [%s] %s\n", label, d.Code, d.Message)
			continue
		}
		file := result.FileSet.Get(d.Primary.File)
		start, _ := result.FileSet.Resolve(d.Primary)
		fmt.Fprintf(w, "%s [%s] %s:%d:%d: %s\n", label, d.Code, file.Path, start.Line, start.Col, d.Message)
	}
}
