package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wippyai/linkgen/script"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	viewStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#666666"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4"))
)

func newTable(styled bool, headers ...string) *table.Table {
	t := table.New().Headers(headers...)
	if !styled {
		return t.Border(lipgloss.ASCIIBorder())
	}
	return t.Border(lipgloss.RoundedBorder()).BorderStyle(borderStyle)
}

func memoryTable(s *script.Script, styled bool) *table.Table {
	t := newTable(styled, "Memory", "Origin", "Length", "Sections")
	for _, r := range s.Regions() {
		t.Row(r.Name, fmt.Sprintf("0x%08x", r.Origin), fmt.Sprintf("0x%08x", r.Length), fmt.Sprint(len(r.Sections())))
		if w, ok := r.Alias(); ok {
			t.Row(r.AliasName(), fmt.Sprintf("0x%08x", w.Origin), fmt.Sprintf("0x%08x", w.Length), "")
		}
	}
	if styled {
		t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	}
	return t
}

func sectionTable(s *script.Script, styled bool) *table.Table {
	t := newTable(styled, "#", "Section", "Memory", "Exec", "Load", "Size")
	views := make(map[int]bool)
	for i, sec := range s.Sections() {
		name := sec.OutputName()
		if sec.IsShadowView() {
			name += " (view)"
			views[i] = true
		}
		t.Row(fmt.Sprint(i), name, sec.Placement(), orDash(sec.ExecHierarchy()), orDash(sec.LoadHierarchy()), sec.Size())
	}
	if styled {
		t.StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case views[row]:
				return viewStyle
			}
			return cellStyle
		})
	}
	return t
}

func orDash(expr string) string {
	if expr == "" {
		return "-"
	}
	return expr
}

// dumpMemoryMap prints the memory table and the section placement table.
func dumpMemoryMap(w io.Writer, s *script.Script, styled bool) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s\n", memoryTable(s, styled).String(), sectionTable(s, styled).String())
	return err
}
