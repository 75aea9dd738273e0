package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/linkgen/layout"
	"github.com/wippyai/linkgen/script"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	memStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const listWidth = 32

type exploreModel struct {
	script   *script.Script
	filename string
	err      error
	visible  []*layout.Section
	filter   textinput.Model
	preview  viewport.Model
	selected int
	height   int
	ready    bool
	filterOn bool
}

func newExploreModel(filename string, s *script.Script) *exploreModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "section or memory"
	ti.Width = listWidth - 2

	m := &exploreModel{
		script:   s,
		filename: filename,
		filter:   ti,
	}
	m.applyFilter()
	return m
}

func (m *exploreModel) Init() tea.Cmd {
	return nil
}

// applyFilter keeps the sections whose name or memory contains the filter
// text, in declaration order.
func (m *exploreModel) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.visible = m.visible[:0]
	for _, sec := range m.script.Sections() {
		if q == "" ||
			strings.Contains(strings.ToLower(sec.Name), q) ||
			strings.Contains(strings.ToLower(sec.Placement()), q) {
			m.visible = append(m.visible, sec)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
	m.refreshPreview()
}

func (m *exploreModel) refreshPreview() {
	if !m.ready {
		return
	}
	if len(m.visible) == 0 {
		m.preview.SetContent("no matching section")
		return
	}

	sec := m.visible[m.selected]
	var b strings.Builder
	if err := sec.Emit(&b); err != nil {
		m.err = err
		return
	}
	fmt.Fprintf(&b, "size:  %s\n", sec.Size())
	if p := sec.Prev(); p != nil {
		fmt.Fprintf(&b, "after: %s\n", p.OutputName())
	}
	if sec.IsShadowView() {
		fmt.Fprintf(&b, "view of %s in %s\n", sec.Shadow.OutputName(), sec.Shadow.Placement())
	}
	if sec.IsLast() {
		fmt.Fprintf(&b, "last section of %s\n", sec.Region().Name)
	}
	m.preview.SetContent(b.String())
	m.preview.GotoTop()
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height - 4
		width := max(msg.Width-listWidth-2, 20)
		if !m.ready {
			m.preview = viewport.New(width, m.height)
			m.ready = true
		} else {
			m.preview.Width = width
			m.preview.Height = m.height
		}
		m.refreshPreview()
		return m, nil

	case tea.KeyMsg:
		if m.filterOn {
			switch msg.String() {
			case "enter", "esc":
				m.filterOn = false
				m.filter.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "/":
			m.filterOn = true
			return m, m.filter.Focus()

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshPreview()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.refreshPreview()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m *exploreModel) listView() string {
	var b strings.Builder
	start := 0
	if m.height > 0 && m.selected >= m.height {
		start = m.selected - m.height + 1
	}
	for i := start; i < len(m.visible); i++ {
		if m.height > 0 && i-start >= m.height {
			break
		}
		sec := m.visible[i]
		label := fmt.Sprintf("%-16s", sec.OutputName())
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + label + " " + sec.Placement()))
		} else {
			b.WriteString("  " + label + " " + memStyle.Render(sec.Placement()))
		}
		b.WriteByte('\n')
	}
	return lipgloss.NewStyle().Width(listWidth).Render(b.String())
}

func (m *exploreModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if !m.ready {
		return "Loading layout..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Linker layout"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d memories, %d sections\n", len(m.script.MemoryNames()), len(m.script.Sections())))

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", m.preview.View()))
	b.WriteString("\n")

	if m.filterOn || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("  ")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • pgup/pgdn scroll • q quit"))
	return b.String()
}

func runInteractive(filename string, s *script.Script) error {
	p := tea.NewProgram(newExploreModel(filename, s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
