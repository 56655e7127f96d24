package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/reprcheck/errors"
	"github.com/wippyai/reprcheck/verify"
)

type interactiveModel struct {
	report   *verify.Report
	visible  []verify.Result
	filter   textinput.Model
	selected int
	detail   bool
}

func newInteractiveModel(report *verify.Report) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter labels"
	ti.Prompt = "/ "
	ti.Width = 40

	m := &interactiveModel{report: report, filter: ti}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for _, r := range m.report.Results {
		if query == "" ||
			strings.Contains(strings.ToLower(r.Label), query) ||
			strings.Contains(strings.ToLower(r.Group), query) {
			m.visible = append(m.visible, r)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			if m.filter.Focused() {
				m.filter.Blur()
			} else {
				m.detail = !m.detail
			}
			return m, nil

		case "esc":
			switch {
			case m.filter.Focused():
				m.filter.Blur()
			case m.detail:
				m.detail = false
			default:
				m.filter.SetValue("")
				m.applyFilter()
			}
			return m, nil
		}

		if !m.filter.Focused() {
			switch key.String() {
			case "q":
				return m, tea.Quit
			case "/":
				m.detail = false
				return m, m.filter.Focus()
			case "f":
				m.filter.SetValue("")
				m.filterFailed()
				return m, nil
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Focused() {
		m.applyFilter()
	}
	return m, cmd
}

func (m *interactiveModel) filterFailed() {
	m.visible = m.report.Failed()
	m.selected = 0
}

func (m *interactiveModel) View() string {
	p := newPrinter(true)
	var b strings.Builder

	b.WriteString(titleStyle.Render("Layout checks"))
	b.WriteString(" ")
	if m.report.OK() {
		b.WriteString(passStyle.Render(fmt.Sprintf("%d passed", len(m.report.Results))))
	} else {
		b.WriteString(errorStyle.Render(fmt.Sprintf("%d of %d failed", len(m.report.Failed()), len(m.report.Results))))
	}
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if m.detail && len(m.visible) > 0 {
		r := m.visible[m.selected]
		b.WriteString(groupStyle.Render(r.Group))
		b.WriteString("\n")
		b.WriteString(r.Label)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "  actual:   %s\n", errors.FormatValue(r.Actual))
		fmt.Fprintf(&b, "  expected: %s\n", errors.FormatValue(r.Expected))
		if r.Cause != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("  cause: %v", r.Cause)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
		return b.String()
	}

	group := ""
	for i, r := range m.visible {
		if r.Group != group {
			group = r.Group
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}
		status := p.pass("ok  ")
		if !r.OK {
			status = p.fail("FAIL")
		}
		line := "  " + r.Label
		if i == m.selected {
			line = selectedStyle.Render("> " + r.Label)
		}
		b.WriteString(status)
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(helpStyle.Render("no matching checks"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • f failed only • esc clear • q quit"))
	return b.String()
}

func runInteractive(report *verify.Report) error {
	p := tea.NewProgram(newInteractiveModel(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
