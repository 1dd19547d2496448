// Package tui is an interactive viewer for projection results built on
// Bubble Tea. It loads a plan file, runs the engine, and charts the three
// scenario bands.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akakileti/nestegg/internal/calculation"
	"github.com/akakileti/nestegg/internal/config"
	"github.com/akakileti/nestegg/internal/domain"
)

var (
	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)

type keyMap struct {
	ToggleReal key.Binding
	Reload     key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	ToggleReal: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "toggle real/nominal"),
	),
	Reload: key.NewBinding(
		key.WithKeys("l"),
		key.WithHelp("l", "reload plan"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Messages flowing back from commands.
type planLoadedMsg struct{ plan *domain.Plan }
type projectionDoneMsg struct{ result *domain.ProjectionResult }
type errMsg struct{ err error }

// Model is the application state.
type Model struct {
	planPath string
	plan     *domain.Plan
	result   *domain.ProjectionResult

	showReal bool
	loading  bool
	err      error

	width  int
	height int
}

func NewModel(planPath string) Model {
	return Model{
		planPath: planPath,
		loading:  true,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return loadPlanCmd(m.planPath)
}

func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		plan, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return errMsg{err}
		}
		return planLoadedMsg{plan}
	}
}

func projectCmd(plan *domain.Plan) tea.Cmd {
	return func() tea.Msg {
		result, err := calculation.NewProjectionEngine().RunProjection(context.Background(), plan)
		if err != nil {
			return errMsg{err}
		}
		return projectionDoneMsg{result}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case planLoadedMsg:
		m.plan = msg.plan
		m.err = nil
		return m, projectCmd(m.plan)

	case projectionDoneMsg:
		m.result = msg.result
		m.loading = false
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.ToggleReal):
			m.showReal = !m.showReal
			return m, nil
		case key.Matches(msg, keys.Reload):
			m.loading = true
			return m, loadPlanCmd(m.planPath)
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(statusStyle.Render("Running projection for " + m.planPath + "..."))
		b.WriteString("\n")
	case m.result != nil:
		chart := NewBalanceChart(m.result, m.showReal)
		if m.width > 20 {
			chart.Width = min(m.width-4, 100)
		}
		b.WriteString(chart.Render())
		b.WriteString("\n\n")
		b.WriteString(m.renderSummary())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderSummary() string {
	var lines []string
	for i := range m.result.Scenarios {
		s := &m.result.Scenarios[i]
		line := fmt.Sprintf("%-11s final %s", s.Label, formatFinal(s.FinalBalance()))
		if age := s.DepletionAge(); age >= 0 {
			line += warningStyle.Render(fmt.Sprintf("  depletes at age %d", age))
		}
		lines = append(lines, line)
	}
	for _, w := range m.result.Warnings {
		lines = append(lines, warningStyle.Render("! "+w))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	parts := make([]string, 0, 3)
	for _, b := range []key.Binding{keys.ToggleReal, keys.Reload, keys.Quit} {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return statusStyle.Render(strings.Join(parts, "  •  "))
}

// Run starts the interactive viewer for the given plan file.
func Run(planPath string) error {
	p := tea.NewProgram(NewModel(planPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
