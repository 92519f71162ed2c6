package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dispatchlab/opsim/internal/report"
	"github.com/dispatchlab/opsim/internal/sim"
)

// ── Tab definitions ─────────────────

type tabID int

const (
	tabSummary tabID = iota
	tabTranscript
	tabForm
	tabEvaluation
	tabCount
)

var tabNames = [tabCount]string{
	"Summary", "Transcript", "Report Form", "Evaluation",
}

// ── Model ────────────────────

// Viewer is the Bubble Tea model for browsing a saved call report.
type Viewer struct {
	report    *report.CallReport
	filename  string
	activeTab tabID
	viewports [tabCount]viewport.Model
	width     int
	height    int
	ready     bool
}

// NewViewer creates a viewer for the given report and source filename.
func NewViewer(r *report.CallReport, filename string) Viewer {
	return Viewer{report: r, filename: filepath.Base(filename)}
}

// ── Bubble Tea interface ───────────────

func (m Viewer) Init() tea.Cmd { return nil }

func (m Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab", "l", "right":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab", "h", "left":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
		}
		var cmd tea.Cmd
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initViewports()
		return m, nil
	}
	return m, nil
}

func (m Viewer) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  opsim  " + m.filename)

	var tabParts []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabNames[i])
		if i == m.activeTab {
			tabParts = append(tabParts, activeTabStyle.Render(label))
		} else {
			tabParts = append(tabParts, inactiveTabStyle.Render(label))
		}
		if i < tabCount-1 {
			tabParts = append(tabParts, tabSepStyle.Render("│"))
		}
	}
	tabRow := lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Width(m.width).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, tabParts...))

	content := m.viewports[m.activeTab].View()

	hint := "  ←/→ tab  ↑/↓ scroll  1-4 jump  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewports[m.activeTab].ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(
		hint + strings.Repeat(" ", pad) + pct,
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, tabRow, content, statusBar)
}

// ── Viewport management ───────────────────────────────────────────────────────

func (m *Viewer) initViewports() {
	// title(1) + tabRow(1) + statusBar(1) = 3 fixed rows
	vpHeight := m.height - 3
	if vpHeight < 1 {
		vpHeight = 1
	}
	for i := tabID(0); i < tabCount; i++ {
		vp := viewport.New(m.width, vpHeight)
		vp.SetContent(m.renderTab(i))
		m.viewports[i] = vp
	}
}

// ── Tab renderers ─────────────────────────────────────────────────────────────

func (m *Viewer) renderTab(t tabID) string {
	switch t {
	case tabSummary:
		return m.renderSummary()
	case tabTranscript:
		return renderTranscript(m.report.Transcript, false, 0, m.width)
	case tabForm:
		return m.renderForm()
	case tabEvaluation:
		return m.renderEvaluation()
	}
	return ""
}

func heading(s string) string {
	return "\n" + sectionHeader.Render("  "+s) + "\n\n"
}

func (m *Viewer) renderSummary() string {
	s := m.report.Session
	var sb strings.Builder
	sb.WriteString(heading("Call Summary"))

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Scenario:", s.ScenarioTitle)
	row("Attempt:", fmt.Sprintf("%d", s.AttemptNumber))
	row("Mode:", s.Mode)
	runType := "practice"
	if s.Training {
		runType = "training"
	}
	row("Run type:", runType)
	if s.Operator != "" {
		row("Operator:", s.Operator)
	}
	if !s.StartedAt.IsZero() {
		row("Started:", s.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if !s.EndedAt.IsZero() {
		row("Ended:", s.EndedAt.Format("2006-01-02 15:04:05 MST"))
	}
	row("Duration:", s.Duration)

	if m.report.Outcome != nil {
		sb.WriteString(heading("Outcome"))
		status := failStyle.Render(m.report.Outcome.Status)
		if m.report.Outcome.Status == "completed" {
			status = passStyle.Render(m.report.Outcome.Status)
		}
		row("Status:", status)
		row("Score:", fmt.Sprintf("%.0f%%", m.report.Outcome.Score))
	}

	sb.WriteString("\n")
	row("Messages:", fmt.Sprintf("%d", len(m.report.Transcript)))
	return sb.String()
}

func (m *Viewer) renderForm() string {
	form := m.report.Form
	var sb strings.Builder
	sb.WriteString(heading("Report Form"))

	row := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("—")
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
	}
	row("Caller name:", form.CallerName)
	row("Caller age:", form.CallerAge)
	row("Caller type:", optionLabel(sim.CallerTypes, form.CallerType))
	row("Priority:", optionLabel(sim.Priorities, form.Priority))
	row("Region:", form.Region)
	row("City:", form.City)
	row("Street:", form.Street)
	row("Number:", form.Number)
	row("Diagnosis:", form.Diagnosis)
	row("Notes:", form.OperatorNotes)

	sb.WriteString(heading("Extra Units"))
	if len(form.ExtraUnits) == 0 {
		sb.WriteString(dimStyle.Render("  (none requested)") + "\n")
	}
	for _, code := range form.ExtraUnits {
		sb.WriteString("  " + checkedStyle.Render("[x]") + " " + optionLabel(sim.ExtraUnits, code) + "\n")
	}
	return sb.String()
}

func (m *Viewer) renderEvaluation() string {
	var sb strings.Builder
	sb.WriteString(heading("Evaluation"))

	if m.report.Outcome == nil || len(m.report.Outcome.Evaluation) == 0 {
		sb.WriteString(dimStyle.Render("  (this session was not evaluated)") + "\n")
		return sb.String()
	}

	for _, key := range report.EvaluationOrder {
		v, ok := m.report.Outcome.Evaluation[key]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %3.0f  %s\n",
			labelStyle.Render(fmt.Sprintf("%-16s", report.EvaluationLabel(key))),
			v,
			scoreBar(v, 24),
		))
	}
	return sb.String()
}

// optionLabel resolves a wire code to its display label, falling back to the
// raw code.
func optionLabel(options []sim.Option, code string) string {
	if code == "" {
		return ""
	}
	for _, opt := range options {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}

// RunViewer starts the report viewer.
func RunViewer(r *report.CallReport, filename string) error {
	p := tea.NewProgram(NewViewer(r, filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
