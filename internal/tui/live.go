package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dispatchlab/opsim/internal/api"
	"github.com/dispatchlab/opsim/internal/attempt"
	"github.com/dispatchlab/opsim/internal/realtime"
	"github.com/dispatchlab/opsim/internal/report"
	"github.com/dispatchlab/opsim/internal/sim"
)

const formPanelWidth = 36

// ── Phases ────────────────────────────

type phase int

const (
	phaseStarting phase = iota
	phaseLive
	phaseEnding
	phaseResult
	phaseFailed
)

type focusArea int

const (
	focusForm focusArea = iota
	focusChat
)

// ── Messages ──────────────────────────

type sessionStartedMsg struct{ res *api.StartResult }
type sessionStartFailedMsg struct{ err error }
type streamDialedMsg struct{ stream *realtime.Stream }
type streamDialFailedMsg struct{ err error }
type streamEventMsg struct{ ev realtime.Event }
type streamClosedMsg struct{}
type chatReplyMsg struct {
	res *api.ChatResult
	err error
}
type sessionEndedMsg struct {
	res *api.EndResult
	err error
}
type saveResultMsg struct{ res sim.SaveResult }
type typingTickMsg struct{}
type reportWrittenMsg struct {
	path string
	err  error
}

// ── Options and model ─────────────────

// LiveOptions carries everything the live console needs to run one session.
type LiveOptions struct {
	Client        *api.Client
	VoiceAgentURL string
	Params        api.StartParams
	ScenarioTitle string
	Operator      string // operator email, for the report
	Store         attempt.Store
	Record        *attempt.Attempt
	OutputDir     string
	Format        string
}

// LiveModel is the root Bubble Tea model for a running training session.
type LiveModel struct {
	opts LiveOptions

	ctrl        *sim.Controller
	saver       *sim.Autosave
	saveResults chan sim.SaveResult
	stream      *realtime.Stream

	phase phase
	focus focusArea

	spin  spinner.Model
	vp    viewport.Model
	input textinput.Model
	form  formPanel

	typing       bool
	typingFrame  int
	waitingReply bool
	note         string // transient status-bar message
	err          error

	result     *api.EndResult
	reportPath string
	startedAt  time.Time

	width  int
	height int
	ready  bool
}

// NewLive builds the live-session model. The session is started from Init.
func NewLive(opts LiveOptions) *LiveModel {
	ctrl := sim.NewController(opts.Client, nil)

	m := &LiveModel{
		opts:        opts,
		ctrl:        ctrl,
		saveResults: make(chan sim.SaveResult, 8),
		phase:       phaseStarting,
		startedAt:   time.Now(),
	}

	m.saver = sim.NewAutosave(sim.AutosaveConfig{
		Save: func(ctx context.Context, sessionID string, snapshot api.ReportForm) error {
			return opts.Client.UpdateForm(ctx, sessionID, snapshot)
		},
		SessionID: ctrl.SessionID,
		OnResult:  func(res sim.SaveResult) { m.saveResults <- res },
	})

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	m.input = textinput.New()
	m.input.Placeholder = "Type your response and press enter"
	m.input.CharLimit = 500

	m.form = newFormPanel(m.saver)
	return m
}

// ── Commands ──────────────────────────

func (m *LiveModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := m.ctrl.Start(context.Background(), m.opts.Params)
		if err != nil {
			return sessionStartFailedMsg{err}
		}
		return sessionStartedMsg{res}
	}
}

func (m *LiveModel) dialCmd(callSID string) tea.Cmd {
	return func() tea.Msg {
		s, err := realtime.Dial(context.Background(), m.opts.VoiceAgentURL, callSID)
		if err != nil {
			return streamDialFailedMsg{err}
		}
		return streamDialedMsg{s}
	}
}

func waitForEvent(s *realtime.Stream) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-s.Events()
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{ev}
	}
}

func (m *LiveModel) waitForSave() tea.Cmd {
	return func() tea.Msg {
		return saveResultMsg{<-m.saveResults}
	}
}

func (m *LiveModel) chatCmd(message string) tea.Cmd {
	sessionID := m.ctrl.SessionID()
	return func() tea.Msg {
		res, err := m.opts.Client.Chat(context.Background(), sessionID, message)
		return chatReplyMsg{res, err}
	}
}

func (m *LiveModel) endCmd() tea.Cmd {
	return func() tea.Msg {
		// Persist the final form state before the gateway scores it.
		m.saver.Flush()
		res, err := m.ctrl.End(context.Background())
		return sessionEndedMsg{res, err}
	}
}

func (m *LiveModel) writeReportCmd() tea.Cmd {
	r := m.buildReport()
	store := m.opts.Store
	dir, format := m.opts.OutputDir, m.opts.Format
	return func() tea.Msg {
		path, err := report.Write(dir, format, r)
		if err == nil && store != nil {
			if derr := store.Delete(); derr != nil {
				slog.Warn("could not clear attempt state", "error", derr)
			}
		}
		return reportWrittenMsg{path, err}
	}
}

// mirror copies one live transcript entry into the gateway's session store.
// Best-effort: a failed mirror only logs.
func (m *LiveModel) mirror(entry api.DialogueEntry) {
	sessionID := m.ctrl.SessionID()
	if sessionID == "" {
		return
	}
	client := m.opts.Client
	go func() {
		if err := client.AppendMessage(context.Background(), sessionID, entry.Role, entry.Message); err != nil {
			slog.Warn("transcript mirror failed", "role", entry.Role, "error", err)
		}
	}()
}

func typingTick() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return typingTickMsg{}
	})
}

// ── Bubble Tea interface ──────────────

func (m *LiveModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.startCmd(), m.waitForSave())
}

func (m *LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeViewport()
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if m.phase == phaseStarting || m.phase == phaseEnding {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionStartedMsg:
		return m.onStarted(msg.res)

	case sessionStartFailedMsg:
		m.phase = phaseFailed
		m.err = msg.err
		return m, nil

	case streamDialedMsg:
		m.stream = msg.stream
		return m, waitForEvent(m.stream)

	case streamDialFailedMsg:
		m.ctrl.SetConnection(sim.Disconnected)
		m.note = "voice stream unavailable: " + msg.err.Error()
		return m, nil

	case streamEventMsg:
		return m.onStreamEvent(msg.ev)

	case streamClosedMsg:
		// Closure at any point, including mid-dial, drops the status.
		m.ctrl.SetConnection(sim.Disconnected)
		m.note = "voice stream closed"
		return m, nil

	case chatReplyMsg:
		return m.onChatReply(msg)

	case saveResultMsg:
		switch {
		case msg.res.Skipped:
			m.note = "form not saved: session not established"
		case msg.res.Err != nil:
			m.note = "form save failed: " + msg.res.Err.Error()
		default:
			m.note = "form saved " + time.Now().Format("15:04:05")
		}
		return m, m.waitForSave()

	case typingTickMsg:
		if m.typing {
			m.typingFrame = (m.typingFrame + 1) % 3
			m.refreshTranscript()
			return m, typingTick()
		}
		return m, nil

	case sessionEndedMsg:
		return m.onEnded(msg)

	case reportWrittenMsg:
		if msg.err != nil {
			m.note = "report not written: " + msg.err.Error()
		} else {
			m.reportPath = msg.path
		}
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}

	return m, nil
}

func (m *LiveModel) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		// Abandon: the attempt file stays on disk so train can resume.
		m.closeStream()
		m.saver.Stop()
		return m, tea.Quit
	case "q":
		if m.phase == phaseResult || m.phase == phaseFailed {
			return m, tea.Quit
		}
	case "ctrl+e":
		if m.phase == phaseLive {
			m.phase = phaseEnding
			return m, tea.Batch(m.spin.Tick, m.endCmd())
		}
		return m, nil
	case "tab":
		if m.phase == phaseLive && !m.form.editing {
			return m.toggleFocus()
		}
	}

	if m.phase != phaseLive {
		return m, nil
	}

	if m.focus == focusForm {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	// Chat input focus.
	if msg.String() == "enter" {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.waitingReply {
			return m, nil
		}
		m.input.SetValue("")
		entry := m.ctrl.Transcript().Append(sim.RoleOperator, text)
		m.mirror(entry)
		m.waitingReply = true
		m.typing = true
		m.refreshTranscript()
		return m, tea.Batch(m.chatCmd(text), typingTick())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *LiveModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == focusForm {
		m.focus = focusChat
		return m, m.input.Focus()
	}
	m.focus = focusForm
	m.input.Blur()
	return m, nil
}

func (m *LiveModel) onStarted(res *api.StartResult) (tea.Model, tea.Cmd) {
	m.phase = phaseLive

	if res.Form != nil {
		m.saver.Restore(*res.Form)
	}

	// Record the gateway session so an interrupted run can be resumed.
	if m.opts.Store != nil && m.opts.Record != nil {
		m.opts.Record.SessionID = res.SessionID
		m.opts.Record.AttemptNumber = res.AttemptNumber
		if err := m.opts.Store.Save(m.opts.Record); err != nil {
			slog.Warn("could not update attempt state", "error", err)
		}
	}

	m.refreshTranscript()

	var cmds []tea.Cmd
	if res.CallSID != "" {
		m.ctrl.SetConnection(sim.Connecting)
		m.focus = focusForm
		cmds = append(cmds, m.dialCmd(res.CallSID))
	} else {
		m.focus = focusChat
		cmds = append(cmds, m.input.Focus())
	}
	return m, tea.Batch(cmds...)
}

func (m *LiveModel) onStreamEvent(ev realtime.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForEvent(m.stream)}

	switch ev := ev.(type) {
	case realtime.CallStatus:
		switch ev.Status {
		case realtime.StatusConnected:
			m.ctrl.ApplyCallStatus(ev.Status)
			m.note = "call connected"
		case realtime.StatusEnded:
			if m.ctrl.ApplyCallStatus(ev.Status) {
				m.phase = phaseEnding
				m.note = "caller hung up"
				cmds = append(cmds, m.spin.Tick, m.endCmd())
			}
		}

	case realtime.ConversationUpdate:
		if sim.IsTyping(ev.Content) {
			if !m.typing {
				m.typing = true
				cmds = append(cmds, typingTick())
			}
			m.refreshTranscript()
			break
		}
		m.typing = false
		entry := m.ctrl.Transcript().Append(ev.Role, ev.Content)
		m.mirror(entry)
		m.refreshTranscript()
	}

	return m, tea.Batch(cmds...)
}

func (m *LiveModel) onChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.waitingReply = false
	m.typing = false
	if msg.err != nil {
		m.note = "message failed: " + msg.err.Error()
		m.refreshTranscript()
		return m, nil
	}
	if len(msg.res.DialogueAppend) > 0 {
		for _, entry := range msg.res.DialogueAppend {
			if sim.IsTyping(entry.Message) || sim.IsOperatorRole(entry.Role) {
				continue
			}
			m.ctrl.Transcript().AppendEntry(entry)
		}
	} else if msg.res.Reply != "" {
		m.ctrl.Transcript().Append(sim.RoleCaller, msg.res.Reply)
	}
	m.refreshTranscript()
	return m, nil
}

func (m *LiveModel) onEnded(msg sessionEndedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if errors.Is(msg.err, sim.ErrEndSkipped) {
			return m, nil
		}
		m.phase = phaseLive
		m.note = "could not end session: " + msg.err.Error()
		return m, nil
	}

	m.phase = phaseResult
	m.result = msg.res
	m.closeStream()
	m.saver.Stop()
	return m, m.writeReportCmd()
}

func (m *LiveModel) closeStream() {
	if m.stream != nil {
		m.stream.Close()
	}
}

// buildReport assembles the durable record of the finished session.
func (m *LiveModel) buildReport() *report.CallReport {
	ended := time.Now()
	r := &report.CallReport{
		Session: report.SessionMeta{
			SessionID:     m.ctrl.SessionID(),
			AttemptNumber: m.ctrl.AttemptNumber(),
			TaskID:        m.opts.Params.TaskID,
			ScenarioTitle: m.opts.ScenarioTitle,
			Mode:          m.mode(),
			Training:      !m.opts.Params.Practice,
			Operator:      m.opts.Operator,
			StartedAt:     m.startedAt.UTC(),
			EndedAt:       ended.UTC(),
			Duration:      ended.Sub(m.startedAt).Round(time.Second).String(),
		},
		Transcript: m.ctrl.Transcript().Entries(),
		Form:       m.saver.Form(),
	}
	if m.opts.Record != nil {
		r.Session.AttemptID = m.opts.Record.AttemptID
	}
	if m.result != nil {
		r.Outcome = &report.Outcome{
			Score:      m.result.Score,
			Status:     m.result.Status,
			Evaluation: m.result.Evaluation,
		}
	}
	return r
}

func (m *LiveModel) mode() string {
	if m.ctrl.CallSID() != "" {
		return "call"
	}
	return "chat"
}

// ── View ──────────────────────────────

func (m *LiveModel) View() string {
	if !m.ready {
		return "Loading…"
	}
	switch m.phase {
	case phaseStarting:
		return fmt.Sprintf("\n  %s Starting session for %q…\n", m.spin.View(), m.opts.ScenarioTitle)
	case phaseEnding:
		return fmt.Sprintf("\n  %s Ending session, waiting for evaluation…\n", m.spin.View())
	case phaseFailed:
		return "\n  " + errStyle.Render("Could not start session: "+m.err.Error()) + "\n\n  " + hintStyle.Render("q quit") + "\n"
	case phaseResult:
		return m.viewResult()
	}
	return m.viewLive()
}

func (m *LiveModel) viewLive() string {
	title := titleStyle.Width(m.width).Render(fmt.Sprintf("  opsim  %s  attempt %d", m.opts.ScenarioTitle, m.ctrl.AttemptNumber()))

	formStyle := formBorderStyle
	if m.focus == focusForm {
		formStyle = formFocusedBorderStyle
	}
	sidebar := formStyle.
		Width(formPanelWidth - 2).
		Height(m.contentHeight()).
		Render(m.form.View(formPanelWidth-4, m.focus == focusForm))

	main := lipgloss.JoinHorizontal(lipgloss.Top, m.vp.View(), sidebar)

	rows := []string{title, main}
	if m.mode() == "chat" {
		prompt := "  > " + m.input.View()
		if m.focus != focusChat {
			prompt = dimStyle.Render("  > (tab to chat)")
		}
		rows = append(rows, prompt)
	}
	rows = append(rows, m.statusBar())
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *LiveModel) statusBar() string {
	var conn string
	switch m.ctrl.Connection() {
	case sim.Connected:
		conn = connectedStyle.Render("● connected")
	case sim.Connecting:
		conn = connectingStyle.Render("◌ connecting")
	default:
		if m.mode() == "chat" {
			conn = dimStyle.Render("chat mode")
		} else {
			conn = disconnectedStyle.Render("○ disconnected")
		}
	}

	hint := "tab focus  ctrl+e end call  ctrl+c abandon"
	if m.focus == focusForm {
		hint = m.form.hint() + "  " + hint
	}

	left := conn + "  " + hintStyle.Render(hint)
	right := m.note
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", pad) + right)
}

func (m *LiveModel) viewResult() string {
	var sb strings.Builder
	sb.WriteString("\n")

	status := failStyle.Render("FAILED")
	if m.result != nil && m.result.Status == "completed" {
		status = passStyle.Render("COMPLETED")
	}
	score := 0.0
	if m.result != nil {
		score = m.result.Score
	}
	sb.WriteString("  " + scoreStyle.Render(fmt.Sprintf(" %.0f%% ", score)) + "  " + status + "\n\n")

	if m.result != nil && len(m.result.Evaluation) > 0 {
		sb.WriteString(sectionHeader.Render("  Evaluation") + "\n\n")
		for _, key := range report.EvaluationOrder {
			if v, ok := m.result.Evaluation[key]; ok {
				sb.WriteString(fmt.Sprintf("  %s %3.0f  %s\n",
					labelStyle.Render(fmt.Sprintf("%-16s", report.EvaluationLabel(key))),
					v,
					scoreBar(v, 20),
				))
			}
		}
		sb.WriteString("\n")
	}

	if m.reportPath != "" {
		sb.WriteString(dimStyle.Render("  Report written to "+m.reportPath) + "\n\n")
	}
	sb.WriteString(hintStyle.Render("  q quit") + "\n")
	return sb.String()
}

// scoreBar draws a simple horizontal gauge for a 0-100 score.
func scoreBar(score float64, width int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := int(score / 100 * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	style := passStyle
	if score < 50 {
		style = failStyle
	}
	return style.Render(bar)
}

// ── Transcript viewport ───────────────

func (m *LiveModel) contentHeight() int {
	// title(1) + status(1), plus the chat prompt in chat mode
	used := 2
	if m.mode() == "chat" {
		used = 3
	}
	h := m.height - used
	if h < 1 {
		h = 1
	}
	return h
}

func (m *LiveModel) resizeViewport() {
	w := m.width - formPanelWidth
	if w < 20 {
		w = 20
	}
	m.vp = viewport.New(w, m.contentHeight())
}

func (m *LiveModel) refreshTranscript() {
	if !m.ready {
		return
	}
	atBottom := m.vp.AtBottom()
	m.vp.SetContent(renderTranscript(m.ctrl.Transcript().Entries(), m.typing, m.typingFrame, m.vp.Width))
	if atBottom {
		m.vp.GotoBottom()
	}
}

// renderTranscript lays out the dialogue with role badges, wrapping each
// message to the viewport width.
func renderTranscript(entries []api.DialogueEntry, typing bool, typingFrame int, width int) string {
	wrapWidth := width - 14
	if wrapWidth < 10 {
		wrapWidth = 10
	}
	wrap := lipgloss.NewStyle().Width(wrapWidth)

	var sb strings.Builder
	sb.WriteString("\n")
	for _, entry := range entries {
		badge := callerStyle.Render(fmt.Sprintf("  %-9s", "caller"))
		if sim.IsOperatorRole(entry.Role) {
			badge = operatorStyle.Render(fmt.Sprintf("  %-9s", "operator"))
		}
		ts := ""
		if t, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			ts = timeStyle.Render(t.Local().Format("15:04:05")) + " "
		}
		sb.WriteString(badge + ts + wrap.Render(entry.Message) + "\n\n")
	}
	if typing {
		dots := strings.Repeat("·", typingFrame+1)
		sb.WriteString(typingStyle.Render("  caller is typing "+dots) + "\n")
	}
	return sb.String()
}

// RunLive starts the live console and blocks until the session ends or the
// operator abandons it.
func RunLive(opts LiveOptions) error {
	p := tea.NewProgram(NewLive(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
